package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/utils"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx         database.Transactor
	eventRepo  attendance.EventRepository
	workerRepo worker.WorkerRepository
	siteRepo   site.SiteRepository
	closeRepo  closerequest.CloseRequestRepository
	clock      *civiltime.Adapter
}

func NewAttendanceService(
	tx database.Transactor,
	eventRepo attendance.EventRepository,
	workerRepo worker.WorkerRepository,
	siteRepo site.SiteRepository,
	closeRepo closerequest.CloseRequestRepository,
	clock *civiltime.Adapter,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:         tx,
		eventRepo:  eventRepo,
		workerRepo: workerRepo,
		siteRepo:   siteRepo,
		closeRepo:  closeRepo,
		clock:      clock,
	}
}

// NewEvent stamps a new event with an id, the current instant and its civil day.
func NewEvent(clock *civiltime.Adapter, workerID string, kind attendance.EventKind, at time.Time) (attendance.Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to generate event id: %w", err)
	}

	day := clock.CivilDay(at)
	return attendance.Event{
		ID:         id.String(),
		WorkerID:   workerID,
		Kind:       kind,
		OccurredAt: at,
		CivilDay:   &day,
	}, nil
}

// lockActiveWorker takes the per-worker lock. Must run inside a transaction.
func (s *AttendanceServiceImpl) lockActiveWorker(ctx context.Context, workerID string) error {
	w, err := s.workerRepo.LockForUpdate(ctx, workerID)
	if err != nil {
		return err
	}
	if !w.IsActive {
		return worker.ErrWorkerInactive
	}
	return nil
}

// checkSite loads an active site and runs the geofence against it.
func (s *AttendanceServiceImpl) checkSite(ctx context.Context, siteID string, lat, lng float64) (int, error) {
	st, err := s.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return 0, err
	}
	if !st.IsActive() {
		return 0, site.ErrSiteNotActive
	}

	result := ValidateGeofence(utils.Coordinate{Lat: lat, Lng: lng}, st)
	if !result.Accepted {
		return result.DistanceM, fmt.Errorf("%w: %d m from %s, allowed %d m",
			attendance.ErrOutsideGeofence, result.DistanceM, st.Name, st.RadiusM)
	}

	return result.DistanceM, nil
}

// RecordArrival implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordArrival(ctx context.Context, req attendance.ArrivalRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	distance, err := s.checkSite(ctx, req.SiteID, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	var created attendance.Event
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockActiveWorker(ctx, req.WorkerID); err != nil {
			return err
		}

		open, err := FindOpenArrival(ctx, s.eventRepo, req.WorkerID)
		if err != nil {
			return err
		}
		if open != nil {
			return attendance.ErrArrivalAlreadyOpen
		}

		event, err := NewEvent(s.clock, req.WorkerID, attendance.KindArrival, s.clock.Now())
		if err != nil {
			return err
		}
		siteID := req.SiteID
		event.SiteID = &siteID
		event.Latitude = &req.Latitude
		event.Longitude = &req.Longitude
		event.AccuracyM = req.AccuracyM
		event.DistanceM = &distance

		created, err = s.eventRepo.Create(ctx, event)
		return err
	})
	if err != nil {
		return attendance.EventResponse{}, err
	}

	slog.Info("arrival recorded", "worker_id", req.WorkerID, "site_id", req.SiteID, "distance_m", distance)

	return s.toEventResponse(created), nil
}

// RecordDeparture implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordDeparture(ctx context.Context, req attendance.DepartureRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	var created attendance.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockActiveWorker(ctx, req.WorkerID); err != nil {
			return err
		}

		open, err := FindOpenArrival(ctx, s.eventRepo, req.WorkerID)
		if err != nil {
			return err
		}
		if open == nil {
			return attendance.ErrNoOpenArrival
		}

		siteID := req.SiteID
		if siteID == nil {
			siteID = open.SiteID
		}

		var distance *int
		if siteID != nil {
			d, err := s.checkSite(ctx, *siteID, req.Latitude, req.Longitude)
			if err != nil {
				return err
			}
			distance = &d
		}

		event, err := NewEvent(s.clock, req.WorkerID, attendance.KindDeparture, s.clock.Now())
		if err != nil {
			return err
		}
		description := req.WorkDescription
		event.SiteID = siteID
		event.WorkDescription = &description
		event.Km = req.Km
		event.MaterialDesc = req.MaterialDesc
		event.MaterialAmount = req.MaterialAmount
		event.Latitude = &req.Latitude
		event.Longitude = &req.Longitude
		event.AccuracyM = req.AccuracyM
		event.DistanceM = distance

		created, err = s.eventRepo.Create(ctx, event)
		return err
	})
	if err != nil {
		return attendance.EventResponse{}, err
	}

	slog.Info("departure recorded", "worker_id", req.WorkerID, "event_id", created.ID)

	return s.toEventResponse(created), nil
}

// RecordOffsite implements attendance.AttendanceService.
// Off-site hours never pair with arrivals, so no worker lock is taken.
func (s *AttendanceServiceImpl) RecordOffsite(ctx context.Context, req attendance.OffsiteRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	w, err := s.workerRepo.GetByID(ctx, req.WorkerID)
	if err != nil {
		return attendance.EventResponse{}, err
	}
	if !w.IsActive {
		return attendance.EventResponse{}, worker.ErrWorkerInactive
	}

	if req.SiteID != nil {
		if _, err := s.siteRepo.GetByID(ctx, *req.SiteID); err != nil {
			return attendance.EventResponse{}, err
		}
	}

	event, err := NewEvent(s.clock, req.WorkerID, attendance.KindOffsite, s.clock.Now())
	if err != nil {
		return attendance.EventResponse{}, err
	}
	hours := req.Hours
	reason := req.Reason
	event.SiteID = req.SiteID
	event.OffsiteHours = &hours
	event.OffsiteReason = &reason
	event.MaterialDesc = req.MaterialDesc
	event.MaterialAmount = req.MaterialAmount

	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	return s.toEventResponse(created), nil
}

// GetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStatus(ctx context.Context, workerID string) (attendance.StatusResponse, error) {
	open, err := FindOpenArrival(ctx, s.eventRepo, workerID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	pending, err := s.closeRepo.GetPendingByWorker(ctx, workerID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	resp := attendance.StatusResponse{
		WorkerID:       workerID,
		HasOpenArrival: open != nil,
	}
	if open != nil {
		r := s.toEventResponse(*open)
		resp.OpenArrival = &r
	}
	if pending != nil {
		resp.PendingCloseRequestID = &pending.ID
	}

	return resp, nil
}

// ListEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEvents(ctx context.Context, filter attendance.EventFilter) (attendance.ListEventResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEventResponse{}, err
	}

	var from, to *time.Time
	if filter.From != nil && *filter.From != "" {
		start, _, err := s.clock.DayRange(*filter.From)
		if err != nil {
			return attendance.ListEventResponse{}, err
		}
		from = &start
	}
	if filter.To != nil && *filter.To != "" {
		_, end, err := s.clock.DayRange(*filter.To)
		if err != nil {
			return attendance.ListEventResponse{}, err
		}
		to = &end
	}

	events, total, err := s.eventRepo.List(ctx, filter, from, to)
	if err != nil {
		return attendance.ListEventResponse{}, err
	}

	responses := make([]attendance.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, s.toEventResponse(e))
	}

	return attendance.ListEventResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Events:     responses,
	}, nil
}

// EditEventTime implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EditEventTime(ctx context.Context, req attendance.EditEventTimeRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	at, ok := s.clock.ParseDateTime(req.OccurredAt)
	if !ok {
		return attendance.EventResponse{}, attendance.ErrInvalidEventTime
	}
	if at.After(s.clock.Now()) {
		return attendance.EventResponse{}, attendance.ErrEventTimeInFuture
	}

	var updated attendance.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if _, err := s.workerRepo.LockForUpdate(ctx, event.WorkerID); err != nil {
			return err
		}

		editedBy := req.EditedBy
		if err := s.eventRepo.UpdateOccurredAt(ctx, event.ID, at, s.clock.CivilDay(at), &editedBy); err != nil {
			return err
		}

		updated, err = s.eventRepo.GetByID(ctx, event.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, attendance.ErrEventNotFound) {
			return attendance.EventResponse{}, err
		}
		return attendance.EventResponse{}, fmt.Errorf("failed to edit event time: %w", err)
	}

	slog.Info("event time edited", "event_id", req.ID, "occurred_at", at, "edited_by", req.EditedBy)

	return s.toEventResponse(updated), nil
}

func (s *AttendanceServiceImpl) toEventResponse(e attendance.Event) attendance.EventResponse {
	resp := attendance.EventResponse{
		ID:              e.ID,
		WorkerID:        e.WorkerID,
		SiteID:          e.SiteID,
		Kind:            e.Kind,
		OccurredAt:      e.OccurredAt.In(s.clock.Location()).Format(time.RFC3339),
		CivilDay:        s.clock.CivilDay(e.OccurredAt),
		WorkDescription: e.WorkDescription,
		Km:              e.Km,
		OffsiteReason:   e.OffsiteReason,
		OffsiteHours:    e.OffsiteHours,
		MaterialDesc:    e.MaterialDesc,
		MaterialAmount:  e.MaterialAmount,
		DistanceM:       e.DistanceM,
		IsPaid:          e.IsPaid,
	}
	if e.EditedAt != nil {
		edited := e.EditedAt.In(s.clock.Location()).Format(time.RFC3339)
		resp.EditedAt = &edited
	}
	return resp
}
