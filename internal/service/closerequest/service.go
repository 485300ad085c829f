package closerequest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	attendanceService "github.com/cmlabs-hris/fieldwork-payroll-go/internal/service/attendance"
	"github.com/google/uuid"
)

type CloseRequestServiceImpl struct {
	tx         database.Transactor
	closeRepo  closerequest.CloseRequestRepository
	eventRepo  attendance.EventRepository
	workerRepo worker.WorkerRepository
	clock      *civiltime.Adapter
}

func NewCloseRequestService(
	tx database.Transactor,
	closeRepo closerequest.CloseRequestRepository,
	eventRepo attendance.EventRepository,
	workerRepo worker.WorkerRepository,
	clock *civiltime.Adapter,
) closerequest.CloseRequestService {
	return &CloseRequestServiceImpl{
		tx:         tx,
		closeRepo:  closeRepo,
		eventRepo:  eventRepo,
		workerRepo: workerRepo,
		clock:      clock,
	}
}

// Create implements closerequest.CloseRequestService.
func (s *CloseRequestServiceImpl) Create(ctx context.Context, req closerequest.CreateCloseRequestRequest) (closerequest.CloseRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return closerequest.CloseRequestResponse{}, err
	}

	var created closerequest.CloseRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		w, err := s.workerRepo.LockForUpdate(ctx, req.WorkerID)
		if err != nil {
			return err
		}
		if !w.IsActive {
			return worker.ErrWorkerInactive
		}

		open, err := attendanceService.FindOpenArrival(ctx, s.eventRepo, req.WorkerID)
		if err != nil {
			return err
		}
		if open == nil {
			return attendance.ErrNoOpenArrival
		}

		pending, err := s.closeRepo.GetPendingByWorker(ctx, req.WorkerID)
		if err != nil {
			return err
		}
		if pending != nil {
			return closerequest.ErrPendingRequestExists
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate close request id: %w", err)
		}

		created, err = s.closeRepo.Create(ctx, closerequest.CloseRequest{
			ID:                  id.String(),
			WorkerID:            req.WorkerID,
			SiteID:              open.SiteID,
			ArrivalEventID:      open.ID,
			ArrivalAt:           open.OccurredAt,
			ReportedDepartureAt: req.ReportedDepartureAt,
			ForgetReason:        req.ForgetReason,
			WorkDescription:     req.WorkDescription,
			Km:                  req.Km,
			MaterialDesc:        req.MaterialDesc,
			MaterialAmount:      req.MaterialAmount,
			Status:              closerequest.StatusPending,
		})
		return err
	})
	if err != nil {
		return closerequest.CloseRequestResponse{}, err
	}

	slog.Info("close request created", "request_id", created.ID, "worker_id", created.WorkerID)

	return s.toResponse(created), nil
}

// Approve implements closerequest.CloseRequestService.
// A request that is no longer pending is returned as it stands.
func (s *CloseRequestServiceImpl) Approve(ctx context.Context, req closerequest.ApproveCloseRequestRequest) (closerequest.CloseRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return closerequest.CloseRequestResponse{}, err
	}

	var (
		result  closerequest.CloseRequest
		decided bool
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.closeRepo.LockByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !c.IsPending() {
			result = c
			return nil
		}

		if _, err := s.workerRepo.LockForUpdate(ctx, c.WorkerID); err != nil {
			return err
		}

		open, err := attendanceService.FindOpenArrival(ctx, s.eventRepo, c.WorkerID)
		if err != nil {
			return err
		}
		if open == nil || open.ID != c.ArrivalEventID {
			return attendance.ErrNoOpenArrival
		}

		reported := c.ReportedDepartureAt
		if req.DepartureTime != nil && *req.DepartureTime != "" {
			reported = *req.DepartureTime
		}
		departureAt := ResolveDepartureTime(s.clock, reported, open.OccurredAt)

		event, err := attendanceService.NewEvent(s.clock, c.WorkerID, attendance.KindDeparture, departureAt)
		if err != nil {
			return err
		}
		description := c.WorkDescription
		event.SiteID = c.SiteID
		event.WorkDescription = &description
		event.Km = c.Km
		event.MaterialDesc = c.MaterialDesc
		event.MaterialAmount = c.MaterialAmount

		created, err := s.eventRepo.Create(ctx, event)
		if err != nil {
			return err
		}

		decision := closerequest.Decision{
			Status:           closerequest.StatusApproved,
			DecidedBy:        req.AdminID,
			DecidedAt:        s.clock.Now(),
			DepartureEventID: &created.ID,
			DepartureAt:      &departureAt,
		}
		if err := s.closeRepo.Decide(ctx, c.ID, decision); err != nil {
			return err
		}

		result = applyDecision(c, decision)
		decided = true
		return nil
	})
	if err != nil {
		return closerequest.CloseRequestResponse{}, err
	}

	if decided {
		slog.Info("close request approved",
			"request_id", result.ID,
			"worker_id", result.WorkerID,
			"departure_at", result.DepartureAt,
		)
	}

	return s.toResponse(result), nil
}

// Reject implements closerequest.CloseRequestService.
func (s *CloseRequestServiceImpl) Reject(ctx context.Context, id string, adminID string) (closerequest.CloseRequestResponse, error) {
	var result closerequest.CloseRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.closeRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !c.IsPending() {
			result = c
			return nil
		}

		decision := closerequest.Decision{
			Status:    closerequest.StatusRejected,
			DecidedBy: adminID,
			DecidedAt: s.clock.Now(),
		}
		if err := s.closeRepo.Decide(ctx, c.ID, decision); err != nil {
			return err
		}

		result = applyDecision(c, decision)
		return nil
	})
	if err != nil {
		return closerequest.CloseRequestResponse{}, err
	}

	return s.toResponse(result), nil
}

// Get implements closerequest.CloseRequestService.
func (s *CloseRequestServiceImpl) Get(ctx context.Context, id string) (closerequest.CloseRequestResponse, error) {
	c, err := s.closeRepo.GetByID(ctx, id)
	if err != nil {
		return closerequest.CloseRequestResponse{}, err
	}
	return s.toResponse(c), nil
}

// List implements closerequest.CloseRequestService.
func (s *CloseRequestServiceImpl) List(ctx context.Context, filter closerequest.CloseRequestFilter) (closerequest.ListCloseRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return closerequest.ListCloseRequestResponse{}, err
	}

	requests, total, err := s.closeRepo.List(ctx, filter)
	if err != nil {
		return closerequest.ListCloseRequestResponse{}, err
	}

	responses := make([]closerequest.CloseRequestResponse, 0, len(requests))
	for _, c := range requests {
		responses = append(responses, s.toResponse(c))
	}

	return closerequest.ListCloseRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   responses,
	}, nil
}

func applyDecision(c closerequest.CloseRequest, d closerequest.Decision) closerequest.CloseRequest {
	decidedBy := d.DecidedBy
	decidedAt := d.DecidedAt
	c.Status = d.Status
	c.DecidedBy = &decidedBy
	c.DecidedAt = &decidedAt
	c.DepartureEventID = d.DepartureEventID
	c.DepartureAt = d.DepartureAt
	return c
}

func (s *CloseRequestServiceImpl) format(t time.Time) string {
	return t.In(s.clock.Location()).Format(time.RFC3339)
}

func (s *CloseRequestServiceImpl) formatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := s.format(*t)
	return &v
}

func (s *CloseRequestServiceImpl) toResponse(c closerequest.CloseRequest) closerequest.CloseRequestResponse {
	return closerequest.CloseRequestResponse{
		ID:                  c.ID,
		WorkerID:            c.WorkerID,
		SiteID:              c.SiteID,
		ArrivalEventID:      c.ArrivalEventID,
		ArrivalAt:           s.format(c.ArrivalAt),
		ReportedDepartureAt: c.ReportedDepartureAt,
		ForgetReason:        c.ForgetReason,
		WorkDescription:     c.WorkDescription,
		Km:                  c.Km,
		MaterialDesc:        c.MaterialDesc,
		MaterialAmount:      c.MaterialAmount,
		Status:              c.Status,
		RequestedAt:         s.format(c.RequestedAt),
		DecidedAt:           s.formatPtr(c.DecidedAt),
		DecidedBy:           c.DecidedBy,
		DepartureEventID:    c.DepartureEventID,
		DepartureAt:         s.formatPtr(c.DepartureAt),
	}
}
