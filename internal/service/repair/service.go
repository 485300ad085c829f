package repair

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const MaxWindowDays = 365

type RepairServiceImpl struct {
	tx         database.Transactor
	eventRepo  attendance.EventRepository
	closeRepo  closerequest.CloseRequestRepository
	workerRepo worker.WorkerRepository
	clock      *civiltime.Adapter
	matcher    *Matcher
}

func NewRepairService(
	tx database.Transactor,
	eventRepo attendance.EventRepository,
	closeRepo closerequest.CloseRequestRepository,
	workerRepo worker.WorkerRepository,
	clock *civiltime.Adapter,
) attendance.RepairService {
	return &RepairServiceImpl{
		tx:         tx,
		eventRepo:  eventRepo,
		closeRepo:  closeRepo,
		workerRepo: workerRepo,
		clock:      clock,
		matcher:    NewMatcher(clock),
	}
}

// RepairArrivalTimes implements attendance.RepairService.
func (s *RepairServiceImpl) RepairArrivalTimes(ctx context.Context, windowDays int) (attendance.RepairResult, error) {
	if windowDays < 1 || windowDays > MaxWindowDays {
		return attendance.RepairResult{}, validator.ValidationErrors{{
			Field:   "days",
			Message: fmt.Sprintf("days must be between 1 and %d", MaxWindowDays),
		}}
	}

	since := s.clock.Now().AddDate(0, 0, -windowDays)

	var (
		arrivals []attendance.Event
		requests []closerequest.CloseRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		arrivals, err = s.eventRepo.ListByKindSince(gctx, attendance.KindArrival, since)
		return err
	})
	g.Go(func() error {
		var err error
		// shifted arrivals near the window start still need their request
		requests, err = s.closeRepo.ListByArrivalSince(gctx, since.Add(-MaxOffset))
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.RepairResult{}, err
	}

	fixes := s.matcher.Match(arrivals, requests)
	result := attendance.RepairResult{
		WindowDays: windowDays,
		Scanned:    len(arrivals),
		Matched:    len(fixes),
	}

	for _, fix := range fixes {
		applied, err := s.apply(ctx, fix)
		if err != nil {
			return result, err
		}
		if applied {
			result.Fixed++
		}
	}

	slog.Info("arrival time repair finished",
		"window_days", result.WindowDays,
		"scanned", result.Scanned,
		"matched", result.Matched,
		"fixed", result.Fixed,
	)

	return result, nil
}

func (s *RepairServiceImpl) apply(ctx context.Context, fix Fix) (bool, error) {
	applied := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.workerRepo.LockForUpdate(ctx, fix.WorkerID); err != nil {
			return err
		}

		// re-read under the lock, the event may have moved since the scan
		current, err := s.eventRepo.GetByID(ctx, fix.EventID)
		if err != nil {
			return err
		}
		if !current.OccurredAt.Equal(fix.From) {
			slog.Warn("arrival changed during repair, skipped", "event_id", fix.EventID)
			return nil
		}

		if err := s.eventRepo.UpdateOccurredAt(ctx, fix.EventID, fix.To, s.clock.CivilDay(fix.To), nil); err != nil {
			return fmt.Errorf("failed to repair arrival %s: %w", fix.EventID, err)
		}

		slog.Info("arrival time repaired",
			"event_id", fix.EventID,
			"request_id", fix.RequestID,
			"from", fix.From.Format(time.RFC3339),
			"to", fix.To.Format(time.RFC3339),
		)
		applied = true
		return nil
	})
	return applied, err
}
