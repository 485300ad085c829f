package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	payoutsDefaultDays = 14
	payoutsParallelism = 4
)

type PayrollServiceImpl struct {
	tx         database.Transactor
	workerRepo worker.WorkerRepository
	siteRepo   site.SiteRepository
	eventRepo  attendance.EventRepository
	tripRepo   payroll.TripRepository
	clock      *civiltime.Adapter
	maxDays    int
}

func NewPayrollService(
	tx database.Transactor,
	workerRepo worker.WorkerRepository,
	siteRepo site.SiteRepository,
	eventRepo attendance.EventRepository,
	tripRepo payroll.TripRepository,
	clock *civiltime.Adapter,
	maxDays int,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:         tx,
		workerRepo: workerRepo,
		siteRepo:   siteRepo,
		eventRepo:  eventRepo,
		tripRepo:   tripRepo,
		clock:      clock,
		maxDays:    maxDays,
	}
}

// computed is the engine output for one worker and civil-day range.
type computed struct {
	worker      worker.Worker
	rates       *RateResolver
	siteNames   map[string]string
	days        []payroll.DaySummary
	openArrival *attendance.Event
}

// ========== SUMMARIES ==========

func (s *PayrollServiceImpl) GetMySummary(ctx context.Context, req payroll.MySummaryRequest) (payroll.WorkerSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.WorkerSummaryResponse{}, err
	}
	if req.Days > s.maxDays {
		return payroll.WorkerSummaryResponse{}, payroll.ErrPeriodTooLong
	}

	to := s.clock.CivilDay(s.clock.Now())
	from, err := s.clock.AddDays(to, -(req.Days - 1))
	if err != nil {
		return payroll.WorkerSummaryResponse{}, err
	}

	c, err := s.compute(ctx, req.WorkerID, from, to)
	if err != nil {
		return payroll.WorkerSummaryResponse{}, err
	}

	return s.toWorkerSummaryResponse(c, from, to), nil
}

func (s *PayrollServiceImpl) GetWorkerSummary(ctx context.Context, req payroll.WorkerSummaryRequest) (payroll.WorkerSummaryResponse, error) {
	if err := s.validateRange(&req); err != nil {
		return payroll.WorkerSummaryResponse{}, err
	}

	c, err := s.compute(ctx, req.WorkerID, req.From, req.To)
	if err != nil {
		return payroll.WorkerSummaryResponse{}, err
	}

	return s.toWorkerSummaryResponse(c, req.From, req.To), nil
}

func (s *PayrollServiceImpl) GetSiteInvoice(ctx context.Context, req payroll.WorkerSummaryRequest) (payroll.InvoiceResponse, error) {
	if err := s.validateRange(&req); err != nil {
		return payroll.InvoiceResponse{}, err
	}

	c, err := s.compute(ctx, req.WorkerID, req.From, req.To)
	if err != nil {
		return payroll.InvoiceResponse{}, err
	}

	sites := RollupBySite(c.days, c.siteNames)
	defaults := c.rates.Default()

	resp := payroll.InvoiceResponse{
		WorkerID:   c.worker.ID,
		WorkerName: c.worker.Name,
		HourlyRate: roundMoney(defaults.Hourly),
		KmRate:     roundMoney(defaults.Km),
		From:       req.From,
		To:         req.To,
		Sites:      make([]payroll.SiteSummaryResponse, 0, len(sites)),
	}
	for _, ss := range sites {
		resp.Sites = append(resp.Sites, s.toSiteSummaryResponse(ss, c.siteNames))
	}

	return resp, nil
}

func (s *PayrollServiceImpl) validateRange(req *payroll.WorkerSummaryRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.checkSpan(req.From, req.To)
}

// checkSpan expects validated civil days.
func (s *PayrollServiceImpl) checkSpan(fromDay, toDay string) error {
	from, _ := time.Parse(civiltime.DayLayout, fromDay)
	to, _ := time.Parse(civiltime.DayLayout, toDay)
	if span := int(to.Sub(from).Hours()/24) + 1; span > s.maxDays {
		return payroll.ErrPeriodTooLong
	}
	return nil
}

// ========== PAYOUTS ==========

func (s *PayrollServiceImpl) GetPayouts(ctx context.Context, req payroll.PayoutsRequest) (payroll.PayoutsResponse, error) {
	if req.To == "" {
		req.To = s.clock.CivilDay(s.clock.Now())
	}
	if req.From == "" {
		if from, err := s.clock.AddDays(req.To, -(payoutsDefaultDays - 1)); err == nil {
			req.From = from
		}
	}
	if err := req.Validate(); err != nil {
		return payroll.PayoutsResponse{}, err
	}
	if err := s.checkSpan(req.From, req.To); err != nil {
		return payroll.PayoutsResponse{}, err
	}

	workers, err := s.workerRepo.List(ctx)
	if err != nil {
		return payroll.PayoutsResponse{}, fmt.Errorf("failed to list workers: %w", err)
	}

	results := make([]computed, len(workers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(payoutsParallelism)
	for i, w := range workers {
		g.Go(func() error {
			c, err := s.compute(gctx, w.ID, req.From, req.To)
			if err != nil {
				return fmt.Errorf("payouts for worker %s: %w", w.ID, err)
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.PayoutsResponse{}, err
	}

	resp := payroll.PayoutsResponse{
		From:        req.From,
		To:          req.To,
		UnpaidTotal: decimal.Zero,
		Rows:        []payroll.PayoutRowResponse{},
	}
	for _, c := range results {
		for _, ds := range c.days {
			row := payroll.PayoutRowResponse{
				WorkerID:           c.worker.ID,
				WorkerName:         c.worker.Name,
				DaySummaryResponse: s.toDaySummaryResponse(ds, c.siteNames),
			}
			if !row.Paid {
				resp.UnpaidTotal = resp.UnpaidTotal.Add(row.Total)
			}
			resp.Rows = append(resp.Rows, row)
		}
	}

	// unpaid first, then newest day, then worker name
	sort.SliceStable(resp.Rows, func(i, j int) bool {
		a, b := resp.Rows[i], resp.Rows[j]
		if a.Paid != b.Paid {
			return !a.Paid
		}
		if a.Day != b.Day {
			return a.Day > b.Day
		}
		return a.WorkerName < b.WorkerName
	})

	return resp, nil
}

// compute loads everything the engine needs for [from, to] and runs it.
// Events are loaded with one day of lookback and one day of lookahead so
// overnight shifts pair correctly on both edges of the range. Only the
// requested days are summarized.
func (s *PayrollServiceImpl) compute(ctx context.Context, workerID, from, to string) (computed, error) {
	lookback, err := s.clock.AddDays(from, -1)
	if err != nil {
		return computed{}, payroll.ErrInvalidPeriod
	}
	lookahead, err := s.clock.AddDays(to, 1)
	if err != nil {
		return computed{}, payroll.ErrInvalidPeriod
	}
	windowStart, _, err := s.clock.DayRange(lookback)
	if err != nil {
		return computed{}, payroll.ErrInvalidPeriod
	}
	rangeStart, _, err := s.clock.DayRange(from)
	if err != nil {
		return computed{}, payroll.ErrInvalidPeriod
	}
	_, rangeEnd, err := s.clock.DayRange(to)
	if err != nil {
		return computed{}, payroll.ErrInvalidPeriod
	}
	_, windowEnd, err := s.clock.DayRange(lookahead)
	if err != nil {
		return computed{}, payroll.ErrInvalidPeriod
	}

	var (
		w         worker.Worker
		overrides []worker.RateOverride
		sites     []site.Site
		events    []attendance.Event
		trips     []payroll.Trip
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		w, err = s.workerRepo.GetByID(gctx, workerID)
		return err
	})
	g.Go(func() error {
		var err error
		overrides, err = s.workerRepo.ListRateOverrides(gctx, workerID)
		return err
	})
	g.Go(func() error {
		var err error
		sites, err = s.siteRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.ListByWorker(gctx, workerID, windowStart, windowEnd)
		return err
	})
	g.Go(func() error {
		var err error
		trips, err = s.tripRepo.ListByWorker(gctx, workerID, rangeStart, rangeEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return computed{}, err
	}

	days, err := s.daysBetween(from, to)
	if err != nil {
		return computed{}, err
	}

	rates := NewRateResolver(w, overrides)
	rec := NewReconstructor(s.clock, rates).Reconstruct(events)
	logAnomalies(workerID, rec)

	siteNames := make(map[string]string, len(sites))
	for _, st := range sites {
		siteNames[st.ID] = st.Name
	}

	// an arrival opened after the range is not part of it
	openArrival := rec.OpenArrival
	if openArrival != nil && !openArrival.OccurredAt.Before(rangeEnd) {
		openArrival = nil
	}

	return computed{
		worker:      w,
		rates:       rates,
		siteNames:   siteNames,
		days:        NewAggregator(s.clock, rates).Summarize(workerID, days, events, rec, trips),
		openArrival: openArrival,
	}, nil
}

func (s *PayrollServiceImpl) daysBetween(from, to string) ([]string, error) {
	var days []string
	for day := from; day <= to; {
		days = append(days, day)
		next, err := s.clock.AddDays(day, 1)
		if err != nil {
			return nil, fmt.Errorf("advance civil day %s: %w", day, err)
		}
		day = next
	}
	return days, nil
}

func logAnomalies(workerID string, rec Reconstruction) {
	for _, e := range rec.Orphans {
		slog.Warn("departure without open arrival dropped from payroll",
			"worker_id", workerID,
			"event_id", e.ID,
			"occurred_at", e.OccurredAt,
		)
	}
	for _, e := range rec.Superseded {
		slog.Warn("arrival superseded by a later arrival",
			"worker_id", workerID,
			"event_id", e.ID,
			"occurred_at", e.OccurredAt,
		)
	}
}

// ========== MARK PAID ==========

func (s *PayrollServiceImpl) MarkDayPaid(ctx context.Context, req payroll.MarkDayPaidRequest) (payroll.MarkDayPaidResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.MarkDayPaidResponse{}, err
	}

	start, end, err := s.clock.DayRange(req.Day)
	if err != nil {
		return payroll.MarkDayPaidResponse{}, payroll.ErrInvalidPeriod
	}

	paidAt := s.clock.Now()
	var marked int64

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.workerRepo.LockForUpdate(ctx, req.WorkerID); err != nil {
			return err
		}

		events, err := s.eventRepo.ListByWorker(ctx, req.WorkerID, start, end)
		if err != nil {
			return fmt.Errorf("failed to load events: %w", err)
		}
		if len(events) == 0 {
			return payroll.ErrNoEventsForDay
		}

		var unpaid []string
		for _, e := range events {
			if !e.IsPaid {
				unpaid = append(unpaid, e.ID)
			}
		}
		if len(unpaid) == 0 {
			return payroll.ErrDayAlreadyPaid
		}

		n, err := s.eventRepo.MarkPaid(ctx, unpaid, req.PaidBy, paidAt)
		if err != nil {
			return fmt.Errorf("failed to mark events paid: %w", err)
		}
		if n != int64(len(unpaid)) {
			return payroll.ErrPaidCountMismatch
		}

		marked = n
		return nil
	})
	if err != nil {
		return payroll.MarkDayPaidResponse{}, err
	}

	slog.Info("day marked as paid", "worker_id", req.WorkerID, "day", req.Day, "events", marked, "paid_by", req.PaidBy)

	return payroll.MarkDayPaidResponse{
		WorkerID:    req.WorkerID,
		Day:         req.Day,
		MarkedCount: marked,
		PaidAt:      s.formatInstant(paidAt),
	}, nil
}
