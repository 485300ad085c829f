package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/mocks"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testWorkerID = "0195a3c4-0000-7000-8000-000000000001"

type serviceFixture struct {
	workers *mocks.WorkerRepository
	sites   *mocks.SiteRepository
	events  *mocks.EventRepository
	trips   *mocks.TripRepository
	svc     payroll.PayrollService
}

func newServiceFixture(t *testing.T, now time.Time) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		workers: &mocks.WorkerRepository{},
		sites:   &mocks.SiteRepository{},
		events:  &mocks.EventRepository{},
		trips:   &mocks.TripRepository{},
	}
	clock := testClock.WithClock(func() time.Time { return now })
	f.svc = NewPayrollService(mocks.PassthroughTx{}, f.workers, f.sites, f.events, f.trips, clock, 31)
	return f
}

// ===== SUMMARY TESTS =====

func TestPayrollService_GetWorkerSummary_RoundsOutput(t *testing.T) {
	ctx := context.Background()
	day := "2025-03-10"
	siteS := "0195a3c4-0000-7000-8000-0000000000aa"
	f := newServiceFixture(t, local(t, "2025-03-20", 12, 0))

	w := worker.Worker{ID: testWorkerID, Name: "Jan Novak", HourlyRate: decPtr("250"), KmRate: decPtr("8.25")}

	dep := departure("d1", local(t, day, 16, 52), &siteS)
	dep.WorkerID = testWorkerID
	dep.Km = decPtr("10.05")
	dep.MaterialAmount = decPtr("10.005")
	arr := arrival("a1", local(t, day, 8, 7), &siteS)
	arr.WorkerID = testWorkerID

	f.workers.On("GetByID", mock.Anything, testWorkerID).Return(w, nil)
	f.workers.On("ListRateOverrides", mock.Anything, testWorkerID).Return([]worker.RateOverride{}, nil)
	f.sites.On("List", mock.Anything).Return([]site.Site{{ID: siteS, Name: "Warehouse"}}, nil)
	f.events.On("ListByWorker", mock.Anything, testWorkerID, local(t, "2025-03-09", 0, 0), local(t, "2025-03-12", 0, 0)).
		Return([]attendance.Event{arr, dep}, nil)
	f.trips.On("ListByWorker", mock.Anything, testWorkerID, local(t, day, 0, 0), local(t, "2025-03-11", 0, 0)).
		Return([]payroll.Trip{}, nil)

	// Act
	resp, err := f.svc.GetWorkerSummary(ctx, payroll.WorkerSummaryRequest{WorkerID: testWorkerID, From: day, To: day})

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	row := resp.Days[0]
	assert.Equal(t, "9", row.Hours.String())
	assert.Equal(t, "2250", row.HoursPay.String())
	assert.Equal(t, "10.1", row.Km.String())
	assert.Equal(t, "82.91", row.KmPay.String())
	assert.Equal(t, "10.01", row.Material.String())
	assert.Equal(t, "2342.92", row.Total.String())
	assert.Equal(t, "2025-03-10T08:07:00+01:00", *row.FirstArrival)

	require.Len(t, row.Segments, 1)
	assert.Equal(t, "2025-03-10T08:00:00+01:00", row.Segments[0].RoundedArrivalAt)
	assert.Equal(t, "2025-03-10T17:00:00+01:00", row.Segments[0].RoundedDepartureAt)
	require.NotNil(t, row.Segments[0].SiteName)
	assert.Equal(t, "Warehouse", *row.Segments[0].SiteName)

	assert.Equal(t, "2342.92", resp.Totals.Total.String())
	assert.Equal(t, "2342.92", resp.Totals.UnpaidTotal.String())
	assert.Nil(t, resp.OpenArrivalAt)
}

func TestPayrollService_GetWorkerSummary_PeriodTooLong(t *testing.T) {
	f := newServiceFixture(t, time.Now())

	_, err := f.svc.GetWorkerSummary(context.Background(), payroll.WorkerSummaryRequest{
		WorkerID: testWorkerID,
		From:     "2025-01-01",
		To:       "2025-03-01",
	})

	assert.ErrorIs(t, err, payroll.ErrPeriodTooLong)
}

func TestPayrollService_GetWorkerSummary_InvalidRange(t *testing.T) {
	f := newServiceFixture(t, time.Now())

	_, err := f.svc.GetWorkerSummary(context.Background(), payroll.WorkerSummaryRequest{
		WorkerID: testWorkerID,
		From:     "2025-03-10",
		To:       "2025-03-01",
	})

	var vErrs validator.ValidationErrors
	require.True(t, errors.As(err, &vErrs))
	assert.Equal(t, "to", vErrs[0].Field)
}

func TestPayrollService_GetWorkerSummary_StorageFaultPropagates(t *testing.T) {
	day := "2025-03-10"
	f := newServiceFixture(t, time.Now())
	fault := errors.New("connection reset")

	f.workers.On("GetByID", mock.Anything, testWorkerID).Return(worker.Worker{}, nil)
	f.workers.On("ListRateOverrides", mock.Anything, testWorkerID).Return([]worker.RateOverride{}, nil)
	f.sites.On("List", mock.Anything).Return([]site.Site{}, nil)
	f.events.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return([]attendance.Event{}, fault)
	f.trips.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return([]payroll.Trip{}, nil)

	_, err := f.svc.GetWorkerSummary(context.Background(), payroll.WorkerSummaryRequest{WorkerID: testWorkerID, From: day, To: day})

	assert.ErrorIs(t, err, fault)
}

func TestPayrollService_GetMySummary_DefaultWindow(t *testing.T) {
	now := local(t, "2025-03-31", 10, 0)
	f := newServiceFixture(t, now)

	w := worker.Worker{ID: testWorkerID, Name: "Jan Novak"}
	open := arrival("a1", local(t, "2025-03-31", 8, 0), nil)

	f.workers.On("GetByID", mock.Anything, testWorkerID).Return(w, nil)
	f.workers.On("ListRateOverrides", mock.Anything, testWorkerID).Return([]worker.RateOverride{}, nil)
	f.sites.On("List", mock.Anything).Return([]site.Site{}, nil)
	f.events.On("ListByWorker", mock.Anything, testWorkerID, local(t, "2025-03-01", 0, 0), local(t, "2025-04-02", 0, 0)).
		Return([]attendance.Event{open}, nil)
	f.trips.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return([]payroll.Trip{}, nil)

	// Act
	resp, err := f.svc.GetMySummary(context.Background(), payroll.MySummaryRequest{WorkerID: testWorkerID, Days: 30})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", resp.From)
	assert.Equal(t, "2025-03-31", resp.To)
	require.NotNil(t, resp.OpenArrivalAt)
	require.Len(t, resp.Days, 1)
	assert.Empty(t, resp.Days[0].Segments)
	assert.True(t, resp.Days[0].Total.IsZero())
}

func TestPayrollService_GetWorkerSummary_OvernightShiftOnLastDay(t *testing.T) {
	day := "2025-03-10"
	w := worker.Worker{ID: testWorkerID, Name: "Jan Novak", HourlyRate: decPtr("100")}
	in := arrival("a1", local(t, day, 22, 0), nil)
	out := departure("d1", local(t, "2025-03-11", 6, 0), nil)

	tests := []struct {
		name     string
		to       string
		loadEnd  time.Time
		loadedIn []attendance.Event
	}{
		{"range ends on the arrival day", day, local(t, "2025-03-12", 0, 0), []attendance.Event{in, out}},
		{"range includes the departure day", "2025-03-11", local(t, "2025-03-13", 0, 0), []attendance.Event{in, out}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, local(t, "2025-03-20", 12, 0))
			f.workers.On("GetByID", mock.Anything, testWorkerID).Return(w, nil)
			f.workers.On("ListRateOverrides", mock.Anything, testWorkerID).Return([]worker.RateOverride{}, nil)
			f.sites.On("List", mock.Anything).Return([]site.Site{}, nil)
			f.events.On("ListByWorker", mock.Anything, testWorkerID, local(t, "2025-03-09", 0, 0), tt.loadEnd).
				Return(tt.loadedIn, nil)
			f.trips.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return([]payroll.Trip{}, nil)

			// Act
			resp, err := f.svc.GetWorkerSummary(context.Background(), payroll.WorkerSummaryRequest{WorkerID: testWorkerID, From: day, To: tt.to})

			// Assert
			require.NoError(t, err)
			require.NotEmpty(t, resp.Days)
			assert.Equal(t, day, resp.Days[0].Day)
			require.Len(t, resp.Days[0].Segments, 1)
			assert.Equal(t, "8", resp.Days[0].Hours.String())
			assert.Equal(t, "800", resp.Days[0].Total.String())
			assert.Nil(t, resp.OpenArrivalAt)
			f.events.AssertExpectations(t)
		})
	}
}

func TestPayrollService_GetWorkerSummary_IgnoresArrivalAfterRange(t *testing.T) {
	day := "2025-03-10"
	f := newServiceFixture(t, local(t, "2025-03-20", 12, 0))
	w := worker.Worker{ID: testWorkerID, Name: "Jan Novak", HourlyRate: decPtr("100")}

	f.workers.On("GetByID", mock.Anything, testWorkerID).Return(w, nil)
	f.workers.On("ListRateOverrides", mock.Anything, testWorkerID).Return([]worker.RateOverride{}, nil)
	f.sites.On("List", mock.Anything).Return([]site.Site{}, nil)
	f.events.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return([]attendance.Event{
		arrival("a1", local(t, day, 8, 0), nil),
		departure("d1", local(t, day, 12, 0), nil),
		arrival("a2", local(t, "2025-03-11", 7, 0), nil),
	}, nil)
	f.trips.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return([]payroll.Trip{}, nil)

	resp, err := f.svc.GetWorkerSummary(context.Background(), payroll.WorkerSummaryRequest{WorkerID: testWorkerID, From: day, To: day})

	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "400", resp.Days[0].Total.String())
	assert.Nil(t, resp.OpenArrivalAt)
}

func TestPayrollService_GetSiteInvoice(t *testing.T) {
	day := "2025-03-10"
	siteS := "0195a3c4-0000-7000-8000-0000000000aa"
	f := newServiceFixture(t, local(t, "2025-03-20", 12, 0))

	w := worker.Worker{ID: testWorkerID, Name: "Jan Novak", HourlyRate: decPtr("200"), KmRate: decPtr("10")}
	events := []attendance.Event{
		arrival("a1", local(t, day, 8, 0), &siteS),
		departure("d1", local(t, day, 10, 0), &siteS),
		offsite("o1", local(t, day, 12, 0), "0.5", nil),
	}

	f.workers.On("GetByID", mock.Anything, testWorkerID).Return(w, nil)
	f.workers.On("ListRateOverrides", mock.Anything, testWorkerID).Return([]worker.RateOverride{}, nil)
	f.sites.On("List", mock.Anything).Return([]site.Site{{ID: siteS, Name: "Warehouse"}}, nil)
	f.events.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return(events, nil)
	f.trips.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).
		Return([]payroll.Trip{{ID: "t1", StartedAt: local(t, day, 7, 0), Km: dec("3")}}, nil)

	// Act
	resp, err := f.svc.GetSiteInvoice(context.Background(), payroll.WorkerSummaryRequest{WorkerID: testWorkerID, From: day, To: day})

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Sites, 2)
	assert.Equal(t, "Warehouse", resp.Sites[0].SiteName)
	assert.Equal(t, "400", resp.Sites[0].Totals.Total.String())
	assert.Equal(t, UnassignedSiteName, resp.Sites[1].SiteName)
	assert.Equal(t, "100", resp.Sites[1].Totals.OffsiteAmount.String())
	assert.Equal(t, "30", resp.Sites[1].Totals.TravelAmount.String())
	assert.Equal(t, "130", resp.Sites[1].Totals.Total.String())
}

// ===== PAYOUTS TESTS =====

func TestPayrollService_GetPayouts_RowsAcrossWorkers(t *testing.T) {
	annaID := "0195a3c4-0000-7000-8000-0000000000a1"
	bohdanID := "0195a3c4-0000-7000-8000-0000000000b1"
	f := newServiceFixture(t, local(t, "2025-03-20", 12, 0))

	anna := worker.Worker{ID: annaID, Name: "Anna", HourlyRate: decPtr("100")}
	bohdan := worker.Worker{ID: bohdanID, Name: "Bohdan", HourlyRate: decPtr("200")}

	paidIn := arrival("a1", local(t, "2025-03-10", 8, 0), nil)
	paidIn.IsPaid = true
	paidOut := departure("d1", local(t, "2025-03-10", 12, 0), nil)
	paidOut.IsPaid = true
	annaEvents := []attendance.Event{
		paidIn,
		paidOut,
		arrival("a2", local(t, "2025-03-11", 8, 0), nil),
		departure("d2", local(t, "2025-03-11", 12, 0), nil),
	}
	bohdanEvents := []attendance.Event{
		arrival("b1", local(t, "2025-03-10", 8, 0), nil),
		departure("b2", local(t, "2025-03-10", 10, 0), nil),
	}

	f.workers.On("List", mock.Anything).Return([]worker.Worker{anna, bohdan}, nil)
	f.sites.On("List", mock.Anything).Return([]site.Site{}, nil)
	for _, w := range []struct {
		worker worker.Worker
		events []attendance.Event
	}{{anna, annaEvents}, {bohdan, bohdanEvents}} {
		f.workers.On("GetByID", mock.Anything, w.worker.ID).Return(w.worker, nil)
		f.workers.On("ListRateOverrides", mock.Anything, w.worker.ID).Return([]worker.RateOverride{}, nil)
		f.events.On("ListByWorker", mock.Anything, w.worker.ID, local(t, "2025-03-09", 0, 0), local(t, "2025-03-13", 0, 0)).
			Return(w.events, nil)
		f.trips.On("ListByWorker", mock.Anything, w.worker.ID, local(t, "2025-03-10", 0, 0), local(t, "2025-03-12", 0, 0)).
			Return([]payroll.Trip{}, nil)
	}

	// Act
	resp, err := f.svc.GetPayouts(context.Background(), payroll.PayoutsRequest{From: "2025-03-10", To: "2025-03-11"})

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Rows, 3)

	assert.Equal(t, "Anna", resp.Rows[0].WorkerName)
	assert.Equal(t, "2025-03-11", resp.Rows[0].Day)
	assert.False(t, resp.Rows[0].Paid)
	assert.Equal(t, "400", resp.Rows[0].Total.String())

	assert.Equal(t, bohdanID, resp.Rows[1].WorkerID)
	assert.Equal(t, "2025-03-10", resp.Rows[1].Day)
	assert.False(t, resp.Rows[1].Paid)
	assert.Equal(t, "400", resp.Rows[1].Total.String())

	assert.Equal(t, "Anna", resp.Rows[2].WorkerName)
	assert.Equal(t, "2025-03-10", resp.Rows[2].Day)
	assert.True(t, resp.Rows[2].Paid)

	assert.Equal(t, "800", resp.UnpaidTotal.String())
	f.workers.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestPayrollService_GetPayouts_DefaultWindow(t *testing.T) {
	f := newServiceFixture(t, local(t, "2025-03-31", 10, 0))
	f.workers.On("List", mock.Anything).Return([]worker.Worker{}, nil)

	resp, err := f.svc.GetPayouts(context.Background(), payroll.PayoutsRequest{})

	require.NoError(t, err)
	assert.Equal(t, "2025-03-18", resp.From)
	assert.Equal(t, "2025-03-31", resp.To)
	assert.Empty(t, resp.Rows)
}

func TestPayrollService_GetPayouts_Errors(t *testing.T) {
	fault := errors.New("connection reset")

	t.Run("period too long", func(t *testing.T) {
		f := newServiceFixture(t, time.Now())

		_, err := f.svc.GetPayouts(context.Background(), payroll.PayoutsRequest{From: "2025-01-01", To: "2025-03-01"})

		assert.ErrorIs(t, err, payroll.ErrPeriodTooLong)
		f.workers.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("to before from", func(t *testing.T) {
		f := newServiceFixture(t, time.Now())

		_, err := f.svc.GetPayouts(context.Background(), payroll.PayoutsRequest{From: "2025-03-10", To: "2025-03-01"})

		var vErrs validator.ValidationErrors
		require.True(t, errors.As(err, &vErrs))
		assert.Equal(t, "to", vErrs[0].Field)
	})

	t.Run("worker fault propagates", func(t *testing.T) {
		f := newServiceFixture(t, time.Now())
		f.workers.On("List", mock.Anything).Return([]worker.Worker{{ID: testWorkerID, Name: "Jan Novak"}}, nil)
		f.workers.On("GetByID", mock.Anything, testWorkerID).Return(worker.Worker{}, nil)
		f.workers.On("ListRateOverrides", mock.Anything, testWorkerID).Return([]worker.RateOverride{}, nil)
		f.sites.On("List", mock.Anything).Return([]site.Site{}, nil)
		f.events.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return([]attendance.Event{}, fault)
		f.trips.On("ListByWorker", mock.Anything, testWorkerID, mock.Anything, mock.Anything).Return([]payroll.Trip{}, nil)

		_, err := f.svc.GetPayouts(context.Background(), payroll.PayoutsRequest{From: "2025-03-10", To: "2025-03-10"})

		assert.ErrorIs(t, err, fault)
	})
}

// ===== MARK PAID TESTS =====

func TestPayrollService_MarkDayPaid(t *testing.T) {
	day := "2025-03-10"
	now := local(t, "2025-03-20", 12, 0)
	start, end := local(t, day, 0, 0), local(t, "2025-03-11", 0, 0)
	req := payroll.MarkDayPaidRequest{WorkerID: testWorkerID, Day: day, PaidBy: "admin-1"}

	t.Run("marks only unpaid events", func(t *testing.T) {
		f := newServiceFixture(t, now)
		paid := arrival("a1", local(t, day, 8, 0), nil)
		paid.IsPaid = true
		events := []attendance.Event{paid, departure("d1", local(t, day, 10, 0), nil), offsite("o1", local(t, day, 12, 0), "1", nil)}

		f.workers.On("LockForUpdate", mock.Anything, testWorkerID).Return(worker.Worker{ID: testWorkerID}, nil)
		f.events.On("ListByWorker", mock.Anything, testWorkerID, start, end).Return(events, nil)
		f.events.On("MarkPaid", mock.Anything, []string{"d1", "o1"}, "admin-1", now).Return(int64(2), nil)

		resp, err := f.svc.MarkDayPaid(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.MarkedCount)
		assert.Equal(t, "2025-03-20T12:00:00+01:00", resp.PaidAt)
		f.events.AssertExpectations(t)
	})

	t.Run("no events", func(t *testing.T) {
		f := newServiceFixture(t, now)
		f.workers.On("LockForUpdate", mock.Anything, testWorkerID).Return(worker.Worker{ID: testWorkerID}, nil)
		f.events.On("ListByWorker", mock.Anything, testWorkerID, start, end).Return([]attendance.Event{}, nil)

		_, err := f.svc.MarkDayPaid(context.Background(), req)

		assert.ErrorIs(t, err, payroll.ErrNoEventsForDay)
		f.events.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already paid", func(t *testing.T) {
		f := newServiceFixture(t, now)
		a := arrival("a1", local(t, day, 8, 0), nil)
		a.IsPaid = true
		f.workers.On("LockForUpdate", mock.Anything, testWorkerID).Return(worker.Worker{ID: testWorkerID}, nil)
		f.events.On("ListByWorker", mock.Anything, testWorkerID, start, end).Return([]attendance.Event{a}, nil)

		_, err := f.svc.MarkDayPaid(context.Background(), req)

		assert.ErrorIs(t, err, payroll.ErrDayAlreadyPaid)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		f := newServiceFixture(t, now)
		f.workers.On("LockForUpdate", mock.Anything, testWorkerID).Return(worker.Worker{ID: testWorkerID}, nil)
		f.events.On("ListByWorker", mock.Anything, testWorkerID, start, end).
			Return([]attendance.Event{arrival("a1", local(t, day, 8, 0), nil)}, nil)
		f.events.On("MarkPaid", mock.Anything, []string{"a1"}, "admin-1", now).Return(int64(0), nil)

		_, err := f.svc.MarkDayPaid(context.Background(), req)

		assert.ErrorIs(t, err, payroll.ErrPaidCountMismatch)
	})

	t.Run("unknown worker", func(t *testing.T) {
		f := newServiceFixture(t, now)
		f.workers.On("LockForUpdate", mock.Anything, testWorkerID).Return(worker.Worker{}, worker.ErrWorkerNotFound)

		_, err := f.svc.MarkDayPaid(context.Background(), req)

		assert.ErrorIs(t, err, worker.ErrWorkerNotFound)
	})
}
