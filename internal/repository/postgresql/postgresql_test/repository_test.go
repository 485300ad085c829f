package postgresqltest

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestWorker(t *testing.T, ctx context.Context, db *database.DB) string {
	var id string
	err := db.QueryRow(ctx, `
		INSERT INTO workers (name, hourly_rate, km_rate)
		VALUES ('Jan Novak', 250, 8)
		RETURNING id
	`).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestSite(t *testing.T, ctx context.Context, db *database.DB, status site.Status) string {
	var id string
	err := db.QueryRow(ctx, `
		INSERT INTO sites (name, latitude, longitude, radius_m, status)
		VALUES ('Warehouse', 50.0755, 14.4378, 200, $1)
		RETURNING id
	`, status).Scan(&id)
	require.NoError(t, err)
	return id
}

func newEvent(workerID string, siteID *string, kind attendance.EventKind, at time.Time) attendance.Event {
	day := at.Format("2006-01-02")
	return attendance.Event{
		ID:         uuid.Must(uuid.NewV7()).String(),
		WorkerID:   workerID,
		SiteID:     siteID,
		Kind:       kind,
		OccurredAt: at,
		CivilDay:   &day,
	}
}

// ===== EVENT REPOSITORY TESTS =====

func TestEventRepository_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewEventRepository(db)

	workerID := createTestWorker(t, ctx, db)
	siteID := createTestSite(t, ctx, db, site.StatusActive)

	km := decimal.RequireFromString("12.5")
	note := "roof repair"
	distance := 14
	dep := newEvent(workerID, &siteID, attendance.KindDeparture, time.Date(2025, 3, 10, 15, 52, 0, 0, time.UTC))
	dep.Km = &km
	dep.WorkDescription = &note
	dep.DistanceM = &distance

	// Act
	created, err := repo.Create(ctx, dep)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, created.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, attendance.KindDeparture, found.Kind)
	assert.True(t, found.OccurredAt.Equal(dep.OccurredAt))
	require.NotNil(t, found.Km)
	assert.True(t, found.Km.Equal(km))
	require.NotNil(t, found.CivilDay)
	assert.Equal(t, "2025-03-10", *found.CivilDay)
	assert.Equal(t, 14, *found.DistanceM)
	assert.False(t, found.IsPaid)
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	repo := postgresql.NewEventRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, attendance.ErrEventNotFound)
}

func TestEventRepository_LatestAndWindow(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewEventRepository(db)
	workerID := createTestWorker(t, ctx, db)

	base := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	for i, kind := range []attendance.EventKind{attendance.KindArrival, attendance.KindDeparture, attendance.KindArrival} {
		_, err := repo.Create(ctx, newEvent(workerID, nil, kind, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	latest, err := repo.GetLatestByKind(ctx, workerID, attendance.KindArrival)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.OccurredAt.Equal(base.Add(2*time.Hour)))

	none, err := repo.GetLatestByKind(ctx, workerID, attendance.KindOffsite)
	require.NoError(t, err)
	assert.Nil(t, none)

	events, err := repo.ListByWorker(ctx, workerID, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, attendance.KindArrival, events[0].Kind)
	assert.Equal(t, attendance.KindDeparture, events[1].Kind)
}

func TestEventRepository_MarkPaidOnlyUnpaid(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewEventRepository(db)
	workerID := createTestWorker(t, ctx, db)

	a, err := repo.Create(ctx, newEvent(workerID, nil, attendance.KindArrival, time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	d, err := repo.Create(ctx, newEvent(workerID, nil, attendance.KindDeparture, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	n, err := repo.MarkPaid(ctx, []string{a.ID, d.ID}, "admin-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.MarkPaid(ctx, []string{a.ID, d.ID}, "admin-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestEventRepository_UpdateOccurredAt(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewEventRepository(db)
	workerID := createTestWorker(t, ctx, db)

	e, err := repo.Create(ctx, newEvent(workerID, nil, attendance.KindArrival, time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)))
	require.NoError(t, err)

	fixed := time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateOccurredAt(ctx, e.ID, fixed, "2025-03-10", nil))

	found, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, found.OccurredAt.Equal(fixed))
	assert.NotNil(t, found.EditedAt)

	err = repo.UpdateOccurredAt(ctx, uuid.NewString(), fixed, "2025-03-10", nil)
	assert.ErrorIs(t, err, attendance.ErrEventNotFound)
}

// ===== WORKER & SITE REPOSITORY TESTS =====

func TestWorkerRepository_LockForUpdateInTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewWorkerRepository(db)
	tx := postgresql.NewTxManager(db)
	workerID := createTestWorker(t, ctx, db)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		w, err := repo.LockForUpdate(ctx, workerID)
		if err != nil {
			return err
		}
		assert.Equal(t, "Jan Novak", w.Name)
		require.NotNil(t, w.HourlyRate)
		assert.True(t, w.HourlyRate.Equal(decimal.NewFromInt(250)))
		return nil
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, worker.ErrWorkerNotFound)
}

func TestWorkerRepository_ListRateOverrides(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewWorkerRepository(db)
	workerID := createTestWorker(t, ctx, db)
	siteID := createTestSite(t, ctx, db, site.StatusActive)

	_, err := db.Exec(ctx, `
		INSERT INTO worker_site_rates (worker_id, site_id, hourly_rate, km_rate)
		VALUES ($1, $2, 400, 10)
	`, workerID, siteID)
	require.NoError(t, err)

	overrides, err := repo.ListRateOverrides(ctx, workerID)

	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, siteID, overrides[0].SiteID)
	assert.True(t, overrides[0].HourlyRate.Equal(decimal.NewFromInt(400)))
}

func TestWorkerRepository_List(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewWorkerRepository(db)
	workerID := createTestWorker(t, ctx, db)

	workers, err := repo.List(ctx)

	require.NoError(t, err)
	ids := make([]string, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	assert.Contains(t, ids, workerID)
}

func TestSiteRepository_GetByID(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewSiteRepository(db)
	siteID := createTestSite(t, ctx, db, site.StatusArchived)

	s, err := repo.GetByID(ctx, siteID)
	require.NoError(t, err)
	assert.Equal(t, site.StatusArchived, s.Status)
	assert.Equal(t, 200, s.RadiusM)
	assert.False(t, s.IsActive())

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, site.ErrSiteNotFound)
}

// ===== CLOSE REQUEST REPOSITORY TESTS =====

func TestCloseRequestRepository_Lifecycle(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	events := postgresql.NewEventRepository(db)
	repo := postgresql.NewCloseRequestRepository(db)
	workerID := createTestWorker(t, ctx, db)

	arrival, err := events.Create(ctx, newEvent(workerID, nil, attendance.KindArrival, time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	req := closerequest.CloseRequest{
		ID:                  uuid.Must(uuid.NewV7()).String(),
		WorkerID:            workerID,
		ArrivalEventID:      arrival.ID,
		ArrivalAt:           arrival.OccurredAt,
		ReportedDepartureAt: "16:30",
		ForgetReason:        "phone battery died",
		WorkDescription:     "wiring",
		Status:              closerequest.StatusPending,
	}

	created, err := repo.Create(ctx, req)
	require.NoError(t, err)
	assert.False(t, created.RequestedAt.IsZero())

	// Second pending request for the same worker
	dup := req
	dup.ID = uuid.Must(uuid.NewV7()).String()
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, closerequest.ErrPendingRequestExists)

	pending, err := repo.GetPendingByWorker(ctx, workerID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, req.ID, pending.ID)

	decision := closerequest.Decision{Status: closerequest.StatusRejected, DecidedBy: "admin-1", DecidedAt: time.Now()}
	require.NoError(t, repo.Decide(ctx, req.ID, decision))
	assert.ErrorIs(t, repo.Decide(ctx, req.ID, decision), closerequest.ErrCloseRequestAlreadyProcessed)

	pending, err = repo.GetPendingByWorker(ctx, workerID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	since, err := repo.ListByArrivalSince(ctx, arrival.OccurredAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, since, 1)
}

// ===== TRIP REPOSITORY TESTS =====

func TestTripRepository_ListByWorker(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewTripRepository(db)
	workerID := createTestWorker(t, ctx, db)

	_, err := db.Exec(ctx, `
		INSERT INTO trips (worker_id, start_time, km_final) VALUES
		($1, '2025-03-10T06:00:00Z', 14.3),
		($1, '2025-03-10T12:00:00Z', NULL),
		($1, '2025-03-12T06:00:00Z', 5)
	`, workerID)
	require.NoError(t, err)

	trips, err := repo.ListByWorker(ctx, workerID,
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
	)

	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.True(t, trips[0].Km.Equal(decimal.RequireFromString("14.3")))
	assert.True(t, trips[1].Km.IsZero())
}
