package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workerRepository struct {
	db *database.DB
}

const workerColumns = `id, name, hourly_rate, km_rate, is_active, created_at, updated_at`

func (r *workerRepository) getOne(ctx context.Context, query, id string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	var w worker.Worker
	err := q.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.Name, &w.HourlyRate, &w.KmRate, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to get worker: %w", err)
	}

	return w, nil
}

// GetByID implements worker.WorkerRepository.
func (r *workerRepository) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	return r.getOne(ctx, `SELECT `+workerColumns+` FROM workers WHERE id = $1`, id)
}

// LockForUpdate implements worker.WorkerRepository.
// Must be called with a transaction in ctx, otherwise the lock is released immediately.
func (r *workerRepository) LockForUpdate(ctx context.Context, id string) (worker.Worker, error) {
	return r.getOne(ctx, `SELECT `+workerColumns+` FROM workers WHERE id = $1 FOR UPDATE`, id)
}

// List implements worker.WorkerRepository.
func (r *workerRepository) List(ctx context.Context) ([]worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+workerColumns+` FROM workers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []worker.Worker
	for rows.Next() {
		var w worker.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.HourlyRate, &w.KmRate, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}

	return workers, rows.Err()
}

// ListRateOverrides implements worker.WorkerRepository.
func (r *workerRepository) ListRateOverrides(ctx context.Context, workerID string) ([]worker.RateOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_id, site_id, hourly_rate, km_rate
		FROM worker_site_rates
		WHERE worker_id = $1
	`

	rows, err := q.Query(ctx, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate overrides: %w", err)
	}
	defer rows.Close()

	var overrides []worker.RateOverride
	for rows.Next() {
		var o worker.RateOverride
		if err := rows.Scan(&o.WorkerID, &o.SiteID, &o.HourlyRate, &o.KmRate); err != nil {
			return nil, fmt.Errorf("failed to scan rate override: %w", err)
		}
		overrides = append(overrides, o)
	}

	return overrides, rows.Err()
}

func NewWorkerRepository(db *database.DB) worker.WorkerRepository {
	return &workerRepository{
		db: db,
	}
}
