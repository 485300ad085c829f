package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
)

type tripRepository struct {
	db *database.DB
}

// ListByWorker implements payroll.TripRepository.
// Trips without a final distance count as zero km.
func (r *tripRepository) ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]payroll.Trip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, worker_id, start_time, COALESCE(km_final, 0)
		FROM trips
		WHERE worker_id = $1
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, workerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []payroll.Trip
	for rows.Next() {
		var t payroll.Trip
		if err := rows.Scan(&t.ID, &t.WorkerID, &t.StartedAt, &t.Km); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}

	return trips, rows.Err()
}

func NewTripRepository(db *database.DB) payroll.TripRepository {
	return &tripRepository{
		db: db,
	}
}
