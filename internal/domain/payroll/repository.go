package payroll

import (
	"context"
	"time"
)

// TripRepository reads the trip log kept by the trip-logging collaborator.
type TripRepository interface {
	// ListByWorker returns trips with from <= started_at < to
	ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]Trip, error)
}
