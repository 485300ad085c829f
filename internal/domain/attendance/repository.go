package attendance

import (
	"context"
	"time"
)

// EventRepository defines data access for attendance events.
// Callers that read-then-write must hold the worker lock (see worker.WorkerRepository.LockForUpdate).
type EventRepository interface {
	// Create inserts a new event
	Create(ctx context.Context, event Event) (Event, error)

	// GetByID retrieves a single event
	GetByID(ctx context.Context, id string) (Event, error)

	// GetLatestByKind returns the worker's most recent event of kind, or nil if there is none
	GetLatestByKind(ctx context.Context, workerID string, kind EventKind) (*Event, error)

	// ListByWorker returns the worker's events with from <= occurred_at < to, ascending by instant
	ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]Event, error)

	// ListByKindSince returns events of kind for all workers with occurred_at >= since
	ListByKindSince(ctx context.Context, kind EventKind, since time.Time) ([]Event, error)

	// List retrieves events with filters and pagination (admin)
	List(ctx context.Context, filter EventFilter, from, to *time.Time) ([]Event, int64, error)

	// UpdateOccurredAt rewrites an event's instant and its cached civil day
	UpdateOccurredAt(ctx context.Context, id string, occurredAt time.Time, civilDay string, editedBy *string) error

	// MarkPaid flags the given unpaid events as paid and returns how many rows changed
	MarkPaid(ctx context.Context, ids []string, paidBy string, paidAt time.Time) (int64, error)
}
