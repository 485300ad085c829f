package worker

import "context"

type WorkerRepository interface {
	// GetByID retrieves a worker by ID
	GetByID(ctx context.Context, id string) (Worker, error)

	// LockForUpdate reads the worker row with a row lock held until the surrounding
	// transaction ends. All event writes for one worker serialize on this lock.
	LockForUpdate(ctx context.Context, id string) (Worker, error)

	// List returns every worker ordered by name, inactive ones included
	List(ctx context.Context) ([]Worker, error)

	// ListRateOverrides returns the site-specific rates of one worker
	ListRateOverrides(ctx context.Context, workerID string) ([]RateOverride, error)
}
