package closerequest

import (
	"context"
	"time"
)

type CloseRequestRepository interface {
	// Create inserts a pending request
	Create(ctx context.Context, req CloseRequest) (CloseRequest, error)

	// GetByID retrieves a request by ID
	GetByID(ctx context.Context, id string) (CloseRequest, error)

	// LockByID reads a request with a row lock held until the transaction ends
	LockByID(ctx context.Context, id string) (CloseRequest, error)

	// GetPendingByWorker returns the worker's pending request, or nil if there is none
	GetPendingByWorker(ctx context.Context, workerID string) (*CloseRequest, error)

	// List retrieves requests with filters and pagination
	List(ctx context.Context, filter CloseRequestFilter) ([]CloseRequest, int64, error)

	// ListByArrivalSince returns every request whose arrival is at or after since
	ListByArrivalSince(ctx context.Context, since time.Time) ([]CloseRequest, error)

	// Decide moves a pending request to a terminal status
	Decide(ctx context.Context, id string, decision Decision) error
}
