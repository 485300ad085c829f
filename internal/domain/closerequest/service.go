package closerequest

import "context"

type CloseRequestService interface {
	// Create files a request for the worker's open arrival
	Create(ctx context.Context, req CreateCloseRequestRequest) (CloseRequestResponse, error)

	// Approve writes the synthetic departure and closes the request
	Approve(ctx context.Context, req ApproveCloseRequestRequest) (CloseRequestResponse, error)

	// Reject closes the request without writing an event
	Reject(ctx context.Context, id string, adminID string) (CloseRequestResponse, error)

	// Get retrieves a single request
	Get(ctx context.Context, id string) (CloseRequestResponse, error)

	// List retrieves requests (admin)
	List(ctx context.Context, filter CloseRequestFilter) (ListCloseRequestResponse, error)
}
