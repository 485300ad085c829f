package closerequest

import "errors"

var (
	ErrCloseRequestNotFound         = errors.New("close request not found")
	ErrPendingRequestExists         = errors.New("a close request is already waiting for approval")
	ErrCloseRequestAlreadyProcessed = errors.New("close request has already been processed")
)
