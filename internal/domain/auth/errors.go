package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrWorkerClaimMissing     = errors.New("token does not identify a worker")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
