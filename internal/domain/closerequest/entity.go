package closerequest

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// CloseRequest is a worker's report of a forgotten departure. It closes one
// specific arrival and is immutable once decided.
type CloseRequest struct {
	ID             string
	WorkerID       string
	SiteID         *string
	ArrivalEventID string
	ArrivalAt      time.Time

	ReportedDepartureAt string
	ForgetReason        string
	WorkDescription     string
	Km                  *decimal.Decimal
	MaterialDesc        *string
	MaterialAmount      *decimal.Decimal

	Status           Status
	RequestedAt      time.Time
	DecidedAt        *time.Time
	DecidedBy        *string
	DepartureEventID *string
	DepartureAt      *time.Time
}

func (c CloseRequest) IsPending() bool {
	return c.Status == StatusPending
}

// Decision is the terminal transition written for a request.
type Decision struct {
	Status           Status
	DecidedBy        string
	DecidedAt        time.Time
	DepartureEventID *string
	DepartureAt      *time.Time
}
