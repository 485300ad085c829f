package worker

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worker is a field worker. Default rates may be unset, which prices at zero.
type Worker struct {
	ID         string
	Name       string
	HourlyRate *decimal.Decimal
	KmRate     *decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RateOverride replaces a worker's default rates on one site.
type RateOverride struct {
	WorkerID   string
	SiteID     string
	HourlyRate decimal.Decimal
	KmRate     decimal.Decimal
}
