package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventKind string

const (
	KindArrival   EventKind = "ARRIVAL"
	KindDeparture EventKind = "DEPARTURE"
	KindOffsite   EventKind = "OFFSITE"
)

// Event is one raw attendance record. Events are append-only; the only writes
// after insert are the paid flag, the arrival-time repair and admin time edits.
type Event struct {
	ID         string
	WorkerID   string
	SiteID     *string
	Kind       EventKind
	OccurredAt time.Time
	CivilDay   *string // cached, may be stale

	WorkDescription *string
	Km              *decimal.Decimal

	OffsiteReason *string
	OffsiteHours  *decimal.Decimal

	MaterialDesc   *string
	MaterialAmount *decimal.Decimal

	IsPaid bool
	PaidAt *time.Time
	PaidBy *string

	Latitude  *float64
	Longitude *float64
	AccuracyM *float64
	DistanceM *int

	EditedAt  *time.Time
	EditedBy  *string
	CreatedAt time.Time
}

// HasSite reports whether both events belong to the same site, treating
// two unassigned events as matching.
func (e Event) HasSite(siteID *string) bool {
	if e.SiteID == nil || siteID == nil {
		return e.SiteID == nil && siteID == nil
	}
	return *e.SiteID == *siteID
}

// RepairResult reports one run of the arrival-time repair.
type RepairResult struct {
	WindowDays int `json:"window_days"`
	Scanned    int `json:"scanned"`
	Matched    int `json:"matched"`
	Fixed      int `json:"fixed"`
}
