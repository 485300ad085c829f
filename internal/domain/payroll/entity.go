package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type RateSource string

const (
	RateSourceSite    RateSource = "site"
	RateSourceDefault RateSource = "default"
)

// Rate is the pricing that applies to one worker on one site.
type Rate struct {
	Hourly decimal.Decimal
	Km     decimal.Decimal
	Source RateSource
}

type KmSource string

const (
	KmSourceManual KmSource = "manual"
	KmSourceTrips  KmSource = "trips"
	KmSourceNone   KmSource = "none"
)

// WorkSegment is an arrival paired with the next departure. Derived, never stored.
// Minutes always come from the rounded instants.
type WorkSegment struct {
	WorkerID         string
	Day              string // civil day of the arrival
	SiteID           *string
	ArrivalEventID   string
	DepartureEventID string

	ArrivalAt          time.Time
	DepartureAt        time.Time
	RoundedArrivalAt   time.Time
	RoundedDepartureAt time.Time

	Minutes         int64
	Hours           decimal.Decimal
	Rate            Rate
	Pay             decimal.Decimal
	WorkDescription *string
}

// OffsiteItem is one OFFSITE event priced as entered, without rounding.
type OffsiteItem struct {
	EventID string
	Day     string
	SiteID  *string
	Reason  string
	Hours   decimal.Decimal
	Rate    Rate
	Pay     decimal.Decimal
}

// KmLine is one mileage reimbursement. Trip-log lines have no event or site.
type KmLine struct {
	EventID *string
	SiteID  *string
	Km      decimal.Decimal
	Rate    decimal.Decimal
	Pay     decimal.Decimal
	Source  KmSource
}

type MaterialLine struct {
	EventID     string
	SiteID      *string
	Description string
	Amount      decimal.Decimal
}

// DaySummary holds one worker's payroll for one civil day at full precision.
// Rounding to output precision happens when it is rendered.
type DaySummary struct {
	WorkerID   string
	Day        string
	Paid       bool
	EventCount int

	FirstArrival  *time.Time
	LastDeparture *time.Time

	Segments  []WorkSegment
	Offsites  []OffsiteItem
	KmLines   []KmLine
	Materials []MaterialLine

	WorkHours    decimal.Decimal
	OffsiteHours decimal.Decimal
	Hours        decimal.Decimal
	HoursPay     decimal.Decimal
	Km           decimal.Decimal
	KmPay        decimal.Decimal
	KmSource     KmSource
	Material     decimal.Decimal
	Total        decimal.Decimal
}

type SiteTotals struct {
	Hours          decimal.Decimal
	LaborAmount    decimal.Decimal
	Km             decimal.Decimal
	TravelAmount   decimal.Decimal
	MaterialAmount decimal.Decimal
	OffsiteHours   decimal.Decimal
	OffsiteAmount  decimal.Decimal
	Total          decimal.Decimal
}

type SiteDay struct {
	Day       string
	Segments  []WorkSegment
	Offsites  []OffsiteItem
	KmLines   []KmLine
	Materials []MaterialLine
	Total     decimal.Decimal
}

// SiteSummary is the invoice view: one bucket per site, nil SiteID is unassigned.
type SiteSummary struct {
	SiteID   *string
	SiteName string
	Totals   SiteTotals
	Days     []SiteDay
}

// Trip is an entry of the worker's trip log, used as the mileage fallback.
type Trip struct {
	ID        string
	WorkerID  string
	StartedAt time.Time
	Km        decimal.Decimal
}
