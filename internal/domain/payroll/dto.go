package payroll

import (
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUESTS
// ========================================

type MySummaryRequest struct {
	WorkerID string `json:"-"`
	Days     int    `json:"days"`
}

func (r *MySummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if r.Days < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "days must be a positive number",
		})
	}
	if r.Days == 0 {
		r.Days = 30 // Default window
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type WorkerSummaryRequest struct {
	WorkerID string `json:"worker_id"`
	From     string `json:"from"` // YYYY-MM-DD, civil
	To       string `json:"to"`   // YYYY-MM-DD, civil, inclusive
}

func (r *WorkerSummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id must be a valid UUID",
		})
	}

	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}

	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}

	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// PayoutsRequest selects the civil days of the payouts overview. Empty bounds
// are filled by the service: to defaults to today, from to 13 days before to.
type PayoutsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r *PayoutsRequest) Validate() error {
	var errs validator.ValidationErrors

	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}

	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}

	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MarkDayPaidRequest struct {
	WorkerID string `json:"worker_id"`
	Day      string `json:"day"`
	PaidBy   string `json:"-"`
}

func (r *MarkDayPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id must be a valid UUID",
		})
	}

	if _, ok := validator.IsValidDate(r.Day); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "day",
			Message: "day must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================
// Money is rounded half-up to 2 decimals, hours to 2 and km to 1.

type SegmentResponse struct {
	SiteID             *string         `json:"site_id"`
	SiteName           *string         `json:"site_name"`
	ArrivalAt          string          `json:"in_time_raw"`
	DepartureAt        string          `json:"out_time_raw"`
	RoundedArrivalAt   string          `json:"in_time_rounded"`
	RoundedDepartureAt string          `json:"out_time_rounded"`
	Minutes            int64           `json:"minutes_rounded"`
	Hours              decimal.Decimal `json:"hours_rounded"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	RateSource         RateSource      `json:"rate_source"`
	Pay                decimal.Decimal `json:"pay"`
	WorkDescription    *string         `json:"note_work"`
}

type OffsiteResponse struct {
	SiteID     *string         `json:"site_id"`
	SiteName   *string         `json:"site_name"`
	Reason     string          `json:"reason"`
	Hours      decimal.Decimal `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	RateSource RateSource      `json:"rate_source"`
	Pay        decimal.Decimal `json:"pay"`
}

type KmLineResponse struct {
	SiteID *string         `json:"site_id"`
	Km     decimal.Decimal `json:"km"`
	Rate   decimal.Decimal `json:"km_rate"`
	Pay    decimal.Decimal `json:"km_pay"`
	Source KmSource        `json:"source"`
}

type MaterialResponse struct {
	SiteID      *string         `json:"site_id"`
	Description string          `json:"desc"`
	Amount      decimal.Decimal `json:"amount"`
}

type DaySummaryResponse struct {
	Day           string          `json:"day"`
	Paid          bool            `json:"paid"`
	FirstArrival  *string         `json:"first_in"`
	LastDeparture *string         `json:"last_out"`
	Hours         decimal.Decimal `json:"hours"`
	HoursPay      decimal.Decimal `json:"hours_pay"`
	Km            decimal.Decimal `json:"km"`
	KmPay         decimal.Decimal `json:"km_pay"`
	KmSource      KmSource        `json:"km_source"`
	Material      decimal.Decimal `json:"material"`
	MaterialNotes []string        `json:"material_notes"`
	Total         decimal.Decimal `json:"total"`

	Segments  []SegmentResponse  `json:"segments"`
	Offsites  []OffsiteResponse  `json:"offsites"`
	KmLines   []KmLineResponse   `json:"km_lines"`
	Materials []MaterialResponse `json:"materials"`
}

type SummaryTotalsResponse struct {
	Hours       decimal.Decimal `json:"hours"`
	HoursPay    decimal.Decimal `json:"hours_pay"`
	Km          decimal.Decimal `json:"km"`
	KmPay       decimal.Decimal `json:"km_pay"`
	Material    decimal.Decimal `json:"material"`
	Total       decimal.Decimal `json:"total"`
	UnpaidTotal decimal.Decimal `json:"unpaid_total"`
}

type WorkerSummaryResponse struct {
	WorkerID      string                `json:"worker_id"`
	WorkerName    string                `json:"worker_name"`
	From          string                `json:"from"`
	To            string                `json:"to"`
	OpenArrivalAt *string               `json:"open_arrival_at,omitempty"`
	Totals        SummaryTotalsResponse `json:"totals"`
	Days          []DaySummaryResponse  `json:"rows"`
}

type SiteTotalsResponse struct {
	Hours          decimal.Decimal `json:"hours_rounded_30"`
	LaborAmount    decimal.Decimal `json:"labor_amount"`
	Km             decimal.Decimal `json:"km"`
	TravelAmount   decimal.Decimal `json:"travel_amount"`
	MaterialAmount decimal.Decimal `json:"material_amount"`
	OffsiteHours   decimal.Decimal `json:"offsite_hours"`
	OffsiteAmount  decimal.Decimal `json:"offsite_amount"`
	Total          decimal.Decimal `json:"total"`
}

type SiteDayResponse struct {
	Day            string             `json:"day"`
	Segments       []SegmentResponse  `json:"segments"`
	Offsites       []OffsiteResponse  `json:"offsite"`
	Km             decimal.Decimal    `json:"km"`
	KmAmount       decimal.Decimal    `json:"km_amount"`
	Materials      []MaterialResponse `json:"material"`
	MaterialAmount decimal.Decimal    `json:"material_amount"`
	Total          decimal.Decimal    `json:"day_total"`
}

type SiteSummaryResponse struct {
	SiteID   *string            `json:"site_id"`
	SiteName string             `json:"site_name"`
	Totals   SiteTotalsResponse `json:"totals"`
	Days     []SiteDayResponse  `json:"days"`
}

type InvoiceResponse struct {
	WorkerID   string                `json:"worker_id"`
	WorkerName string                `json:"worker_name"`
	HourlyRate decimal.Decimal       `json:"hourly_rate"`
	KmRate     decimal.Decimal       `json:"km_rate"`
	From       string                `json:"from"`
	To         string                `json:"to"`
	Sites      []SiteSummaryResponse `json:"sites"`
}

type MarkDayPaidResponse struct {
	WorkerID    string `json:"worker_id"`
	Day         string `json:"day"`
	MarkedCount int64  `json:"marked_count"`
	PaidAt      string `json:"paid_at"`
}

// PayoutRowResponse is one worker-day of the payouts overview
type PayoutRowResponse struct {
	WorkerID   string `json:"worker_id"`
	WorkerName string `json:"worker_name"`
	DaySummaryResponse
}

type PayoutsResponse struct {
	From        string              `json:"from"`
	To          string              `json:"to"`
	UnpaidTotal decimal.Decimal     `json:"unpaid_total"`
	Rows        []PayoutRowResponse `json:"rows"`
}
