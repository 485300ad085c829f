package attendance

import (
	"strings"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// EVENT CAPTURE DTOs
// ========================================

type ArrivalRequest struct {
	WorkerID  string   `json:"-"`
	SiteID    string   `json:"site_id"`
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lng"`
	AccuracyM *float64 `json:"accuracy_m,omitempty"`
}

func (r *ArrivalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SiteID) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "site_id is required",
		})
	} else if !validator.IsValidUUID(r.SiteID) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "site_id must be a valid UUID",
		})
	}

	errs = append(errs, validatePosition(r.Latitude, r.Longitude, r.AccuracyM)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DepartureRequest struct {
	WorkerID        string           `json:"-"`
	SiteID          *string          `json:"site_id,omitempty"`
	Latitude        float64          `json:"lat"`
	Longitude       float64          `json:"lng"`
	AccuracyM       *float64         `json:"accuracy_m,omitempty"`
	WorkDescription string           `json:"note_work"`
	Km              *decimal.Decimal `json:"km,omitempty"`
	MaterialDesc    *string          `json:"material_desc,omitempty"`
	MaterialAmount  *decimal.Decimal `json:"material_amount,omitempty"`
}

func (r *DepartureRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.SiteID != nil && !validator.IsValidUUID(*r.SiteID) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "site_id must be a valid UUID",
		})
	}

	errs = append(errs, validatePosition(r.Latitude, r.Longitude, r.AccuracyM)...)

	if !validator.IsLengthBetween(r.WorkDescription, 2, 2000) {
		errs = append(errs, validator.ValidationError{
			Field:   "note_work",
			Message: "note_work must be between 2 and 2000 characters",
		})
	}

	errs = append(errs, ValidateKm(r.Km)...)
	errs = append(errs, ValidateMaterial(r.MaterialDesc, r.MaterialAmount)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OffsiteRequest struct {
	WorkerID       string           `json:"-"`
	SiteID         *string          `json:"site_id,omitempty"`
	Hours          decimal.Decimal  `json:"offsite_hours"`
	Reason         string           `json:"offsite_reason"`
	MaterialDesc   *string          `json:"material_desc,omitempty"`
	MaterialAmount *decimal.Decimal `json:"material_amount,omitempty"`
}

func (r *OffsiteRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.SiteID != nil && !validator.IsValidUUID(*r.SiteID) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "site_id must be a valid UUID",
		})
	}

	if !validator.IsDecimalBetween(r.Hours, 0.25, 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "offsite_hours",
			Message: "offsite_hours must be between 0.25 and 24",
		})
	}

	if !validator.IsLengthBetween(r.Reason, 2, 500) {
		errs = append(errs, validator.ValidationError{
			Field:   "offsite_reason",
			Message: "offsite_reason must be between 2 and 500 characters",
		})
	}

	errs = append(errs, ValidateMaterial(r.MaterialDesc, r.MaterialAmount)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validatePosition(lat, lng float64, accuracy *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "lat",
			Message: "lat must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(lng) {
		errs = append(errs, validator.ValidationError{
			Field:   "lng",
			Message: "lng must be between -180 and 180",
		})
	}

	if accuracy != nil && *accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy_m",
			Message: "accuracy_m must not be negative",
		})
	}

	return errs
}

// ValidateKm checks a self-reported distance. Shared with close requests.
func ValidateKm(km *decimal.Decimal) validator.ValidationErrors {
	if km != nil && !validator.IsDecimalBetween(*km, 0, 2000) {
		return validator.ValidationErrors{{
			Field:   "km",
			Message: "km must be between 0 and 2000",
		}}
	}
	return nil
}

// ValidateMaterial checks a material reimbursement. Shared with close requests.
func ValidateMaterial(desc *string, amount *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if desc != nil && !validator.IsLengthBetween(*desc, 0, 500) {
		errs = append(errs, validator.ValidationError{
			Field:   "material_desc",
			Message: "material_desc must not exceed 500 characters",
		})
	}

	if amount != nil && !validator.IsDecimalBetween(*amount, 0, 200000) {
		errs = append(errs, validator.ValidationError{
			Field:   "material_amount",
			Message: "material_amount must be between 0 and 200000",
		})
	}

	return errs
}

// ========================================
// ADMIN DTOs
// ========================================

type EditEventTimeRequest struct {
	ID         string `json:"-"`
	EditedBy   string `json:"-"`
	OccurredAt string `json:"occurred_at"` // RFC3339 or civil "YYYY-MM-DD HH:MM"
}

func (r *EditEventTimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.OccurredAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "occurred_at",
			Message: "occurred_at is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EventFilter struct {
	WorkerID *string `json:"worker_id,omitempty"`
	Kind     *string `json:"kind,omitempty"`
	From     *string `json:"from,omitempty"` // YYYY-MM-DD
	To       *string `json:"to,omitempty"`   // YYYY-MM-DD
	IsPaid   *bool   `json:"is_paid,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EventFilter) Validate() error {
	errs := validator.ValidatePagination(&f.Page, &f.Limit)

	if f.Kind != nil {
		kind := strings.ToUpper(*f.Kind)
		if !validator.IsInSlice(kind, []string{string(KindArrival), string(KindDeparture), string(KindOffsite)}) {
			errs = append(errs, validator.ValidationError{
				Field:   "kind",
				Message: "kind must be one of: ARRIVAL, DEPARTURE, OFFSITE",
			})
		}
		f.Kind = &kind
	}

	if f.From != nil && *f.From != "" {
		if _, valid := validator.IsValidDate(*f.From); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}

	if f.To != nil && *f.To != "" {
		if _, valid := validator.IsValidDate(*f.To); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type EventResponse struct {
	ID              string           `json:"id"`
	WorkerID        string           `json:"worker_id"`
	SiteID          *string          `json:"site_id"`
	Kind            EventKind        `json:"kind"`
	OccurredAt      string           `json:"occurred_at"`
	CivilDay        string           `json:"civil_day"`
	WorkDescription *string          `json:"note_work,omitempty"`
	Km              *decimal.Decimal `json:"km,omitempty"`
	OffsiteReason   *string          `json:"offsite_reason,omitempty"`
	OffsiteHours    *decimal.Decimal `json:"offsite_hours,omitempty"`
	MaterialDesc    *string          `json:"material_desc,omitempty"`
	MaterialAmount  *decimal.Decimal `json:"material_amount,omitempty"`
	DistanceM       *int             `json:"distance_m,omitempty"`
	IsPaid          bool             `json:"is_paid"`
	EditedAt        *string          `json:"edited_at,omitempty"`
}

type StatusResponse struct {
	WorkerID              string         `json:"worker_id"`
	HasOpenArrival        bool           `json:"has_open_arrival"`
	OpenArrival           *EventResponse `json:"open_arrival,omitempty"`
	PendingCloseRequestID *string        `json:"pending_close_request_id,omitempty"`
}

type ListEventResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Events     []EventResponse `json:"events"`
}
