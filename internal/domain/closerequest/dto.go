package closerequest

import (
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateCloseRequestRequest struct {
	WorkerID            string           `json:"-"`
	ReportedDepartureAt string           `json:"reported_left_at"` // "16:50" or a full date-time
	ForgetReason        string           `json:"forget_reason"`
	WorkDescription     string           `json:"note_work"`
	Km                  *decimal.Decimal `json:"km,omitempty"`
	MaterialDesc        *string          `json:"material_desc,omitempty"`
	MaterialAmount      *decimal.Decimal `json:"material_amount,omitempty"`
}

func (r *CreateCloseRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsLengthBetween(r.ReportedDepartureAt, 2, 50) {
		errs = append(errs, validator.ValidationError{
			Field:   "reported_left_at",
			Message: "reported_left_at must be between 2 and 50 characters",
		})
	}

	if !validator.IsLengthBetween(r.ForgetReason, 3, 500) {
		errs = append(errs, validator.ValidationError{
			Field:   "forget_reason",
			Message: "forget_reason must be between 3 and 500 characters",
		})
	}

	if !validator.IsLengthBetween(r.WorkDescription, 3, 2000) {
		errs = append(errs, validator.ValidationError{
			Field:   "note_work",
			Message: "note_work must be between 3 and 2000 characters",
		})
	}

	errs = append(errs, attendance.ValidateKm(r.Km)...)
	errs = append(errs, attendance.ValidateMaterial(r.MaterialDesc, r.MaterialAmount)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveCloseRequestRequest struct {
	ID            string  `json:"-"`
	AdminID       string  `json:"-"`
	DepartureTime *string `json:"departure_time,omitempty"` // overrides the reported time
}

func (r *ApproveCloseRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.DepartureTime != nil && !validator.IsLengthBetween(*r.DepartureTime, 0, 50) {
		errs = append(errs, validator.ValidationError{
			Field:   "departure_time",
			Message: "departure_time must not exceed 50 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CloseRequestFilter struct {
	WorkerID *string `json:"worker_id,omitempty"`
	Status   *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *CloseRequestFilter) Validate() error {
	errs := validator.ValidatePagination(&f.Page, &f.Limit)

	if f.Status != nil {
		validStatuses := []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, approved, rejected",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CloseRequestResponse struct {
	ID                  string           `json:"id"`
	WorkerID            string           `json:"worker_id"`
	SiteID              *string          `json:"site_id"`
	ArrivalEventID      string           `json:"arrival_event_id"`
	ArrivalAt           string           `json:"arrival_at"`
	ReportedDepartureAt string           `json:"reported_left_at"`
	ForgetReason        string           `json:"forget_reason"`
	WorkDescription     string           `json:"note_work"`
	Km                  *decimal.Decimal `json:"km,omitempty"`
	MaterialDesc        *string          `json:"material_desc,omitempty"`
	MaterialAmount      *decimal.Decimal `json:"material_amount,omitempty"`
	Status              Status           `json:"status"`
	RequestedAt         string           `json:"requested_at"`
	DecidedAt           *string          `json:"decided_at,omitempty"`
	DecidedBy           *string          `json:"decided_by,omitempty"`
	DepartureEventID    *string          `json:"departure_event_id,omitempty"`
	DepartureAt         *string          `json:"departure_at,omitempty"`
}

type ListCloseRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Requests   []CloseRequestResponse `json:"requests"`
}
