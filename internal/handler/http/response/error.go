package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWorkerClaimMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Worker and site errors
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, worker.ErrWorkerInactive):
		Forbidden(w, "Worker account is not active")
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")
	case errors.Is(err, site.ErrSiteNotActive):
		BadRequest(w, "Site is not active", nil)

	// Attendance errors
	case errors.Is(err, attendance.ErrOutsideGeofence):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrArrivalAlreadyOpen):
		Conflict(w, "Shift already started, record a departure first")
	case errors.Is(err, attendance.ErrNoOpenArrival):
		Conflict(w, "No open arrival to close")
	case errors.Is(err, attendance.ErrEventNotFound):
		NotFound(w, "Attendance event not found")
	case errors.Is(err, attendance.ErrInvalidEventTime),
		errors.Is(err, attendance.ErrEventTimeInFuture):
		BadRequest(w, err.Error(), nil)

	// Close request errors
	case errors.Is(err, closerequest.ErrCloseRequestNotFound):
		NotFound(w, "Close request not found")
	case errors.Is(err, closerequest.ErrPendingRequestExists):
		Conflict(w, "A close request is already waiting for approval")
	case errors.Is(err, closerequest.ErrCloseRequestAlreadyProcessed):
		Conflict(w, "Close request already processed")

	// Payroll errors
	case errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrPeriodTooLong):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrNoEventsForDay):
		NotFound(w, "No attendance events for this day")
	case errors.Is(err, payroll.ErrDayAlreadyPaid):
		Conflict(w, "Day is already marked as paid")
	case errors.Is(err, payroll.ErrPaidCountMismatch):
		Conflict(w, "Events changed while marking the day as paid, retry")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
