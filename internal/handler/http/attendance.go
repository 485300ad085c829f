package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	RecordArrival(w http.ResponseWriter, r *http.Request)
	RecordDeparture(w http.ResponseWriter, r *http.Request)
	RecordOffsite(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
	ListEvents(w http.ResponseWriter, r *http.Request)
	EditEventTime(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// RecordArrival implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordArrival(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.ArrivalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkerID = claims.WorkerID

	result, err := h.attendanceService.RecordArrival(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Arrival recorded", result)
}

// RecordDeparture implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordDeparture(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.DepartureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkerID = claims.WorkerID

	result, err := h.attendanceService.RecordDeparture(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Departure recorded", result)
}

// RecordOffsite implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordOffsite(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.OffsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkerID = claims.WorkerID

	result, err := h.attendanceService.RecordOffsite(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Off-site hours recorded", result)
}

// GetStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetStatus(r.Context(), claims.WorkerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListEvents implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.EventFilter{}

	if workerID := query.Get("worker_id"); workerID != "" {
		filter.WorkerID = &workerID
	}
	if kind := query.Get("kind"); kind != "" {
		filter.Kind = &kind
	}
	if from := query.Get("from"); from != "" {
		filter.From = &from
	}
	if to := query.Get("to"); to != "" {
		filter.To = &to
	}
	if isPaid := query.Get("is_paid"); isPaid != "" {
		paid, err := strconv.ParseBool(isPaid)
		if err != nil {
			response.BadRequest(w, "is_paid must be true or false", nil)
			return
		}
		filter.IsPaid = &paid
	}

	filter.Page, filter.Limit = parsePagination(r)

	result, err := h.attendanceService.ListEvents(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Events, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// EditEventTime implements AttendanceHandler.
func (h *attendanceHandlerImpl) EditEventTime(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.EditEventTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.EditedBy = claims.WorkerID

	result, err := h.attendanceService.EditEventTime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Event time updated", result)
}

// parsePagination reads page and limit, leaving zero values for the
// domain filters to default.
func parsePagination(r *http.Request) (page, limit int) {
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	return page, limit
}
