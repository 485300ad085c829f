package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CloseRequestHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type closeRequestHandlerImpl struct {
	closeRequestService closerequest.CloseRequestService
}

func NewCloseRequestHandler(closeRequestService closerequest.CloseRequestService) CloseRequestHandler {
	return &closeRequestHandlerImpl{
		closeRequestService: closeRequestService,
	}
}

// Create implements CloseRequestHandler.
func (h *closeRequestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req closerequest.CreateCloseRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.WorkerID = claims.WorkerID

	result, err := h.closeRequestService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Close request submitted", result)
}

// List implements CloseRequestHandler.
func (h *closeRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := closerequest.CloseRequestFilter{}

	if workerID := r.URL.Query().Get("worker_id"); workerID != "" {
		filter.WorkerID = &workerID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	filter.Page, filter.Limit = parsePagination(r)

	result, err := h.closeRequestService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements CloseRequestHandler.
func (h *closeRequestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.closeRequestService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements CloseRequestHandler. The body is optional.
func (h *closeRequestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req closerequest.ApproveCloseRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.AdminID = claims.WorkerID

	result, err := h.closeRequestService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Close request processed", result)
}

// Reject implements CloseRequestHandler.
func (h *closeRequestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.closeRequestService.Reject(r.Context(), chi.URLParam(r, "id"), claims.WorkerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Close request processed", result)
}
