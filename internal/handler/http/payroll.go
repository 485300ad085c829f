package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	GetMySummary(w http.ResponseWriter, r *http.Request)
	GetWorkerSummary(w http.ResponseWriter, r *http.Request)
	GetSiteInvoice(w http.ResponseWriter, r *http.Request)
	GetPayouts(w http.ResponseWriter, r *http.Request)
	MarkDayPaid(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) GetMySummary(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := payroll.MySummaryRequest{WorkerID: claims.WorkerID}
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			response.BadRequest(w, "days must be a number", nil)
			return
		}
		req.Days = days
	}

	result, err := h.payrollService.GetMySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetWorkerSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetWorkerSummary(r.Context(), workerRangeFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetSiteInvoice(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetSiteInvoice(r.Context(), workerRangeFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayouts(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPayouts(r.Context(), payroll.PayoutsRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) MarkDayPaid(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.MarkDayPaid(r.Context(), payroll.MarkDayPaidRequest{
		WorkerID: chi.URLParam(r, "id"),
		Day:      chi.URLParam(r, "day"),
		PaidBy:   claims.WorkerID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day marked as paid", result)
}

func workerRangeFromRequest(r *http.Request) payroll.WorkerSummaryRequest {
	return payroll.WorkerSummaryRequest{
		WorkerID: chi.URLParam(r, "id"),
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
	}
}
