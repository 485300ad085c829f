package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/response"
)

type RepairHandler interface {
	RepairArrivalTimes(w http.ResponseWriter, r *http.Request)
}

type repairHandlerImpl struct {
	repairService     attendance.RepairService
	defaultWindowDays int
}

func NewRepairHandler(repairService attendance.RepairService, defaultWindowDays int) RepairHandler {
	return &repairHandlerImpl{
		repairService:     repairService,
		defaultWindowDays: defaultWindowDays,
	}
}

// RepairArrivalTimes implements RepairHandler.
func (h *repairHandlerImpl) RepairArrivalTimes(w http.ResponseWriter, r *http.Request) {
	days := h.defaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		d, err := strconv.Atoi(daysStr)
		if err != nil {
			response.BadRequest(w, "days must be a number", nil)
			return
		}
		days = d
	}

	result, err := h.repairService.RepairArrivalTimes(r.Context(), days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
