package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
)

// RepairJobs contains the scheduled arrival-time repair
type RepairJobs struct {
	repairService attendance.RepairService
	schedule      string
	windowDays    int
}

// NewRepairJobs creates repair cron jobs
func NewRepairJobs(repairService attendance.RepairService, schedule string, windowDays int) *RepairJobs {
	return &RepairJobs{
		repairService: repairService,
		schedule:      schedule,
		windowDays:    windowDays,
	}
}

// RegisterJobs registers all repair-related cron jobs
func (j *RepairJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob("repair_arrival_times", j.schedule, 10*time.Minute, j.RepairArrivalTimes)
}

// RepairArrivalTimes runs the repair over the configured window
func (j *RepairJobs) RepairArrivalTimes(ctx context.Context) error {
	result, err := j.repairService.RepairArrivalTimes(ctx, j.windowDays)
	if err != nil {
		return fmt.Errorf("failed to repair arrival times: %w", err)
	}

	if result.Fixed > 0 {
		slog.Info("Cron: Repaired arrival times", "fixed", result.Fixed, "matched", result.Matched)
	}
	return nil
}
