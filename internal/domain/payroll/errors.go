package payroll

import "errors"

var (
	ErrInvalidPeriod     = errors.New("invalid payroll period")
	ErrPeriodTooLong     = errors.New("payroll period exceeds the allowed number of days")
	ErrNoEventsForDay    = errors.New("no attendance events for this day")
	ErrDayAlreadyPaid    = errors.New("day is already marked as paid")
	ErrPaidCountMismatch = errors.New("events changed while marking the day as paid")
)
