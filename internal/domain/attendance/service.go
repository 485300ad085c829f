package attendance

import (
	"context"
)

// AttendanceService records raw events after geofence and pairing checks
type AttendanceService interface {
	// RecordArrival opens a shift on a site
	RecordArrival(ctx context.Context, req ArrivalRequest) (EventResponse, error)

	// RecordDeparture closes the worker's open arrival
	RecordDeparture(ctx context.Context, req DepartureRequest) (EventResponse, error)

	// RecordOffsite stores a self-contained block of off-site hours
	RecordOffsite(ctx context.Context, req OffsiteRequest) (EventResponse, error)

	// GetStatus reports the worker's open arrival and pending close request
	GetStatus(ctx context.Context, workerID string) (StatusResponse, error)

	// ListEvents lists raw events (admin)
	ListEvents(ctx context.Context, filter EventFilter) (ListEventResponse, error)

	// EditEventTime corrects an event's instant (admin, audited)
	EditEventTime(ctx context.Context, req EditEventTimeRequest) (EventResponse, error)
}

// RepairService corrects arrivals shifted by about one hour against close requests
type RepairService interface {
	// RepairArrivalTimes scans the last windowDays days and fixes matches in tolerance
	RepairArrivalTimes(ctx context.Context, windowDays int) (RepairResult, error)
}
