package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
)

// FindOpenArrival returns the worker's latest arrival when it is later than the
// latest departure, or nil when no shift is open.
func FindOpenArrival(ctx context.Context, events attendance.EventRepository, workerID string) (*attendance.Event, error) {
	arrival, err := events.GetLatestByKind(ctx, workerID, attendance.KindArrival)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest arrival: %w", err)
	}
	if arrival == nil {
		return nil, nil
	}

	departure, err := events.GetLatestByKind(ctx, workerID, attendance.KindDeparture)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest departure: %w", err)
	}
	if departure != nil && !arrival.OccurredAt.After(departure.OccurredAt) {
		return nil, nil
	}

	return arrival, nil
}
