package payroll

import (
	"math"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// Reconstruction is the result of pairing one worker's event stream.
type Reconstruction struct {
	Segments []payroll.WorkSegment
	Offsites []payroll.OffsiteItem

	// OpenArrival is the arrival still waiting for a departure, if any.
	OpenArrival *attendance.Event

	// Orphans are departures with no pending arrival. They are dropped from payroll.
	Orphans []attendance.Event

	// Superseded are arrivals replaced by a later arrival before any departure.
	Superseded []attendance.Event
}

// Reconstructor pairs arrivals with departures and prices the result.
type Reconstructor struct {
	clock *civiltime.Adapter
	rates *RateResolver
}

func NewReconstructor(clock *civiltime.Adapter, rates *RateResolver) *Reconstructor {
	return &Reconstructor{clock: clock, rates: rates}
}

// Reconstruct scans events (one worker, ascending by instant). The last arrival
// before a departure wins.
func (r *Reconstructor) Reconstruct(events []attendance.Event) Reconstruction {
	var out Reconstruction
	var pending *attendance.Event

	for i := range events {
		e := events[i]

		switch e.Kind {
		case attendance.KindArrival:
			if pending != nil {
				out.Superseded = append(out.Superseded, *pending)
			}
			pending = &e

		case attendance.KindDeparture:
			if pending == nil {
				out.Orphans = append(out.Orphans, e)
				continue
			}
			out.Segments = append(out.Segments, r.segment(*pending, e))
			pending = nil

		case attendance.KindOffsite:
			out.Offsites = append(out.Offsites, r.offsite(e))
		}
	}

	out.OpenArrival = pending
	return out
}

func (r *Reconstructor) segment(arrival, departure attendance.Event) payroll.WorkSegment {
	siteID := arrival.SiteID
	if siteID == nil {
		siteID = departure.SiteID
	}

	roundedIn := r.clock.RoundToHalfHour(arrival.OccurredAt)
	roundedOut := r.clock.RoundToHalfHour(departure.OccurredAt)

	minutes := int64(math.Round(roundedOut.Sub(roundedIn).Minutes()))
	if minutes < 0 {
		minutes = 0
	}

	rate := r.rates.Resolve(siteID)
	hours := decimal.NewFromInt(minutes).Div(sixty)

	return payroll.WorkSegment{
		WorkerID:           arrival.WorkerID,
		Day:                r.clock.CivilDay(arrival.OccurredAt),
		SiteID:             siteID,
		ArrivalEventID:     arrival.ID,
		DepartureEventID:   departure.ID,
		ArrivalAt:          arrival.OccurredAt,
		DepartureAt:        departure.OccurredAt,
		RoundedArrivalAt:   roundedIn,
		RoundedDepartureAt: roundedOut,
		Minutes:            minutes,
		Hours:              hours,
		Rate:               rate,
		Pay:                decimal.NewFromInt(minutes).Mul(rate.Hourly).Div(sixty),
		WorkDescription:    departure.WorkDescription,
	}
}

func (r *Reconstructor) offsite(e attendance.Event) payroll.OffsiteItem {
	hours := decimal.Zero
	if e.OffsiteHours != nil {
		hours = *e.OffsiteHours
	}

	reason := ""
	if e.OffsiteReason != nil {
		reason = *e.OffsiteReason
	}

	rate := r.rates.Resolve(e.SiteID)

	return payroll.OffsiteItem{
		EventID: e.ID,
		Day:     r.clock.CivilDay(e.OccurredAt),
		SiteID:  e.SiteID,
		Reason:  reason,
		Hours:   hours,
		Rate:    rate,
		Pay:     hours.Mul(rate.Hourly),
	}
}
