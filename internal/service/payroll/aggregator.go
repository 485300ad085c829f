package payroll

import (
	"sort"
	"strings"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
	"github.com/shopspring/decimal"
)

// Aggregator folds reconstructed segments and raw events into day summaries.
type Aggregator struct {
	clock *civiltime.Adapter
	rates *RateResolver
}

func NewAggregator(clock *civiltime.Adapter, rates *RateResolver) *Aggregator {
	return &Aggregator{clock: clock, rates: rates}
}

// Summarize returns one summary per requested day that has at least one event,
// in ascending day order. events must cover the days (plus any lookback used for
// rec); trips feed the mileage fallback.
func (a *Aggregator) Summarize(
	workerID string,
	days []string,
	events []attendance.Event,
	rec Reconstruction,
	trips []payroll.Trip,
) []payroll.DaySummary {
	wanted := make(map[string]bool, len(days))
	for _, d := range days {
		wanted[d] = true
	}

	eventsByDay := make(map[string][]attendance.Event)
	for _, e := range events {
		day := a.clock.CivilDay(e.OccurredAt)
		if !wanted[day] {
			continue
		}
		eventsByDay[day] = append(eventsByDay[day], e)
	}

	segmentsByDay := make(map[string][]payroll.WorkSegment)
	for _, s := range rec.Segments {
		segmentsByDay[s.Day] = append(segmentsByDay[s.Day], s)
	}

	offsitesByDay := make(map[string][]payroll.OffsiteItem)
	for _, o := range rec.Offsites {
		offsitesByDay[o.Day] = append(offsitesByDay[o.Day], o)
	}

	tripKmByDay := make(map[string]decimal.Decimal)
	for _, t := range trips {
		day := a.clock.CivilDay(t.StartedAt)
		tripKmByDay[day] = tripKmByDay[day].Add(t.Km)
	}

	sorted := make([]string, 0, len(eventsByDay))
	for day := range eventsByDay {
		sorted = append(sorted, day)
	}
	sort.Strings(sorted)

	summaries := make([]payroll.DaySummary, 0, len(sorted))
	for _, day := range sorted {
		summaries = append(summaries, a.AggregateDay(
			workerID,
			day,
			eventsByDay[day],
			segmentsByDay[day],
			offsitesByDay[day],
			tripKmByDay[day],
		))
	}

	return summaries
}

// AggregateDay computes one day's totals at full precision.
// dayEvents are the raw events whose instant falls on day. tripKm is used only
// when no departure of the day carries manual km.
func (a *Aggregator) AggregateDay(
	workerID string,
	day string,
	dayEvents []attendance.Event,
	segments []payroll.WorkSegment,
	offsites []payroll.OffsiteItem,
	tripKm decimal.Decimal,
) payroll.DaySummary {
	summary := payroll.DaySummary{
		WorkerID:     workerID,
		Day:          day,
		EventCount:   len(dayEvents),
		Segments:     segments,
		Offsites:     offsites,
		WorkHours:    decimal.Zero,
		OffsiteHours: decimal.Zero,
		HoursPay:     decimal.Zero,
		Km:           decimal.Zero,
		KmPay:        decimal.Zero,
		KmSource:     payroll.KmSourceNone,
		Material:     decimal.Zero,
	}

	for _, s := range segments {
		summary.WorkHours = summary.WorkHours.Add(s.Hours)
		summary.HoursPay = summary.HoursPay.Add(s.Pay)
	}
	for _, o := range offsites {
		summary.OffsiteHours = summary.OffsiteHours.Add(o.Hours)
		summary.HoursPay = summary.HoursPay.Add(o.Pay)
	}
	summary.Hours = summary.WorkHours.Add(summary.OffsiteHours)

	paid := len(dayEvents) > 0
	for i := range dayEvents {
		e := dayEvents[i]
		if !e.IsPaid {
			paid = false
		}

		switch e.Kind {
		case attendance.KindArrival:
			if summary.FirstArrival == nil || e.OccurredAt.Before(*summary.FirstArrival) {
				at := e.OccurredAt
				summary.FirstArrival = &at
			}
		case attendance.KindDeparture:
			if summary.LastDeparture == nil || e.OccurredAt.After(*summary.LastDeparture) {
				at := e.OccurredAt
				summary.LastDeparture = &at
			}
			if e.Km != nil && e.Km.IsPositive() {
				rate := a.rates.Resolve(e.SiteID).Km
				id := e.ID
				summary.KmLines = append(summary.KmLines, payroll.KmLine{
					EventID: &id,
					SiteID:  e.SiteID,
					Km:      *e.Km,
					Rate:    rate,
					Pay:     e.Km.Mul(rate),
					Source:  payroll.KmSourceManual,
				})
			}
		}

		if line, ok := materialLine(e); ok {
			summary.Materials = append(summary.Materials, line)
			summary.Material = summary.Material.Add(line.Amount)
		}
	}
	summary.Paid = paid

	if len(summary.KmLines) == 0 && tripKm.IsPositive() {
		rate := a.rates.Default().Km
		summary.KmLines = append(summary.KmLines, payroll.KmLine{
			Km:     tripKm,
			Rate:   rate,
			Pay:    tripKm.Mul(rate),
			Source: payroll.KmSourceTrips,
		})
	}

	for _, l := range summary.KmLines {
		summary.Km = summary.Km.Add(l.Km)
		summary.KmPay = summary.KmPay.Add(l.Pay)
		summary.KmSource = l.Source
	}

	summary.Total = summary.HoursPay.Add(summary.KmPay).Add(summary.Material)

	return summary
}

func materialLine(e attendance.Event) (payroll.MaterialLine, bool) {
	amount := decimal.Zero
	if e.MaterialAmount != nil {
		amount = *e.MaterialAmount
	}

	desc := ""
	if e.MaterialDesc != nil {
		desc = strings.TrimSpace(*e.MaterialDesc)
	}

	if amount.IsZero() && desc == "" {
		return payroll.MaterialLine{}, false
	}

	return payroll.MaterialLine{
		EventID:     e.ID,
		SiteID:      e.SiteID,
		Description: desc,
		Amount:      amount,
	}, true
}
