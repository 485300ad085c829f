package payroll

import (
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Output precision. decimal.Round rounds half away from zero, which is half-up
// for the non-negative figures produced here.
func roundMoney(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
func roundHours(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
func roundKm(d decimal.Decimal) decimal.Decimal    { return d.Round(1) }

func (s *PayrollServiceImpl) formatInstant(t time.Time) string {
	return t.In(s.clock.Location()).Format(time.RFC3339)
}

func (s *PayrollServiceImpl) formatInstantPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := s.formatInstant(*t)
	return &formatted
}

func siteName(siteID *string, names map[string]string) *string {
	if siteID == nil {
		return nil
	}
	name, ok := names[*siteID]
	if !ok {
		return nil
	}
	return &name
}

func (s *PayrollServiceImpl) toSegmentResponse(seg payroll.WorkSegment, names map[string]string) payroll.SegmentResponse {
	return payroll.SegmentResponse{
		SiteID:             seg.SiteID,
		SiteName:           siteName(seg.SiteID, names),
		ArrivalAt:          s.formatInstant(seg.ArrivalAt),
		DepartureAt:        s.formatInstant(seg.DepartureAt),
		RoundedArrivalAt:   s.formatInstant(seg.RoundedArrivalAt),
		RoundedDepartureAt: s.formatInstant(seg.RoundedDepartureAt),
		Minutes:            seg.Minutes,
		Hours:              roundHours(seg.Hours),
		HourlyRate:         roundMoney(seg.Rate.Hourly),
		RateSource:         seg.Rate.Source,
		Pay:                roundMoney(seg.Pay),
		WorkDescription:    seg.WorkDescription,
	}
}

func toOffsiteResponse(o payroll.OffsiteItem, names map[string]string) payroll.OffsiteResponse {
	return payroll.OffsiteResponse{
		SiteID:     o.SiteID,
		SiteName:   siteName(o.SiteID, names),
		Reason:     o.Reason,
		Hours:      roundHours(o.Hours),
		HourlyRate: roundMoney(o.Rate.Hourly),
		RateSource: o.Rate.Source,
		Pay:        roundMoney(o.Pay),
	}
}

func toKmLineResponse(l payroll.KmLine) payroll.KmLineResponse {
	return payroll.KmLineResponse{
		SiteID: l.SiteID,
		Km:     roundKm(l.Km),
		Rate:   roundMoney(l.Rate),
		Pay:    roundMoney(l.Pay),
		Source: l.Source,
	}
}

func toMaterialResponse(m payroll.MaterialLine) payroll.MaterialResponse {
	return payroll.MaterialResponse{
		SiteID:      m.SiteID,
		Description: m.Description,
		Amount:      roundMoney(m.Amount),
	}
}

func (s *PayrollServiceImpl) toDaySummaryResponse(ds payroll.DaySummary, names map[string]string) payroll.DaySummaryResponse {
	resp := payroll.DaySummaryResponse{
		Day:           ds.Day,
		Paid:          ds.Paid,
		FirstArrival:  s.formatInstantPtr(ds.FirstArrival),
		LastDeparture: s.formatInstantPtr(ds.LastDeparture),
		Hours:         roundHours(ds.Hours),
		HoursPay:      roundMoney(ds.HoursPay),
		Km:            roundKm(ds.Km),
		KmPay:         roundMoney(ds.KmPay),
		KmSource:      ds.KmSource,
		Material:      roundMoney(ds.Material),
		MaterialNotes: []string{},
		Total:         roundMoney(ds.Total),
		Segments:      make([]payroll.SegmentResponse, 0, len(ds.Segments)),
		Offsites:      make([]payroll.OffsiteResponse, 0, len(ds.Offsites)),
		KmLines:       make([]payroll.KmLineResponse, 0, len(ds.KmLines)),
		Materials:     make([]payroll.MaterialResponse, 0, len(ds.Materials)),
	}

	for _, seg := range ds.Segments {
		resp.Segments = append(resp.Segments, s.toSegmentResponse(seg, names))
	}
	for _, o := range ds.Offsites {
		resp.Offsites = append(resp.Offsites, toOffsiteResponse(o, names))
	}
	for _, l := range ds.KmLines {
		resp.KmLines = append(resp.KmLines, toKmLineResponse(l))
	}
	for _, m := range ds.Materials {
		resp.Materials = append(resp.Materials, toMaterialResponse(m))
		if m.Description != "" {
			resp.MaterialNotes = append(resp.MaterialNotes, m.Description)
		}
	}

	return resp
}

func (s *PayrollServiceImpl) toWorkerSummaryResponse(c computed, from, to string) payroll.WorkerSummaryResponse {
	resp := payroll.WorkerSummaryResponse{
		WorkerID:   c.worker.ID,
		WorkerName: c.worker.Name,
		From:       from,
		To:         to,
		Days:       make([]payroll.DaySummaryResponse, 0, len(c.days)),
	}
	if c.openArrival != nil {
		resp.OpenArrivalAt = s.formatInstantPtr(&c.openArrival.OccurredAt)
	}

	totals := payroll.DaySummary{}
	unpaid := decimal.Zero
	for _, ds := range c.days {
		totals.Hours = totals.Hours.Add(ds.Hours)
		totals.HoursPay = totals.HoursPay.Add(ds.HoursPay)
		totals.Km = totals.Km.Add(ds.Km)
		totals.KmPay = totals.KmPay.Add(ds.KmPay)
		totals.Material = totals.Material.Add(ds.Material)
		totals.Total = totals.Total.Add(ds.Total)
		if !ds.Paid {
			unpaid = unpaid.Add(ds.Total)
		}

		resp.Days = append(resp.Days, s.toDaySummaryResponse(ds, c.siteNames))
	}

	resp.Totals = payroll.SummaryTotalsResponse{
		Hours:       roundHours(totals.Hours),
		HoursPay:    roundMoney(totals.HoursPay),
		Km:          roundKm(totals.Km),
		KmPay:       roundMoney(totals.KmPay),
		Material:    roundMoney(totals.Material),
		Total:       roundMoney(totals.Total),
		UnpaidTotal: roundMoney(unpaid),
	}

	return resp
}

func (s *PayrollServiceImpl) toSiteSummaryResponse(ss payroll.SiteSummary, names map[string]string) payroll.SiteSummaryResponse {
	resp := payroll.SiteSummaryResponse{
		SiteID:   ss.SiteID,
		SiteName: ss.SiteName,
		Totals: payroll.SiteTotalsResponse{
			Hours:          roundHours(ss.Totals.Hours),
			LaborAmount:    roundMoney(ss.Totals.LaborAmount),
			Km:             roundKm(ss.Totals.Km),
			TravelAmount:   roundMoney(ss.Totals.TravelAmount),
			MaterialAmount: roundMoney(ss.Totals.MaterialAmount),
			OffsiteHours:   roundHours(ss.Totals.OffsiteHours),
			OffsiteAmount:  roundMoney(ss.Totals.OffsiteAmount),
			Total:          roundMoney(ss.Totals.Total),
		},
		Days: make([]payroll.SiteDayResponse, 0, len(ss.Days)),
	}

	for _, d := range ss.Days {
		day := payroll.SiteDayResponse{
			Day:            d.Day,
			Segments:       make([]payroll.SegmentResponse, 0, len(d.Segments)),
			Offsites:       make([]payroll.OffsiteResponse, 0, len(d.Offsites)),
			Materials:      make([]payroll.MaterialResponse, 0, len(d.Materials)),
			Km:             decimal.Zero,
			KmAmount:       decimal.Zero,
			MaterialAmount: decimal.Zero,
			Total:          roundMoney(d.Total),
		}
		for _, seg := range d.Segments {
			day.Segments = append(day.Segments, s.toSegmentResponse(seg, names))
		}
		for _, o := range d.Offsites {
			day.Offsites = append(day.Offsites, toOffsiteResponse(o, names))
		}
		for _, l := range d.KmLines {
			day.Km = day.Km.Add(l.Km)
			day.KmAmount = day.KmAmount.Add(l.Pay)
		}
		for _, m := range d.Materials {
			day.Materials = append(day.Materials, toMaterialResponse(m))
			day.MaterialAmount = day.MaterialAmount.Add(m.Amount)
		}
		day.Km = roundKm(day.Km)
		day.KmAmount = roundMoney(day.KmAmount)
		day.MaterialAmount = roundMoney(day.MaterialAmount)

		resp.Days = append(resp.Days, day)
	}

	return resp
}
