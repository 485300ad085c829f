package payroll

import (
	"sort"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

const UnassignedSiteName = "Unassigned"

const unassignedKey = ""

type siteBucket struct {
	summary payroll.SiteSummary
	days    map[string]*payroll.SiteDay
}

func (b *siteBucket) day(day string) *payroll.SiteDay {
	d, ok := b.days[day]
	if !ok {
		d = &payroll.SiteDay{Day: day, Total: decimal.Zero}
		b.days[day] = d
	}
	return d
}

// RollupBySite regroups day summaries per site for the invoice view.
// Items without a site, and trip-log mileage, land in the unassigned bucket,
// which is always listed last.
func RollupBySite(days []payroll.DaySummary, siteNames map[string]string) []payroll.SiteSummary {
	buckets := make(map[string]*siteBucket)

	bucketFor := func(siteID *string) *siteBucket {
		key := unassignedKey
		if siteID != nil {
			key = *siteID
		}
		b, ok := buckets[key]
		if ok {
			return b
		}

		b = &siteBucket{
			summary: payroll.SiteSummary{SiteName: UnassignedSiteName, Totals: zeroTotals()},
			days:    make(map[string]*payroll.SiteDay),
		}
		if siteID != nil {
			id := *siteID
			b.summary.SiteID = &id
			b.summary.SiteName = siteNames[id]
			if b.summary.SiteName == "" {
				b.summary.SiteName = id
			}
		}
		buckets[key] = b
		return b
	}

	for _, ds := range days {
		for _, s := range ds.Segments {
			b := bucketFor(s.SiteID)
			d := b.day(ds.Day)
			d.Segments = append(d.Segments, s)
			d.Total = d.Total.Add(s.Pay)
			b.summary.Totals.Hours = b.summary.Totals.Hours.Add(s.Hours)
			b.summary.Totals.LaborAmount = b.summary.Totals.LaborAmount.Add(s.Pay)
		}

		for _, o := range ds.Offsites {
			b := bucketFor(o.SiteID)
			d := b.day(ds.Day)
			d.Offsites = append(d.Offsites, o)
			d.Total = d.Total.Add(o.Pay)
			b.summary.Totals.OffsiteHours = b.summary.Totals.OffsiteHours.Add(o.Hours)
			b.summary.Totals.OffsiteAmount = b.summary.Totals.OffsiteAmount.Add(o.Pay)
		}

		for _, l := range ds.KmLines {
			siteID := l.SiteID
			if l.Source == payroll.KmSourceTrips {
				siteID = nil
			}
			b := bucketFor(siteID)
			d := b.day(ds.Day)
			d.KmLines = append(d.KmLines, l)
			d.Total = d.Total.Add(l.Pay)
			b.summary.Totals.Km = b.summary.Totals.Km.Add(l.Km)
			b.summary.Totals.TravelAmount = b.summary.Totals.TravelAmount.Add(l.Pay)
		}

		for _, m := range ds.Materials {
			b := bucketFor(m.SiteID)
			d := b.day(ds.Day)
			d.Materials = append(d.Materials, m)
			d.Total = d.Total.Add(m.Amount)
			b.summary.Totals.MaterialAmount = b.summary.Totals.MaterialAmount.Add(m.Amount)
		}
	}

	out := make([]payroll.SiteSummary, 0, len(buckets))
	for _, b := range buckets {
		t := &b.summary.Totals
		t.Total = t.LaborAmount.Add(t.OffsiteAmount).Add(t.TravelAmount).Add(t.MaterialAmount)

		dayKeys := make([]string, 0, len(b.days))
		for k := range b.days {
			dayKeys = append(dayKeys, k)
		}
		sort.Strings(dayKeys)
		for _, k := range dayKeys {
			b.summary.Days = append(b.summary.Days, *b.days[k])
		}

		out = append(out, b.summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].SiteID == nil) != (out[j].SiteID == nil) {
			return out[j].SiteID == nil
		}
		return out[i].SiteName < out[j].SiteName
	})

	return out
}

func zeroTotals() payroll.SiteTotals {
	return payroll.SiteTotals{
		Hours:          decimal.Zero,
		LaborAmount:    decimal.Zero,
		Km:             decimal.Zero,
		TravelAmount:   decimal.Zero,
		MaterialAmount: decimal.Zero,
		OffsiteHours:   decimal.Zero,
		OffsiteAmount:  decimal.Zero,
		Total:          decimal.Zero,
	}
}
