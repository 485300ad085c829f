package payroll

import (
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/worker"
	"github.com/shopspring/decimal"
)

// RateResolver prices one worker on any site.
type RateResolver struct {
	defaults  payroll.Rate
	overrides map[string]worker.RateOverride
}

// NewRateResolver indexes the worker's overrides by site. Overrides that belong
// to another worker are ignored.
func NewRateResolver(w worker.Worker, overrides []worker.RateOverride) *RateResolver {
	defaults := payroll.Rate{
		Hourly: decimal.Zero,
		Km:     decimal.Zero,
		Source: payroll.RateSourceDefault,
	}
	if w.HourlyRate != nil {
		defaults.Hourly = *w.HourlyRate
	}
	if w.KmRate != nil {
		defaults.Km = *w.KmRate
	}

	bySite := make(map[string]worker.RateOverride, len(overrides))
	for _, o := range overrides {
		if o.WorkerID != w.ID {
			continue
		}
		bySite[o.SiteID] = o
	}

	return &RateResolver{defaults: defaults, overrides: bySite}
}

// Resolve returns the site override when one exists, otherwise the worker defaults.
func (r *RateResolver) Resolve(siteID *string) payroll.Rate {
	if siteID != nil {
		if o, ok := r.overrides[*siteID]; ok {
			return payroll.Rate{
				Hourly: o.HourlyRate,
				Km:     o.KmRate,
				Source: payroll.RateSourceSite,
			}
		}
	}
	return r.defaults
}

// Default returns the worker's default rates.
func (r *RateResolver) Default() payroll.Rate {
	return r.defaults
}
