// Package civiltime is the single authority for converting between absolute
// instants and the business's civil calendar (one fixed IANA zone).
package civiltime

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DefaultZone = "Europe/Prague"
	DayLayout   = "2006-01-02"
)

// Adapter converts instants to civil days and wall-clock times in one zone.
type Adapter struct {
	loc *time.Location
	now func() time.Time
}

// New returns an Adapter for the given IANA zone name.
func New(zone string) (*Adapter, error) {
	if strings.TrimSpace(zone) == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load civil timezone %q: %w", zone, err)
	}
	return &Adapter{loc: loc, now: time.Now}, nil
}

// MustNew is New for package-level setup and tests.
func MustNew(zone string) *Adapter {
	a, err := New(zone)
	if err != nil {
		panic(err)
	}
	return a
}

// WithClock returns a copy of the adapter that reads "now" from fn.
func (a *Adapter) WithClock(fn func() time.Time) *Adapter {
	return &Adapter{loc: a.loc, now: fn}
}

func (a *Adapter) Location() *time.Location {
	return a.loc
}

// Now returns the current instant, truncated to whole seconds.
func (a *Adapter) Now() time.Time {
	return a.now().UTC().Truncate(time.Second)
}

// CivilDay returns the YYYY-MM-DD calendar day of t in civil time.
func (a *Adapter) CivilDay(t time.Time) string {
	return t.In(a.loc).Format(DayLayout)
}

// WallClock returns the civil hour and minute of t.
func (a *Adapter) WallClock(t time.Time) (hour, minute int) {
	local := t.In(a.loc)
	return local.Hour(), local.Minute()
}

// ToInstant resolves a civil day and wall-clock time to an absolute instant.
//
// The wall time is first projected as if it were UTC, then shifted by the
// zone offset in effect at the projected instant. The shift is applied a
// second time with the offset at the corrected instant, which settles times
// inside a daylight-saving gap or overlap onto a single deterministic instant.
func (a *Adapter) ToInstant(day string, hour, minute int) (time.Time, error) {
	d, err := time.Parse(DayLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid civil day %q: %w", day, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid wall-clock time %02d:%02d", hour, minute)
	}

	naive := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
	inst := naive.Add(-a.offsetAt(naive))
	inst = naive.Add(-a.offsetAt(inst))
	return inst, nil
}

// DayRange returns the half-open instant range [start, end) covering day.
func (a *Adapter) DayRange(day string) (start, end time.Time, err error) {
	start, err = a.ToInstant(day, 0, 0)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	next, err := a.AddDays(day, 1)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = a.ToInstant(next, 0, 0)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// AddDays shifts a civil day by n calendar days.
func (a *Adapter) AddDays(day string, n int) (string, error) {
	d, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", fmt.Errorf("invalid civil day %q: %w", day, err)
	}
	return d.AddDate(0, 0, n).Format(DayLayout), nil
}

var localLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDateTime parses a full date-time. RFC3339 input is taken as an absolute
// instant; zone-less input is read as civil wall-clock time.
func (a *Adapter) ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range localLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		inst, err := a.ToInstant(t.Format(DayLayout), t.Hour(), t.Minute())
		if err != nil {
			return time.Time{}, false
		}
		return inst.Add(time.Duration(t.Second()) * time.Second), true
	}
	return time.Time{}, false
}

func (a *Adapter) offsetAt(t time.Time) time.Duration {
	_, offset := t.In(a.loc).Zone()
	return time.Duration(offset) * time.Second
}
