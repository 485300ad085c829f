package repair

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/closerequest"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
)

// Tolerance bounds of the one-hour shift. Offsets outside it are never fixed.
const (
	MinOffset = 3500 * time.Second
	MaxOffset = 3700 * time.Second
)

// Fix moves one arrival onto the instant recorded by a close request.
type Fix struct {
	EventID   string
	WorkerID  string
	RequestID string
	From      time.Time
	To        time.Time
}

type matchKey struct {
	workerID string
	siteID   string
	day      string
}

type Matcher struct {
	clock *civiltime.Adapter
}

func NewMatcher(clock *civiltime.Adapter) *Matcher {
	return &Matcher{clock: clock}
}

// InTolerance reports whether the absolute offset is a correctable shift.
func InTolerance(offset time.Duration) bool {
	offset = offset.Abs()
	return offset >= MinOffset && offset <= MaxOffset
}

func (m *Matcher) key(workerID string, siteID *string, at time.Time) matchKey {
	k := matchKey{workerID: workerID, day: m.clock.CivilDay(at)}
	if siteID != nil {
		k.siteID = *siteID
	}
	return k
}

// Match pairs arrivals with close requests and returns one fix per arrival whose
// offset lies in tolerance. A request that names its arrival event only ever
// matches that event. Requests without one fall back to the same worker, site
// and civil day. Requests are tried in the given order; the first one in
// tolerance wins.
func (m *Matcher) Match(arrivals []attendance.Event, requests []closerequest.CloseRequest) []Fix {
	linked := make(map[string][]closerequest.CloseRequest)
	index := make(map[matchKey][]closerequest.CloseRequest, len(requests))
	for _, r := range requests {
		if r.ArrivalEventID != "" {
			linked[r.ArrivalEventID] = append(linked[r.ArrivalEventID], r)
			continue
		}
		k := m.key(r.WorkerID, r.SiteID, r.ArrivalAt)
		index[k] = append(index[k], r)
	}

	var fixes []Fix
	for _, e := range arrivals {
		if e.Kind != attendance.KindArrival {
			continue
		}

		candidates, ok := linked[e.ID]
		if !ok {
			candidates = index[m.key(e.WorkerID, e.SiteID, e.OccurredAt)]
		}

		for _, r := range candidates {
			offset := e.OccurredAt.Sub(r.ArrivalAt)
			if InTolerance(offset) {
				fixes = append(fixes, Fix{
					EventID:   e.ID,
					WorkerID:  e.WorkerID,
					RequestID: r.ID,
					From:      e.OccurredAt,
					To:        r.ArrivalAt,
				})
				break
			}
			if offset != 0 && offset.Abs() < 2*time.Hour {
				slog.Warn("arrival offset outside repair tolerance",
					"event_id", e.ID,
					"request_id", r.ID,
					"offset_seconds", int(offset.Seconds()),
				)
			}
		}
	}

	return fixes
}
