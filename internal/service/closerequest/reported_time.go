package closerequest

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/civiltime"
)

var wallClockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ResolveDepartureTime turns the reported departure text into the instant written
// on approval. The text is a full date-time or a bare HH:MM on the arrival's civil
// day; anything else falls back to now. The result is rounded to the half hour and
// clamped into [arrivalAt, now]. A future time becomes now rounded to the half hour,
// or raw now when that rounding would land after now.
func ResolveDepartureTime(clock *civiltime.Adapter, reported string, arrivalAt time.Time) time.Time {
	now := clock.Now()

	at, ok := parseReportedTime(clock, reported, arrivalAt)
	if !ok {
		slog.Warn("unparseable reported departure time, using now",
			"reported", reported,
			"arrival_at", arrivalAt,
		)
		at = now
	}

	at = clock.RoundToHalfHour(at)

	ceiling := clock.RoundToHalfHour(now)
	if ceiling.After(now) {
		ceiling = now
	}

	switch {
	case at.After(ceiling) && ceiling.Before(arrivalAt):
		return arrivalAt
	case at.After(ceiling):
		return ceiling
	case at.Before(arrivalAt):
		return arrivalAt
	default:
		return at
	}
}

func parseReportedTime(clock *civiltime.Adapter, reported string, arrivalAt time.Time) (time.Time, bool) {
	s := strings.TrimSpace(reported)
	if s == "" {
		return time.Time{}, false
	}

	if at, ok := clock.ParseDateTime(s); ok {
		return at, true
	}

	m := wallClockPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	at, err := clock.ToInstant(clock.CivilDay(arrivalAt), hour, minute)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
