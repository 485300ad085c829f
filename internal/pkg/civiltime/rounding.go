package civiltime

import "time"

// RoundToHalfHour snaps t to the nearest half-hour boundary of civil time:
// minutes 0-14 go down to :00, 15-44 go to :30, 45-59 go up to the next hour.
// Seconds are dropped. The result is for pay computation only and must never
// be written back over a stored timestamp.
func (a *Adapter) RoundToHalfHour(t time.Time) time.Time {
	_, m := a.WallClock(t)
	base := t.Truncate(time.Minute)

	var delta int
	switch {
	case m < 15:
		delta = -m
	case m < 45:
		delta = 30 - m
	default:
		delta = 60 - m
	}

	return base.Add(time.Duration(delta) * time.Minute).UTC()
}
