package civiltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestToInstant(t *testing.T) {
	a := MustNew(DefaultZone)

	tests := []struct {
		name   string
		day    string
		hour   int
		minute int
		want   string
	}{
		{"winter offset", "2025-01-15", 8, 0, "2025-01-15T07:00:00Z"},
		{"summer offset", "2025-07-01", 8, 0, "2025-07-01T06:00:00Z"},
		{"midnight", "2025-07-01", 0, 0, "2025-06-30T22:00:00Z"},
		{"spring gap resolves forward", "2025-03-30", 2, 30, "2025-03-30T01:30:00Z"},
		{"before spring gap", "2025-03-30", 1, 50, "2025-03-30T00:50:00Z"},
		{"autumn overlap resolves to standard time", "2025-10-26", 2, 30, "2025-10-26T01:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.ToInstant(tt.day, tt.hour, tt.minute)
			require.NoError(t, err)
			assert.Equal(t, utc(tt.want), got)
		})
	}
}

func TestToInstant_Invalid(t *testing.T) {
	a := MustNew(DefaultZone)

	_, err := a.ToInstant("2025-13-01", 8, 0)
	assert.Error(t, err)

	_, err = a.ToInstant("2025-01-01", 24, 0)
	assert.Error(t, err)

	_, err = a.ToInstant("2025-01-01", 8, 60)
	assert.Error(t, err)
}

func TestCivilDayAndWallClock(t *testing.T) {
	a := MustNew(DefaultZone)

	// 23:30 UTC in summer is already the next civil day
	inst := utc("2025-06-30T23:30:00Z")
	assert.Equal(t, "2025-07-01", a.CivilDay(inst))
	h, m := a.WallClock(inst)
	assert.Equal(t, 1, h)
	assert.Equal(t, 30, m)

	day := "2025-10-26"
	for hour := 0; hour < 24; hour++ {
		got, err := a.ToInstant(day, hour, 15)
		require.NoError(t, err)
		assert.Equal(t, day, a.CivilDay(got), "hour %d", hour)
	}
}

func TestDayRange(t *testing.T) {
	a := MustNew(DefaultZone)

	start, end, err := a.DayRange("2025-03-30")
	require.NoError(t, err)
	assert.Equal(t, utc("2025-03-29T23:00:00Z"), start)
	assert.Equal(t, utc("2025-03-30T22:00:00Z"), end)
	assert.Equal(t, 23*time.Hour, end.Sub(start))

	start, end, err = a.DayRange("2025-10-26")
	require.NoError(t, err)
	assert.Equal(t, 25*time.Hour, end.Sub(start))
}

func TestParseDateTime(t *testing.T) {
	a := MustNew(DefaultZone)

	got, ok := a.ParseDateTime("2025-02-12 16:50")
	require.True(t, ok)
	assert.Equal(t, utc("2025-02-12T15:50:00Z"), got)

	got, ok = a.ParseDateTime("2025-02-12T16:50:30")
	require.True(t, ok)
	assert.Equal(t, utc("2025-02-12T15:50:30Z"), got)

	got, ok = a.ParseDateTime("2025-02-12T16:50:00+01:00")
	require.True(t, ok)
	assert.Equal(t, utc("2025-02-12T15:50:00Z"), got)

	_, ok = a.ParseDateTime("16:50")
	assert.False(t, ok)

	_, ok = a.ParseDateTime("")
	assert.False(t, ok)
}

func TestWithClock(t *testing.T) {
	fixed := utc("2025-05-05T10:00:00.750Z")
	a := MustNew(DefaultZone).WithClock(func() time.Time { return fixed })

	assert.Equal(t, utc("2025-05-05T10:00:00Z"), a.Now())
}
