package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tod(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func TestParseTimeOfDay(t *testing.T) {
	v, err := ParseTimeOfDay("14:30:15")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(14*3600+30*60+15), v)
	assert.Equal(t, "14:30:15", v.String())

	v, err = ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*3600+5*60), v)

	for _, bad := range []string{"25:00:00", "12:60:00", "12:00:60", "noon", ""} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeOfDayOf(t *testing.T) {
	at := time.Date(2026, 3, 15, 18, 45, 30, 0, time.UTC)
	assert.Equal(t, tod(t, "18:45:30"), TimeOfDayOf(at))
}

func TestConflictsWith(t *testing.T) {
	mk := func(sd, fd time.Time, st, ft string) Interval {
		return Interval{StartDate: sd, FinishDate: fd, StartTime: tod(t, st), FinishTime: tod(t, ft)}
	}
	d10 := date(2026, 3, 10)
	d11 := date(2026, 3, 11)
	d12 := date(2026, 3, 12)
	d20 := date(2026, 3, 20)

	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{
			name: "disjoint dates never conflict",
			a:    mk(d10, d11, "10:00", "12:00"),
			b:    mk(d12, d20, "10:00", "12:00"),
			want: false,
		},
		{
			name: "shared day, overlapping times",
			a:    mk(d10, d12, "10:00", "12:00"),
			b:    mk(d11, d11, "11:00", "13:00"),
			want: true,
		},
		{
			name: "shared day, disjoint times",
			a:    mk(d10, d12, "10:00", "12:00"),
			b:    mk(d11, d11, "14:00", "16:00"),
			want: false,
		},
		{
			name: "touching boundaries conflict",
			a:    mk(d10, d10, "10:00", "12:00"),
			b:    mk(d10, d10, "12:00", "14:00"),
			want: true,
		},
		{
			name: "wrapping show conflicts past midnight",
			a:    mk(d10, d11, "23:00", "01:00"),
			b:    mk(d11, d11, "00:30", "02:00"),
			want: true,
		},
		{
			name: "wrapping show conflicts before midnight",
			a:    mk(d10, d11, "23:00", "01:00"),
			b:    mk(d10, d10, "22:30", "23:30"),
			want: true,
		},
		{
			name: "wrapping show leaves the middle of the day free",
			a:    mk(d10, d11, "23:00", "01:00"),
			b:    mk(d10, d11, "12:00", "14:00"),
			want: false,
		},
		{
			name: "two wrapping shows",
			a:    mk(d10, d11, "23:00", "01:00"),
			b:    mk(d11, d12, "22:00", "00:30"),
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.ConflictsWith(tc.b))
			assert.Equal(t, tc.want, tc.b.ConflictsWith(tc.a), "conflict test must be symmetric")
		})
	}
}

func TestWrapsMidnight(t *testing.T) {
	iv := Interval{StartTime: tod(t, "23:00"), FinishTime: tod(t, "01:00")}
	assert.True(t, iv.WrapsMidnight())

	iv = Interval{StartTime: tod(t, "10:00"), FinishTime: tod(t, "12:00")}
	assert.False(t, iv.WrapsMidnight())
}
