// Package schedule contains the showtime scheduling core: time-of-day and
// interval types, the hall overlap checker and the showtime validator. All
// logic in this package is pure; persistence is reached only through the
// small source interfaces declared here.
package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time expressed as seconds since midnight. Showtime
// start and finish times are stored as MySQL TIME columns and carried through
// the application as this type.
type TimeOfDay int

const (
	// Midnight is the first representable instant of a day.
	Midnight TimeOfDay = 0
	// EndOfDay is the last representable instant of a day (23:59:59). The
	// wraparound decomposition closes the first half of a wrapping range at
	// this value, matching the inclusive range checks used on TIME columns.
	EndOfDay TimeOfDay = 24*3600 - 1
)

// ParseTimeOfDay parses "HH:MM:SS" or "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		sec = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(h*3600 + m*60 + sec), nil
}

// TimeOfDayOf extracts the time-of-day component of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// String renders the value in the DB format "15:04:05".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}
