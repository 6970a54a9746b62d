package schedule

import "time"

// Interval is a showtime's scheduled slot: an inclusive calendar date range
// combined with a daily time-of-day range. A time range whose finish is
// numerically before its start wraps past midnight (e.g. 23:00-01:00), which
// is only meaningful when FinishDate is after StartDate.
type Interval struct {
	StartDate  time.Time // calendar date, midnight UTC
	FinishDate time.Time
	StartTime  TimeOfDay
	FinishTime TimeOfDay
}

// DateOnly truncates t to its calendar date at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// WrapsMidnight reports whether the daily time range crosses midnight.
func (iv Interval) WrapsMidnight() bool {
	return iv.StartTime > iv.FinishTime
}

// timeSegment is a non-wrapping, inclusive slice of a day.
type timeSegment struct {
	from, to TimeOfDay
}

// segments decomposes the daily time range into non-wrapping pieces. A
// wrapping range splits into [start, 23:59:59] and [00:00:00, finish]; a
// regular range is a single segment. Comparing segment pairs covers both the
// plain overlap pass and the midnight wraparound pass: for non-wrapping
// ranges it reduces to the standard formula, and a wrapping range conflicts
// whenever either of its halves does.
func (iv Interval) segments() []timeSegment {
	if iv.WrapsMidnight() {
		return []timeSegment{
			{from: iv.StartTime, to: EndOfDay},
			{from: Midnight, to: iv.FinishTime},
		}
	}
	return []timeSegment{{from: iv.StartTime, to: iv.FinishTime}}
}

// datesOverlap applies the inclusive range test [a,b] vs [c,d]: the ranges
// intersect iff a <= d and c <= b.
func datesOverlap(a, b, c, d time.Time) bool {
	return !a.After(d) && !c.After(b)
}

// ConflictsWith reports whether two intervals collide: their date ranges
// share at least one day and their daily time ranges intersect. The test is
// symmetric for non-wrapping ranges and decomposes both sides around
// midnight, so a 23:00-01:00 show conflicts with shows on either side of
// the date boundary.
func (iv Interval) ConflictsWith(other Interval) bool {
	if !datesOverlap(iv.StartDate, iv.FinishDate, other.StartDate, other.FinishDate) {
		return false
	}
	for _, a := range iv.segments() {
		for _, b := range other.segments() {
			if a.from <= b.to && b.from <= a.to {
				return true
			}
		}
	}
	return false
}
