// errors.go defines the sentinel errors shared by the scheduling core.
// Handlers match these with errors.Is to choose an HTTP status; the wrapped
// message carries the user-facing reason.
package schedule

import "errors"

// ErrInvalidInterval is returned when a showtime's date/time ordering is
// inconsistent (finish before start, or a same-day range with start time at
// or after finish time).
var ErrInvalidInterval = errors.New("invalid interval")

// ErrPastSchedule is returned when a showtime would start, or a ticket would
// be purchased, at a moment that has already elapsed.
var ErrPastSchedule = errors.New("schedule is in the past")

// ErrScheduleConflict is returned when a showtime overlaps another showtime
// in the same hall.
var ErrScheduleConflict = errors.New("schedule conflict")

// ErrLockedForEditing is returned when a hall or showtime cannot be modified
// because tickets have already been sold against it.
var ErrLockedForEditing = errors.New("locked for editing")
