package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinozal/ticket-office/internal/clock"
)

type fakeSource struct {
	intervals []HallInterval
}

func (f *fakeSource) IntervalsByHall(_ context.Context, _ uint64, _ Interval) ([]HallInterval, error) {
	return f.intervals, nil
}

type fakeSales struct {
	showtimeSold bool
	hallSold     bool
}

func (f *fakeSales) ShowtimeHasTickets(_ context.Context, _ uint64) (bool, error) {
	return f.showtimeSold, nil
}

func (f *fakeSales) HallHasTickets(_ context.Context, _ uint64) (bool, error) {
	return f.hallSold, nil
}

// The validator runs against a frozen clock: 2026-03-15 18:00 UTC.
var testNow = time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

func newTestValidator(t *testing.T, src *fakeSource, sales *fakeSales) *Validator {
	t.Helper()
	if src == nil {
		src = &fakeSource{}
	}
	if sales == nil {
		sales = &fakeSales{}
	}
	return NewValidator(clock.NewFixed(testNow), src, sales)
}

func candidate(t *testing.T, sd, fd, st, ft string) Candidate {
	t.Helper()
	startDate, err := ParseDate(sd)
	require.NoError(t, err)
	finishDate, err := ParseDate(fd)
	require.NoError(t, err)
	return Candidate{
		HallID: 1,
		Interval: Interval{
			StartDate:  startDate,
			FinishDate: finishDate,
			StartTime:  tod(t, st),
			FinishTime: tod(t, ft),
		},
	}
}

func TestValidateShowtime(t *testing.T) {
	ctx := context.Background()

	t.Run("finish date before start date", func(t *testing.T) {
		v := newTestValidator(t, nil, nil)
		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-20", "2026-03-18", "10:00", "12:00"), 0)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("same day start time at or after finish time", func(t *testing.T) {
		v := newTestValidator(t, nil, nil)
		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-20", "2026-03-20", "12:00", "12:00"), 0)
		assert.ErrorIs(t, err, ErrInvalidInterval)

		err = v.ValidateShowtime(ctx, candidate(t, "2026-03-20", "2026-03-20", "14:00", "12:00"), 0)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("midnight wrap allowed across days", func(t *testing.T) {
		v := newTestValidator(t, nil, nil)
		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-20", "2026-03-21", "23:00", "01:00"), 0)
		assert.NoError(t, err)
	})

	t.Run("start date in the past", func(t *testing.T) {
		v := newTestValidator(t, nil, nil)
		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-14", "2026-03-20", "10:00", "12:00"), 0)
		assert.ErrorIs(t, err, ErrPastSchedule)
	})

	t.Run("today with start time already passed", func(t *testing.T) {
		v := newTestValidator(t, nil, nil)
		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-15", "2026-03-20", "17:00", "19:00"), 0)
		assert.ErrorIs(t, err, ErrPastSchedule)
	})

	t.Run("today with start time still ahead", func(t *testing.T) {
		v := newTestValidator(t, nil, nil)
		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-15", "2026-03-20", "19:00", "21:00"), 0)
		assert.NoError(t, err)
	})

	t.Run("update locked once tickets are sold", func(t *testing.T) {
		v := newTestValidator(t, nil, &fakeSales{showtimeSold: true})
		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-20", "2026-03-21", "10:00", "12:00"), 42)
		assert.ErrorIs(t, err, ErrLockedForEditing)
	})

	t.Run("create ignores the sales lock", func(t *testing.T) {
		v := newTestValidator(t, nil, &fakeSales{showtimeSold: true})
		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-20", "2026-03-21", "10:00", "12:00"), 0)
		assert.NoError(t, err)
	})

	t.Run("overlap with existing showtime", func(t *testing.T) {
		existing := candidate(t, "2026-03-20", "2026-03-22", "10:00", "12:00")
		src := &fakeSource{intervals: []HallInterval{{ShowtimeID: 7, Interval: existing.Interval}}}
		v := newTestValidator(t, src, nil)

		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-21", "2026-03-21", "11:00", "13:00"), 0)
		assert.ErrorIs(t, err, ErrScheduleConflict)
	})

	t.Run("a showtime never conflicts with itself", func(t *testing.T) {
		existing := candidate(t, "2026-03-20", "2026-03-22", "10:00", "12:00")
		src := &fakeSource{intervals: []HallInterval{{ShowtimeID: 7, Interval: existing.Interval}}}
		v := newTestValidator(t, src, nil)

		err := v.ValidateShowtime(ctx, existing, 7)
		assert.NoError(t, err)
	})

	t.Run("rule order: calendar errors win over overlap", func(t *testing.T) {
		existing := candidate(t, "2026-03-14", "2026-03-20", "10:00", "12:00")
		src := &fakeSource{intervals: []HallInterval{{ShowtimeID: 7, Interval: existing.Interval}}}
		v := newTestValidator(t, src, nil)

		err := v.ValidateShowtime(ctx, candidate(t, "2026-03-14", "2026-03-20", "10:00", "12:00"), 0)
		assert.ErrorIs(t, err, ErrPastSchedule)
	})
}

func TestHallGuard(t *testing.T) {
	ctx := context.Background()

	g := NewHallGuard(&fakeSales{hallSold: true})
	ok, err := g.CanModify(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	g = NewHallGuard(&fakeSales{})
	ok, err = g.CanModify(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
