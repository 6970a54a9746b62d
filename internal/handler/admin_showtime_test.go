package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinozal/ticket-office/internal/repository"
	"github.com/kinozal/ticket-office/internal/schedule"
)

func storedShowtime(t *testing.T) *repository.Showtime {
	t.Helper()
	st, err := schedule.ParseTimeOfDay("18:00")
	require.NoError(t, err)
	ft, err := schedule.ParseTimeOfDay("20:00")
	require.NoError(t, err)
	return &repository.Showtime{
		ID:         3,
		HallID:     1,
		Title:      "Stalker",
		StartDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		FinishDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		StartTime:  st,
		FinishTime: ft,
		PriceCents: 1200,
	}
}

func TestMergeShowtime(t *testing.T) {
	t.Run("empty body keeps every stored value", func(t *testing.T) {
		cur := storedShowtime(t)
		merged, price := mergeShowtime(cur, showtimeBody{})

		assert.Equal(t, cur.HallID, merged.HallID)
		assert.Equal(t, "Stalker", merged.Title)
		assert.Equal(t, "2026-04-01", merged.StartDate)
		assert.Equal(t, "2026-04-10", merged.FinishDate)
		assert.Equal(t, "18:00:00", merged.StartTime)
		assert.Equal(t, "20:00:00", merged.FinishTime)
		assert.Equal(t, uint32(1200), price)
	})

	t.Run("hall_id moves the showtime", func(t *testing.T) {
		cur := storedShowtime(t)
		merged, _ := mergeShowtime(cur, showtimeBody{HallID: 2})
		assert.Equal(t, uint64(2), merged.HallID)
	})

	t.Run("partial fields overlay the stored ones", func(t *testing.T) {
		cur := storedShowtime(t)
		newPrice := uint32(900)
		merged, price := mergeShowtime(cur, showtimeBody{
			StartTime:  "21:00",
			FinishTime: "23:00",
			PriceCents: &newPrice,
		})

		assert.Equal(t, "21:00", merged.StartTime)
		assert.Equal(t, "23:00", merged.FinishTime)
		assert.Equal(t, "2026-04-01", merged.StartDate)
		assert.Equal(t, uint32(900), price)
	})

	t.Run("zero price is an explicit value, not an omission", func(t *testing.T) {
		cur := storedShowtime(t)
		free := uint32(0)
		_, price := mergeShowtime(cur, showtimeBody{PriceCents: &free})
		assert.Equal(t, uint32(0), price)
	})

	t.Run("merged body survives interval parsing", func(t *testing.T) {
		cur := storedShowtime(t)
		merged, _ := mergeShowtime(cur, showtimeBody{HallID: 2, StartDate: "2026-04-05"})
		iv, msg := parseInterval(merged)
		require.Empty(t, msg)
		assert.Equal(t, time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), iv.StartDate)
	})
}
