package booking

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinozal/ticket-office/internal/clock"
	"github.com/kinozal/ticket-office/internal/schedule"
)

var errShowtimeMissing = errors.New("showtime missing")

type fakeStore struct {
	showtime *Showtime
	capacity uint32
	sold     uint32

	inserted []*Ticket
	spent    map[uint64]uint64
	txDepth  int
}

func newFakeStore(st *Showtime, capacity, sold uint32) *fakeStore {
	return &fakeStore{showtime: st, capacity: capacity, sold: sold, spent: map[uint64]uint64{}}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txDepth++
	defer func() { f.txDepth-- }()
	return fn(ctx)
}

func (f *fakeStore) ShowtimeForUpdate(_ context.Context, id uint64) (*Showtime, error) {
	if f.showtime == nil || f.showtime.ID != id {
		return nil, errShowtimeMissing
	}
	cp := *f.showtime
	return &cp, nil
}

func (f *fakeStore) HallCapacity(_ context.Context, _ uint64) (uint32, error) {
	return f.capacity, nil
}

func (f *fakeStore) SoldQuantity(_ context.Context, _ uint64, _ time.Time) (uint32, error) {
	return f.sold, nil
}

func (f *fakeStore) InsertTicket(_ context.Context, t *Ticket) error {
	if f.txDepth == 0 {
		return errors.New("insert outside transaction")
	}
	t.ID = uint64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, t)
	return nil
}

func (f *fakeStore) AddSpent(_ context.Context, userID uint64, amountCents uint64) error {
	if f.txDepth == 0 {
		return errors.New("spend update outside transaction")
	}
	f.spent[userID] += amountCents
	return nil
}

// Frozen at 2026-03-15 12:00 UTC for every purchase test.
var purchaseNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func eveningShow(t *testing.T) *Showtime {
	t.Helper()
	st, err := schedule.ParseTimeOfDay("20:00")
	require.NoError(t, err)
	return &Showtime{ID: 1, HallID: 1, StartTime: st, PriceCents: 1500}
}

func TestPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("quantity must be positive", func(t *testing.T) {
		store := newFakeStore(eveningShow(t), 100, 0)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		for _, qty := range []int{0, -3} {
			_, err := acc.Purchase(ctx, 5, 1, time.Time{}, qty)
			assert.ErrorIs(t, err, ErrInvalidQuantity)
		}
		assert.Empty(t, store.inserted)
		assert.Empty(t, store.spent)
	})

	t.Run("quantity beyond the storable range", func(t *testing.T) {
		store := newFakeStore(eveningShow(t), 50, 47)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		// 1<<32 truncates to zero as uint32 and would pass the capacity
		// comparison if cast before being bounds-checked.
		_, err := acc.Purchase(ctx, 5, 1, time.Time{}, 1<<32)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = acc.Purchase(ctx, 5, 1, time.Time{}, math.MaxInt32+1)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		assert.Empty(t, store.inserted)
		assert.Empty(t, store.spent)
	})

	t.Run("unknown showtime", func(t *testing.T) {
		store := newFakeStore(nil, 100, 0)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		_, err := acc.Purchase(ctx, 5, 99, time.Time{}, 2)
		assert.ErrorIs(t, err, errShowtimeMissing)
	})

	t.Run("zero date defaults to today and charges price times quantity", func(t *testing.T) {
		store := newFakeStore(eveningShow(t), 100, 0)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		ticket, err := acc.Purchase(ctx, 5, 1, time.Time{}, 3)
		require.NoError(t, err)

		assert.Equal(t, uint64(5), ticket.UserID)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), ticket.PurchaseDate)
		assert.Equal(t, uint32(3), ticket.Quantity)
		assert.Equal(t, uint64(4500), ticket.AmountCents)
		require.Len(t, store.inserted, 1)
		assert.Equal(t, uint64(4500), store.spent[5])
	})

	t.Run("exact remaining capacity sells out", func(t *testing.T) {
		store := newFakeStore(eveningShow(t), 50, 47)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		ticket, err := acc.Purchase(ctx, 5, 1, time.Time{}, 3)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), ticket.Quantity)
	})

	t.Run("one over remaining capacity is rejected", func(t *testing.T) {
		store := newFakeStore(eveningShow(t), 50, 47)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		_, err := acc.Purchase(ctx, 5, 1, time.Time{}, 4)
		assert.ErrorIs(t, err, ErrInsufficientCapacity)
		assert.Empty(t, store.inserted)
		assert.Empty(t, store.spent)
	})

	t.Run("oversold showtime leaves zero remaining", func(t *testing.T) {
		store := newFakeStore(eveningShow(t), 50, 60)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		_, err := acc.Purchase(ctx, 5, 1, time.Time{}, 1)
		assert.ErrorIs(t, err, ErrInsufficientCapacity)
	})

	t.Run("sales close once today's show has started", func(t *testing.T) {
		st, err := schedule.ParseTimeOfDay("10:00")
		require.NoError(t, err)
		store := newFakeStore(&Showtime{ID: 1, HallID: 1, StartTime: st, PriceCents: 1500}, 100, 0)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		_, err = acc.Purchase(ctx, 5, 1, time.Time{}, 2)
		assert.ErrorIs(t, err, schedule.ErrPastSchedule)
		assert.Empty(t, store.inserted)
	})

	t.Run("past purchase date is rejected", func(t *testing.T) {
		store := newFakeStore(eveningShow(t), 100, 0)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		_, err := acc.Purchase(ctx, 5, 1, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), 2)
		assert.ErrorIs(t, err, schedule.ErrPastSchedule)
	})

	t.Run("future date keeps sales open regardless of start time", func(t *testing.T) {
		st, err := schedule.ParseTimeOfDay("10:00")
		require.NoError(t, err)
		store := newFakeStore(&Showtime{ID: 1, HallID: 1, StartTime: st, PriceCents: 2000}, 100, 0)
		acc := NewAccountant(store, clock.NewFixed(purchaseNow))

		ticket, err := acc.Purchase(ctx, 5, 1, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(4000), ticket.AmountCents)
	})
}
