package repository

import (
	"context"
	"testing"
	"time"

	"salonbook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisScheduleCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisScheduleCache(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetDaySchedule", func(t *testing.T) {
		schedule := &models.DaySchedule{
			ProviderID: 123,
			Date:       "2026-06-01",
			Slots: []models.Slot{
				{ProviderID: 123, Start: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC), Available: true},
				{ProviderID: 123, Start: time.Date(2026, 6, 1, 11, 0, 0, 0, time.UTC), Available: false},
			},
			CachedAt: time.Now().UTC(),
		}

		err := cache.SetDaySchedule(ctx, schedule)
		require.NoError(t, err)

		got, err := cache.GetDaySchedule(ctx, 123, "2026-06-01")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, schedule.ProviderID, got.ProviderID)
		assert.Equal(t, schedule.Date, got.Date)
		require.Len(t, got.Slots, 2)
		assert.True(t, got.Slots[0].Available)
		assert.False(t, got.Slots[1].Available)
	})

	t.Run("GetNonExistentSchedule", func(t *testing.T) {
		got, err := cache.GetDaySchedule(ctx, 999, "2026-06-01")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InvalidateDay", func(t *testing.T) {
		schedule := &models.DaySchedule{ProviderID: 456, Date: "2026-06-02"}
		cache.SetDaySchedule(ctx, schedule)

		err := cache.InvalidateDay(ctx, 456, "2026-06-02")
		require.NoError(t, err)

		got, _ := cache.GetDaySchedule(ctx, 456, "2026-06-02")
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		actorID := int64(789)
		limit := 2
		window := time.Second

		allowed, err := cache.CheckRateLimit(ctx, actorID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = cache.CheckRateLimit(ctx, actorID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		// Third request exceeds the limit
		allowed, err = cache.CheckRateLimit(ctx, actorID, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = cache.CheckRateLimit(ctx, actorID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		cache := NewRedisScheduleCache(nil, time.Hour)
		_, err := cache.GetDaySchedule(ctx, 123, "2026-06-01")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}
