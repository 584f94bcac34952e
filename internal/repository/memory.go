package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"salonbook/internal/models"
)

type MemoryScheduleCache struct {
	schedules  sync.Map
	rateLimits sync.Map
	ttl        time.Duration
}

func NewMemoryScheduleCache(ttl time.Duration) *MemoryScheduleCache {
	return &MemoryScheduleCache{
		ttl: ttl,
	}
}

type scheduleEntry struct {
	schedule  *models.DaySchedule
	expiresAt time.Time
}

func memoryKey(providerID int64, date string) string {
	return fmt.Sprintf("%d:%s", providerID, date)
}

func (r *MemoryScheduleCache) GetDaySchedule(ctx context.Context, providerID int64, date string) (*models.DaySchedule, error) {
	val, ok := r.schedules.Load(memoryKey(providerID, date))
	if !ok {
		return nil, nil
	}
	entry := val.(*scheduleEntry)
	if time.Now().After(entry.expiresAt) {
		r.schedules.Delete(memoryKey(providerID, date))
		return nil, nil
	}
	return entry.schedule, nil
}

func (r *MemoryScheduleCache) SetDaySchedule(ctx context.Context, schedule *models.DaySchedule) error {
	r.schedules.Store(memoryKey(schedule.ProviderID, schedule.Date), &scheduleEntry{
		schedule:  schedule,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryScheduleCache) InvalidateDay(ctx context.Context, providerID int64, date string) error {
	r.schedules.Delete(memoryKey(providerID, date))
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryScheduleCache) CheckRateLimit(ctx context.Context, actorID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(actorID)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(actorID, entry)
	return entry.count <= limit, nil
}
