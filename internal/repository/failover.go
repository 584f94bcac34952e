package repository

import (
	"context"
	"sync/atomic"
	"time"

	"salonbook/internal/domain"
	"salonbook/internal/models"

	"github.com/rs/zerolog"
)

type FailoverScheduleCache struct {
	primary   domain.ScheduleCache
	fallback  domain.ScheduleCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverScheduleCache(primary, fallback domain.ScheduleCache, logger *zerolog.Logger) *FailoverScheduleCache {
	return &FailoverScheduleCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverScheduleCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary schedule cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverScheduleCache) GetDaySchedule(ctx context.Context, providerID int64, date string) (*models.DaySchedule, error) {
	if !r.isDown.Load() {
		schedule, err := r.primary.GetDaySchedule(ctx, providerID, date)
		if err == nil {
			return schedule, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		schedule, err := r.primary.GetDaySchedule(ctx, providerID, date)
		if err == nil {
			r.isDown.Store(false)
			return schedule, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetDaySchedule(ctx, providerID, date)
}

func (r *FailoverScheduleCache) SetDaySchedule(ctx context.Context, schedule *models.DaySchedule) error {
	if !r.isDown.Load() {
		err := r.primary.SetDaySchedule(ctx, schedule)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetDaySchedule(ctx, schedule)
}

func (r *FailoverScheduleCache) InvalidateDay(ctx context.Context, providerID int64, date string) error {
	if !r.isDown.Load() {
		err := r.primary.InvalidateDay(ctx, providerID, date)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.InvalidateDay(ctx, providerID, date)
}

func (r *FailoverScheduleCache) CheckRateLimit(ctx context.Context, actorID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, actorID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, actorID, limit, window)
}
