package domain

import (
	"context"
	"time"

	"salonbook/internal/models"
)

// Repository is the persistence surface the services depend on. The
// sqlite store in internal/database implements it.
type Repository interface {
	IsSlotAvailable(ctx context.Context, providerID int64, start time.Time) (bool, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	RescheduleBooking(ctx context.Context, id int64, version int64, newStart time.Time) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetProviderBookings(ctx context.Context, providerID int64, start, end time.Time) ([]*models.Booking, error)
	GetCustomerBookings(ctx context.Context, customerID int64) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	GetDailyBookings(ctx context.Context, start, end time.Time) (map[string][]*models.Booking, error)

	UpsertReview(ctx context.Context, review *models.Review) error
	GetReviewByBooking(ctx context.Context, bookingID int64) (*models.Review, error)
	GetServiceReviews(ctx context.Context, serviceID int64) ([]*models.Review, error)

	GetService(ctx context.Context, id int64) (*models.Service, error)
	ListServices(ctx context.Context) ([]*models.Service, error)
	GetProvider(ctx context.Context, id int64) (*models.ServiceProvider, error)
	ListProviders(ctx context.Context) ([]*models.ServiceProvider, error)
	GetProvidersForService(ctx context.Context, serviceID int64) ([]*models.ServiceProvider, error)
	GetProviderServices(ctx context.Context, providerID int64) ([]*models.Service, error)

	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	GetCustomerByUser(ctx context.Context, userID int64) (*models.Customer, error)
	IsManager(ctx context.Context, userID int64) (bool, error)
	IsAdministrator(ctx context.Context, userID int64) (bool, error)
}

// ScheduleCache holds short-lived provider day schedules plus request
// rate counters. Implementations: redis, in-memory, failover pair.
type ScheduleCache interface {
	GetDaySchedule(ctx context.Context, providerID int64, date string) (*models.DaySchedule, error)
	SetDaySchedule(ctx context.Context, schedule *models.DaySchedule) error
	InvalidateDay(ctx context.Context, providerID int64, date string) error
	CheckRateLimit(ctx context.Context, actorID int64, limit int, window time.Duration) (bool, error)
}

// EventPublisher fans booking lifecycle events out to subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker accepts export jobs triggered by booking mutations.
type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.Booking) error
	EnqueueScheduleRefresh(ctx context.Context, startDate, endDate time.Time) error
}

// ScheduleWriter materializes the front-desk schedule document.
type ScheduleWriter interface {
	WriteSchedule(ctx context.Context, startDate, endDate time.Time, dailyBookings map[string][]*models.Booking, providers []*models.ServiceProvider) error
}
