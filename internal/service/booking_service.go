package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook/internal/config"
	"salonbook/internal/database"
	"salonbook/internal/domain"
	"salonbook/internal/events"
	"salonbook/internal/metrics"
	"salonbook/internal/models"
	"salonbook/internal/worker"

	"github.com/rs/zerolog"
)

// CreateBookingRequest carries the inputs for a new appointment.
type CreateBookingRequest struct {
	CustomerID int64     `json:"customer_id"`
	ProviderID int64     `json:"provider_id"`
	ServiceID  int64     `json:"service_id"`
	Start      time.Time `json:"start"`
}

type BookingService struct {
	repo         domain.Repository
	cache        domain.ScheduleCache
	eventBus     domain.EventPublisher
	exportWorker domain.SyncWorker
	business     config.BusinessConfig
	logger       *zerolog.Logger
}

func NewBookingService(repo domain.Repository, cache domain.ScheduleCache, eventBus domain.EventPublisher, exportWorker domain.SyncWorker, business config.BusinessConfig, logger *zerolog.Logger) *BookingService {
	if business.OpenHour == 0 && business.CloseHour == 0 {
		business.OpenHour = models.DefaultOpenHour
		business.CloseHour = models.DefaultCloseHour
	}
	if business.MaxAdvanceDays <= 0 {
		business.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	return &BookingService{
		repo:         repo,
		cache:        cache,
		eventBus:     eventBus,
		exportWorker: exportWorker,
		business:     business,
		logger:       logger,
	}
}

// ValidateStart rejects zero, past and too-distant appointment times.
func (s *BookingService) ValidateStart(start time.Time) error {
	if start.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if start.Before(time.Now()) {
		return database.ErrPastDate
	}
	maxDate := time.Now().AddDate(0, 0, s.business.MaxAdvanceDays)
	if start.After(maxDate) {
		return database.ErrDateTooFar
	}
	return nil
}

// IsSlotAvailable reports whether a provider slot is free.
func (s *BookingService) IsSlotAvailable(ctx context.Context, providerID int64, start time.Time) (bool, error) {
	return s.repo.IsSlotAvailable(ctx, providerID, start)
}

// Create books an appointment. The availability check and the insert run
// in one transaction inside the store, so concurrent creates for the
// same provider and time cannot both land.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.ValidateStart(req.Start); err != nil {
		return nil, err
	}
	if err := s.checkMutationBudget(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	customer, err := s.repo.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, customer.UserID)
	if err != nil {
		return nil, err
	}
	svc, err := s.repo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	provider, err := s.repo.GetProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		CustomerID:    customer.ID,
		CustomerName:  displayName(user),
		ProviderID:    provider.ID,
		ProviderName:  provider.Name,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		AppointmentAt: req.Start,
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, database.ErrSlotTaken) {
			metrics.IncSlotConflict()
		}
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking, time.Time{})
	s.enqueueExport(ctx, worker.TaskBookingUpsert, booking)
	s.invalidateDay(ctx, booking.ProviderID, booking.AppointmentAt)

	return booking, nil
}

// Reschedule moves a booking to a new start. The conflict scan excludes
// the booking itself, so rescheduling to the current time is a no-op.
func (s *BookingService) Reschedule(ctx context.Context, bookingID int64, version int64, newStart time.Time) (*models.Booking, error) {
	if err := s.ValidateStart(newStart); err != nil {
		return nil, err
	}

	previous, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.RescheduleBooking(ctx, bookingID, version, newStart)
	if err != nil {
		if errors.Is(err, database.ErrSlotTaken) {
			metrics.IncSlotConflict()
		}
		return nil, err
	}

	s.publishEvent(events.EventBookingRescheduled, booking, previous.AppointmentAt)
	s.enqueueExport(ctx, worker.TaskBookingUpsert, booking)
	s.invalidateDay(ctx, booking.ProviderID, previous.AppointmentAt)
	s.invalidateDay(ctx, booking.ProviderID, booking.AppointmentAt)

	return booking, nil
}

// Cancel deletes a booking. Allowed for the owning customer and for
// manager or administrator users; the review row cascades in the store.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64, actorUserID int64) error {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	allowed, err := s.canMutate(ctx, booking, actorUserID)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: user %d may not cancel booking %d", ErrForbidden, actorUserID, bookingID)
	}

	if err := s.repo.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	s.publishEvent(events.EventBookingCancelled, booking, time.Time{})
	s.enqueueExport(ctx, worker.TaskBookingDelete, booking)
	s.invalidateDay(ctx, booking.ProviderID, booking.AppointmentAt)

	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) GetCustomerBookings(ctx context.Context, customerID int64) ([]*models.Booking, error) {
	return s.repo.GetCustomerBookings(ctx, customerID)
}

// GetDaySchedule returns the provider's slot grid for one day inside the
// business window, served from cache when fresh.
func (s *BookingService) GetDaySchedule(ctx context.Context, providerID int64, date string) (*models.DaySchedule, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, date)
	}

	if s.cache != nil {
		cached, err := s.cache.GetDaySchedule(ctx, providerID, date)
		if err != nil {
			s.logger.Warn().Err(err).Int64("provider_id", providerID).Msg("schedule cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	if _, err := s.repo.GetProvider(ctx, providerID); err != nil {
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	bookings, err := s.repo.GetProviderBookings(ctx, providerID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	taken := make(map[int64]bool, len(bookings))
	for _, b := range bookings {
		taken[b.AppointmentAt.UTC().Unix()] = true
	}

	schedule := &models.DaySchedule{
		ProviderID: providerID,
		Date:       date,
		CachedAt:   time.Now().UTC(),
	}
	for hour := s.business.OpenHour; hour < s.business.CloseHour; hour++ {
		start := dayStart.Add(time.Duration(hour) * time.Hour)
		schedule.Slots = append(schedule.Slots, models.Slot{
			ProviderID: providerID,
			Start:      start,
			Available:  !taken[start.Unix()],
		})
	}

	if s.cache != nil {
		if err := s.cache.SetDaySchedule(ctx, schedule); err != nil {
			s.logger.Warn().Err(err).Int64("provider_id", providerID).Msg("schedule cache write failed")
		}
	}

	return schedule, nil
}

// checkMutationBudget enforces the per-customer mutation window. Cache
// failures do not block the booking, only log.
func (s *BookingService) checkMutationBudget(ctx context.Context, customerID int64) error {
	if s.cache == nil {
		return nil
	}
	allowed, err := s.cache.CheckRateLimit(ctx, customerID, models.RateLimitMutations, models.RateLimitWindow)
	if err != nil {
		s.logger.Warn().Err(err).Int64("customer_id", customerID).Msg("rate limit check failed")
		return nil
	}
	if !allowed {
		return fmt.Errorf("%w: customer %d", ErrRateLimited, customerID)
	}
	return nil
}

// canMutate is the Cancel authorization rule.
func (s *BookingService) canMutate(ctx context.Context, booking *models.Booking, actorUserID int64) (bool, error) {
	customer, err := s.repo.GetCustomerByUser(ctx, actorUserID)
	if err == nil && customer.ID == booking.CustomerID {
		return true, nil
	}
	if err != nil && !isNotFound(err) {
		return false, err
	}

	isManager, err := s.repo.IsManager(ctx, actorUserID)
	if err != nil {
		return false, err
	}
	if isManager {
		return true, nil
	}

	return s.repo.IsAdministrator(ctx, actorUserID)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, previousAt time.Time) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		CustomerName:  booking.CustomerName,
		ProviderID:    booking.ProviderID,
		ProviderName:  booking.ProviderName,
		ServiceID:     booking.ServiceID,
		ServiceName:   booking.ServiceName,
		AppointmentAt: booking.AppointmentAt,
		PreviousAt:    previousAt,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context, taskType string, booking *models.Booking) {
	if s.exportWorker == nil {
		return
	}
	if err := s.exportWorker.EnqueueTask(ctx, taskType, booking.ID, booking); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("export enqueue error")
	}
}

func (s *BookingService) invalidateDay(ctx context.Context, providerID int64, at time.Time) {
	if s.cache == nil {
		return
	}
	date := at.UTC().Format("2006-01-02")
	if err := s.cache.InvalidateDay(ctx, providerID, date); err != nil {
		s.logger.Warn().Err(err).Int64("provider_id", providerID).Str("date", date).Msg("schedule cache invalidate failed")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

func displayName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Username
	}
	return name
}
