package service

import (
	"context"
	"fmt"

	"salonbook/internal/domain"
	"salonbook/internal/events"
	"salonbook/internal/models"

	"github.com/rs/zerolog"
)

type ReviewService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReviewService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Upsert attaches a review to a booking, replacing any existing one.
// Only the booking's customer may review it.
func (s *ReviewService) Upsert(ctx context.Context, bookingID int64, rating int, comment string, actorUserID int64) (*models.Review, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, models.MinRating, models.MaxRating)
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	customer, err := s.repo.GetCustomerByUser(ctx, actorUserID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %d is not a customer", ErrForbidden, actorUserID)
		}
		return nil, err
	}
	if customer.ID != booking.CustomerID {
		return nil, fmt.Errorf("%w: user %d does not own booking %d", ErrForbidden, actorUserID, bookingID)
	}

	review := &models.Review{
		BookingID: bookingID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.repo.UpsertReview(ctx, review); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.ReviewEventPayload{
			BookingID: bookingID,
			ServiceID: booking.ServiceID,
			Rating:    rating,
			Comment:   comment,
		}
		if err := s.eventBus.PublishJSON(events.EventReviewSubmitted, payload); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", bookingID).Msg("publish event error")
		}
	}

	return review, nil
}

// GetByBooking returns the review attached to a booking, if any.
func (s *ReviewService) GetByBooking(ctx context.Context, bookingID int64) (*models.Review, error) {
	return s.repo.GetReviewByBooking(ctx, bookingID)
}

// ListForService returns all reviews written for a service.
func (s *ReviewService) ListForService(ctx context.Context, serviceID int64) ([]*models.Review, error) {
	return s.repo.GetServiceReviews(ctx, serviceID)
}
