package service

import (
	"context"
	"testing"

	"salonbook/internal/database"
	"salonbook/internal/events"
	"salonbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpsertReview(t *testing.T) {
	repo := new(mockRepo)
	bus := events.NewEventBus()
	svc := NewReviewService(repo, bus, testLogger())
	ctx := context.Background()

	var published *events.Event
	bus.Subscribe(events.EventReviewSubmitted, func(e *events.Event) error {
		published = e
		return nil
	})

	repo.On("GetBooking", ctx, int64(5)).Return(&models.Booking{ID: 5, CustomerID: 1, ServiceID: 3}, nil)
	repo.On("GetCustomerByUser", ctx, int64(11)).Return(&models.Customer{ID: 1, UserID: 11}, nil)
	repo.On("UpsertReview", ctx, mock.AnythingOfType("*models.Review")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Review).ID = 9
	}).Return(nil)

	review, err := svc.Upsert(ctx, 5, 4, "great cut", 11)
	require.NoError(t, err)
	assert.Equal(t, int64(9), review.ID)
	assert.Equal(t, 4, review.Rating)
	require.NotNil(t, published)
	repo.AssertExpectations(t)
}

func TestUpsertReviewRatingBounds(t *testing.T) {
	svc := NewReviewService(new(mockRepo), nil, testLogger())
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.Upsert(ctx, 5, rating, "", 11)
		assert.ErrorIs(t, err, ErrInvalidInput, "rating %d", rating)
	}
}

func TestUpsertReviewBookingNotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewReviewService(repo, nil, testLogger())
	ctx := context.Background()

	repo.On("GetBooking", ctx, int64(404)).Return(nil, database.ErrNotFound)

	_, err := svc.Upsert(ctx, 404, 5, "", 11)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpsertReviewForbidden(t *testing.T) {
	repo := new(mockRepo)
	svc := NewReviewService(repo, nil, testLogger())
	ctx := context.Background()

	repo.On("GetBooking", ctx, int64(5)).Return(&models.Booking{ID: 5, CustomerID: 1}, nil)

	t.Run("NotOwner", func(t *testing.T) {
		repo.On("GetCustomerByUser", ctx, int64(22)).Return(&models.Customer{ID: 2, UserID: 22}, nil)
		_, err := svc.Upsert(ctx, 5, 5, "", 22)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("NotACustomer", func(t *testing.T) {
		repo.On("GetCustomerByUser", ctx, int64(33)).Return(nil, database.ErrNotFound)
		_, err := svc.Upsert(ctx, 5, 5, "", 33)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestReviewLookups(t *testing.T) {
	repo := new(mockRepo)
	svc := NewReviewService(repo, nil, testLogger())
	ctx := context.Background()

	review := &models.Review{ID: 1, BookingID: 5, Rating: 5}
	repo.On("GetReviewByBooking", ctx, int64(5)).Return(review, nil)
	repo.On("GetServiceReviews", ctx, int64(3)).Return([]*models.Review{review}, nil)

	got, err := svc.GetByBooking(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, review, got)

	list, err := svc.ListForService(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
