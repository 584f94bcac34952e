package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salonbook/internal/models"
)

// UpsertReview writes the single review for a booking: an insert the
// first time, an in-place rating/comment update afterwards. Keyed on the
// unique booking_id column.
func (db *DB) UpsertReview(ctx context.Context, review *models.Review) error {
	query := `INSERT INTO reviews (booking_id, rating, comment, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?)
              ON CONFLICT(booking_id) DO UPDATE SET
                rating = excluded.rating,
                comment = excluded.comment,
                updated_at = excluded.updated_at`
	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		review.BookingID,
		review.Rating,
		review.Comment,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}

	stored, err := db.GetReviewByBooking(ctx, review.BookingID)
	if err != nil {
		return err
	}
	*review = *stored
	return nil
}

func (db *DB) GetReviewByBooking(ctx context.Context, bookingID int64) (*models.Review, error) {
	query := `SELECT id, booking_id, rating, comment, created_at, updated_at
              FROM reviews WHERE booking_id = ?`
	var r models.Review
	err := db.QueryRowContext(ctx, query, bookingID).Scan(
		&r.ID, &r.BookingID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &r, nil
}

// GetServiceReviews returns reviews for all bookings of one service,
// newest first.
func (db *DB) GetServiceReviews(ctx context.Context, serviceID int64) ([]*models.Review, error) {
	query := `SELECT r.id, r.booking_id, r.rating, r.comment, r.created_at, r.updated_at
              FROM reviews r
              JOIN bookings b ON b.id = r.booking_id
              WHERE b.service_id = ?
              ORDER BY r.created_at DESC`
	rows, err := db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var r models.Review
		err := rows.Scan(&r.ID, &r.BookingID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}
