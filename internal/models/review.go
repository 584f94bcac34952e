package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is feedback for exactly one booking. The customer/service/
// provider are reachable through the booking row.
type Review struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
