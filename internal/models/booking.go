package models

import "time"

// Booking reserves a one-hour slot with a provider for a customer.
// Name fields are denormalized copies for listings and exports; the id
// columns stay authoritative.
type Booking struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	ServiceID     int64     `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	ProviderID    int64     `json:"provider_id"`
	ProviderName  string    `json:"provider_name"`
	AppointmentAt time.Time `json:"appointment_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int64     `json:"version"`
}

// End returns the exclusive end of the reserved slot.
func (b *Booking) End() time.Time {
	return b.AppointmentAt.Add(SlotDuration)
}

// Completed reports whether the appointment already happened. This is
// always computed against the caller's clock, never stored, so listings
// cannot go stale.
func (b *Booking) Completed(now time.Time) bool {
	return b.AppointmentAt.Before(now)
}

// Slot describes one bookable window in a provider's day grid.
type Slot struct {
	ProviderID int64     `json:"provider_id"`
	Start      time.Time `json:"start"`
	Available  bool      `json:"available"`
}

// DaySchedule is a cached snapshot of a provider's slots for one day.
type DaySchedule struct {
	ProviderID int64     `json:"provider_id"`
	Date       string    `json:"date"`
	Slots      []Slot    `json:"slots"`
	CachedAt   time.Time `json:"cached_at"`
}
