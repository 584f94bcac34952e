package database

import "errors"

var (
	// ErrNotFound reports that a referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken reports that the provider already has a booking whose
	// start falls inside the requested one-hour window.
	ErrSlotTaken = errors.New("time slot is not available")

	// ErrPastDate reports an appointment time in the past.
	ErrPastDate = errors.New("appointment time is in the past")

	// ErrDateTooFar reports an appointment beyond the booking horizon.
	ErrDateTooFar = errors.New("appointment time is too far in the future")

	// ErrConcurrentModification reports a lost optimistic-version race.
	ErrConcurrentModification = errors.New("booking was modified concurrently")
)
