package models

import (
	"database/sql"
	"time"
)

// User is the identity record. Credentials and session handling live in
// the web layer; the core only needs the id for ownership checks.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Customer is a booking-capable profile, one-to-one with a User.
type Customer struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Phone     string       `json:"phone"`
	BirthDate sql.NullTime `json:"birth_date"`
	CreatedAt time.Time    `json:"created_at"`
}

// ServiceProvider performs one or more services for customers.
type ServiceProvider struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Specialization string    `json:"specialization"`
	CreatedAt      time.Time `json:"created_at"`
}

// Manager and Administrator are staff profiles. Both may cancel any
// booking; they differ only at the excluded web layer.
type Manager struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type Administrator struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
