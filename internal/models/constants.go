package models

import "time"

// SlotDuration is the fixed appointment length used by the availability
// checker regardless of the service's stored duration.
const SlotDuration = time.Hour

const (
	RoleCustomer      = "customer"
	RoleProvider      = "service_provider"
	RoleManager       = "manager"
	RoleAdministrator = "administrator"
)

const (
	// DefaultOpenHour / DefaultCloseHour bound the slot grid shown to
	// clients. The core checker itself never enforces this window.
	DefaultOpenHour  = 9
	DefaultCloseHour = 20

	// DefaultMaxAdvanceDays limits how far ahead a booking may be made.
	DefaultMaxAdvanceDays = 365

	// DefaultScheduleCacheTTL bounds staleness of the cached day grid.
	DefaultScheduleCacheTTL = 5 * time.Minute

	// RateLimitMutations caps booking mutations per actor per window.
	RateLimitMutations = 30
	RateLimitWindow    = time.Minute

	// WorkerQueueSize is the in-memory export queue capacity.
	WorkerQueueSize = 128
)
