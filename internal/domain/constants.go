package domain

// Pagination defaults
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Business validation constants
const (
	MaxTitleLength       = 255
	MaxAddressLength     = 255
	MaxDescriptionLength = 255
	MaxNameLength        = 100
	MinPasswordLength    = 6
	DefaultMostUsedLimit = 5
	MaxMostUsedLimit     = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Reservation events published to the notification channel and counted in metrics
const (
	EventReservationCreated   = "created"
	EventReservationCancelled = "cancelled"
	EventReservationCompleted = "completed"
	EventReservationConflict  = "conflict"
)
