package domain

import "time"

// Service represents an optional add-on attached to a reservation
type Service struct {
	ID          int64
	Description string
	Price       float64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceFilter фильтр для списка услуг
type ServiceFilter struct {
	Search          string
	IncludeInactive bool
}

// ServiceUsage counts how many reservations use a service
type ServiceUsage struct {
	Service
	UsageCount int
}
