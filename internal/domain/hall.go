package domain

import "time"

// Hall represents a rentable venue ("salon")
type Hall struct {
	ID        int64
	Title     string
	Address   string
	Latitude  *float64
	Longitude *float64
	Capacity  *int
	Price     float64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HallFilter фильтр для списка залов
type HallFilter struct {
	Search          string // по названию или адресу
	IncludeInactive bool
}
