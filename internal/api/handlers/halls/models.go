package halls

import (
	"github.com/suldsma/PROGIII-API/internal/service/halls/models"
)

// HallRequest HTTP request model для POST и PUT
type HallRequest struct {
	Title     string   `json:"title" validate:"required"`
	Address   string   `json:"address" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Capacity  *int     `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Price     float64  `json:"price" validate:"gte=0"`
}

// PatchHallRequest HTTP request model для PATCH
type PatchHallRequest struct {
	Title     *string  `json:"title,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Capacity  *int     `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Price     *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

func (r *HallRequest) toService() *models.HallRequest {
	return &models.HallRequest{
		Title:     r.Title,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Capacity:  r.Capacity,
		Price:     r.Price,
	}
}

func (r *PatchHallRequest) toService() *models.PatchHallRequest {
	return &models.PatchHallRequest{
		Title:     r.Title,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Capacity:  r.Capacity,
		Price:     r.Price,
	}
}
