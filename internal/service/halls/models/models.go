package models

import (
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// Request модели

// HallRequest полные данные зала (создание и PUT)
type HallRequest struct {
	Title     string
	Address   string
	Latitude  *float64
	Longitude *float64
	Capacity  *int
	Price     float64
}

// PatchHallRequest частичное обновление; nil означает "не менять"
type PatchHallRequest struct {
	Title     *string
	Address   *string
	Latitude  *float64
	Longitude *float64
	Capacity  *int
	Price     *float64
}

// ListHallsRequest параметры списка
type ListHallsRequest struct {
	Page            domain.Page
	Search          string
	IncludeInactive bool
}

// Apply накладывает изменения на текущий зал
func (p *PatchHallRequest) Apply(hall *domain.Hall) HallRequest {
	req := HallRequest{
		Title:     hall.Title,
		Address:   hall.Address,
		Latitude:  hall.Latitude,
		Longitude: hall.Longitude,
		Capacity:  hall.Capacity,
		Price:     hall.Price,
	}
	if p.Title != nil {
		req.Title = *p.Title
	}
	if p.Address != nil {
		req.Address = *p.Address
	}
	if p.Latitude != nil {
		req.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		req.Longitude = p.Longitude
	}
	if p.Capacity != nil {
		req.Capacity = p.Capacity
	}
	if p.Price != nil {
		req.Price = *p.Price
	}
	return req
}

// Response модели

// HallResponse данные зала
type HallResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Capacity  *int      `json:"capacity,omitempty"`
	Price     float64   `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HallListResponse страница залов
type HallListResponse struct {
	Items      []HallResponse    `json:"items"`
	Pagination domain.Pagination `json:"pagination"`
}

// FromDomainHall конвертирует domain модель в DTO
func FromDomainHall(h *domain.Hall) *HallResponse {
	if h == nil {
		return nil
	}
	return &HallResponse{
		ID:        h.ID,
		Title:     h.Title,
		Address:   h.Address,
		Latitude:  h.Latitude,
		Longitude: h.Longitude,
		Capacity:  h.Capacity,
		Price:     h.Price,
		Active:    h.Active,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

// FromDomainHalls конвертирует список domain моделей в DTO
func FromDomainHalls(halls []*domain.Hall) []HallResponse {
	items := make([]HallResponse, 0, len(halls))
	for _, h := range halls {
		items = append(items, *FromDomainHall(h))
	}
	return items
}
