package models

import (
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// ServiceRequest данные услуги (создание и PUT)
type ServiceRequest struct {
	Description string
	Price       float64
}

// PatchServiceRequest частичное обновление
type PatchServiceRequest struct {
	Description *string
	Price       *float64
}

// ListServicesRequest параметры списка
type ListServicesRequest struct {
	Page            domain.Page
	Search          string
	IncludeInactive bool
}

// Apply накладывает изменения на текущую услугу
func (p *PatchServiceRequest) Apply(service *domain.Service) ServiceRequest {
	req := ServiceRequest{Description: service.Description, Price: service.Price}
	if p.Description != nil {
		req.Description = *p.Description
	}
	if p.Price != nil {
		req.Price = *p.Price
	}
	return req
}

// ServiceResponse данные услуги
type ServiceResponse struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ServiceListResponse страница услуг
type ServiceListResponse struct {
	Items      []ServiceResponse `json:"items"`
	Pagination domain.Pagination `json:"pagination"`
}

// ServiceUsageResponse услуга с числом бронирований
type ServiceUsageResponse struct {
	ServiceResponse
	UsageCount int `json:"usageCount"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:          s.ID,
		Description: s.Description,
		Price:       s.Price,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromDomainServices конвертирует список domain моделей в DTO
func FromDomainServices(services []*domain.Service) []ServiceResponse {
	items := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		items = append(items, *FromDomainService(s))
	}
	return items
}

// FromDomainUsage конвертирует статистику использования
func FromDomainUsage(usage []*domain.ServiceUsage) []ServiceUsageResponse {
	items := make([]ServiceUsageResponse, 0, len(usage))
	for _, u := range usage {
		items = append(items, ServiceUsageResponse{
			ServiceResponse: *FromDomainService(&u.Service),
			UsageCount:      u.UsageCount,
		})
	}
	return items
}
