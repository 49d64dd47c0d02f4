package extras

import "github.com/suldsma/PROGIII-API/internal/service/extras/models"

// ServiceRequest HTTP request model для POST и PUT
type ServiceRequest struct {
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// PatchServiceRequest HTTP request model для PATCH
type PatchServiceRequest struct {
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

func (r *ServiceRequest) toService() *models.ServiceRequest {
	return &models.ServiceRequest{Description: r.Description, Price: r.Price}
}

func (r *PatchServiceRequest) toService() *models.PatchServiceRequest {
	return &models.PatchServiceRequest{Description: r.Description, Price: r.Price}
}
