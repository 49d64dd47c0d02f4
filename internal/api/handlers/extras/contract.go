package extras

import (
	"context"

	"github.com/suldsma/PROGIII-API/internal/service/extras/models"
)

type ExtraService interface {
	Create(ctx context.Context, req *models.ServiceRequest) (*models.ServiceResponse, error)
	GetByID(ctx context.Context, id int64, includeInactive bool) (*models.ServiceResponse, error)
	List(ctx context.Context, req *models.ListServicesRequest) (*models.ServiceListResponse, error)
	MostUsed(ctx context.Context, limit int) ([]models.ServiceUsageResponse, error)
	Update(ctx context.Context, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error)
	Patch(ctx context.Context, id int64, req *models.PatchServiceRequest) (*models.ServiceResponse, error)
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
