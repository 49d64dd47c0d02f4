package halls

import (
	"context"
	"time"

	"github.com/suldsma/PROGIII-API/internal/service/halls/models"
)

type HallService interface {
	Create(ctx context.Context, req *models.HallRequest) (*models.HallResponse, error)
	GetByID(ctx context.Context, id int64, includeInactive bool) (*models.HallResponse, error)
	List(ctx context.Context, req *models.ListHallsRequest) (*models.HallListResponse, error)
	Update(ctx context.Context, id int64, req *models.HallRequest) (*models.HallResponse, error)
	Patch(ctx context.Context, id int64, req *models.PatchHallRequest) (*models.HallResponse, error)
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) (*models.HallResponse, error)
	GetAvailable(ctx context.Context, date time.Time, slotID int64) ([]models.HallResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
