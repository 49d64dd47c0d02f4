package timeslots

import (
	"context"
	"time"

	"github.com/suldsma/PROGIII-API/internal/service/timeslots/models"
)

type TimeSlotService interface {
	Create(ctx context.Context, req *models.TimeSlotRequest) (*models.TimeSlotResponse, error)
	GetByID(ctx context.Context, id int64, includeInactive bool) (*models.TimeSlotResponse, error)
	List(ctx context.Context, req *models.ListTimeSlotsRequest) (*models.TimeSlotListResponse, error)
	Update(ctx context.Context, id int64, req *models.TimeSlotRequest) (*models.TimeSlotResponse, error)
	Patch(ctx context.Context, id int64, req *models.PatchTimeSlotRequest) (*models.TimeSlotResponse, error)
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) (*models.TimeSlotResponse, error)
	GetAvailable(ctx context.Context, date time.Time, hallID int64) ([]models.TimeSlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
