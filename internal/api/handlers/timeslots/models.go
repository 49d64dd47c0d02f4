package timeslots

import (
	"errors"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/timeslots/models"
	"github.com/suldsma/PROGIII-API/pkg/types"
)

var errInvalidTime = errors.New("timeslots: invalid time of day")

// TimeSlotRequest HTTP request model для POST и PUT
type TimeSlotRequest struct {
	Ordinal   *int   `json:"ordinal,omitempty" validate:"omitempty,gt=0"`
	StartTime string `json:"startTime" validate:"required"` // "18:00"
	EndTime   string `json:"endTime" validate:"required"`
}

// PatchTimeSlotRequest HTTP request model для PATCH
type PatchTimeSlotRequest struct {
	Ordinal   *int    `json:"ordinal,omitempty" validate:"omitempty,gt=0"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

func (r *TimeSlotRequest) toService() (*models.TimeSlotRequest, error) {
	start, err := parseTime("startTime", r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTime("endTime", r.EndTime)
	if err != nil {
		return nil, err
	}
	return &models.TimeSlotRequest{Ordinal: r.Ordinal, StartTime: start, EndTime: end}, nil
}

func (r *PatchTimeSlotRequest) toService() (*models.PatchTimeSlotRequest, error) {
	req := &models.PatchTimeSlotRequest{Ordinal: r.Ordinal}
	if r.StartTime != nil {
		start, err := parseTime("startTime", *r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &start
	}
	if r.EndTime != nil {
		end, err := parseTime("endTime", *r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &end
	}
	return req, nil
}

func parseTime(field, s string) (types.TimeString, error) {
	t, err := types.NewTimeStringFromString(s)
	if err != nil {
		return "", domain.NewFieldError(errInvalidTime, field, "must be HH:MM")
	}
	return t, nil
}
