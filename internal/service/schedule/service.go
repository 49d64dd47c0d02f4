// Package schedule answers whether a hall is already booked for a date and time slot.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
	hallRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/hall"
)

var (
	// ErrHallNotFound возвращается, если зал не существует или деактивирован
	ErrHallNotFound = errors.New("schedule: hall not found")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("schedule: internal error")
)

// HallRepository интерфейс репозитория залов
type HallRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ExistsActive(ctx context.Context, hallID int64, date time.Time, slotID int64) (bool, error)
	OccupiedSlotIDs(ctx context.Context, hallID int64, date time.Time) ([]int64, error)
	OccupiedHallIDs(ctx context.Context, slotID int64, date time.Time) ([]int64, error)
}

// Service детектор конфликтов расписания. Не имеет побочных эффектов.
type Service struct {
	halls        HallRepository
	reservations ReservationRepository
}

// NewService создает новый экземпляр детектора конфликтов
func NewService(halls HallRepository, reservations ReservationRepository) *Service {
	return &Service{halls: halls, reservations: reservations}
}

// IsOccupied проверяет, занята ли комбинация (зал, дата, слот) активным бронированием.
// Для слотов достаточно равенства ID слота.
func (s *Service) IsOccupied(ctx context.Context, hallID int64, date time.Time, slotID int64) (bool, error) {
	hall, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		if errors.Is(err, hallRepo.ErrHallNotFound) {
			return false, ErrHallNotFound
		}
		return false, fmt.Errorf("%w: IsOccupied - get hall: %w", ErrInternal, err)
	}
	if !hall.Active {
		return false, ErrHallNotFound
	}

	occupied, err := s.reservations.ExistsActive(ctx, hallID, date, slotID)
	if err != nil {
		return false, fmt.Errorf("%w: IsOccupied - exists active: %w", ErrInternal, err)
	}
	return occupied, nil
}

// OccupiedSlotIDs возвращает множество слотов, занятых в зале на дату
func (s *Service) OccupiedSlotIDs(ctx context.Context, hallID int64, date time.Time) (map[int64]struct{}, error) {
	ids, err := s.reservations.OccupiedSlotIDs(ctx, hallID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedSlotIDs: %w", ErrInternal, err)
	}
	return toSet(ids), nil
}

// OccupiedHallIDs возвращает множество залов, занятых в слот на дату
func (s *Service) OccupiedHallIDs(ctx context.Context, slotID int64, date time.Time) (map[int64]struct{}, error) {
	ids, err := s.reservations.OccupiedHallIDs(ctx, slotID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedHallIDs: %w", ErrInternal, err)
	}
	return toSet(ids), nil
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
