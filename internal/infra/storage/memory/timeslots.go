package memory

import (
	"context"
	"sort"

	"github.com/suldsma/PROGIII-API/internal/domain"
	timeslotRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/timeslot"
)

// TimeSlotRepository временные слоты в памяти
type TimeSlotRepository struct {
	s *Store
}

func (r *TimeSlotRepository) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	defer r.s.lock(ctx)()

	if slot.Active && r.overlaps(slot.Range(), 0) {
		return nil, timeslotRepo.ErrOverlap
	}
	slot.ID = r.s.nextID("time_slots")
	slot.CreatedAt = r.s.now()
	slot.UpdatedAt = slot.CreatedAt
	r.s.data.slots[slot.ID] = *slot
	return slot, nil
}

func (r *TimeSlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	defer r.s.lock(ctx)()

	slot, ok := r.s.data.slots[id]
	if !ok {
		return nil, timeslotRepo.ErrTimeSlotNotFound
	}
	return &slot, nil
}

func (r *TimeSlotRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	return r.GetByID(ctx, id)
}

func (r *TimeSlotRepository) Update(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	defer r.s.lock(ctx)()

	current, ok := r.s.data.slots[slot.ID]
	if !ok {
		return nil, timeslotRepo.ErrTimeSlotNotFound
	}
	if current.Active && r.overlaps(slot.Range(), slot.ID) {
		return nil, timeslotRepo.ErrOverlap
	}
	current.Ordinal = slot.Ordinal
	current.StartTime = slot.StartTime
	current.EndTime = slot.EndTime
	current.UpdatedAt = r.s.now()
	r.s.data.slots[slot.ID] = current

	slot.Active = current.Active
	slot.CreatedAt = current.CreatedAt
	slot.UpdatedAt = current.UpdatedAt
	return slot, nil
}

func (r *TimeSlotRepository) SetActive(ctx context.Context, id int64, active bool) error {
	defer r.s.lock(ctx)()

	slot, ok := r.s.data.slots[id]
	if !ok {
		return timeslotRepo.ErrTimeSlotNotFound
	}
	if active && !slot.Active && r.overlaps(slot.Range(), id) {
		return timeslotRepo.ErrOverlap
	}
	slot.Active = active
	slot.UpdatedAt = r.s.now()
	r.s.data.slots[id] = slot
	return nil
}

func (r *TimeSlotRepository) NextOrdinal(ctx context.Context) (int, error) {
	defer r.s.lock(ctx)()

	max := 0
	for _, slot := range r.s.data.slots {
		if slot.Ordinal > max {
			max = slot.Ordinal
		}
	}
	return max + 1, nil
}

func (r *TimeSlotRepository) List(ctx context.Context, filter domain.TimeSlotFilter, page domain.Page) ([]*domain.TimeSlot, int, error) {
	defer r.s.lock(ctx)()

	slots := r.collect(!filter.IncludeInactive)
	return paginate(slots, page), len(slots), nil
}

func (r *TimeSlotRepository) ListActive(ctx context.Context) ([]*domain.TimeSlot, error) {
	defer r.s.lock(ctx)()
	return r.collect(true), nil
}

func (r *TimeSlotRepository) collect(activeOnly bool) []*domain.TimeSlot {
	slots := make([]*domain.TimeSlot, 0)
	for _, id := range sortedKeys(r.s.data.slots) {
		slot := r.s.data.slots[id]
		if activeOnly && !slot.Active {
			continue
		}
		slots = append(slots, &slot)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Ordinal != slots[j].Ordinal {
			return slots[i].Ordinal < slots[j].Ordinal
		}
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})
	return slots
}

func (r *TimeSlotRepository) overlaps(rng domain.TimeRange, excludeID int64) bool {
	for id, slot := range r.s.data.slots {
		if id == excludeID || !slot.Active {
			continue
		}
		if slot.Range().Overlaps(rng) {
			return true
		}
	}
	return false
}
