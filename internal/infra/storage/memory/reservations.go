package memory

import (
	"context"
	"sort"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
	reservationRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/reservation"
)

// ReservationRepository бронирования в памяти
type ReservationRepository struct {
	s *Store
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	if reservation.IsActive() {
		key := dateKey(reservation.Date)
		for _, existing := range r.s.data.reservations {
			if existing.IsActive() &&
				existing.HallID == reservation.HallID &&
				existing.TimeSlotID == reservation.TimeSlotID &&
				dateKey(existing.Date) == key {
				return nil, reservationRepo.ErrSlotTaken
			}
		}
	}

	reservation.ID = r.s.nextID("reservations")
	reservation.CreatedAt = r.s.now()
	reservation.UpdatedAt = reservation.CreatedAt
	stored := *reservation
	stored.ServiceIDs = nil
	r.s.data.reservations[reservation.ID] = stored
	if len(reservation.ServiceIDs) > 0 {
		r.s.data.reservationService[reservation.ID] = append([]int64(nil), reservation.ServiceIDs...)
	}
	return reservation, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	if _, ok := r.s.data.reservations[id]; !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return r.load(id), nil
}

func (r *ReservationRepository) ListByClient(ctx context.Context, clientID int64) ([]*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	clientFilter := domain.ReservationFilter{ClientID: &clientID}
	return r.filter(clientFilter), nil
}

func (r *ReservationRepository) List(ctx context.Context, filter domain.ReservationFilter, page domain.Page) ([]*domain.Reservation, int, error) {
	defer r.s.lock(ctx)()

	reservations := r.filter(filter)
	return paginate(reservations, page), len(reservations), nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	defer r.s.lock(ctx)()

	reservation, ok := r.s.data.reservations[id]
	if !ok || reservation.Status != from {
		return reservationRepo.ErrStatusChanged
	}
	reservation.Status = to
	reservation.UpdatedAt = r.s.now()
	r.s.data.reservations[id] = reservation
	return nil
}

func (r *ReservationRepository) CompletePast(ctx context.Context, before time.Time) (int64, error) {
	defer r.s.lock(ctx)()

	limit := dateKey(before)
	var completed int64
	for id, reservation := range r.s.data.reservations {
		if reservation.Status == domain.StatusPending && dateKey(reservation.Date) < limit {
			reservation.Status = domain.StatusCompleted
			reservation.UpdatedAt = r.s.now()
			r.s.data.reservations[id] = reservation
			completed++
		}
	}
	return completed, nil
}

func (r *ReservationRepository) ExistsActive(ctx context.Context, hallID int64, date time.Time, slotID int64) (bool, error) {
	defer r.s.lock(ctx)()

	key := dateKey(date)
	for _, reservation := range r.s.data.reservations {
		if reservation.IsActive() && reservation.HallID == hallID &&
			reservation.TimeSlotID == slotID && dateKey(reservation.Date) == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReservationRepository) OccupiedSlotIDs(ctx context.Context, hallID int64, date time.Time) ([]int64, error) {
	defer r.s.lock(ctx)()

	return r.collectIDs(date, func(res domain.Reservation) (int64, bool) {
		return res.TimeSlotID, res.HallID == hallID
	}), nil
}

func (r *ReservationRepository) OccupiedHallIDs(ctx context.Context, slotID int64, date time.Time) ([]int64, error) {
	defer r.s.lock(ctx)()

	return r.collectIDs(date, func(res domain.Reservation) (int64, bool) {
		return res.HallID, res.TimeSlotID == slotID
	}), nil
}

func (r *ReservationRepository) CountActiveByHall(ctx context.Context, hallID int64) (int, error) {
	defer r.s.lock(ctx)()
	return r.countActive(func(res domain.Reservation) bool { return res.HallID == hallID }), nil
}

func (r *ReservationRepository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	defer r.s.lock(ctx)()
	return r.countActive(func(res domain.Reservation) bool { return res.TimeSlotID == slotID }), nil
}

func (r *ReservationRepository) CountActiveByClient(ctx context.Context, clientID int64) (int, error) {
	defer r.s.lock(ctx)()
	return r.countActive(func(res domain.Reservation) bool { return res.ClientID == clientID }), nil
}

func (r *ReservationRepository) CountActiveByService(ctx context.Context, serviceID int64) (int, error) {
	defer r.s.lock(ctx)()
	return r.countActive(func(res domain.Reservation) bool {
		for _, id := range r.s.data.reservationService[res.ID] {
			if id == serviceID {
				return true
			}
		}
		return false
	}), nil
}

func (r *ReservationRepository) load(id int64) *domain.Reservation {
	reservation := r.s.data.reservations[id]
	reservation.ServiceIDs = append([]int64{}, r.s.data.reservationService[id]...)
	return &reservation
}

func (r *ReservationRepository) filter(filter domain.ReservationFilter) []*domain.Reservation {
	reservations := make([]*domain.Reservation, 0)
	for _, id := range sortedKeys(r.s.data.reservations) {
		res := r.s.data.reservations[id]
		if filter.Status != nil && res.Status != *filter.Status {
			continue
		}
		if filter.HallID != nil && res.HallID != *filter.HallID {
			continue
		}
		if filter.ClientID != nil && res.ClientID != *filter.ClientID {
			continue
		}
		if filter.Date != nil && dateKey(res.Date) != dateKey(*filter.Date) {
			continue
		}
		reservations = append(reservations, r.load(id))
	}
	sort.SliceStable(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if da, db := dateKey(a.Date), dateKey(b.Date); da != db {
			return da > db
		}
		if a.StartTime != b.StartTime {
			return b.StartTime.IsBefore(a.StartTime)
		}
		return a.ID > b.ID
	})
	return reservations
}

func (r *ReservationRepository) collectIDs(date time.Time, pick func(domain.Reservation) (int64, bool)) []int64 {
	key := dateKey(date)
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, res := range r.s.data.reservations {
		if !res.IsActive() || dateKey(res.Date) != key {
			continue
		}
		id, ok := pick(res)
		if !ok {
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *ReservationRepository) countActive(match func(domain.Reservation) bool) int {
	count := 0
	for _, res := range r.s.data.reservations {
		if res.IsActive() && match(res) {
			count++
		}
	}
	return count
}
