package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/suldsma/PROGIII-API/internal/domain"
	hallRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/hall"
)

// HallRepository залы в памяти
type HallRepository struct {
	s *Store
}

func (r *HallRepository) Create(ctx context.Context, hall *domain.Hall) (*domain.Hall, error) {
	defer r.s.lock(ctx)()

	if hall.Active && r.duplicate(hall.Title, hall.Address, 0) {
		return nil, hallRepo.ErrDuplicate
	}
	hall.ID = r.s.nextID("halls")
	hall.CreatedAt = r.s.now()
	hall.UpdatedAt = hall.CreatedAt
	r.s.data.halls[hall.ID] = *hall
	return hall, nil
}

func (r *HallRepository) GetByID(ctx context.Context, id int64) (*domain.Hall, error) {
	defer r.s.lock(ctx)()

	hall, ok := r.s.data.halls[id]
	if !ok {
		return nil, hallRepo.ErrHallNotFound
	}
	return &hall, nil
}

func (r *HallRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Hall, error) {
	return r.GetByID(ctx, id)
}

func (r *HallRepository) Update(ctx context.Context, hall *domain.Hall) (*domain.Hall, error) {
	defer r.s.lock(ctx)()

	current, ok := r.s.data.halls[hall.ID]
	if !ok {
		return nil, hallRepo.ErrHallNotFound
	}
	if current.Active && r.duplicate(hall.Title, hall.Address, hall.ID) {
		return nil, hallRepo.ErrDuplicate
	}
	current.Title = hall.Title
	current.Address = hall.Address
	current.Latitude = hall.Latitude
	current.Longitude = hall.Longitude
	current.Capacity = hall.Capacity
	current.Price = hall.Price
	current.UpdatedAt = r.s.now()
	r.s.data.halls[hall.ID] = current

	hall.Active = current.Active
	hall.CreatedAt = current.CreatedAt
	hall.UpdatedAt = current.UpdatedAt
	return hall, nil
}

func (r *HallRepository) SetActive(ctx context.Context, id int64, active bool) error {
	defer r.s.lock(ctx)()

	hall, ok := r.s.data.halls[id]
	if !ok {
		return hallRepo.ErrHallNotFound
	}
	if active && !hall.Active && r.duplicate(hall.Title, hall.Address, id) {
		return hallRepo.ErrDuplicate
	}
	hall.Active = active
	hall.UpdatedAt = r.s.now()
	r.s.data.halls[id] = hall
	return nil
}

func (r *HallRepository) ExistsActiveDuplicate(ctx context.Context, title, address string, excludeID int64) (bool, error) {
	defer r.s.lock(ctx)()
	return r.duplicate(title, address, excludeID), nil
}

func (r *HallRepository) List(ctx context.Context, filter domain.HallFilter, page domain.Page) ([]*domain.Hall, int, error) {
	defer r.s.lock(ctx)()

	search := strings.TrimSpace(filter.Search)
	halls := make([]*domain.Hall, 0)
	for _, id := range sortedKeys(r.s.data.halls) {
		hall := r.s.data.halls[id]
		if !filter.IncludeInactive && !hall.Active {
			continue
		}
		if search != "" && !containsFold(hall.Title, search) && !containsFold(hall.Address, search) {
			continue
		}
		halls = append(halls, &hall)
	}
	sort.SliceStable(halls, func(i, j int) bool {
		if halls[i].Active != halls[j].Active {
			return halls[i].Active
		}
		return halls[i].Title < halls[j].Title
	})
	return paginate(halls, page), len(halls), nil
}

func (r *HallRepository) ListActive(ctx context.Context) ([]*domain.Hall, error) {
	defer r.s.lock(ctx)()

	halls := make([]*domain.Hall, 0)
	for _, id := range sortedKeys(r.s.data.halls) {
		hall := r.s.data.halls[id]
		if hall.Active {
			halls = append(halls, &hall)
		}
	}
	sort.SliceStable(halls, func(i, j int) bool { return halls[i].Title < halls[j].Title })
	return halls, nil
}

func (r *HallRepository) duplicate(title, address string, excludeID int64) bool {
	for id, hall := range r.s.data.halls {
		if id == excludeID || !hall.Active {
			continue
		}
		if normalize(hall.Title) == normalize(title) && normalize(hall.Address) == normalize(address) {
			return true
		}
	}
	return false
}
