package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/suldsma/PROGIII-API/internal/domain"
	extraRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/extra"
)

// ServiceRepository дополнительные услуги в памяти
type ServiceRepository struct {
	s *Store
}

func (r *ServiceRepository) Create(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	defer r.s.lock(ctx)()

	if service.Active && r.duplicate(service.Description, 0) {
		return nil, extraRepo.ErrDuplicate
	}
	service.ID = r.s.nextID("services")
	service.CreatedAt = r.s.now()
	service.UpdatedAt = service.CreatedAt
	r.s.data.services[service.ID] = *service
	return service, nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	defer r.s.lock(ctx)()

	service, ok := r.s.data.services[id]
	if !ok {
		return nil, extraRepo.ErrServiceNotFound
	}
	return &service, nil
}

func (r *ServiceRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Service, error) {
	return r.GetByID(ctx, id)
}

func (r *ServiceRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	defer r.s.lock(ctx)()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	services := make([]*domain.Service, 0, len(ids))
	for _, id := range sortedKeys(r.s.data.services) {
		if _, ok := wanted[id]; !ok {
			continue
		}
		service := r.s.data.services[id]
		services = append(services, &service)
	}
	return services, nil
}

func (r *ServiceRepository) Update(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	defer r.s.lock(ctx)()

	current, ok := r.s.data.services[service.ID]
	if !ok {
		return nil, extraRepo.ErrServiceNotFound
	}
	if current.Active && r.duplicate(service.Description, service.ID) {
		return nil, extraRepo.ErrDuplicate
	}
	current.Description = service.Description
	current.Price = service.Price
	current.UpdatedAt = r.s.now()
	r.s.data.services[service.ID] = current

	service.Active = current.Active
	service.CreatedAt = current.CreatedAt
	service.UpdatedAt = current.UpdatedAt
	return service, nil
}

func (r *ServiceRepository) SetActive(ctx context.Context, id int64, active bool) error {
	defer r.s.lock(ctx)()

	service, ok := r.s.data.services[id]
	if !ok {
		return extraRepo.ErrServiceNotFound
	}
	if active && !service.Active && r.duplicate(service.Description, id) {
		return extraRepo.ErrDuplicate
	}
	service.Active = active
	service.UpdatedAt = r.s.now()
	r.s.data.services[id] = service
	return nil
}

func (r *ServiceRepository) ExistsActiveByDescription(ctx context.Context, description string, excludeID int64) (bool, error) {
	defer r.s.lock(ctx)()
	return r.duplicate(description, excludeID), nil
}

func (r *ServiceRepository) List(ctx context.Context, filter domain.ServiceFilter, page domain.Page) ([]*domain.Service, int, error) {
	defer r.s.lock(ctx)()

	search := strings.TrimSpace(filter.Search)
	services := make([]*domain.Service, 0)
	for _, id := range sortedKeys(r.s.data.services) {
		service := r.s.data.services[id]
		if !filter.IncludeInactive && !service.Active {
			continue
		}
		if search != "" && !containsFold(service.Description, search) {
			continue
		}
		services = append(services, &service)
	}
	sort.SliceStable(services, func(i, j int) bool {
		if services[i].Active != services[j].Active {
			return services[i].Active
		}
		return services[i].Description < services[j].Description
	})
	return paginate(services, page), len(services), nil
}

func (r *ServiceRepository) MostUsed(ctx context.Context, limit int) ([]*domain.ServiceUsage, error) {
	defer r.s.lock(ctx)()

	counts := make(map[int64]int)
	for reservationID, serviceIDs := range r.s.data.reservationService {
		if r.s.data.reservations[reservationID].Status == domain.StatusCancelled {
			continue
		}
		for _, serviceID := range serviceIDs {
			counts[serviceID]++
		}
	}

	usage := make([]*domain.ServiceUsage, 0)
	for _, id := range sortedKeys(r.s.data.services) {
		service := r.s.data.services[id]
		if !service.Active {
			continue
		}
		usage = append(usage, &domain.ServiceUsage{Service: service, UsageCount: counts[id]})
	}
	sort.SliceStable(usage, func(i, j int) bool {
		if usage[i].UsageCount != usage[j].UsageCount {
			return usage[i].UsageCount > usage[j].UsageCount
		}
		return usage[i].Description < usage[j].Description
	})
	if len(usage) > limit {
		usage = usage[:limit]
	}
	return usage, nil
}

func (r *ServiceRepository) duplicate(description string, excludeID int64) bool {
	for id, service := range r.s.data.services {
		if id == excludeID || !service.Active {
			continue
		}
		if normalize(service.Description) == normalize(description) {
			return true
		}
	}
	return false
}
