package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/suldsma/PROGIII-API/internal/domain"
	userRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/user"
)

// UserRepository пользователи в памяти
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	defer r.s.lock(ctx)()

	user.Email = normalize(user.Email)
	if user.Active && r.duplicate(user.Email, 0) {
		return nil, userRepo.ErrDuplicate
	}
	user.ID = r.s.nextID("users")
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.data.users[user.ID] = *user
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	defer r.s.lock(ctx)()

	user, ok := r.s.data.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer r.s.lock(ctx)()

	email = normalize(email)
	for _, id := range sortedKeys(r.s.data.users) {
		user := r.s.data.users[id]
		if user.Active && user.Email == email {
			return &user, nil
		}
	}
	return nil, userRepo.ErrUserNotFound
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	defer r.s.lock(ctx)()

	current, ok := r.s.data.users[user.ID]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	user.Email = normalize(user.Email)
	if current.Active && r.duplicate(user.Email, user.ID) {
		return nil, userRepo.ErrDuplicate
	}
	current.FirstName = user.FirstName
	current.LastName = user.LastName
	current.Email = user.Email
	current.PasswordHash = user.PasswordHash
	current.Role = user.Role
	current.Phone = user.Phone
	current.Photo = user.Photo
	current.UpdatedAt = r.s.now()
	r.s.data.users[user.ID] = current

	user.Active = current.Active
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = current.UpdatedAt
	return user, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	defer r.s.lock(ctx)()

	user, ok := r.s.data.users[id]
	if !ok {
		return userRepo.ErrUserNotFound
	}
	if active && !user.Active && r.duplicate(user.Email, id) {
		return userRepo.ErrDuplicate
	}
	user.Active = active
	user.UpdatedAt = r.s.now()
	r.s.data.users[id] = user
	return nil
}

func (r *UserRepository) ExistsActiveByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	defer r.s.lock(ctx)()
	return r.duplicate(normalize(email), excludeID), nil
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]*domain.User, int, error) {
	defer r.s.lock(ctx)()

	search := strings.TrimSpace(filter.Search)
	users := make([]*domain.User, 0)
	for _, id := range sortedKeys(r.s.data.users) {
		user := r.s.data.users[id]
		if !filter.IncludeInactive && !user.Active {
			continue
		}
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if search != "" && !containsFold(user.FirstName, search) &&
			!containsFold(user.LastName, search) && !containsFold(user.Email, search) {
			continue
		}
		users = append(users, &user)
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Active != users[j].Active {
			return users[i].Active
		}
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		return users[i].FirstName < users[j].FirstName
	})
	return paginate(users, page), len(users), nil
}

func (r *UserRepository) Stats(ctx context.Context) ([]*domain.RoleStats, error) {
	defer r.s.lock(ctx)()

	byRole := make(map[domain.Role]*domain.RoleStats)
	for _, user := range r.s.data.users {
		item, ok := byRole[user.Role]
		if !ok {
			item = &domain.RoleStats{Role: user.Role}
			byRole[user.Role] = item
		}
		item.Total++
		if user.Active {
			item.Active++
		} else {
			item.Inactive++
		}
	}

	stats := make([]*domain.RoleStats, 0, len(byRole))
	for _, item := range byRole {
		stats = append(stats, item)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Role < stats[j].Role })
	return stats, nil
}

func (r *UserRepository) duplicate(email string, excludeID int64) bool {
	for id, user := range r.s.data.users {
		if id != excludeID && user.Active && user.Email == email {
			return true
		}
	}
	return false
}
