// Package memory is an in-process implementation of the storage layer.
// It keeps the same contracts and error values as the PostgreSQL repositories
// and serializes every transaction behind one mutex.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

type txKey struct{}

// Store хранит все сущности в памяти
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	data state
}

type state struct {
	seq                map[string]int64
	users              map[int64]domain.User
	halls              map[int64]domain.Hall
	slots              map[int64]domain.TimeSlot
	services           map[int64]domain.Service
	reservations       map[int64]domain.Reservation
	reservationService map[int64][]int64
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		now: time.Now,
		data: state{
			seq:                make(map[string]int64),
			users:              make(map[int64]domain.User),
			halls:              make(map[int64]domain.Hall),
			slots:              make(map[int64]domain.TimeSlot),
			services:           make(map[int64]domain.Service),
			reservations:       make(map[int64]domain.Reservation),
			reservationService: make(map[int64][]int64),
		},
	}
}

// Halls репозиторий залов
func (s *Store) Halls() *HallRepository { return &HallRepository{s: s} }

// TimeSlots репозиторий временных слотов
func (s *Store) TimeSlots() *TimeSlotRepository { return &TimeSlotRepository{s: s} }

// Services репозиторий услуг
func (s *Store) Services() *ServiceRepository { return &ServiceRepository{s: s} }

// Users репозиторий пользователей
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Reservations репозиторий бронирований
func (s *Store) Reservations() *ReservationRepository { return &ReservationRepository{s: s} }

// Do выполняет fn атомарно: при ошибке все изменения откатываются
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				s.data = snapshot
				panic(p)
			}
		}()
		return fn(context.WithValue(ctx, txKey{}, true))
	}()
	if err != nil {
		s.data = snapshot
	}
	return err
}

// DoSerializable в памяти эквивалентен Do: транзакции и так выполняются по одной
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// DoReadOnly эквивалентен Do
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// lock захватывает мьютекс, если вызов не внутри транзакции
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) nextID(entity string) int64 {
	s.data.seq[entity]++
	return s.data.seq[entity]
}

func (st state) clone() state {
	out := state{
		seq:                make(map[string]int64, len(st.seq)),
		users:              make(map[int64]domain.User, len(st.users)),
		halls:              make(map[int64]domain.Hall, len(st.halls)),
		slots:              make(map[int64]domain.TimeSlot, len(st.slots)),
		services:           make(map[int64]domain.Service, len(st.services)),
		reservations:       make(map[int64]domain.Reservation, len(st.reservations)),
		reservationService: make(map[int64][]int64, len(st.reservationService)),
	}
	for k, v := range st.seq {
		out.seq[k] = v
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.halls {
		out.halls[k] = v
	}
	for k, v := range st.slots {
		out.slots[k] = v
	}
	for k, v := range st.services {
		out.services[k] = v
	}
	for k, v := range st.reservations {
		out.reservations[k] = v
	}
	for k, v := range st.reservationService {
		out.reservationService[k] = append([]int64(nil), v...)
	}
	return out
}

// paginate вырезает страницу из отсортированного списка
func paginate[T any](items []T, page domain.Page) []T {
	offset := page.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func dateKey(t time.Time) string {
	return t.Format(domain.DateFormat)
}
