package hall

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/dbmetrics"
	"github.com/suldsma/PROGIII-API/pkg/pgerr"
	"github.com/suldsma/PROGIII-API/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"title",
	"address",
	"latitude",
	"longitude",
	"capacity",
	"price",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с залами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория залов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает зал
func (r *Repository) Create(ctx context.Context, hall *domain.Hall) (*domain.Hall, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("halls").
		Columns("title", "address", "latitude", "longitude", "capacity", "price", "active").
		Values(hall.Title, hall.Address, hall.Latitude, hall.Longitude, hall.Capacity, hall.Price, hall.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&hall.ID, &createdAt, &updatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	hall.CreatedAt = createdAt.Time
	hall.UpdatedAt = updatedAt.Time

	return hall, nil
}

// GetByID получает зал по ID.
// Внутри транзакции строка блокируется на чтение (FOR SHARE): зал нельзя деактивировать,
// пока транзакция бронирования не завершится.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Hall, error) {
	lock := ""
	if dbmetrics.IsInTransaction(ctx) {
		lock = "FOR SHARE"
	}
	return r.get(ctx, "GetByID", id, lock)
}

// GetByIDForUpdate получает зал с блокировкой FOR UPDATE (изменение и деактивация)
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Hall, error) {
	return r.get(ctx, "GetByIDForUpdate", id, "FOR UPDATE")
}

func (r *Repository) get(ctx context.Context, op string, id int64, lock string) (*domain.Hall, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("halls").
		Where(squirrel.Eq{"id": id})
	if lock != "" {
		builder = builder.Suffix(lock)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	hall, err := scanHall(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHallNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan hall: %v", ErrScanRow, op, err)
	}
	return hall, nil
}

// Update обновляет поля зала (кроме флага active)
func (r *Repository) Update(ctx context.Context, hall *domain.Hall) (*domain.Hall, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("halls").
		Set("title", hall.Title).
		Set("address", hall.Address).
		Set("latitude", hall.Latitude).
		Set("longitude", hall.Longitude).
		Set("capacity", hall.Capacity).
		Set("price", hall.Price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": hall.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&hall.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHallNotFound
	}
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}
	return hall, nil
}

// SetActive меняет флаг active (мягкое удаление и восстановление)
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("halls").
		Set("active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("%w: SetActive - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetActive - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrHallNotFound
	}
	return nil
}

// ExistsActiveDuplicate проверяет, есть ли другой активный зал с теми же названием и адресом
// (без учета регистра и пробелов по краям)
func (r *Repository) ExistsActiveDuplicate(ctx context.Context, title, address string, excludeID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("halls").
		Where(squirrel.Eq{"active": true}).
		Where("LOWER(TRIM(title)) = ?", normalize(title)).
		Where("LOWER(TRIM(address)) = ?", normalize(address)).
		Where(squirrel.NotEq{"id": excludeID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveDuplicate - build query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsActiveDuplicate - scan: %w", ErrScanRow, err)
	}
	return exists, nil
}

// List возвращает страницу залов и общее количество.
// Поиск по подстроке в названии или адресе; активные первыми, затем по названию.
func (r *Repository) List(ctx context.Context, filter domain.HallFilter, page domain.Page) ([]*domain.Hall, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{}
	if !filter.IncludeInactive {
		where = append(where, squirrel.Eq{"active": true})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"address": pattern},
		})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").From("halls").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan count: %v", ErrScanRow, err)
	}

	query, args, err := psqlbuilder.Select(columns...).
		From("halls").
		Where(where).
		OrderBy("active DESC", "title ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	halls, err := r.query(ctx, executor, "List", query, args)
	if err != nil {
		return nil, 0, err
	}
	return halls, total, nil
}

// ListActive возвращает все активные залы по названию
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Hall, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("halls").
		Where(squirrel.Eq{"active": true}).
		OrderBy("title ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListActive", query, args)
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Hall, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	halls := make([]*domain.Hall, 0)
	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		halls = append(halls, hall)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return halls, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHall(row rowScanner) (*domain.Hall, error) {
	var (
		hall                 domain.Hall
		latitude, longitude  sql.NullFloat64
		capacity             sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&hall.ID,
		&hall.Title,
		&hall.Address,
		&latitude,
		&longitude,
		&capacity,
		&hall.Price,
		&hall.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if latitude.Valid {
		hall.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		hall.Longitude = &longitude.Float64
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		hall.Capacity = &c
	}
	hall.CreatedAt = createdAt.Time
	hall.UpdatedAt = updatedAt.Time
	return &hall, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
