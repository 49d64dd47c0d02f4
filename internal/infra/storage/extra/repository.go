package extra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/dbmetrics"
	"github.com/suldsma/PROGIII-API/pkg/pgerr"
	"github.com/suldsma/PROGIII-API/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"description",
	"price",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с дополнительными услугами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает услугу
func (r *Repository) Create(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns("description", "price", "active").
		Values(service.Description, service.Price, service.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&service.ID, &createdAt, &updatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return service, nil
}

// GetByID получает услугу по ID (внутри транзакции с блокировкой FOR SHARE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	lock := ""
	if dbmetrics.IsInTransaction(ctx) {
		lock = "FOR SHARE"
	}
	return r.get(ctx, "GetByID", id, lock)
}

// GetByIDForUpdate получает услугу с блокировкой FOR UPDATE
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Service, error) {
	return r.get(ctx, "GetByIDForUpdate", id, "FOR UPDATE")
}

func (r *Repository) get(ctx context.Context, op string, id int64, lock string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("services").
		Where(squirrel.Eq{"id": id})
	if lock != "" {
		builder = builder.Suffix(lock)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan service: %v", ErrScanRow, op, err)
	}
	return service, nil
}

// GetByIDs получает услуги по списку ID; отсутствующие ID просто не попадают в результат.
// Внутри транзакции строки блокируются FOR SHARE.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("services").
		Where("id = ANY(?)", pq.Array(ids)).
		OrderBy("id ASC")
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR SHARE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetByIDs", query, args)
}

// Update обновляет описание и цену услуги
func (r *Repository) Update(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("description", service.Description).
		Set("price", service.Price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": service.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&service.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}
	return service, nil
}

// SetActive меняет флаг active
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
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
		return ErrServiceNotFound
	}
	return nil
}

// ExistsActiveByDescription проверяет, занято ли описание другой активной услугой
func (r *Repository) ExistsActiveByDescription(ctx context.Context, description string, excludeID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("services").
		Where(squirrel.Eq{"active": true}).
		Where("LOWER(TRIM(description)) = ?", strings.ToLower(strings.TrimSpace(description))).
		Where(squirrel.NotEq{"id": excludeID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveByDescription - build query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsActiveByDescription - scan: %w", ErrScanRow, err)
	}
	return exists, nil
}

// List возвращает страницу услуг и общее количество
func (r *Repository) List(ctx context.Context, filter domain.ServiceFilter, page domain.Page) ([]*domain.Service, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{}
	if !filter.IncludeInactive {
		where = append(where, squirrel.Eq{"active": true})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		where = append(where, squirrel.ILike{"description": "%" + search + "%"})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").From("services").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan count: %v", ErrScanRow, err)
	}

	query, args, err := psqlbuilder.Select(columns...).
		From("services").
		Where(where).
		OrderBy("active DESC", "description ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	services, err := r.query(ctx, executor, "List", query, args)
	if err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// MostUsed возвращает активные услуги по числу неотмененных бронирований
func (r *Repository) MostUsed(ctx context.Context, limit int) ([]*domain.ServiceUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.id",
		"s.description",
		"s.price",
		"s.active",
		"s.created_at",
		"s.updated_at",
		"COUNT(r.id) AS usage_count",
	).
		From("services s").
		LeftJoin("reservation_services rs ON rs.service_id = s.id").
		LeftJoin("reservations r ON r.id = rs.reservation_id AND r.status <> ?", domain.StatusCancelled).
		Where(squirrel.Eq{"s.active": true}).
		GroupBy("s.id").
		OrderBy("usage_count DESC", "s.description ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: MostUsed - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: MostUsed - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	usage := make([]*domain.ServiceUsage, 0)
	for rows.Next() {
		var (
			item                 domain.ServiceUsage
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(
			&item.ID,
			&item.Description,
			&item.Price,
			&item.Active,
			&createdAt,
			&updatedAt,
			&item.UsageCount,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: MostUsed - scan row: %v", ErrScanRow, err)
		}
		item.CreatedAt = createdAt.Time
		item.UpdatedAt = updatedAt.Time
		usage = append(usage, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: MostUsed - rows error: %v", ErrScanRow, err)
	}
	return usage, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Service, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return services, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var (
		service              domain.Service
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&service.ID,
		&service.Description,
		&service.Price,
		&service.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time
	return &service, nil
}
