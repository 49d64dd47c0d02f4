package user

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
	"first_name",
	"last_name",
	"email",
	"password_hash",
	"role",
	"phone",
	"photo",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с пользователями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает пользователя; email сохраняется в нижнем регистре
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	user.Email = normalizeEmail(user.Email)

	query, args, err := psqlbuilder.Insert("users").
		Columns("first_name", "last_name", "email", "password_hash", "role", "phone", "photo", "active").
		Values(user.FirstName, user.LastName, user.Email, user.PasswordHash, int(user.Role), user.Phone, user.Photo, user.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&user.ID, &createdAt, &updatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return user, nil
}

// GetByID получает пользователя по ID (внутри транзакции с блокировкой FOR SHARE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	lock := ""
	if dbmetrics.IsInTransaction(ctx) {
		lock = "FOR SHARE"
	}
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, lock)
}

// GetByIDForUpdate получает пользователя с блокировкой FOR UPDATE
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "GetByIDForUpdate", squirrel.Eq{"id": id}, "FOR UPDATE")
}

// GetActiveByEmail получает активного пользователя по email без учета регистра
func (r *Repository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "GetActiveByEmail", squirrel.Eq{"active": true, "email": normalizeEmail(email)}, "")
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer, lock string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("users").
		Where(where)
	if lock != "" {
		builder = builder.Suffix(lock)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	user, err := scanUser(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan user: %v", ErrScanRow, op, err)
	}
	return user, nil
}

// Update обновляет профиль, роль и хеш пароля
func (r *Repository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	user.Email = normalizeEmail(user.Email)

	query, args, err := psqlbuilder.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("role", int(user.Role)).
		Set("phone", user.Phone).
		Set("photo", user.Photo).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}
	return user, nil
}

// SetActive меняет флаг active
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
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
		return ErrUserNotFound
	}
	return nil
}

// ExistsActiveByEmail проверяет, занят ли email другим активным пользователем
func (r *Repository) ExistsActiveByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("users").
		Where(squirrel.Eq{"active": true, "email": normalizeEmail(email)}).
		Where(squirrel.NotEq{"id": excludeID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveByEmail - build query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsActiveByEmail - scan: %w", ErrScanRow, err)
	}
	return exists, nil
}

// List возвращает страницу пользователей и общее количество
func (r *Repository) List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]*domain.User, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{}
	if !filter.IncludeInactive {
		where = append(where, squirrel.Eq{"active": true})
	}
	if filter.Role != nil {
		where = append(where, squirrel.Eq{"role": int(*filter.Role)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan count: %v", ErrScanRow, err)
	}

	query, args, err := psqlbuilder.Select(columns...).
		From("users").
		Where(where).
		OrderBy("active DESC", "last_name ASC", "first_name ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}
	return users, total, nil
}

// Stats возвращает количество пользователей по ролям
func (r *Repository) Stats(ctx context.Context) ([]*domain.RoleStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"role",
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE active) AS active",
		"COUNT(*) FILTER (WHERE NOT active) AS inactive",
	).
		From("users").
		GroupBy("role").
		OrderBy("role ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := make([]*domain.RoleStats, 0)
	for rows.Next() {
		var (
			item domain.RoleStats
			role int
		)
		if err := rows.Scan(&role, &item.Total, &item.Active, &item.Inactive); err != nil {
			return nil, fmt.Errorf("%w: Stats - scan row: %v", ErrScanRow, err)
		}
		item.Role = domain.Role(role)
		stats = append(stats, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Stats - rows error: %v", ErrScanRow, err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user                 domain.User
		role                 int
		phone, photo         sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&role,
		&phone,
		&photo,
		&user.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = domain.Role(role)
	if phone.Valid {
		user.Phone = &phone.String
	}
	if photo.Valid {
		user.Photo = &photo.String
	}
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
