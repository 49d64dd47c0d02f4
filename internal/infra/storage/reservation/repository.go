package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/dbmetrics"
	"github.com/suldsma/PROGIII-API/pkg/pgerr"
	"github.com/suldsma/PROGIII-API/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"client_id",
	"hall_id",
	"time_slot_id",
	"reservation_date",
	"start_time",
	"end_time",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование и связи с услугами.
// Вызывать внутри транзакции: вставка в reservations и reservation_services должна быть атомарной.
// Нарушение уникального индекса активных бронирований возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"client_id",
			"hall_id",
			"time_slot_id",
			"reservation_date",
			"start_time",
			"end_time",
			"status",
		).
		Values(
			reservation.ClientID,
			reservation.HallID,
			reservation.TimeSlotID,
			reservation.Date.Format(domain.DateFormat),
			reservation.StartTime,
			reservation.EndTime,
			reservation.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&reservation.ID, &createdAt, &updatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	if len(reservation.ServiceIDs) > 0 {
		insert := psqlbuilder.Insert("reservation_services").Columns("reservation_id", "service_id")
		for _, serviceID := range reservation.ServiceIDs {
			insert = insert.Values(reservation.ID, serviceID)
		}

		query, args, err = insert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build services insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: Create - insert services: %w", ErrExecQuery, err)
		}
	}

	return reservation, nil
}

// GetByID получает бронирование по ID вместе с услугами.
// Внутри транзакции строка блокируется (FOR UPDATE) для смены статуса.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	if err := r.attachServices(ctx, executor, []*domain.Reservation{reservation}); err != nil {
		return nil, err
	}
	return reservation, nil
}

// ListByClient возвращает все бронирования клиента, новые даты первыми
func (r *Repository) ListByClient(ctx context.Context, clientID int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("reservations").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("reservation_date DESC", "start_time DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClient - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListByClient", query, args)
}

// List возвращает страницу бронирований по фильтру и общее количество записей
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter, page domain.Page) ([]*domain.Reservation, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := filterToWhere(filter)

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan count: %v", ErrScanRow, err)
	}

	query, args, err := psqlbuilder.Select(columns...).
		From("reservations").
		Where(where).
		OrderBy("reservation_date DESC", "start_time DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	reservations, err := r.query(ctx, executor, "List", query, args)
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to и обновляет updated_at
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

// CompletePast переводит активные бронирования с датой раньше before в COMPLETED
func (r *Repository) CompletePast(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"reservation_date": before.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CompletePast - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CompletePast - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompletePast - get rows affected: %v", ErrExecQuery, err)
	}
	return rowsAffected, nil
}

// ExistsActive проверяет, занята ли комбинация (зал, дата, слот) активным бронированием
func (r *Repository) ExistsActive(ctx context.Context, hallID int64, date time.Time, slotID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sub := psqlbuilder.Select("1").
		From("reservations").
		Where(squirrel.Eq{
			"hall_id":          hallID,
			"time_slot_id":     slotID,
			"reservation_date": date.Format(domain.DateFormat),
			"status":           domain.StatusPending,
		})

	query, args, err := sub.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActive - build query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsActive - scan: %w", ErrScanRow, err)
	}
	return exists, nil
}

// OccupiedSlotIDs возвращает ID слотов, занятых в зале на дату
func (r *Repository) OccupiedSlotIDs(ctx context.Context, hallID int64, date time.Time) ([]int64, error) {
	return r.selectIDs(ctx, "OccupiedSlotIDs", "time_slot_id", squirrel.Eq{
		"hall_id":          hallID,
		"reservation_date": date.Format(domain.DateFormat),
		"status":           domain.StatusPending,
	})
}

// OccupiedHallIDs возвращает ID залов, занятых в слот на дату
func (r *Repository) OccupiedHallIDs(ctx context.Context, slotID int64, date time.Time) ([]int64, error) {
	return r.selectIDs(ctx, "OccupiedHallIDs", "hall_id", squirrel.Eq{
		"time_slot_id":     slotID,
		"reservation_date": date.Format(domain.DateFormat),
		"status":           domain.StatusPending,
	})
}

// CountActiveByHall считает активные бронирования зала
func (r *Repository) CountActiveByHall(ctx context.Context, hallID int64) (int, error) {
	return r.countActive(ctx, "CountActiveByHall", squirrel.Eq{"hall_id": hallID})
}

// CountActiveBySlot считает активные бронирования временного слота
func (r *Repository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	return r.countActive(ctx, "CountActiveBySlot", squirrel.Eq{"time_slot_id": slotID})
}

// CountActiveByClient считает активные бронирования клиента
func (r *Repository) CountActiveByClient(ctx context.Context, clientID int64) (int, error) {
	return r.countActive(ctx, "CountActiveByClient", squirrel.Eq{"client_id": clientID})
}

// CountActiveByService считает активные бронирования, к которым привязана услуга
func (r *Repository) CountActiveByService(ctx context.Context, serviceID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservation_services rs").
		Join("reservations r ON r.id = rs.reservation_id").
		Where(squirrel.Eq{"rs.service_id": serviceID, "r.status": domain.StatusPending}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByService - build query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByService - scan: %w", ErrScanRow, err)
	}
	return count, nil
}

func (r *Repository) countActive(ctx context.Context, op string, where squirrel.Eq) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where["status"] = domain.StatusPending
	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build query: %v", ErrBuildQuery, op, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %s - scan: %w", ErrScanRow, op, err)
	}
	return count, nil
}

func (r *Repository) selectIDs(ctx context.Context, op, column string, where squirrel.Eq) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT " + column).
		From("reservations").
		Where(where).
		OrderBy(column + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %s - scan id: %v", ErrScanRow, op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return ids, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Reservation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	if err := r.attachServices(ctx, executor, reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// attachServices подгружает услуги одним запросом для всех бронирований
func (r *Repository) attachServices(ctx context.Context, executor DBExecutor, reservations []*domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Reservation, len(reservations))
	ids := make([]int64, 0, len(reservations))
	for _, res := range reservations {
		res.ServiceIDs = make([]int64, 0)
		byID[res.ID] = res
		ids = append(ids, res.ID)
	}

	query, args, err := psqlbuilder.Select("reservation_id", "service_id").
		From("reservation_services").
		Where("reservation_id = ANY(?)", pq.Array(ids)).
		OrderBy("reservation_id ASC", "service_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachServices - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var reservationID, serviceID int64
		if err := rows.Scan(&reservationID, &serviceID); err != nil {
			return fmt.Errorf("%w: attachServices - scan row: %v", ErrScanRow, err)
		}
		if res, ok := byID[reservationID]; ok {
			res.ServiceIDs = append(res.ServiceIDs, serviceID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows error: %v", ErrScanRow, err)
	}
	return nil
}

func filterToWhere(filter domain.ReservationFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": *filter.Status})
	}
	if filter.HallID != nil {
		where = append(where, squirrel.Eq{"hall_id": *filter.HallID})
	}
	if filter.ClientID != nil {
		where = append(where, squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.Date != nil {
		where = append(where, squirrel.Eq{"reservation_date": filter.Date.Format(domain.DateFormat)})
	}
	return where
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res                  domain.Reservation
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.ClientID,
		&res.HallID,
		&res.TimeSlotID,
		&res.Date,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return &res, nil
}
