package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const (
	reservationsTable = "reservations"
	servicesTable     = "reservation_services"

	// localTimestampLayout формат для сравнения с (reservation_date + start_time), timestamp без зоны
	localTimestampLayout = "2006-01-02 15:04:05"
)

var reservationColumns = []string{
	"id",
	"tenant_id",
	"reservation_date",
	"start_time",
	"end_time",
	"total_price",
	"status",
	"customer_name",
	"customer_email",
	"customer_phone",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

var serviceColumns = []string{
	"id",
	"reservation_id",
	"service_id",
	"name",
	"description",
	"price",
	"duration_minutes",
	"start_time",
	"end_time",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование вместе со снимками услуг.
// Должен вызываться внутри транзакции, иначе при ошибке вставки услуг останется бронирование без услуг.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(reservationsTable).
		Columns(
			"id",
			"tenant_id",
			"reservation_date",
			"start_time",
			"end_time",
			"total_price",
			"status",
			"customer_name",
			"customer_email",
			"customer_phone",
		).
		Values(
			reservation.ID,
			reservation.TenantID,
			reservation.Date,
			reservation.StartTime,
			reservation.EndTime,
			reservation.TotalPrice,
			reservation.Status,
			reservation.Customer.Name,
			reservation.Customer.Email,
			reservation.Customer.Phone,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	if len(reservation.Services) == 0 {
		return reservation, nil
	}

	insert := psqlbuilder.Insert(servicesTable).Columns(append(serviceColumns, "position")...)
	for i, s := range reservation.Services {
		insert = insert.Values(
			s.ID,
			reservation.ID,
			s.ServiceID,
			s.Name,
			s.Description,
			s.Price,
			s.DurationMinutes,
			s.StartTime,
			s.EndTime,
			i,
		)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build services insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute services insert: %w", ErrExecQuery, err)
	}

	return reservation, nil
}

// GetByID получает бронирование тенанта по ID вместе со снимками услуг.
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения.
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(reservationsTable).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	if err := r.attachServices(ctx, []*domain.Reservation{reservation}); err != nil {
		return nil, err
	}

	return reservation, nil
}

// FindByTenantAndDate получает занимающие время бронирования тенанта на дату.
// Используется при проверке конфликтов: внутри транзакции строки блокируются (FOR UPDATE).
// Снимки услуг не загружаются.
func (r *Repository) FindByTenantAndDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*domain.Reservation, error) {
	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(reservationsTable).
		Where(squirrel.Eq{
			"tenant_id":        tenantID,
			"reservation_date": domain.DateOf(date),
			"status":           statusStrings(domain.BlockingStatuses),
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.query(ctx, "FindByTenantAndDate", selectBuilder)
}

// FindByTenantAndDateRange получает бронирования тенанта за период [from, to] в указанных статусах
func (r *Repository) FindByTenantAndDateRange(
	ctx context.Context,
	tenantID uuid.UUID,
	from, to time.Time,
	statuses []domain.ReservationStatus,
) ([]*domain.Reservation, error) {
	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(reservationsTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"reservation_date": domain.DateOf(from)}).
		Where(squirrel.LtOrEq{"reservation_date": domain.DateOf(to)}).
		OrderBy("reservation_date ASC", "start_time ASC")

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}

	return r.query(ctx, "FindByTenantAndDateRange", selectBuilder)
}

// List получает бронирования тенанта по фильтру вместе со снимками услуг.
// Сортировка: сначала новые даты.
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(reservationsTable).
		Where(squirrel.Eq{"tenant_id": filter.TenantID}).
		OrderBy("reservation_date DESC", "start_time DESC")

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": domain.DateOf(*filter.From)})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reservation_date": domain.DateOf(*filter.To)})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}

	reservations, err := r.query(ctx, "List", selectBuilder)
	if err != nil {
		return nil, err
	}

	if err := r.attachServices(ctx, reservations); err != nil {
		return nil, err
	}

	return reservations, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.ReservationStatus) error {
	query, args, err := psqlbuilder.Update(reservationsTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "UpdateStatus", query, args)
}

// Cancel переводит бронирование в статус cancelled с причиной и временем отмены
func (r *Repository) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason *string, cancelledAt time.Time) error {
	query, args, err := psqlbuilder.Update(reservationsTable).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Cancel", query, args)
}

// LockTenantDate берёт транзакционную advisory-блокировку на пару (тенант, дата).
// Сериализует создание бронирований на один день одного тенанта; снимается при завершении транзакции.
func (r *Repository) LockTenantDate(ctx context.Context, tenantID uuid.UUID, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("%s|%s", tenantID, domain.DateOf(date).Format(domain.DateFormat))
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("%w: LockTenantDate - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// ExpirePending переводит в expired ожидающие бронирования, начало которых раньше localNow.
// localNow - текущее время в часовом поясе бизнеса.
func (r *Repository) ExpirePending(ctx context.Context, localNow time.Time) (int64, error) {
	return r.closeElapsed(ctx, "ExpirePending", domain.StatusPending, domain.StatusExpired, "start_time", localNow)
}

// CompleteConfirmed переводит в completed подтверждённые бронирования, окончание которых раньше localNow
func (r *Repository) CompleteConfirmed(ctx context.Context, localNow time.Time) (int64, error) {
	return r.closeElapsed(ctx, "CompleteConfirmed", domain.StatusConfirmed, domain.StatusCompleted, "end_time", localNow)
}

func (r *Repository) closeElapsed(
	ctx context.Context,
	op string,
	from, to domain.ReservationStatus,
	boundaryColumn string,
	localNow time.Time,
) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(reservationsTable).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": from}).
		Where(squirrel.Expr(
			fmt.Sprintf("(reservation_date + %s) < ?::timestamp", boundaryColumn),
			localNow.Format(localTimestampLayout),
		)).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return affected, nil
}

func (r *Repository) execOne(ctx context.Context, op, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

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

	return reservations, nil
}

// attachServices загружает снимки услуг одним запросом для всех бронирований
func (r *Repository) attachServices(ctx context.Context, reservations []*domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	byID := make(map[uuid.UUID]*domain.Reservation, len(reservations))
	ids := make([]uuid.UUID, 0, len(reservations))
	for _, res := range reservations {
		byID[res.ID] = res
		ids = append(ids, res.ID)
	}

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From(servicesTable).
		Where(squirrel.Eq{"reservation_id": ids}).
		OrderBy("reservation_id", "position ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s             domain.ServiceSnapshot
			reservationID uuid.UUID
		)
		if err := rows.Scan(
			&s.ID,
			&reservationID,
			&s.ServiceID,
			&s.Name,
			&s.Description,
			&s.Price,
			&s.DurationMinutes,
			&s.StartTime,
			&s.EndTime,
		); err != nil {
			return fmt.Errorf("%w: attachServices - scan row: %v", ErrScanRow, err)
		}

		if res, ok := byID[reservationID]; ok {
			res.Services = append(res.Services, s)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		reservation          domain.Reservation
		createdAt, updatedAt sql.NullTime
		cancelledAt          sql.NullTime
	)

	err := row.Scan(
		&reservation.ID,
		&reservation.TenantID,
		&reservation.Date,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.TotalPrice,
		&reservation.Status,
		&reservation.Customer.Name,
		&reservation.Customer.Email,
		&reservation.Customer.Phone,
		&reservation.CancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	reservation.Date = domain.DateOf(reservation.Date)
	reservation.Services = make([]domain.ServiceSnapshot, 0)
	if cancelledAt.Valid {
		reservation.CancelledAt = &cancelledAt.Time
	}
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	return &reservation, nil
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
