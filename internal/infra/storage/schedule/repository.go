package schedule

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
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const (
	schedulesTable = "schedules"
	timesTable     = "schedule_times"
)

// Repository репозиторий для работы с недельным расписанием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет расписание и его рабочие интервалы
func (r *Repository) Create(ctx context.Context, schedule *domain.Schedule) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(schedulesTable).
		Columns("id", "tenant_id", "day_of_week").
		Values(schedule.ID, schedule.TenantID, int(schedule.DayOfWeek)).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	if err := r.insertRanges(ctx, "Create", schedule.ID, schedule.Ranges); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Update меняет день недели и полностью заменяет рабочие интервалы расписания
func (r *Repository) Update(ctx context.Context, schedule *domain.Schedule) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(schedulesTable).
		Set("day_of_week", int(schedule.DayOfWeek)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": schedule.ID, "tenant_id": schedule.TenantID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Delete(timesTable).
		Where(squirrel.Eq{"schedule_id": schedule.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Update - delete ranges: %w", ErrExecQuery, err)
	}

	if err := r.insertRanges(ctx, "Update", schedule.ID, schedule.Ranges); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Delete удаляет расписание тенанта, интервалы удаляются каскадно
func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(schedulesTable).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// GetByID получает расписание тенанта по ID
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Schedule, error) {
	schedules, err := r.find(ctx, "GetByID", squirrel.Eq{"id": id, "tenant_id": tenantID})
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, ErrScheduleNotFound
	}
	return schedules[0], nil
}

// List получает все расписания тенанта, отсортированные по дню недели
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Schedule, error) {
	return r.find(ctx, "List", squirrel.Eq{"tenant_id": tenantID})
}

// FindByTenantAndDay получает расписания тенанта на день недели, кроме excludeID.
// Используется для проверки пересечений при записи; внутри транзакции строки блокируются.
func (r *Repository) FindByTenantAndDay(
	ctx context.Context,
	tenantID uuid.UUID,
	day time.Weekday,
	excludeID uuid.UUID,
) ([]*domain.Schedule, error) {
	where := squirrel.And{
		squirrel.Eq{"tenant_id": tenantID, "day_of_week": int(day)},
		squirrel.NotEq{"id": excludeID},
	}
	return r.find(ctx, "FindByTenantAndDay", where)
}

// FindWorkingHours возвращает рабочие интервалы тенанта на день недели по всем его расписаниям
func (r *Repository) FindWorkingHours(ctx context.Context, tenantID uuid.UUID, day time.Weekday) ([]domain.TimeRange, error) {
	weekly, err := r.hours(ctx, "FindWorkingHours", squirrel.Eq{"s.tenant_id": tenantID, "s.day_of_week": int(day)})
	if err != nil {
		return nil, err
	}
	return weekly[day], nil
}

// FindWeeklyHours возвращает рабочие интервалы тенанта по всем дням недели одним запросом
func (r *Repository) FindWeeklyHours(ctx context.Context, tenantID uuid.UUID) (map[time.Weekday][]domain.TimeRange, error) {
	return r.hours(ctx, "FindWeeklyHours", squirrel.Eq{"s.tenant_id": tenantID})
}

func (r *Repository) hours(ctx context.Context, op string, where squirrel.Sqlizer) (map[time.Weekday][]domain.TimeRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("s.day_of_week", "t.open_time", "t.close_time").
		From(schedulesTable + " s").
		Join(timesTable + " t ON t.schedule_id = s.id").
		Where(where).
		OrderBy("s.day_of_week", "t.open_time").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	weekly := make(map[time.Weekday][]domain.TimeRange)
	for rows.Next() {
		var (
			day  int
			open types.TimeString
			end  types.TimeString
		)
		if err := rows.Scan(&day, &open, &end); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		weekday := time.Weekday(day)
		weekly[weekday] = append(weekly[weekday], domain.TimeRange{Start: open, End: end})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return weekly, nil
}

func (r *Repository) find(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "tenant_id", "day_of_week", "created_at", "updated_at").
		From(schedulesTable).
		Where(where).
		OrderBy("day_of_week", "created_at")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	byID := make(map[uuid.UUID]*domain.Schedule)
	for rows.Next() {
		var (
			schedule domain.Schedule
			day      int
		)
		if err := rows.Scan(&schedule.ID, &schedule.TenantID, &day, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		schedule.DayOfWeek = time.Weekday(day)
		schedule.Ranges = make([]domain.TimeRange, 0)
		schedules = append(schedules, &schedule)
		byID[schedule.ID] = &schedule
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	if len(schedules) == 0 {
		return schedules, nil
	}

	if err := r.attachRanges(ctx, op, byID); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *Repository) attachRanges(ctx context.Context, op string, byID map[uuid.UUID]*domain.Schedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select("schedule_id", "open_time", "close_time").
		From(timesTable).
		Where(squirrel.Eq{"schedule_id": ids}).
		OrderBy("open_time").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build ranges query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute ranges query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			scheduleID uuid.UUID
			tr         domain.TimeRange
		)
		if err := rows.Scan(&scheduleID, &tr.Start, &tr.End); err != nil {
			return fmt.Errorf("%w: %s - scan range: %v", ErrScanRow, op, err)
		}
		if s, ok := byID[scheduleID]; ok {
			s.Ranges = append(s.Ranges, tr)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %s - ranges rows error: %v", ErrScanRow, op, err)
	}

	return nil
}

func (r *Repository) insertRanges(ctx context.Context, op string, scheduleID uuid.UUID, ranges []domain.TimeRange) error {
	if len(ranges) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(timesTable).Columns("schedule_id", "open_time", "close_time")
	for _, tr := range ranges {
		insert = insert.Values(scheduleID, tr.Start, tr.End)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build ranges insert: %v", ErrBuildQuery, op, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - insert ranges: %w", ErrExecQuery, op, err)
	}

	return nil
}
