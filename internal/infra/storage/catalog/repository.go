package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const servicesTable = "services"

var serviceColumns = []string{
	"id",
	"tenant_id",
	"name",
	"description",
	"duration_minutes",
	"price",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога услуг тенанта
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую услугу
func (r *Repository) Create(ctx context.Context, service *domain.ServiceOffered) (*domain.ServiceOffered, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(servicesTable).
		Columns("id", "tenant_id", "name", "description", "duration_minutes", "price").
		Values(
			service.ID,
			service.TenantID,
			service.Name,
			service.Description,
			service.DurationMinutes,
			service.Price,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&service.CreatedAt, &service.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return service, nil
}

// Update обновляет услугу тенанта.
// Уже созданные бронирования хранят снимки и не меняются.
func (r *Repository) Update(ctx context.Context, service *domain.ServiceOffered) (*domain.ServiceOffered, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(servicesTable).
		Set("name", service.Name).
		Set("description", service.Description).
		Set("duration_minutes", service.DurationMinutes).
		Set("price", service.Price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": service.ID, "tenant_id": service.TenantID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&service.CreatedAt, &service.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return service, nil
}

// Delete удаляет услугу тенанта
func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(servicesTable).
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
		return ErrServiceNotFound
	}

	return nil
}

// GetByID получает услугу тенанта по ID
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.ServiceOffered, error) {
	services, err := r.find(ctx, "GetByID", squirrel.Eq{"id": id, "tenant_id": tenantID})
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, ErrServiceNotFound
	}
	return services[0], nil
}

// FindByIDs получает услуги тенанта по списку ID в порядке ids.
// Если хотя бы одна услуга не найдена, возвращается ErrServiceNotFound.
func (r *Repository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*domain.ServiceOffered, error) {
	if len(ids) == 0 {
		return []*domain.ServiceOffered{}, nil
	}

	found, err := r.find(ctx, "FindByIDs", squirrel.Eq{"id": ids, "tenant_id": tenantID})
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.ServiceOffered, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	services := make([]*domain.ServiceOffered, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
		}
		services = append(services, s)
	}

	return services, nil
}

// List получает все услуги тенанта
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.ServiceOffered, error) {
	return r.find(ctx, "List", squirrel.Eq{"tenant_id": tenantID})
}

func (r *Repository) find(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.ServiceOffered, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From(servicesTable).
		Where(where).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	services := make([]*domain.ServiceOffered, 0)
	for rows.Next() {
		var s domain.ServiceOffered
		if err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.Name,
			&s.Description,
			&s.DurationMinutes,
			&s.Price,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		services = append(services, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return services, nil
}
