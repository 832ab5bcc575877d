package tenant

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

const (
	tenantsTable = "tenants"
	configsTable = "tenant_configs"
)

// Repository репозиторий тенантов и их настроек
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тенантов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тенанта по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "phone", "email", "address", "enabled", "created_at").
		From(tenantsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Tenant
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Name,
		&t.Phone,
		&t.Email,
		&t.Address,
		&t.Enabled,
		&t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan tenant: %v", ErrScanRow, err)
	}

	return &t, nil
}

// GetEntries получает сырые настройки тенанта
func (r *Repository) GetEntries(ctx context.Context, tenantID uuid.UUID) ([]domain.ConfigEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("key", "value").
		From(configsTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("key").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEntries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntries - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.ConfigEntry, 0)
	for rows.Next() {
		var e domain.ConfigEntry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("%w: GetEntries - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// UpsertEntries создает или перезаписывает настройки тенанта
func (r *Repository) UpsertEntries(ctx context.Context, tenantID uuid.UUID, entries []domain.ConfigEntry) error {
	if len(entries) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(configsTable).Columns("tenant_id", "key", "value")
	for _, e := range entries {
		insert = insert.Values(tenantID, string(e.Key), e.Value)
	}

	query, args, err := insert.
		Suffix("ON CONFLICT (tenant_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertEntries - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertEntries - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// DeleteEntries удаляет настройки тенанта по ключам
func (r *Repository) DeleteEntries(ctx context.Context, tenantID uuid.UUID, keys []domain.ConfigKey) error {
	if len(keys) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	raw := make([]string, len(keys))
	for i, k := range keys {
		raw[i] = string(k)
	}

	query, args, err := psqlbuilder.Delete(configsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "key": raw}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteEntries - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteEntries - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}
