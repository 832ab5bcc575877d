package tenantconfig

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// TenantRepository интерфейс репозитория тенантов и их настроек
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	GetEntries(ctx context.Context, tenantID uuid.UUID) ([]domain.ConfigEntry, error)
	UpsertEntries(ctx context.Context, tenantID uuid.UUID, entries []domain.ConfigEntry) error
	DeleteEntries(ctx context.Context, tenantID uuid.UUID, keys []domain.ConfigKey) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
