package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.ServiceOffered) (*domain.ServiceOffered, error)
	Update(ctx context.Context, service *domain.ServiceOffered) (*domain.ServiceOffered, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.ServiceOffered, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*domain.ServiceOffered, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
