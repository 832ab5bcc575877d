package cancel_reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Reservation, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID, reason *string, cancelledAt time.Time) error
}

// PolicyProvider источник временных правил тенанта
type PolicyProvider interface {
	ResolvePolicy(ctx context.Context, tenantID uuid.UUID) (domain.TenantPolicy, error)
}

// TransitionValidator проверка смены статуса
type TransitionValidator interface {
	ValidateStatusChange(
		ctx context.Context,
		r *domain.Reservation,
		target domain.ReservationStatus,
		policy domain.TenantPolicy,
		force bool,
	) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	RecordTransition(status string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
