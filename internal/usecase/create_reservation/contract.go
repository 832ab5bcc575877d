package create_reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*domain.ServiceOffered, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	LockTenantDate(ctx context.Context, tenantID uuid.UUID, date time.Time) error
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
}

// ConflictValidator проверка бронирования против расписания и других бронирований
type ConflictValidator interface {
	ValidateReservation(ctx context.Context, candidate *domain.Reservation, excludeID uuid.UUID) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	RecordReservationCreated()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
