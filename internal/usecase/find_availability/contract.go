package find_availability

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

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	FindWeeklyHours(ctx context.Context, tenantID uuid.UUID) (map[time.Weekday][]domain.TimeRange, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	FindByTenantAndDateRange(
		ctx context.Context,
		tenantID uuid.UUID,
		from, to time.Time,
		statuses []domain.ReservationStatus,
	) ([]*domain.Reservation, error)
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
