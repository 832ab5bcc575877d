package conflicts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ScheduleRepository источник рабочих часов тенанта
type ScheduleRepository interface {
	FindWorkingHours(ctx context.Context, tenantID uuid.UUID, day time.Weekday) ([]domain.TimeRange, error)
}

// ReservationRepository источник бронирований тенанта на дату
type ReservationRepository interface {
	FindByTenantAndDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*domain.Reservation, error)
}
