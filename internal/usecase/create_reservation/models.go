package create_reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID   uuid.UUID        // ID тенанта
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	ServiceIDs []uuid.UUID      // Услуги в порядке выполнения
	Customer   domain.Customer  // Контактные данные клиента
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
}
