package confirm_reservation

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на подтверждение бронирования
type Request struct {
	TenantID      uuid.UUID // ID тенанта
	ReservationID uuid.UUID // ID бронирования
	Force         bool      // Пропустить временные правила и повторную проверку пересечений
}

// Response модель ответа с подтверждённым бронированием
type Response struct {
	Reservation *domain.Reservation
}
