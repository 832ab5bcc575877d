package cancel_reservation

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// MaxReasonLength максимальная длина причины отмены
const MaxReasonLength = domain.MaxCancellationReasonLength

// Request модель запроса на отмену бронирования
type Request struct {
	TenantID      uuid.UUID // ID тенанта
	ReservationID uuid.UUID // ID бронирования
	Reason        *string   // Причина отмены (опционально)
	Force         bool      // Пропустить временные правила
}

// Response модель ответа с отменённым бронированием
type Response struct {
	Reservation *domain.Reservation
}
