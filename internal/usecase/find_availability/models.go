package find_availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса свободных слотов
type Request struct {
	TenantID   uuid.UUID   // ID тенанта
	From       time.Time   // Первая дата периода включительно
	To         time.Time   // Последняя дата периода включительно
	ServiceIDs []uuid.UUID // Услуги, выполняемые подряд в одном бронировании
}

// Slot свободный слот
type Slot struct {
	Date      time.Time        // Дата (полночь UTC)
	StartTime types.TimeString // Начало слота
	EndTime   types.TimeString // Конец слота
}

// Response модель ответа со свободными слотами
type Response struct {
	DurationMinutes int    // Суммарная длительность услуг
	Slots           []Slot // Слоты по возрастанию даты и времени
}
