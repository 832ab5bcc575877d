package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	DefaultMaxAvailabilityDays  = 31
	MaxServicesPerReservation   = 20
	MaxCancellationReasonLength = 500
	MaxServiceNameLength        = 255
	MaxServiceDurationMinutes   = 24 * 60
)

// BlockingStatuses статусы, при которых бронирование занимает время в расписании
var BlockingStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []ReservationStatus{
	StatusCancelled,
	StatusCompleted,
	StatusExpired,
}
