package conflicts

import "errors"

var (
	// ErrLoadWorkingHours возвращается, если не удалось получить рабочие часы
	ErrLoadWorkingHours = errors.New("conflicts: failed to load working hours")

	// ErrLoadReservations возвращается, если не удалось получить бронирования
	ErrLoadReservations = errors.New("conflicts: failed to load reservations")
)
