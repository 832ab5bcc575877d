package domain

import "errors"

// Виды ошибок ядра. Любая конкретная ошибка ниже совпадает со своим видом через errors.Is.
var (
	// ErrValidation структурно некорректный ввод
	ErrValidation = errors.New("validation error")

	// ErrConflict нарушение бизнес-правила при текущем состоянии данных
	ErrConflict = errors.New("conflict")

	// ErrState недопустимая смена статуса бронирования
	ErrState = errors.New("illegal state transition")
)

// kindError ошибка с привязкой к виду
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Ошибки валидации
var (
	ErrInvalidRange       = newError(ErrValidation, "domain: invalid time range")
	ErrInvalidDuration    = newError(ErrValidation, "domain: duration must be positive")
	ErrInvalidPrice       = newError(ErrValidation, "domain: price must not be negative")
	ErrInvalidConfigValue = newError(ErrValidation, "domain: config value must be a non-negative integer")
	ErrUnknownConfigKey   = newError(ErrValidation, "domain: unknown config key")
	ErrInvalidWeekday     = newError(ErrValidation, "domain: invalid day of week")
	ErrNoServices         = newError(ErrValidation, "domain: reservation requires at least one service")
	ErrInvalidStatus      = newError(ErrValidation, "domain: unknown reservation status")
)

// Конфликты
var (
	ErrOverlap             = newError(ErrConflict, "domain: reservation overlaps an existing reservation")
	ErrSlotUnavailable     = newError(ErrConflict, "domain: requested time is not an available slot")
	ErrOutsideWorkingHours = newError(ErrConflict, "domain: reservation is outside working hours")
	ErrTooCloseToDate      = newError(ErrConflict, "domain: too close to the reservation date")
	ErrAlreadyStarted      = newError(ErrConflict, "domain: reservation has already started")
	ErrScheduleOverlap     = newError(ErrConflict, "domain: schedule ranges overlap")
)

// Ошибки смены статуса
var (
	ErrAlreadyCancelled       = newError(ErrState, "domain: reservation is already cancelled")
	ErrAlreadyConfirmed       = newError(ErrState, "domain: reservation is already confirmed")
	ErrCancelledCannotConfirm = newError(ErrState, "domain: cancelled reservation cannot be confirmed")
	ErrCompletedImmutable     = newError(ErrState, "domain: completed reservation cannot be changed")
	ErrExpiredImmutable       = newError(ErrState, "domain: expired reservation cannot be changed")
	ErrUnsupportedTransition  = newError(ErrState, "domain: unsupported status transition")
)
