package create_reservation

import "errors"

var (
	// ErrServiceNotFound возвращается, когда хотя бы одна из услуг не найдена
	ErrServiceNotFound = errors.New("create_reservation: service not found")

	// ErrInvalidDate возвращается, когда дата или время бронирования уже прошли
	ErrInvalidDate = errors.New("create_reservation: reservation date is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
