package find_availability

import "errors"

var (
	// ErrServiceNotFound возвращается, когда хотя бы одна из услуг не найдена
	ErrServiceNotFound = errors.New("find_availability: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_availability: invalid input data")

	// ErrRangeTooLong возвращается, когда период поиска длиннее допустимого
	ErrRangeTooLong = errors.New("find_availability: date range is too long")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_availability: internal error")
)
