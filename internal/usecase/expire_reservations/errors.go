package expire_reservations

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = errors.New("expire_reservations: internal error")
