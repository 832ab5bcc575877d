package tenantconfig

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("tenantconfig: tenant not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("tenantconfig: internal error")
)
