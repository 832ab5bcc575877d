package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceOffered услуга, которую тенант предлагает для бронирования
type ServiceOffered struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Name            string
	Description     *string
	DurationMinutes int
	Price           decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate проверяет инварианты услуги
func (s *ServiceOffered) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" || len(name) > MaxServiceNameLength {
		return fmt.Errorf("%w: service name is required and must be at most %d characters",
			ErrValidation, MaxServiceNameLength)
	}
	if s.DurationMinutes <= 0 || s.DurationMinutes > MaxServiceDurationMinutes {
		return fmt.Errorf("%w: got %d minutes", ErrInvalidDuration, s.DurationMinutes)
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrInvalidPrice, s.Price)
	}
	return nil
}
