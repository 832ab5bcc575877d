package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const maxCustomerNameLength = 255

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID == uuid.Nil {
		return fmt.Errorf("%w: tenant is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerReservation {
		return fmt.Errorf("%w: at most %d services per reservation", ErrInvalidInput, domain.MaxServicesPerReservation)
	}

	name := strings.TrimSpace(req.Customer.Name)
	if name == "" || len(name) > maxCustomerNameLength {
		return fmt.Errorf("%w: customer name is required and must be at most %d characters", ErrInvalidInput, maxCustomerNameLength)
	}

	return nil
}

// validateNotInPast проверяет, что бронирование начинается не раньше now
func validateNotInPast(r *domain.Reservation, now time.Time, loc *time.Location) error {
	if r.StartsAt(loc).Before(now) {
		return fmt.Errorf("%w: %s %s", ErrInvalidDate, r.Date.Format(domain.DateFormat), r.StartTime)
	}
	return nil
}
