package find_availability

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDays int) error {
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	from, to := domain.DateOf(req.From), domain.DateOf(req.To)
	if to.Before(from) {
		return fmt.Errorf("%w: 'from' must not be after 'to'", ErrInvalidInput)
	}

	if days := int(to.Sub(from).Hours()/24) + 1; days > maxDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLong, days, maxDays)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerReservation {
		return fmt.Errorf("%w: at most %d services per reservation", ErrInvalidInput, domain.MaxServicesPerReservation)
	}

	return nil
}
