package cancel_reservation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// validateRequest проверяет входные данные и нормализует причину отмены
func validateRequest(req *Request) error {
	if req.TenantID == uuid.Nil || req.ReservationID == uuid.Nil {
		return fmt.Errorf("%w: tenant and reservation ids are required", ErrInvalidInput)
	}

	if req.Reason != nil {
		reason := strings.TrimSpace(*req.Reason)
		if utf8.RuneCountInString(reason) > MaxReasonLength {
			return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, MaxReasonLength)
		}
		if reason == "" {
			req.Reason = nil
		} else {
			req.Reason = ptr.Ptr(reason)
		}
	}

	return nil
}
