// Package transitions реализует машину состояний бронирования.
package transitions

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Validator проверяет смену статуса бронирования. Сам ничего не сохраняет.
type Validator struct {
	overlaps     OverlapChecker
	timeProvider TimeProvider
	location     *time.Location
}

// NewValidator создает валидатор. location - часовой пояс, в котором заданы даты и время бронирований.
func NewValidator(overlaps OverlapChecker, location *time.Location) *Validator {
	if location == nil {
		location = time.UTC
	}
	return &Validator{
		overlaps:     overlaps,
		timeProvider: &RealTimeProvider{},
		location:     location,
	}
}

// WithTimeProvider подменяет источник времени
func (v *Validator) WithTimeProvider(tp TimeProvider) *Validator {
	v.timeProvider = tp
	return v
}

// ValidateStatusChange проверяет переход r -> target.
// Правила таблицы переходов обязательны всегда, force отключает только временные правила
// и повторную проверку пересечений.
func (v *Validator) ValidateStatusChange(
	ctx context.Context,
	r *domain.Reservation,
	target domain.ReservationStatus,
	policy domain.TenantPolicy,
	force bool,
) error {
	if err := checkTable(r.Status, target); err != nil {
		return err
	}

	if force {
		return nil
	}

	now := v.timeProvider.Now()

	if err := v.validateNotStarted(r, now); err != nil {
		return err
	}

	if err := v.validateMinDaysBefore(r, policy.MinDaysBefore(target), now); err != nil {
		return err
	}

	if target == domain.StatusConfirmed && r.Status == domain.StatusPending {
		if err := v.overlaps.CheckOverlap(ctx, r, r.ID); err != nil {
			return err
		}
	}

	return nil
}

// checkTable обязательные правила машины состояний
func checkTable(from, to domain.ReservationStatus) error {
	switch from {
	case domain.StatusCompleted:
		return domain.ErrCompletedImmutable
	case domain.StatusExpired:
		return domain.ErrExpiredImmutable
	}

	switch to {
	case domain.StatusCancelled:
		switch from {
		case domain.StatusPending, domain.StatusConfirmed:
			return nil
		case domain.StatusCancelled:
			return domain.ErrAlreadyCancelled
		}
	case domain.StatusConfirmed:
		switch from {
		case domain.StatusPending:
			return nil
		case domain.StatusConfirmed:
			return domain.ErrAlreadyConfirmed
		case domain.StatusCancelled:
			return domain.ErrCancelledCannotConfirm
		}
	}

	return fmt.Errorf("%w: %s -> %s", domain.ErrUnsupportedTransition, from, to)
}

// validateNotStarted запрещает менять бронирование, окно которого уже началось
func (v *Validator) validateNotStarted(r *domain.Reservation, now time.Time) error {
	if r.StartsAt(v.location).Before(now) {
		return fmt.Errorf("%w: started at %s", domain.ErrAlreadyStarted, r.StartsAt(v.location).Format(time.RFC3339))
	}
	return nil
}

// validateMinDaysBefore требует не менее minDays дней до полуночи даты бронирования.
// nil - правило выключено.
func (v *Validator) validateMinDaysBefore(r *domain.Reservation, minDays *uint, now time.Time) error {
	if minDays == nil {
		return nil
	}

	deadline := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, v.location).
		AddDate(0, 0, -int(*minDays))

	if now.After(deadline) {
		return fmt.Errorf("%w: must be at least %d day(s) before %s",
			domain.ErrTooCloseToDate, *minDays, r.Date.Format(domain.DateFormat))
	}
	return nil
}
