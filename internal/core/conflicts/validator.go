// Package conflicts проверяет кандидата в бронирования против рабочих часов,
// существующих бронирований и сетки слотов.
package conflicts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/core/slots"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Validator загружает данные через репозитории и применяет проверки из Check
type Validator struct {
	schedules    ScheduleRepository
	reservations ReservationRepository
}

// NewValidator создает валидатор конфликтов
func NewValidator(schedules ScheduleRepository, reservations ReservationRepository) *Validator {
	return &Validator{
		schedules:    schedules,
		reservations: reservations,
	}
}

// ValidateReservation проверяет кандидата целиком.
// excludeID исключает запись из сравнения (само бронирование при повторной проверке), uuid.Nil - ничего не исключать.
// Внутри транзакции репозиторий блокирует прочитанные строки, что закрывает гонку между проверкой и записью.
func (v *Validator) ValidateReservation(ctx context.Context, candidate *domain.Reservation, excludeID uuid.UUID) error {
	workingHours, err := v.schedules.FindWorkingHours(ctx, candidate.TenantID, candidate.Date.Weekday())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadWorkingHours, err)
	}

	existing, err := v.reservations.FindByTenantAndDate(ctx, candidate.TenantID, candidate.Date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadReservations, err)
	}

	return Check(candidate, workingHours, existing, excludeID)
}

// CheckOverlap выполняет только проверку пересечений с другими бронированиями
func (v *Validator) CheckOverlap(ctx context.Context, candidate *domain.Reservation, excludeID uuid.UUID) error {
	existing, err := v.reservations.FindByTenantAndDate(ctx, candidate.TenantID, candidate.Date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadReservations, err)
	}

	return checkOverlap(candidate, busyRanges(existing, excludeID))
}

// Check применяет проверки по порядку и возвращает первую нарушенную:
//  1. каждая услуга внутри бронирования имеет start < end;
//  2. бронирование целиком лежит в одном из рабочих интервалов;
//  3. нет строгого пересечения с другими занимающими время бронированиями;
//  4. бронирование совпадает с окном сетки слотов, построенной по рабочим часам и остальным бронированиям.
func Check(
	candidate *domain.Reservation,
	workingHours []domain.TimeRange,
	existing []*domain.Reservation,
	excludeID uuid.UUID,
) error {
	for _, s := range candidate.Services {
		if err := domain.ValidateTimeRange(s.Range()); err != nil {
			return fmt.Errorf("%w: service %q", err, s.Name)
		}
	}

	window := candidate.Range()
	if err := domain.ValidateTimeRange(window); err != nil {
		return err
	}

	if !withinWorkingHours(window, workingHours) {
		return fmt.Errorf("%w: %s on %s", domain.ErrOutsideWorkingHours, window, candidate.Date.Format(domain.DateFormat))
	}

	busy := busyRanges(existing, excludeID)
	if err := checkOverlap(candidate, busy); err != nil {
		return err
	}

	available, err := slots.ComputeSlotsForDate(candidate.Date, workingHours, window.DurationMinutes(), busy)
	if err != nil {
		return err
	}
	for _, s := range available {
		if s.Range.Contains(window) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s on %s", domain.ErrSlotUnavailable, window, candidate.Date.Format(domain.DateFormat))
}

func withinWorkingHours(window domain.TimeRange, workingHours []domain.TimeRange) bool {
	for _, wh := range workingHours {
		if wh.Contains(window) {
			return true
		}
	}
	return false
}

func checkOverlap(candidate *domain.Reservation, busy []domain.TimeRange) error {
	window := candidate.Range()
	for _, b := range busy {
		if domain.RangesOverlap(window, b) {
			return fmt.Errorf("%w: %s intersects %s", domain.ErrOverlap, window, b)
		}
	}
	return nil
}

// busyRanges интервалы занимающих время бронирований, кроме excludeID
func busyRanges(existing []*domain.Reservation, excludeID uuid.UUID) []domain.TimeRange {
	busy := make([]domain.TimeRange, 0, len(existing))
	for _, r := range existing {
		if r.ID == excludeID || !r.IsBlocking() {
			continue
		}
		busy = append(busy, r.Range())
	}
	return busy
}
