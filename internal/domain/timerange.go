package domain

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// TimeRange полуинтервал времени суток [Start, End)
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeRange создает и валидирует интервал
func NewTimeRange(start, end types.TimeString) (TimeRange, error) {
	r := TimeRange{Start: start, End: end}
	if err := ValidateTimeRange(r); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// ValidateTimeRange проверяет, что обе границы заданы и Start строго раньше End
func ValidateTimeRange(r TimeRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if !r.Start.IsBefore(r.End) {
		return fmt.Errorf("%w: %s must be before %s", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// RangesOverlap строгое пересечение: касание границ пересечением не считается
func RangesOverlap(a, b TimeRange) bool {
	return a.Start.IsBefore(b.End) && b.Start.IsBefore(a.End)
}

// Overlaps см. RangesOverlap
func (r TimeRange) Overlaps(other TimeRange) bool {
	return RangesOverlap(r, other)
}

// Contains возвращает true, если other целиком лежит внутри r
func (r TimeRange) Contains(other TimeRange) bool {
	return !other.Start.IsBefore(r.Start) && !other.End.IsAfter(r.End)
}

// DurationMinutes длительность интервала в минутах
func (r TimeRange) DurationMinutes() int {
	return r.End.Minutes() - r.Start.Minutes()
}

// IsDegenerate возвращает true для пустых и перевёрнутых интервалов
func (r TimeRange) IsDegenerate() bool {
	return !r.Start.IsBefore(r.End)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// OverlapsAny возвращает true, если r строго пересекается хотя бы с одним интервалом
func OverlapsAny(r TimeRange, others []TimeRange) bool {
	for _, o := range others {
		if RangesOverlap(r, o) {
			return true
		}
	}
	return false
}
