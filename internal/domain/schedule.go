package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Schedule рабочие часы тенанта на один день недели
type Schedule struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	DayOfWeek time.Weekday
	Ranges    []TimeRange
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateScheduleRanges проверяет рабочие интервалы перед записью:
// каждый интервал корректен, входящие интервалы не пересекаются между собой
// и с уже существующими интервалами того же дня недели.
func ValidateScheduleRanges(incoming, existing []TimeRange) error {
	if len(incoming) == 0 {
		return fmt.Errorf("%w: schedule must contain at least one range", ErrInvalidRange)
	}

	for i, r := range incoming {
		if err := ValidateTimeRange(r); err != nil {
			return err
		}
		for _, other := range incoming[i+1:] {
			if RangesOverlap(r, other) {
				return fmt.Errorf("%w: %s and %s", ErrScheduleOverlap, r, other)
			}
		}
		for _, other := range existing {
			if RangesOverlap(r, other) {
				return fmt.Errorf("%w: %s and existing %s", ErrScheduleOverlap, r, other)
			}
		}
	}

	return nil
}

// ParseWeekday парсит день недели по английскому названию без учёта регистра
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}
