// Package slots строит сетку свободных окон фиксированной длительности
// из рабочих часов и занятых интервалов.
package slots

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ComputeSlots генерирует свободные слоты по датам.
//
// Для каждого рабочего интервала курсор идёт от начала с шагом durationMinutes,
// пока окно [cursor, cursor+duration) помещается в интервал. Окно попадает в результат,
// если не пересекается строго ни с одним занятым интервалом этой даты.
// Курсор сдвигается на полную длительность независимо от результата.
// Вырожденные интервалы (start >= end) пропускаются.
//
// Результат отсортирован по дате, затем по времени начала.
func ComputeSlots(
	periodsByDate map[time.Time][]domain.TimeRange,
	durationMinutes int,
	busyByDate map[time.Time][]domain.TimeRange,
) ([]domain.TimeSlot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d minutes", domain.ErrInvalidDuration, durationMinutes)
	}

	result := make([]domain.TimeSlot, 0)

	for date, periods := range periodsByDate {
		busy := busyByDate[date]

		for _, period := range periods {
			if period.IsDegenerate() {
				continue
			}

			windows, err := walkPeriod(period, durationMinutes)
			if err != nil {
				return nil, err
			}

			for _, w := range windows {
				if domain.OverlapsAny(w, busy) {
					continue
				}
				result = append(result, domain.TimeSlot{Date: date, Range: w})
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Range.Start.IsBefore(result[j].Range.Start)
	})

	return result, nil
}

// walkPeriod возвращает все окна сетки внутри рабочего интервала
func walkPeriod(period domain.TimeRange, durationMinutes int) ([]domain.TimeRange, error) {
	closeAt := period.End.Minutes()
	windows := make([]domain.TimeRange, 0)

	for cursor := period.Start.Minutes(); cursor+durationMinutes <= closeAt; cursor += durationMinutes {
		start, err := types.NewTimeStringFromMinutes(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRange, err)
		}
		end, err := types.NewTimeStringFromMinutes(cursor + durationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRange, err)
		}
		windows = append(windows, domain.TimeRange{Start: start, End: end})
	}

	return windows, nil
}

// ComputeSlotsForDate вычисляет слоты для одной даты
func ComputeSlotsForDate(
	date time.Time,
	periods []domain.TimeRange,
	durationMinutes int,
	busy []domain.TimeRange,
) ([]domain.TimeSlot, error) {
	date = domain.DateOf(date)
	return ComputeSlots(
		map[time.Time][]domain.TimeRange{date: periods},
		durationMinutes,
		map[time.Time][]domain.TimeRange{date: busy},
	)
}
