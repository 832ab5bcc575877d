package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модели

// TimeRangeRequest рабочий интервал
type TimeRangeRequest struct {
	Open  string `json:"open" validate:"required"`  // "09:00"
	Close string `json:"close" validate:"required"` // "18:00"
}

// ScheduleRequest запрос на создание или замену расписания дня недели
type ScheduleRequest struct {
	DayOfWeek string             `json:"dayOfWeek" validate:"required"` // "monday"
	Ranges    []TimeRangeRequest `json:"ranges" validate:"required,min=1,dive"`
}

// ToDomain парсит день недели и интервалы
func (r *ScheduleRequest) ToDomain(tenantID uuid.UUID) (*domain.Schedule, error) {
	day, err := domain.ParseWeekday(r.DayOfWeek)
	if err != nil {
		return nil, err
	}

	ranges := make([]domain.TimeRange, 0, len(r.Ranges))
	for _, tr := range r.Ranges {
		open, err := types.NewTimeStringFromString(tr.Open)
		if err != nil {
			return nil, fmt.Errorf("%w: open %q", domain.ErrInvalidRange, tr.Open)
		}
		closeAt, err := types.NewTimeStringFromString(tr.Close)
		if err != nil {
			return nil, fmt.Errorf("%w: close %q", domain.ErrInvalidRange, tr.Close)
		}
		ranges = append(ranges, domain.TimeRange{Start: open, End: closeAt})
	}

	return &domain.Schedule{
		TenantID:  tenantID,
		DayOfWeek: day,
		Ranges:    ranges,
	}, nil
}

// Response модели

// TimeRangeResponse рабочий интервал
type TimeRangeResponse struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// ScheduleResponse ответ с расписанием
type ScheduleResponse struct {
	ID        uuid.UUID           `json:"id"`
	DayOfWeek string              `json:"dayOfWeek"`
	Ranges    []TimeRangeResponse `json:"ranges"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// ScheduleListResponse ответ со списком расписаний
type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.Schedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	resp := &ScheduleResponse{
		ID:        s.ID,
		DayOfWeek: strings.ToLower(s.DayOfWeek.String()),
		Ranges:    make([]TimeRangeResponse, 0, len(s.Ranges)),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for _, r := range s.Ranges {
		resp.Ranges = append(resp.Ranges, TimeRangeResponse{Open: r.Start.String(), Close: r.End.String()})
	}

	return resp
}

// FromDomainScheduleList конвертирует список domain моделей в DTO
func FromDomainScheduleList(schedules []*domain.Schedule) *ScheduleListResponse {
	resp := &ScheduleListResponse{Schedules: make([]ScheduleResponse, 0, len(schedules))}
	for _, s := range schedules {
		if item := FromDomainSchedule(s); item != nil {
			resp.Schedules = append(resp.Schedules, *item)
		}
	}
	return resp
}
