package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// Request модели

// ListReservationsRequest запрос на получение бронирований тенанта
type ListReservationsRequest struct {
	TenantID uuid.UUID
	From     *time.Time // Начало периода (опционально)
	To       *time.Time // Конец периода (опционально)
	Statuses []string   // Фильтр по статусам (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{
		TenantID: r.TenantID,
		From:     r.From,
		To:       r.To,
		Statuses: make([]domain.ReservationStatus, 0, len(r.Statuses)),
	}

	for _, raw := range r.Statuses {
		status, err := domain.ParseReservationStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, nil
}

// Response модели

// CustomerResponse контактные данные клиента
type CustomerResponse struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ServiceSnapshotResponse услуга внутри бронирования
type ServiceSnapshotResponse struct {
	ID              uuid.UUID `json:"id"`
	ServiceID       uuid.UUID `json:"serviceId"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Price           string    `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              uuid.UUID                 `json:"id"`
	TenantID        uuid.UUID                 `json:"tenantId"`
	Date            string                    `json:"date"`      // "2025-10-15"
	StartTime       string                    `json:"startTime"` // "10:00"
	EndTime         string                    `json:"endTime"`
	DurationMinutes int                       `json:"durationMinutes"`
	TotalPrice      string                    `json:"totalPrice"`
	Status          string                    `json:"status"`
	Customer        CustomerResponse          `json:"customer"`
	Services        []ServiceSnapshotResponse `json:"services"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:              r.ID,
		TenantID:        r.TenantID,
		Date:            r.Date.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		EndTime:         r.EndTime.String(),
		DurationMinutes: r.DurationMinutes(),
		TotalPrice:      r.TotalPrice.StringFixed(2),
		Status:          string(r.Status),
		Customer: CustomerResponse{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Services:           make([]ServiceSnapshotResponse, 0, len(r.Services)),
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	for _, s := range r.Services {
		resp.Services = append(resp.Services, ServiceSnapshotResponse{
			ID:              s.ID,
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Description:     s.Description,
			Price:           s.Price.StringFixed(2),
			DurationMinutes: s.DurationMinutes,
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
		})
	}

	if r.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(r.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}
