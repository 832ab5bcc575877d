package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
	StatusExpired   ReservationStatus = "expired"
)

// ParseReservationStatus converts a raw value into a known status
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid returns true for known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

// IsBlocking returns true if a reservation in this status occupies schedule time
func (s ReservationStatus) IsBlocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition is possible from this status
func (s ReservationStatus) IsTerminal() bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// Customer контактные данные клиента на момент бронирования
type Customer struct {
	Name  string
	Email *string
	Phone *string
}

// ServiceSnapshot денормализованная копия услуги внутри бронирования.
// Последующие изменения услуги не влияют на историю.
type ServiceSnapshot struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	Name            string
	Description     *string
	Price           decimal.Decimal
	DurationMinutes int
	StartTime       types.TimeString
	EndTime         types.TimeString
}

// Range интервал услуги внутри бронирования
func (s ServiceSnapshot) Range() TimeRange {
	return TimeRange{Start: s.StartTime, End: s.EndTime}
}

// Reservation represents a customer reservation
type Reservation struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	TotalPrice decimal.Decimal
	Status     ReservationStatus
	Customer   Customer
	Services   []ServiceSnapshot

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReservation собирает новое бронирование в статусе pending.
// Услуги выполняются подряд в переданном порядке; время окончания и итоговая цена
// вычисляются один раз здесь и дальше не пересчитываются.
func NewReservation(
	tenantID uuid.UUID,
	date time.Time,
	start types.TimeString,
	customer Customer,
	services []*ServiceOffered,
) (*Reservation, error) {
	if len(services) == 0 {
		return nil, ErrNoServices
	}
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	reservation := &Reservation{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Date:       DateOf(date),
		StartTime:  start,
		TotalPrice: decimal.Zero,
		Status:     StatusPending,
		Customer:   customer,
		Services:   make([]ServiceSnapshot, 0, len(services)),
	}

	cursor := start
	for _, s := range services {
		if s.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: service %s", ErrInvalidDuration, s.ID)
		}
		end, err := cursor.AddMinutes(s.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: reservation does not fit into the day: %v", ErrInvalidRange, err)
		}

		reservation.Services = append(reservation.Services, ServiceSnapshot{
			ID:              uuid.New(),
			ServiceID:       s.ID,
			Name:            s.Name,
			Description:     s.Description,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
			StartTime:       cursor,
			EndTime:         end,
		})
		reservation.TotalPrice = reservation.TotalPrice.Add(s.Price)
		cursor = end
	}
	reservation.EndTime = cursor

	return reservation, nil
}

// Range интервал бронирования
func (r *Reservation) Range() TimeRange {
	return TimeRange{Start: r.StartTime, End: r.EndTime}
}

// DurationMinutes общая длительность бронирования
func (r *Reservation) DurationMinutes() int {
	return r.Range().DurationMinutes()
}

// IsBlocking returns true if the reservation occupies schedule time
func (r *Reservation) IsBlocking() bool {
	return r.Status.IsBlocking()
}

// StartsAt момент начала бронирования в заданной локации
func (r *Reservation) StartsAt(loc *time.Location) time.Time {
	return r.StartTime.OnDate(r.Date, loc)
}

// EndsAt момент окончания бронирования в заданной локации
func (r *Reservation) EndsAt(loc *time.Location) time.Time {
	return r.EndTime.OnDate(r.Date, loc)
}

// ReservationFilter фильтр списка бронирований тенанта
type ReservationFilter struct {
	TenantID uuid.UUID           // Обязательный параметр
	From     *time.Time          // Начало периода включительно (опционально)
	To       *time.Time          // Конец периода включительно (опционально)
	Statuses []ReservationStatus // Пусто - все статусы
}
