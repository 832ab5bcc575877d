package create_reservation

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	Date       string          `json:"date" validate:"required"`      // "2025-10-15"
	StartTime  string          `json:"startTime" validate:"required"` // "10:00"
	ServiceIDs []uuid.UUID     `json:"serviceIds" validate:"required,min=1"`
	Customer   CustomerRequest `json:"customer" validate:"required"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(tenantID uuid.UUID) (*createReservation.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		TenantID:   tenantID,
		Date:       date,
		StartTime:  startTime,
		ServiceIDs: r.ServiceIDs,
		Customer: domain.Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
	}, nil
}
