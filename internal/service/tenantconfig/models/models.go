package models

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// UpdatePolicyRequest запрос на замену временных правил тенанта.
// nil (или отсутствие поля) удаляет правило.
type UpdatePolicyRequest struct {
	MinDaysBeforeCancellation *int `json:"minDaysBeforeCancellation"`
	MinDaysBeforeConfirmation *int `json:"minDaysBeforeConfirmation"`
}

// PolicyResponse ответ с временными правилами тенанта
type PolicyResponse struct {
	MinDaysBeforeCancellation *uint `json:"minDaysBeforeCancellation"`
	MinDaysBeforeConfirmation *uint `json:"minDaysBeforeConfirmation"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p domain.TenantPolicy) *PolicyResponse {
	return &PolicyResponse{
		MinDaysBeforeCancellation: p.MinDaysBeforeCancellation,
		MinDaysBeforeConfirmation: p.MinDaysBeforeConfirmation,
	}
}
