package update_tenant_config

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/service/tenantconfig/models"
)

type TenantConfigService interface {
	UpdatePolicy(ctx context.Context, tenantID uuid.UUID, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
