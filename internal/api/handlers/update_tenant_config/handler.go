package update_tenant_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/tenantconfig"
	"github.com/m04kA/SMC-ReservationService/internal/service/tenantconfig/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTenantNotFound     = "тенант не найден"
)

type Handler struct {
	service TenantConfigService
	logger  Logger
}

func NewHandler(service TenantConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.TenantIDFromContext(r.Context())

	var req models.UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	policy, err := h.service.UpdatePolicy(r.Context(), tenantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, tenantconfig.ErrTenantNotFound):
			h.logger.Warn("PUT /config - Tenant not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			if handlers.RespondDomainError(w, err) {
				h.logger.Warn("PUT /config - Rejected: tenant=%s, error=%v", tenantID, err)
				return
			}
			h.logger.Error("PUT /config - Failed to update config: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /config - Config updated: tenant=%s", tenantID)
	handlers.RespondJSON(w, http.StatusOK, policy)
}
