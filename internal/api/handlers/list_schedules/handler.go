package list_schedules

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.TenantIDFromContext(r.Context())

	result, err := h.service.List(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /schedules - Failed to list schedules: tenant=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /schedules - Retrieved %d schedules: tenant=%s", len(result.Schedules), tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
