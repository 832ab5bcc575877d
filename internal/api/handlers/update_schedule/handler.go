package update_schedule

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedules"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedules/models"
)

const (
	msgInvalidScheduleID  = "некорректный ID расписания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректное расписание: нужен день недели и хотя бы один интервал"
	msgNotFound           = "расписание не найдено"
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

// Handle PUT /api/v1/schedules/{scheduleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.TenantIDFromContext(r.Context())

	scheduleID, err := uuid.Parse(mux.Vars(r)["scheduleId"])
	if err != nil {
		h.logger.Warn("PUT /schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	var req models.ScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("PUT /schedules/{id} - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchedule)
		return
	}

	schedule, err := h.service.Update(r.Context(), tenantID, scheduleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("PUT /schedules/{id} - Not found: id=%s", scheduleID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			if handlers.RespondDomainError(w, err) {
				h.logger.Warn("PUT /schedules/{id} - Rejected: id=%s, error=%v", scheduleID, err)
				return
			}
			h.logger.Error("PUT /schedules/{id} - Failed to update schedule: id=%s, error=%v", scheduleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /schedules/{id} - Schedule updated: id=%s", scheduleID)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
