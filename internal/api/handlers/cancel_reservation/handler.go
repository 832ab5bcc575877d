package cancel_reservation

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	cancelReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidReason        = "причина отмены не длиннее 500 символов"
	msgNotFound             = "бронирование не найдено"
	msgConcurrentUpdate     = "бронирование изменено параллельно, повторите запрос"
)

type Handler struct {
	useCase CancelReservationUseCase
	logger  Logger
}

func NewHandler(useCase CancelReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.TenantIDFromContext(r.Context())

	reservationID, err := uuid.Parse(mux.Vars(r)["reservationId"])
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReason)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelReservation.Request{
		TenantID:      tenantID,
		ReservationID: reservationID,
		Reason:        req.Reason,
		Force:         req.Force,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Not found: id=%s", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidReason)

		case errors.Is(err, cancelReservation.ErrConcurrentUpdate):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Concurrent update: id=%s", reservationID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			if handlers.RespondDomainError(w, err) {
				h.logger.Warn("PATCH /reservations/{id}/cancel - Rejected: id=%s, error=%v", reservationID, err)
				return
			}
			h.logger.Error("PATCH /reservations/{id}/cancel - Failed to cancel: id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Cancelled: id=%s, force=%v", reservationID, req.Force)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(result.Reservation))
}
