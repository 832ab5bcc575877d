package find_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	findAvailability "github.com/m04kA/SMC-ReservationService/internal/usecase/find_availability"
)

const (
	msgInvalidQuery    = "некорректные параметры запроса: ожидаются from, to (YYYY-MM-DD) и serviceIds"
	msgInvalidInput    = "некорректный период или пустой список услуг"
	msgRangeTooLong    = "слишком длинный период поиска"
	msgServiceNotFound = "услуга не найдена"
)

type Handler struct {
	useCase FindAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase FindAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.TenantIDFromContext(r.Context())

	req, err := parseQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	req.TenantID = tenantID

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, findAvailability.ErrRangeTooLong):
			h.logger.Warn("GET /availability - Range too long: tenant=%s", tenantID)
			handlers.RespondBadRequest(w, msgRangeTooLong)

		case errors.Is(err, findAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: tenant=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, findAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			if handlers.RespondDomainError(w, err) {
				h.logger.Warn("GET /availability - Rejected: tenant=%s, error=%v", tenantID, err)
				return
			}
			h.logger.Error("GET /availability - Failed to find slots: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Found %d slots: tenant=%s", len(result.Slots), tenantID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
