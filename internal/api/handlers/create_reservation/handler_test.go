package create_reservation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createReservation.Response), args.Error(1)
}

var tenantID = uuid.New()

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req = req.WithContext(middleware.WithTenantID(req.Context(), tenantID))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func validBody(serviceID uuid.UUID) string {
	return fmt.Sprintf(`{"date":"2025-06-02","startTime":"10:00","serviceIds":["%s"],"customer":{"name":"Anna"}}`, serviceID)
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	serviceID := uuid.New()
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createReservation.Request) bool {
		return r.TenantID == tenantID && r.StartTime == "10:00" && r.Date.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	})).Return(&createReservation.Response{Reservation: &domain.Reservation{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Date:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:  types.MustTimeString("10:00"),
		EndTime:    types.MustTimeString("10:30"),
		TotalPrice: decimal.NewFromInt(25),
		Status:     domain.StatusPending,
		Customer:   domain.Customer{Name: "Anna"},
	}}, nil)

	rec := serve(NewHandler(uc, logger.NewNop()), validBody(serviceID))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	assert.Contains(t, rec.Body.String(), `"totalPrice":"25.00"`)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"overlap", fmt.Errorf("%w: 10:00-10:30", domain.ErrOverlap), http.StatusConflict},
		{"outside hours", domain.ErrOutsideWorkingHours, http.StatusConflict},
		{"off grid", domain.ErrSlotUnavailable, http.StatusConflict},
		{"past midnight", domain.ErrInvalidRange, http.StatusBadRequest},
		{"in the past", createReservation.ErrInvalidDate, http.StatusBadRequest},
		{"service not found", createReservation.ErrServiceNotFound, http.StatusNotFound},
		{"internal", createReservation.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(NewHandler(uc, logger.NewNop()), validBody(uuid.New()))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"broken json", `{`},
		{"no services", `{"date":"2025-06-02","startTime":"10:00","serviceIds":[],"customer":{"name":"Anna"}}`},
		{"no customer", `{"date":"2025-06-02","startTime":"10:00","serviceIds":["` + uuid.NewString() + `"],"customer":{}}`},
		{"bad date", `{"date":"02.06.2025","startTime":"10:00","serviceIds":["` + uuid.NewString() + `"],"customer":{"name":"A"}}`},
		{"bad time", `{"date":"2025-06-02","startTime":"10-00","serviceIds":["` + uuid.NewString() + `"],"customer":{"name":"A"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}

			rec := serve(NewHandler(uc, logger.NewNop()), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}
