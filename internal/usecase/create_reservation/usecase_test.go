package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type mockServiceRepo struct {
	mock.Mock
}

func (m *mockServiceRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*domain.ServiceOffered, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ServiceOffered), args.Error(1)
}

type mockReservationRepo struct {
	mock.Mock
}

func (m *mockReservationRepo) LockTenantDate(ctx context.Context, tenantID uuid.UUID, date time.Time) error {
	return m.Called(ctx, tenantID, date).Error(0)
}

func (m *mockReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	args := m.Called(ctx, reservation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

type mockConflictValidator struct {
	mock.Mock
}

func (m *mockConflictValidator) ValidateReservation(ctx context.Context, candidate *domain.Reservation, excludeID uuid.UUID) error {
	return m.Called(ctx, candidate, excludeID).Error(0)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) RecordReservationCreated() {
	m.Called()
}

// fakeTx выполняет fn без БД и помечает ошибки сериализации так же, как txmanager
type fakeTx struct{}

func (fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err != nil && txmanager.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %w", txmanager.ErrSerialization, err)
	}
	return err
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var (
	tenantID = uuid.New()
	monday   = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now      = monday.AddDate(0, 0, -1)
)

type fixture struct {
	services     *mockServiceRepo
	reservations *mockReservationRepo
	conflicts    *mockConflictValidator
	metrics      *mockMetrics
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		services:     &mockServiceRepo{},
		reservations: &mockReservationRepo{},
		conflicts:    &mockConflictValidator{},
		metrics:      &mockMetrics{},
	}
	f.uc = NewUseCase(f.services, f.reservations, f.conflicts, fakeTx{}, f.metrics, time.UTC, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func offered(name string, minutes int, price int64) *domain.ServiceOffered {
	return &domain.ServiceOffered{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Name:            name,
		DurationMinutes: minutes,
		Price:           decimal.NewFromInt(price),
	}
}

func validRequest(services ...*domain.ServiceOffered) *Request {
	ids := make([]uuid.UUID, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return &Request{
		TenantID:   tenantID,
		Date:       monday,
		StartTime:  types.MustTimeString("10:00"),
		ServiceIDs: ids,
		Customer:   domain.Customer{Name: "Anna"},
	}
}

func TestExecute_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	cut, wash := offered("cut", 30, 25), offered("wash", 15, 10)
	req := validRequest(cut, wash)

	f.services.On("FindByIDs", ctx, tenantID, req.ServiceIDs).Return([]*domain.ServiceOffered{cut, wash}, nil)
	f.reservations.On("LockTenantDate", ctx, tenantID, monday).Return(nil)
	f.conflicts.On("ValidateReservation", ctx, mock.AnythingOfType("*domain.Reservation"), uuid.Nil).Return(nil)
	f.reservations.On("Create", ctx, mock.MatchedBy(func(r *domain.Reservation) bool {
		return r.EndTime == types.MustTimeString("10:45")
	})).Return(&domain.Reservation{ID: uuid.New(), StartTime: req.StartTime, EndTime: types.MustTimeString("10:45"), TotalPrice: decimal.NewFromInt(35), Status: domain.StatusPending}, nil)
	f.metrics.On("RecordReservationCreated").Return()

	resp, err := f.uc.Execute(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Reservation.Status)
	assert.True(t, decimal.NewFromInt(35).Equal(resp.Reservation.TotalPrice))
	f.reservations.AssertExpectations(t)
	f.conflicts.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestExecute_BuildsSnapshotsBackToBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	cut, wash := offered("cut", 30, 25), offered("wash", 15, 10)
	req := validRequest(cut, wash)

	var saved *domain.Reservation
	f.services.On("FindByIDs", ctx, tenantID, req.ServiceIDs).Return([]*domain.ServiceOffered{cut, wash}, nil)
	f.reservations.On("LockTenantDate", ctx, tenantID, monday).Return(nil)
	f.conflicts.On("ValidateReservation", ctx, mock.Anything, uuid.Nil).Return(nil)
	f.reservations.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Reservation) }).
		Return(&domain.Reservation{}, nil)
	f.metrics.On("RecordReservationCreated").Return()

	_, err := f.uc.Execute(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Len(t, saved.Services, 2)
	assert.Equal(t, "10:00", saved.Services[0].StartTime.String())
	assert.Equal(t, "10:30", saved.Services[0].EndTime.String())
	assert.Equal(t, "10:30", saved.Services[1].StartTime.String())
	assert.Equal(t, "10:45", saved.Services[1].EndTime.String())
	assert.Equal(t, "10:45", saved.EndTime.String())
	assert.True(t, decimal.NewFromInt(35).Equal(saved.TotalPrice))
	assert.Equal(t, domain.StatusPending, saved.Status)
}

func TestExecute_ConflictAbortsTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := offered("cut", 30, 25)
	req := validRequest(s)

	f.services.On("FindByIDs", ctx, tenantID, req.ServiceIDs).Return([]*domain.ServiceOffered{s}, nil)
	f.reservations.On("LockTenantDate", ctx, tenantID, monday).Return(nil)
	f.conflicts.On("ValidateReservation", ctx, mock.Anything, uuid.Nil).
		Return(fmt.Errorf("%w: 10:00-10:30 intersects 09:45-10:15", domain.ErrOverlap))

	_, err := f.uc.Execute(ctx, req)

	assert.ErrorIs(t, err, domain.ErrOverlap)
	assert.ErrorIs(t, err, domain.ErrConflict)
	f.reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.metrics.AssertNotCalled(t, "RecordReservationCreated")
}

func TestExecute_SerializationFailureIsOverlap(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := offered("cut", 30, 25)
	req := validRequest(s)

	f.services.On("FindByIDs", ctx, tenantID, req.ServiceIDs).Return([]*domain.ServiceOffered{s}, nil)
	f.reservations.On("LockTenantDate", ctx, tenantID, monday).Return(nil)
	f.conflicts.On("ValidateReservation", ctx, mock.Anything, uuid.Nil).Return(nil)
	f.reservations.On("Create", ctx, mock.Anything).
		Return(nil, fmt.Errorf("insert: %w", &pq.Error{Code: "40001"}))

	_, err := f.uc.Execute(ctx, req)

	assert.ErrorIs(t, err, domain.ErrOverlap)
}

func TestExecute_Validation(t *testing.T) {
	s := offered("cut", 30, 25)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"no services", func(r *Request) { r.ServiceIDs = nil }, ErrInvalidInput},
		{"no customer name", func(r *Request) { r.Customer.Name = "  " }, ErrInvalidInput},
		{"bad start time", func(r *Request) { r.StartTime = "25:00" }, ErrInvalidInput},
		{"missing date", func(r *Request) { r.Date = time.Time{} }, ErrInvalidInput},
		{"nil tenant", func(r *Request) { r.TenantID = uuid.Nil }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest(s)
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			f.services.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_InThePast(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := offered("cut", 30, 25)
	req := validRequest(s)
	req.Date = now.AddDate(0, 0, -1)

	f.services.On("FindByIDs", ctx, tenantID, req.ServiceIDs).Return([]*domain.ServiceOffered{s}, nil)

	_, err := f.uc.Execute(ctx, req)

	assert.ErrorIs(t, err, ErrInvalidDate)
	f.reservations.AssertNotCalled(t, "LockTenantDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	req := validRequest(offered("cut", 30, 25))

	f.services.On("FindByIDs", ctx, tenantID, req.ServiceIDs).Return(nil, catalogRepo.ErrServiceNotFound)

	_, err := f.uc.Execute(ctx, req)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_PastMidnight(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := offered("night", 120, 25)
	req := validRequest(s)
	req.StartTime = types.MustTimeString("23:00")

	f.services.On("FindByIDs", ctx, tenantID, req.ServiceIDs).Return([]*domain.ServiceOffered{s}, nil)

	_, err := f.uc.Execute(ctx, req)

	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestExecute_LockError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := offered("cut", 30, 25)
	req := validRequest(s)

	f.services.On("FindByIDs", ctx, tenantID, req.ServiceIDs).Return([]*domain.ServiceOffered{s}, nil)
	f.reservations.On("LockTenantDate", ctx, tenantID, monday).Return(errors.New("connection reset"))

	_, err := f.uc.Execute(ctx, req)

	assert.ErrorIs(t, err, ErrInternal)
	f.conflicts.AssertNotCalled(t, "ValidateReservation", mock.Anything, mock.Anything, mock.Anything)
}
