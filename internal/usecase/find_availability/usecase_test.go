package find_availability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
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

type mockScheduleRepo struct {
	mock.Mock
}

func (m *mockScheduleRepo) FindWeeklyHours(ctx context.Context, tenantID uuid.UUID) (map[time.Weekday][]domain.TimeRange, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[time.Weekday][]domain.TimeRange), args.Error(1)
}

type mockReservationRepo struct {
	mock.Mock
}

func (m *mockReservationRepo) FindByTenantAndDateRange(
	ctx context.Context,
	tenantID uuid.UUID,
	from, to time.Time,
	statuses []domain.ReservationStatus,
) ([]*domain.Reservation, error) {
	args := m.Called(ctx, tenantID, from, to, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
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
)

func tr(start, end string) domain.TimeRange {
	return domain.TimeRange{Start: types.MustTimeString(start), End: types.MustTimeString(end)}
}

func service(minutes int) *domain.ServiceOffered {
	return &domain.ServiceOffered{ID: uuid.New(), TenantID: tenantID, Name: "svc", DurationMinutes: minutes, Price: decimal.NewFromInt(10)}
}

type fixture struct {
	services     *mockServiceRepo
	schedules    *mockScheduleRepo
	reservations *mockReservationRepo
	uc           *UseCase
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		services:     &mockServiceRepo{},
		schedules:    &mockScheduleRepo{},
		reservations: &mockReservationRepo{},
	}
	f.uc = NewUseCase(f.services, f.schedules, f.reservations, time.UTC, 7, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func starts(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Date.Format(domain.DateFormat)+" "+s.StartTime.String())
	}
	return out
}

func TestExecute_SumsServiceDurationsAndSubtractsReservations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(monday.AddDate(0, 0, -1))
	first, second := service(30), service(30)
	ids := []uuid.UUID{first.ID, second.ID}

	f.services.On("FindByIDs", ctx, tenantID, ids).Return([]*domain.ServiceOffered{first, second}, nil)
	f.schedules.On("FindWeeklyHours", ctx, tenantID).Return(map[time.Weekday][]domain.TimeRange{
		time.Monday: {tr("09:00", "12:00")},
	}, nil)
	f.reservations.On("FindByTenantAndDateRange", ctx, tenantID, monday, monday.AddDate(0, 0, 1), domain.BlockingStatuses).
		Return([]*domain.Reservation{
			{Date: monday, StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("10:30"), Status: domain.StatusConfirmed},
			{Date: monday, StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("10:00"), Status: domain.StatusCancelled},
		}, nil)

	resp, err := f.uc.Execute(ctx, &Request{TenantID: tenantID, From: monday, To: monday.AddDate(0, 0, 1), ServiceIDs: ids})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	// вторник без расписания, 10:00-11:00 пересекается с подтверждённым бронированием
	assert.Equal(t, []string{"2025-06-02 09:00", "2025-06-02 11:00"}, starts(resp.Slots))
}

func TestExecute_DropsStartedSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(monday.Add(9*time.Hour + 10*time.Minute))
	s := service(30)

	f.services.On("FindByIDs", ctx, tenantID, []uuid.UUID{s.ID}).Return([]*domain.ServiceOffered{s}, nil)
	f.schedules.On("FindWeeklyHours", ctx, tenantID).Return(map[time.Weekday][]domain.TimeRange{
		time.Monday: {tr("09:00", "10:30")},
	}, nil)
	f.reservations.On("FindByTenantAndDateRange", ctx, tenantID, monday, monday, domain.BlockingStatuses).
		Return([]*domain.Reservation{}, nil)

	resp, err := f.uc.Execute(ctx, &Request{TenantID: tenantID, From: monday, To: monday, ServiceIDs: []uuid.UUID{s.ID}})

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02 09:30", "2025-06-02 10:00"}, starts(resp.Slots))
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(monday)
	ids := []uuid.UUID{uuid.New()}

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"missing dates", &Request{TenantID: tenantID, ServiceIDs: ids}, ErrInvalidInput},
		{"inverted range", &Request{TenantID: tenantID, From: monday, To: monday.AddDate(0, 0, -1), ServiceIDs: ids}, ErrInvalidInput},
		{"too long", &Request{TenantID: tenantID, From: monday, To: monday.AddDate(0, 0, 7), ServiceIDs: ids}, ErrRangeTooLong},
		{"no services", &Request{TenantID: tenantID, From: monday, To: monday}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	f.services.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(monday)
	id := uuid.New()
	f.services.On("FindByIDs", ctx, tenantID, []uuid.UUID{id}).
		Return(nil, fmt.Errorf("%w: %s", catalogRepo.ErrServiceNotFound, id))

	_, err := f.uc.Execute(ctx, &Request{TenantID: tenantID, From: monday, To: monday, ServiceIDs: []uuid.UUID{id}})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_RepositoryError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(monday)
	s := service(30)
	f.services.On("FindByIDs", ctx, tenantID, []uuid.UUID{s.ID}).Return([]*domain.ServiceOffered{s}, nil)
	f.schedules.On("FindWeeklyHours", ctx, tenantID).Return(nil, errors.New("db down"))

	_, err := f.uc.Execute(ctx, &Request{TenantID: tenantID, From: monday, To: monday, ServiceIDs: []uuid.UUID{s.ID}})

	assert.ErrorIs(t, err, ErrInternal)
}
