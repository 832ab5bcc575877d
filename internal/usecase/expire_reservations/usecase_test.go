package expire_reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockReservationRepo struct {
	mock.Mock
}

func (m *mockReservationRepo) ExpirePending(ctx context.Context, localNow time.Time) (int64, error) {
	args := m.Called(ctx, localNow)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReservationRepo) CompleteConfirmed(ctx context.Context, localNow time.Time) (int64, error) {
	args := m.Called(ctx, localNow)
	return args.Get(0).(int64), args.Error(1)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) RecordSwept(status string, count int) {
	m.Called(status, count)
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

func TestExecute_UsesBusinessLocalTime(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)

	repo := &mockReservationRepo{}
	metrics := &mockMetrics{}
	isLocal := mock.MatchedBy(func(ts time.Time) bool {
		return ts.Location() == loc && ts.Hour() == 10 && ts.Equal(now)
	})
	repo.On("ExpirePending", ctx, isLocal).Return(int64(2), nil)
	repo.On("CompleteConfirmed", ctx, isLocal).Return(int64(5), nil)
	metrics.On("RecordSwept", "expired", 2).Return()
	metrics.On("RecordSwept", "completed", 5).Return()

	uc := NewUseCase(repo, passThroughTx{}, metrics, loc, logger.NewNop()).WithTimeProvider(fixedTime{now: now})
	resp, err := uc.Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Expired)
	assert.Equal(t, int64(5), resp.Completed)
	repo.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestExecute_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := &mockReservationRepo{}
	repo.On("ExpirePending", ctx, mock.Anything).Return(int64(0), errors.New("db down"))

	uc := NewUseCase(repo, passThroughTx{}, nil, time.UTC, logger.NewNop())
	_, err := uc.Execute(ctx)

	assert.ErrorIs(t, err, ErrInternal)
	repo.AssertNotCalled(t, "CompleteConfirmed", mock.Anything, mock.Anything)
}
