package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ReservationService/internal/usecase/expire_reservations"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) Execute(ctx context.Context) (*expire_reservations.Response, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expire_reservations.Response), args.Error(1)
}

func TestScheduler_Tick_Sweeps(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.On("Execute", mock.Anything).Return(&expire_reservations.Response{Expired: 1}, nil)

	s := New(sweeper, 20*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	s.Start(ctx)

	assert.GreaterOrEqual(t, len(sweeper.Calls), 1)
}

func TestScheduler_Tick_KeepsRunningAfterError(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.On("Execute", mock.Anything).Return(nil, errors.New("db down"))

	s := New(sweeper, 20*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Millisecond)
	defer cancel()

	s.Start(ctx)

	assert.GreaterOrEqual(t, len(sweeper.Calls), 2)
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	sweeper := &mockSweeper{}
	s := New(sweeper, time.Second, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
	sweeper.AssertNotCalled(t, "Execute", mock.Anything)
}
