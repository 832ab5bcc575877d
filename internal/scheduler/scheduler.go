// Package scheduler периодически закрывает прошедшие бронирования.
package scheduler

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/usecase/expire_reservations"
)

// Sweeper один проход закрытия прошедших бронирований
type Sweeper interface {
	Execute(ctx context.Context) (*expire_reservations.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler запускает Sweeper с фиксированным интервалом
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   Logger
}

// New создает планировщик
func New(sweeper Sweeper, interval time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Start блокируется до отмены ctx
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler: started, interval=%s", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.sweeper.Execute(ctx); err != nil {
		s.logger.Error("Scheduler: sweep failed: %v", err)
	}
}
