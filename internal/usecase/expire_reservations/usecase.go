package expire_reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// UseCase закрывает прошедшие бронирования: неподтверждённые истекают,
// подтверждённые завершаются.
type UseCase struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет один проход
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	// Даты и время бронирований хранятся без зоны, сравниваем с локальным временем бизнеса
	localNow := uc.timeProvider.Now().In(uc.location)

	resp := &Response{}
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		expired, err := uc.reservationRepo.ExpirePending(txCtx, localNow)
		if err != nil {
			return fmt.Errorf("expire pending: %w", err)
		}

		completed, err := uc.reservationRepo.CompleteConfirmed(txCtx, localNow)
		if err != nil {
			return fmt.Errorf("complete confirmed: %w", err)
		}

		resp.Expired, resp.Completed = expired, completed
		return nil
	})
	if err != nil {
		uc.logger.Error("ExpireReservations: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordSwept(string(domain.StatusExpired), int(resp.Expired))
		uc.metrics.RecordSwept(string(domain.StatusCompleted), int(resp.Completed))
	}

	if resp.Expired > 0 || resp.Completed > 0 {
		uc.logger.Info("ExpireReservations: expired=%d, completed=%d", resp.Expired, resp.Completed)
	}
	return resp, nil
}
