package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case отмены бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	policies        PolicyProvider
	transitions     TransitionValidator
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	policies PolicyProvider,
	transitions TransitionValidator,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		policies:        policies,
		transitions:     transitions,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: tenant=%s, id=%s, force=%v", req.TenantID, req.ReservationID, req.Force)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Политика тенанта
	policy, err := uc.policies.ResolvePolicy(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CancelReservation: failed to resolve policy: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	var result *domain.Reservation
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Загружаем и блокируем бронирование
		reservation, err := uc.reservationRepo.GetByID(txCtx, req.TenantID, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to load reservation: %w", ErrInternal, err)
		}

		// 3.2. Таблица переходов и временные правила
		if err := uc.transitions.ValidateStatusChange(txCtx, reservation, domain.StatusCancelled, policy, req.Force); err != nil {
			return err
		}

		// 3.3. Сохраняем статус, причину и момент отмены
		cancelledAt := uc.timeProvider.Now().UTC()
		if err := uc.reservationRepo.Cancel(txCtx, reservation.TenantID, reservation.ID, req.Reason, cancelledAt); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to cancel reservation: %w", ErrInternal, err)
		}

		reservation.Status = domain.StatusCancelled
		reservation.CancellationReason = req.Reason
		reservation.CancelledAt = &cancelledAt
		result = reservation
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordTransition(string(domain.StatusCancelled))
	}

	uc.logger.Info("CancelReservation: cancelled reservation id=%s", result.ID)
	return &Response{Reservation: result}, nil
}

func (uc *UseCase) mapTxError(err error) error {
	switch {
	case errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Warn("CancelReservation: %v", err)
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	case errors.Is(err, ErrReservationNotFound):
		uc.logger.Warn("CancelReservation: %v", err)
		return err
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrState), errors.Is(err, domain.ErrValidation):
		uc.logger.Warn("CancelReservation: rejected: %v", err)
		return err
	default:
		uc.logger.Error("CancelReservation: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
