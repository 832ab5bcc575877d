package confirm_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case подтверждения бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	policies        PolicyProvider
	transitions     TransitionValidator
	txManager       TransactionManager
	metrics         Metrics
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
		logger:          logger,
	}
}

// Execute выполняет use case подтверждения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmReservation: tenant=%s, id=%s, force=%v", req.TenantID, req.ReservationID, req.Force)

	// 1. Валидация входных данных
	if req.TenantID == uuid.Nil || req.ReservationID == uuid.Nil {
		uc.logger.Warn("ConfirmReservation: tenant and reservation ids are required")
		return nil, fmt.Errorf("%w: tenant and reservation ids are required", ErrInvalidInput)
	}

	// 2. Политика тенанта читается один раз на операцию
	policy, err := uc.policies.ResolvePolicy(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("ConfirmReservation: failed to resolve policy: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	var result *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Загружаем и блокируем бронирование
		reservation, err := uc.reservationRepo.GetByID(txCtx, req.TenantID, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to load reservation: %w", ErrInternal, err)
		}

		// 3.2. Та же блокировка дня, что и при создании
		if err := uc.reservationRepo.LockTenantDate(txCtx, reservation.TenantID, reservation.Date); err != nil {
			return fmt.Errorf("%w: failed to lock date: %w", ErrInternal, err)
		}

		// 3.3. Таблица переходов, временные правила, повторная проверка пересечений
		if err := uc.transitions.ValidateStatusChange(txCtx, reservation, domain.StatusConfirmed, policy, req.Force); err != nil {
			return err
		}

		// 3.4. Сохраняем
		if err := uc.reservationRepo.UpdateStatus(txCtx, reservation.TenantID, reservation.ID, domain.StatusConfirmed); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		reservation.Status = domain.StatusConfirmed
		result = reservation
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordTransition(string(domain.StatusConfirmed))
	}

	uc.logger.Info("ConfirmReservation: confirmed reservation id=%s", result.ID)
	return &Response{Reservation: result}, nil
}

func (uc *UseCase) mapTxError(err error) error {
	switch {
	case errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Warn("ConfirmReservation: concurrent change of the same day: %v", err)
		return fmt.Errorf("%w: concurrent reservation", domain.ErrOverlap)
	case errors.Is(err, ErrReservationNotFound):
		uc.logger.Warn("ConfirmReservation: %v", err)
		return err
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrState), errors.Is(err, domain.ErrValidation):
		uc.logger.Warn("ConfirmReservation: rejected: %v", err)
		return err
	default:
		uc.logger.Error("ConfirmReservation: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
