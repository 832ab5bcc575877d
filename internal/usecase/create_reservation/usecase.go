package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	serviceRepo     ServiceRepository
	reservationRepo ReservationRepository
	conflicts       ConflictValidator
	txManager       TransactionManager
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	reservationRepo ReservationRepository,
	conflicts ConflictValidator,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		serviceRepo:     serviceRepo,
		reservationRepo: reservationRepo,
		conflicts:       conflicts,
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

// Execute выполняет use case создания бронирования.
// Проверка конфликтов и запись выполняются в одной сериализуемой транзакции
// под advisory-блокировкой на (тенант, дата).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: tenant=%s, date=%s, time=%s, services=%d",
		req.TenantID, req.Date.Format(domain.DateFormat), req.StartTime, len(req.ServiceIDs))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услуги в порядке запроса
	services, err := uc.serviceRepo.FindByIDs(ctx, req.TenantID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("CreateReservation: failed to load services: %v", err)
		return nil, fmt.Errorf("%w: failed to load services: %v", ErrInternal, err)
	}

	// 3. Собираем бронирование: снимки услуг, время окончания, итоговая цена
	reservation, err := domain.NewReservation(req.TenantID, req.Date, req.StartTime, req.Customer, services)
	if err != nil {
		uc.logger.Warn("CreateReservation: cannot build reservation: %v", err)
		return nil, err
	}

	// 4. Бронирование не может начинаться в прошлом
	if err := validateNotInPast(reservation, uc.timeProvider.Now(), uc.location); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		return nil, err
	}

	// 5. Проверка и запись в сериализуемой транзакции
	var result *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Сериализуем конкурентные создания на ту же дату
		if err := uc.reservationRepo.LockTenantDate(txCtx, reservation.TenantID, reservation.Date); err != nil {
			return fmt.Errorf("%w: failed to lock date: %w", ErrInternal, err)
		}

		// 5.2. Рабочие часы, пересечения, сетка слотов
		if err := uc.conflicts.ValidateReservation(txCtx, reservation, uuid.Nil); err != nil {
			return err
		}

		// 5.3. Сохраняем бронирование со снимками услуг
		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordReservationCreated()
	}

	uc.logger.Info("CreateReservation: created reservation id=%s %s-%s total=%s",
		result.ID, result.StartTime, result.EndTime, result.TotalPrice)
	return &Response{Reservation: result}, nil
}

// mapTxError приводит ошибку транзакции к ошибке use case.
// Конфликт сериализации означает, что параллельная транзакция заняла это же время.
func (uc *UseCase) mapTxError(err error) error {
	switch {
	case errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Warn("CreateReservation: concurrent reservation for the same time: %v", err)
		return fmt.Errorf("%w: concurrent reservation", domain.ErrOverlap)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		uc.logger.Warn("CreateReservation: rejected: %v", err)
		return err
	default:
		uc.logger.Error("CreateReservation: %v", err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
