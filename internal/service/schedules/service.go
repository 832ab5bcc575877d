package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedules/models"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// Service сервис управления недельным расписанием тенанта
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает расписание на день недели.
// Интервалы не должны пересекаться между собой и с другими расписаниями того же дня.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *models.ScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("CreateSchedule: tenant=%s, day=%s, ranges=%d", tenantID, req.DayOfWeek, len(req.Ranges))

	schedule, err := req.ToDomain(tenantID)
	if err != nil {
		s.logger.Warn("CreateSchedule: invalid request: %v", err)
		return nil, err
	}
	schedule.ID = uuid.New()

	var result *domain.Schedule
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.validateAgainstExisting(txCtx, schedule, uuid.Nil); err != nil {
			return err
		}

		created, err := s.scheduleRepo.Create(txCtx, schedule)
		if err != nil {
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, s.mapTxError("CreateSchedule", err)
	}

	s.logger.Info("CreateSchedule: created schedule id=%s", result.ID)
	return models.FromDomainSchedule(result), nil
}

// Update полностью заменяет день недели и интервалы расписания.
// При проверке пересечений само расписание исключается.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *models.ScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: tenant=%s, id=%s, day=%s", tenantID, id, req.DayOfWeek)

	schedule, err := req.ToDomain(tenantID)
	if err != nil {
		s.logger.Warn("UpdateSchedule: invalid request: %v", err)
		return nil, err
	}
	schedule.ID = id

	var result *domain.Schedule
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.scheduleRepo.GetByID(txCtx, tenantID, id); err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if err := s.validateAgainstExisting(txCtx, schedule, id); err != nil {
			return err
		}

		updated, err := s.scheduleRepo.Update(txCtx, schedule)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, s.mapTxError("UpdateSchedule", err)
	}

	s.logger.Info("UpdateSchedule: updated schedule id=%s", id)
	return models.FromDomainSchedule(result), nil
}

// Delete удаляет расписание
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	s.logger.Info("DeleteSchedule: tenant=%s, id=%s", tenantID, id)

	if err := s.scheduleRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("DeleteSchedule: schedule id=%s not found", id)
			return ErrScheduleNotFound
		}
		s.logger.Error("DeleteSchedule: repository error for id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

// List возвращает все расписания тенанта
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) (*models.ScheduleListResponse, error) {
	schedules, err := s.scheduleRepo.List(ctx, tenantID)
	if err != nil {
		s.logger.Error("ListSchedules: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainScheduleList(schedules), nil
}

func (s *Service) validateAgainstExisting(ctx context.Context, schedule *domain.Schedule, excludeID uuid.UUID) error {
	others, err := s.scheduleRepo.FindByTenantAndDay(ctx, schedule.TenantID, schedule.DayOfWeek, excludeID)
	if err != nil {
		return fmt.Errorf("%w: failed to load schedules: %v", ErrInternal, err)
	}

	existing := make([]domain.TimeRange, 0)
	for _, other := range others {
		existing = append(existing, other.Ranges...)
	}

	return domain.ValidateScheduleRanges(schedule.Ranges, existing)
}

// mapTxError логирует ошибку транзакции; конкурентная запись того же дня считается пересечением
func (s *Service) mapTxError(op string, err error) error {
	switch {
	case errors.Is(err, txmanager.ErrSerialization):
		s.logger.Warn("%s: concurrent schedule change: %v", op, err)
		return fmt.Errorf("%w: concurrent schedule change", domain.ErrScheduleOverlap)
	case errors.Is(err, ErrScheduleNotFound):
		s.logger.Warn("%s: %v", op, err)
		return err
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		s.logger.Warn("%s: validation failed: %v", op, err)
		return err
	default:
		s.logger.Error("%s: %v", op, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
