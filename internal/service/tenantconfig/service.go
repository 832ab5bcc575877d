package tenantconfig

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-ReservationService/internal/service/tenantconfig/models"
)

// Service сервис настроек тенанта
type Service struct {
	tenantRepo TenantRepository
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(tenantRepo TenantRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		tenantRepo: tenantRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ResolvePolicy читает настройки тенанта и собирает типизированную политику.
// Битые значения в БД пропускаются с предупреждением в лог, правило считается выключенным.
func (s *Service) ResolvePolicy(ctx context.Context, tenantID uuid.UUID) (domain.TenantPolicy, error) {
	entries, err := s.tenantRepo.GetEntries(ctx, tenantID)
	if err != nil {
		s.logger.Error("ResolvePolicy: failed to load config for tenant=%s: %v", tenantID, err)
		return domain.TenantPolicy{}, fmt.Errorf("%w: ResolvePolicy - repository error: %v", ErrInternal, err)
	}

	policy, err := domain.ParsePolicy(entries)
	if err != nil {
		s.logger.Warn("ResolvePolicy: ignoring malformed config for tenant=%s: %v", tenantID, err)
	}

	return policy, nil
}

// GetPolicy возвращает временные правила тенанта
func (s *Service) GetPolicy(ctx context.Context, tenantID uuid.UUID) (*models.PolicyResponse, error) {
	s.logger.Info("GetPolicy: tenant=%s", tenantID)

	if err := s.ensureTenant(ctx, "GetPolicy", tenantID); err != nil {
		return nil, err
	}

	policy, err := s.ResolvePolicy(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainPolicy(policy), nil
}

// UpdatePolicy заменяет временные правила тенанта целиком
func (s *Service) UpdatePolicy(ctx context.Context, tenantID uuid.UUID, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("UpdatePolicy: tenant=%s", tenantID)

	// 1. Валидируем значения
	policy, err := toDomainPolicy(req)
	if err != nil {
		s.logger.Warn("UpdatePolicy: validation failed for tenant=%s: %v", tenantID, err)
		return nil, err
	}

	// 2. Раскладываем на записи для сохранения и ключи для удаления
	upsert := policy.Entries()
	set := make(map[domain.ConfigKey]bool, len(upsert))
	for _, e := range upsert {
		set[e.Key] = true
	}
	remove := make([]domain.ConfigKey, 0)
	for _, key := range domain.KnownConfigKeys {
		if !set[key] {
			remove = append(remove, key)
		}
	}

	// 3. Сохраняем атомарно
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.ensureTenant(txCtx, "UpdatePolicy", tenantID); err != nil {
			return err
		}
		if err := s.tenantRepo.UpsertEntries(txCtx, tenantID, upsert); err != nil {
			return fmt.Errorf("%w: UpdatePolicy - upsert: %v", ErrInternal, err)
		}
		if err := s.tenantRepo.DeleteEntries(txCtx, tenantID, remove); err != nil {
			return fmt.Errorf("%w: UpdatePolicy - delete: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTenantNotFound) {
			s.logger.Error("UpdatePolicy: failed for tenant=%s: %v", tenantID, err)
		}
		return nil, err
	}

	s.logger.Info("UpdatePolicy: saved %d rules for tenant=%s", len(upsert), tenantID)
	return models.FromDomainPolicy(policy), nil
}

func (s *Service) ensureTenant(ctx context.Context, op string, tenantID uuid.UUID) error {
	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant=%s not found", op, tenantID)
			return ErrTenantNotFound
		}
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

func toDomainPolicy(req *models.UpdatePolicyRequest) (domain.TenantPolicy, error) {
	var policy domain.TenantPolicy

	parse := func(key domain.ConfigKey, v *int) (*uint, error) {
		if v == nil {
			return nil, nil
		}
		parsed, err := domain.ParseConfigValue(strconv.Itoa(*v))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return &parsed, nil
	}

	var err error
	if policy.MinDaysBeforeCancellation, err = parse(domain.ConfigMinDaysBeforeCancellation, req.MinDaysBeforeCancellation); err != nil {
		return policy, err
	}
	if policy.MinDaysBeforeConfirmation, err = parse(domain.ConfigMinDaysBeforeConfirmation, req.MinDaysBeforeConfirmation); err != nil {
		return policy, err
	}

	return policy, nil
}
