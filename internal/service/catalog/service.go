package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	catalogRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ReservationService/internal/service/catalog/models"
)

// Service сервис каталога услуг тенанта
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Create создает услугу
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: tenant=%s, name=%q, duration=%d", tenantID, req.Name, req.DurationMinutes)

	service := req.ToDomain(tenantID, uuid.New())
	if err := service.Validate(); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: created service id=%s", created.ID)
	return models.FromDomainService(created), nil
}

// Update обновляет услугу. Существующие бронирования не затрагиваются.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: tenant=%s, id=%s", tenantID, id)

	service := req.ToDomain(tenantID, id)
	if err := service.Validate(); err != nil {
		s.logger.Warn("UpdateService: validation failed: %v", err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("UpdateService: service id=%s not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(updated), nil
}

// Delete удаляет услугу
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	s.logger.Info("DeleteService: tenant=%s, id=%s", tenantID, id)

	if err := s.serviceRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("DeleteService: service id=%s not found", id)
			return ErrServiceNotFound
		}
		s.logger.Error("DeleteService: repository error for id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetService: service id=%s not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: repository error for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service), nil
}

// List возвращает все услуги тенанта
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.List(ctx, tenantID)
	if err != nil {
		s.logger.Error("ListServices: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}
