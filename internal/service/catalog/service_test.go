package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ReservationService/internal/service/catalog/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockServiceRepo struct {
	mock.Mock
}

func (m *mockServiceRepo) Create(ctx context.Context, service *domain.ServiceOffered) (*domain.ServiceOffered, error) {
	args := m.Called(ctx, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceOffered), args.Error(1)
}

func (m *mockServiceRepo) Update(ctx context.Context, service *domain.ServiceOffered) (*domain.ServiceOffered, error) {
	args := m.Called(ctx, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceOffered), args.Error(1)
}

func (m *mockServiceRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockServiceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.ServiceOffered, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceOffered), args.Error(1)
}

func (m *mockServiceRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.ServiceOffered, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ServiceOffered), args.Error(1)
}

var tenantID = uuid.New()

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	repo := &mockServiceRepo{}
	svc := NewService(repo, logger.NewNop())

	req := &models.ServiceRequest{Name: "cut", DurationMinutes: 30, Price: decimal.RequireFromString("25.5")}
	repo.On("Create", ctx, mock.MatchedBy(func(s *domain.ServiceOffered) bool {
		return s.TenantID == tenantID && s.ID != uuid.Nil && s.Name == "cut"
	})).Return(&domain.ServiceOffered{ID: uuid.New(), TenantID: tenantID, Name: "cut", DurationMinutes: 30, Price: req.Price}, nil)

	resp, err := svc.Create(ctx, tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "25.50", resp.Price)
	repo.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ServiceRequest
		wantErr error
	}{
		{"blank name", models.ServiceRequest{Name: "  ", DurationMinutes: 30}, domain.ErrValidation},
		{"zero duration", models.ServiceRequest{Name: "cut"}, domain.ErrInvalidDuration},
		{"negative price", models.ServiceRequest{Name: "cut", DurationMinutes: 30, Price: decimal.NewFromInt(-1)}, domain.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockServiceRepo{}
			svc := NewService(repo, logger.NewNop())

			_, err := svc.Create(context.Background(), tenantID, &tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mockServiceRepo{}
	svc := NewService(repo, logger.NewNop())
	id := uuid.New()

	repo.On("Update", ctx, mock.Anything).Return(nil, catalogRepo.ErrServiceNotFound)

	_, err := svc.Update(ctx, tenantID, id, &models.ServiceRequest{Name: "cut", DurationMinutes: 30})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDelete_Errors(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := &mockServiceRepo{}
	repo.On("Delete", ctx, tenantID, id).Return(catalogRepo.ErrServiceNotFound).Once()
	repo.On("Delete", ctx, tenantID, id).Return(errors.New("connection reset")).Once()
	svc := NewService(repo, logger.NewNop())

	assert.ErrorIs(t, svc.Delete(ctx, tenantID, id), ErrServiceNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, tenantID, id), ErrInternal)
}

func TestList_KeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := &mockServiceRepo{}
	svc := NewService(repo, logger.NewNop())

	repo.On("List", ctx, tenantID).Return([]*domain.ServiceOffered{
		{ID: uuid.New(), Name: "cut", Price: decimal.NewFromInt(25)},
		{ID: uuid.New(), Name: "wash", Price: decimal.NewFromInt(10)},
	}, nil)

	resp, err := svc.List(ctx, tenantID)

	require.NoError(t, err)
	require.Len(t, resp.Services, 2)
	assert.Equal(t, "cut", resp.Services[0].Name)
	assert.Equal(t, "10.00", resp.Services[1].Price)
}
