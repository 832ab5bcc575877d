package tenantconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-ReservationService/internal/service/tenantconfig/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *mockTenantRepo) GetEntries(ctx context.Context, tenantID uuid.UUID) ([]domain.ConfigEntry, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConfigEntry), args.Error(1)
}

func (m *mockTenantRepo) UpsertEntries(ctx context.Context, tenantID uuid.UUID, entries []domain.ConfigEntry) error {
	return m.Called(ctx, tenantID, entries).Error(0)
}

func (m *mockTenantRepo) DeleteEntries(ctx context.Context, tenantID uuid.UUID, keys []domain.ConfigKey) error {
	return m.Called(ctx, tenantID, keys).Error(0)
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestResolvePolicy_IgnoresMalformedValues(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := &mockTenantRepo{}
	repo.On("GetEntries", ctx, tenantID).Return([]domain.ConfigEntry{
		{Key: domain.ConfigMinDaysBeforeCancellation, Value: "2"},
		{Key: domain.ConfigMinDaysBeforeConfirmation, Value: "soon"},
	}, nil)

	policy, err := NewService(repo, passThroughTx{}, logger.NewNop()).ResolvePolicy(ctx, tenantID)

	require.NoError(t, err)
	require.NotNil(t, policy.MinDaysBeforeCancellation)
	assert.Equal(t, uint(2), *policy.MinDaysBeforeCancellation)
	assert.Nil(t, policy.MinDaysBeforeConfirmation)
}

func TestResolvePolicy_RepositoryError(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := &mockTenantRepo{}
	repo.On("GetEntries", ctx, tenantID).Return(nil, errors.New("db down"))

	_, err := NewService(repo, passThroughTx{}, logger.NewNop()).ResolvePolicy(ctx, tenantID)

	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetPolicy_TenantNotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := &mockTenantRepo{}
	repo.On("GetByID", ctx, tenantID).Return(nil, tenantRepo.ErrTenantNotFound)

	_, err := NewService(repo, passThroughTx{}, logger.NewNop()).GetPolicy(ctx, tenantID)

	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestUpdatePolicy_SetsAndRemovesKeys(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := &mockTenantRepo{}
	repo.On("GetByID", ctx, tenantID).Return(&domain.Tenant{ID: tenantID}, nil)
	repo.On("UpsertEntries", ctx, tenantID, []domain.ConfigEntry{
		{Key: domain.ConfigMinDaysBeforeCancellation, Value: "3"},
	}).Return(nil)
	repo.On("DeleteEntries", ctx, tenantID, []domain.ConfigKey{domain.ConfigMinDaysBeforeConfirmation}).Return(nil)

	resp, err := NewService(repo, passThroughTx{}, logger.NewNop()).UpdatePolicy(ctx, tenantID, &models.UpdatePolicyRequest{
		MinDaysBeforeCancellation: ptr.Ptr(3),
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), *resp.MinDaysBeforeCancellation)
	assert.Nil(t, resp.MinDaysBeforeConfirmation)
	repo.AssertExpectations(t)
}

func TestUpdatePolicy_RejectsNegativeValue(t *testing.T) {
	repo := &mockTenantRepo{}

	_, err := NewService(repo, passThroughTx{}, logger.NewNop()).UpdatePolicy(context.Background(), uuid.New(), &models.UpdatePolicyRequest{
		MinDaysBeforeConfirmation: ptr.Ptr(-1),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidConfigValue)
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "UpsertEntries", mock.Anything, mock.Anything, mock.Anything)
}
