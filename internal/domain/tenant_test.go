package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy([]ConfigEntry{
		{Key: ConfigMinDaysBeforeCancellation, Value: "2"},
		{Key: ConfigMinDaysBeforeConfirmation, Value: "0"},
	})
	require.NoError(t, err)
	require.NotNil(t, policy.MinDaysBeforeCancellation)
	assert.Equal(t, uint(2), *policy.MinDaysBeforeCancellation)
	assert.Equal(t, uint(0), *policy.MinDaysBeforeConfirmation)
}

func TestParsePolicy_SkipsBadEntries(t *testing.T) {
	policy, err := ParsePolicy([]ConfigEntry{
		{Key: ConfigMinDaysBeforeCancellation, Value: "-1"},
		{Key: ConfigMinDaysBeforeConfirmation, Value: "3"},
		{Key: "UNKNOWN", Value: "1"},
	})

	assert.ErrorIs(t, err, ErrInvalidConfigValue)
	assert.ErrorIs(t, err, ErrUnknownConfigKey)
	assert.Nil(t, policy.MinDaysBeforeCancellation)
	assert.Equal(t, uint(3), *policy.MinDaysBeforeConfirmation)
}

func TestTenantPolicy_Entries(t *testing.T) {
	policy := TenantPolicy{MinDaysBeforeCancellation: ptr.Ptr(uint(5))}

	assert.Equal(t, []ConfigEntry{{Key: ConfigMinDaysBeforeCancellation, Value: "5"}}, policy.Entries())
	assert.Empty(t, TenantPolicy{}.Entries())
}

func TestTenantPolicy_MinDaysBefore(t *testing.T) {
	policy := TenantPolicy{
		MinDaysBeforeCancellation: ptr.Ptr(uint(1)),
		MinDaysBeforeConfirmation: ptr.Ptr(uint(2)),
	}

	assert.Equal(t, uint(1), *policy.MinDaysBefore(StatusCancelled))
	assert.Equal(t, uint(2), *policy.MinDaysBefore(StatusConfirmed))
	assert.Nil(t, policy.MinDaysBefore(StatusExpired))
}
