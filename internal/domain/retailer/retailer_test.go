package retailer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetailer(t *testing.T) {
	userID := uuid.New()
	districtID := uuid.New()

	t.Run("creates retailer with valid fields", func(t *testing.T) {
		r, err := NewRetailer(userID, districtID, "Sharma Agro Center", "mh-lic-2024-0042")

		require.NoError(t, err)
		assert.Equal(t, userID, r.UserID)
		assert.Equal(t, districtID, r.DistrictID)
		assert.Equal(t, "Sharma Agro Center", r.BusinessName)
		assert.Equal(t, "MH-LIC-2024-0042", r.LicenseNo)
		assert.Equal(t, VerificationPending, r.Verification)
		assert.False(t, r.CanPublishPrices())

		events := r.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*RetailerRegisteredEvent)
		assert.True(t, ok)
	})

	t.Run("fails without user", func(t *testing.T) {
		_, err := NewRetailer(uuid.Nil, districtID, "Sharma Agro Center", "MH-LIC-2024-0042")
		assert.Error(t, err)
	})

	t.Run("fails without district", func(t *testing.T) {
		_, err := NewRetailer(userID, uuid.Nil, "Sharma Agro Center", "MH-LIC-2024-0042")
		assert.Error(t, err)
	})

	t.Run("fails with empty business name", func(t *testing.T) {
		_, err := NewRetailer(userID, districtID, "", "MH-LIC-2024-0042")
		assert.Error(t, err)
	})

	t.Run("fails with short license number", func(t *testing.T) {
		_, err := NewRetailer(userID, districtID, "Sharma Agro Center", "L1")
		assert.Error(t, err)
	})

	t.Run("fails with invalid license characters", func(t *testing.T) {
		_, err := NewRetailer(userID, districtID, "Sharma Agro Center", "MH LIC 42")
		assert.Error(t, err)
	})
}

func TestRetailer_Verify(t *testing.T) {
	t.Run("verifies pending retailer", func(t *testing.T) {
		r, _ := NewRetailer(uuid.New(), uuid.New(), "Sharma Agro Center", "MH-LIC-2024-0042")
		r.ClearDomainEvents()
		admin := uuid.New()

		err := r.Verify(admin)

		require.NoError(t, err)
		assert.True(t, r.IsVerified())
		assert.True(t, r.CanPublishPrices())
		require.NotNil(t, r.VerifiedBy)
		assert.Equal(t, admin, *r.VerifiedBy)
		assert.NotNil(t, r.VerifiedAt)

		events := r.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*RetailerVerifiedEvent)
		assert.True(t, ok)
	})

	t.Run("fails to verify twice", func(t *testing.T) {
		r, _ := NewRetailer(uuid.New(), uuid.New(), "Sharma Agro Center", "MH-LIC-2024-0042")
		_ = r.Verify(uuid.New())

		assert.Error(t, r.Verify(uuid.New()))
	})

	t.Run("verify clears suspension", func(t *testing.T) {
		r, _ := NewRetailer(uuid.New(), uuid.New(), "Sharma Agro Center", "MH-LIC-2024-0042")
		_ = r.Verify(uuid.New())
		_ = r.Suspend("repeated violations")
		require.True(t, r.IsSuspended())

		require.NoError(t, r.Verify(uuid.New()))
		assert.True(t, r.IsVerified())
		assert.Empty(t, r.SuspendedReason)
	})
}

func TestRetailer_Suspend(t *testing.T) {
	t.Run("suspends verified retailer", func(t *testing.T) {
		r, _ := NewRetailer(uuid.New(), uuid.New(), "Sharma Agro Center", "MH-LIC-2024-0042")
		_ = r.Verify(uuid.New())
		r.ClearDomainEvents()

		err := r.Suspend("selling above mandated price")

		require.NoError(t, err)
		assert.True(t, r.IsSuspended())
		assert.False(t, r.CanPublishPrices())
		assert.Equal(t, "selling above mandated price", r.SuspendedReason)

		events := r.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*RetailerSuspendedEvent)
		assert.True(t, ok)
	})

	t.Run("requires a reason", func(t *testing.T) {
		r, _ := NewRetailer(uuid.New(), uuid.New(), "Sharma Agro Center", "MH-LIC-2024-0042")

		assert.Error(t, r.Suspend(""))
	})

	t.Run("fails to suspend twice", func(t *testing.T) {
		r, _ := NewRetailer(uuid.New(), uuid.New(), "Sharma Agro Center", "MH-LIC-2024-0042")
		_ = r.Suspend("violation")

		assert.Error(t, r.Suspend("another violation"))
	})
}

func TestRetailer_SetLocation(t *testing.T) {
	r, _ := NewRetailer(uuid.New(), uuid.New(), "Sharma Agro Center", "MH-LIC-2024-0042")

	require.NoError(t, r.SetLocation(18.5204, 73.8567))
	require.NotNil(t, r.Latitude)
	assert.InDelta(t, 18.5204, *r.Latitude, 1e-9)

	assert.Error(t, r.SetLocation(91, 0))
	assert.Error(t, r.SetLocation(0, 181))
}

func TestRetailer_MoveToDistrict(t *testing.T) {
	districtID := uuid.New()
	r, _ := NewRetailer(uuid.New(), districtID, "Sharma Agro Center", "MH-LIC-2024-0042")

	newDistrict := uuid.New()
	require.NoError(t, r.MoveToDistrict(newDistrict))
	assert.Equal(t, newDistrict, r.DistrictID)

	assert.Error(t, r.MoveToDistrict(newDistrict))
	assert.Error(t, r.MoveToDistrict(uuid.Nil))
}

func TestRetailer_TableName(t *testing.T) {
	assert.Equal(t, "retailers", Retailer{}.TableName())
}
