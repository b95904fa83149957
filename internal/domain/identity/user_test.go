package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("normalizes email", func(t *testing.T) {
		u, err := NewUser("  Ada@Example.COM ", "Ada", "Okafor", RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", u.Email)
		assert.Equal(t, PaymentStatusGood, u.PaymentStatus)
		assert.True(t, u.Active)
	})

	t.Run("rejects bad email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "Ada", "Okafor", RoleCustomer)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("ada@example.com", "Ada", "Okafor", Role("superuser"))
		assert.Error(t, err)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		_, err := NewUser("ada@example.com", "", "Okafor", RoleCustomer)
		assert.Error(t, err)
	})
}

func TestUserOutletAssignment(t *testing.T) {
	outletID := uuid.New()

	t.Run("staff can be assigned", func(t *testing.T) {
		u, err := NewUser("staff@example.com", "Bode", "Adeyemi", RoleStaff)
		require.NoError(t, err)
		require.NoError(t, u.AssignToOutlet(outletID))
		assert.Equal(t, outletID, *u.OutletID)
	})

	t.Run("customers cannot", func(t *testing.T) {
		u, err := NewUser("cust@example.com", "Chi", "Eze", RoleCustomer)
		require.NoError(t, err)
		assert.Error(t, u.AssignToOutlet(outletID))
	})
}

func TestCustomerPaymentStanding(t *testing.T) {
	u, err := NewUser("cust@example.com", "Chi", "Eze", RoleCustomer)
	require.NoError(t, err)
	assert.True(t, u.CanLease())

	u.FlagOverdue()
	assert.Equal(t, PaymentStatusOverdue, u.PaymentStatus)
	assert.True(t, u.CanLease(), "overdue customers can still lease")

	u.Block()
	assert.False(t, u.CanLease())

	// blocked customers stay blocked when flagged overdue again
	u.FlagOverdue()
	assert.Equal(t, PaymentStatusBlocked, u.PaymentStatus)

	u.ClearPaymentFlag()
	assert.True(t, u.CanLease())

	u.Deactivate()
	assert.False(t, u.CanLease())
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, RoleAdmin.IsStaffRole())
	assert.True(t, RoleRefillOperator.IsStaffRole())
	assert.False(t, RoleCustomer.IsStaffRole())
}
