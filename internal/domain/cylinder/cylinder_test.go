package cylinder

import (
	"testing"
	"time"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCylinder(t *testing.T) *Cylinder {
	t.Helper()
	c, err := NewCylinder(
		"MAIN-10KG-001",
		"QR-MAIN-10KG-001",
		Type10KG,
		uuid.New(),
		decimal.NewFromInt(10),
		time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return c
}

func TestNewCylinder(t *testing.T) {
	t.Run("creates available cylinder with rated max volume", func(t *testing.T) {
		c := newTestCylinder(t)

		assert.Equal(t, StatusAvailable, c.Status)
		assert.True(t, c.MaxGasVolume.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 1, c.Version)
		assert.NotEqual(t, uuid.Nil, c.ID)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewCylinder("", "QR-X", Type5KG, uuid.New(), decimal.Zero, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewCylinder("C-1", "QR-1", Type("25kg"), uuid.New(), decimal.Zero, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects volume above rated maximum", func(t *testing.T) {
		_, err := NewCylinder("C-1", "QR-1", Type5KG, uuid.New(), decimal.NewFromInt(6), time.Now())
		assert.Error(t, err)
	})
}

func TestTypeRatedVolume(t *testing.T) {
	assert.True(t, Type5KG.RatedVolume().Equal(decimal.NewFromInt(5)))
	assert.True(t, Type10KG.RatedVolume().Equal(decimal.NewFromInt(10)))
	assert.True(t, Type15KG.RatedVolume().Equal(decimal.NewFromInt(15)))
	assert.True(t, Type50KG.RatedVolume().Equal(decimal.NewFromInt(50)))
}

func TestStatusTransitionTable(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusAvailable, StatusLeased, true},
		{StatusAvailable, StatusRefilling, true},
		{StatusAvailable, StatusDamaged, true},
		{StatusAvailable, StatusRetired, false},
		{StatusLeased, StatusAvailable, true},
		{StatusLeased, StatusDamaged, true},
		{StatusLeased, StatusRefilling, false},
		{StatusLeased, StatusRetired, false},
		{StatusRefilling, StatusAvailable, true},
		{StatusRefilling, StatusDamaged, true},
		{StatusRefilling, StatusLeased, false},
		{StatusDamaged, StatusRetired, true},
		{StatusDamaged, StatusAvailable, false},
		{StatusDamaged, StatusLeased, false},
		{StatusRetired, StatusAvailable, false},
		{StatusRetired, StatusDamaged, false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCylinderLease(t *testing.T) {
	t.Run("leases an available cylinder", func(t *testing.T) {
		c := newTestCylinder(t)

		err := c.Lease(uuid.New(), c.CurrentOutletID)

		require.NoError(t, err)
		assert.Equal(t, StatusLeased, c.Status)
		assert.Equal(t, 1, c.Version, "version only advances when the guarded save commits")

		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCylinderLeased, events[0].EventType())
	})

	t.Run("rejects leasing a leased cylinder", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.Lease(uuid.New(), c.CurrentOutletID))

		err := c.Lease(uuid.New(), c.CurrentOutletID)

		assert.True(t, shared.IsCode(err, shared.CodePreconditionFailed))
	})

	t.Run("mutations never advance the version in memory", func(t *testing.T) {
		c := newTestCylinder(t)

		require.NoError(t, c.SetGasVolume(decimal.NewFromInt(3)))
		require.NoError(t, c.Lease(uuid.New(), c.CurrentOutletID))
		require.NoError(t, c.ReturnToService())

		assert.Equal(t, 1, c.Version)
	})
}

func TestCylinderReturnToService(t *testing.T) {
	t.Run("returns a leased cylinder to available", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.Lease(uuid.New(), c.CurrentOutletID))

		err := c.ReturnToService()

		require.NoError(t, err)
		assert.Equal(t, StatusAvailable, c.Status)
	})

	t.Run("rejects returning an available cylinder", func(t *testing.T) {
		c := newTestCylinder(t)

		err := c.ReturnToService()

		assert.True(t, shared.IsCode(err, shared.CodePreconditionFailed))
	})
}

func TestCylinderRefill(t *testing.T) {
	t.Run("begin refill then complete restores max volume", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.SetGasVolume(decimal.NewFromInt(2)))
		require.NoError(t, c.BeginRefill())
		assert.Equal(t, StatusRefilling, c.Status)

		err := c.CompleteRefill()

		require.NoError(t, err)
		assert.Equal(t, StatusAvailable, c.Status)
		assert.True(t, c.CurrentGasVolume.Equal(c.MaxGasVolume))
	})

	t.Run("refill in place keeps status available", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.SetGasVolume(decimal.NewFromInt(3)))

		err := c.CompleteRefill()

		require.NoError(t, err)
		assert.Equal(t, StatusAvailable, c.Status)
		assert.True(t, c.CurrentGasVolume.Equal(c.MaxGasVolume))
	})

	t.Run("rejects refill of a leased cylinder", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.Lease(uuid.New(), c.CurrentOutletID))

		err := c.CompleteRefill()

		assert.True(t, shared.IsCode(err, shared.CodePreconditionFailed))
	})
}

func TestCylinderRelocate(t *testing.T) {
	t.Run("relocates without changing status", func(t *testing.T) {
		c := newTestCylinder(t)
		dest := uuid.New()

		err := c.Relocate(dest, uuid.New(), "Stock balancing")

		require.NoError(t, err)
		assert.Equal(t, dest, c.CurrentOutletID)
		assert.Equal(t, StatusAvailable, c.Status)
	})

	t.Run("rejects relocating a leased cylinder", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.Lease(uuid.New(), c.CurrentOutletID))

		err := c.Relocate(uuid.New(), uuid.New(), "Stock balancing")

		assert.True(t, shared.IsCode(err, shared.CodeInvalidTransfer))
	})

	t.Run("rejects relocating to the current outlet", func(t *testing.T) {
		c := newTestCylinder(t)

		err := c.Relocate(c.CurrentOutletID, uuid.New(), "noop")

		assert.True(t, shared.IsCode(err, shared.CodeInvalidTransfer))
	})

	t.Run("relocates a damaged cylinder", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.MarkDamaged("valve leak"))

		err := c.Relocate(uuid.New(), uuid.New(), "Repair depot")

		require.NoError(t, err)
		assert.Equal(t, StatusDamaged, c.Status)
	})
}

func TestCylinderRetire(t *testing.T) {
	t.Run("retires a damaged cylinder", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.MarkDamaged("corrosion"))

		err := c.Retire("failed inspection")

		require.NoError(t, err)
		assert.Equal(t, StatusRetired, c.Status)
	})

	t.Run("rejects retiring an available cylinder", func(t *testing.T) {
		c := newTestCylinder(t)

		err := c.Retire("too old")

		assert.True(t, shared.IsCode(err, shared.CodePreconditionFailed))
	})

	t.Run("retired is terminal", func(t *testing.T) {
		c := newTestCylinder(t)
		require.NoError(t, c.MarkDamaged("corrosion"))
		require.NoError(t, c.Retire("failed inspection"))

		assert.Error(t, c.ReturnToService())
		assert.Error(t, c.Lease(uuid.New(), c.CurrentOutletID))
		assert.Error(t, c.MarkDamaged("again"))
		assert.Error(t, c.Relocate(uuid.New(), uuid.New(), "move"))
	})
}

func TestCylinderSetGasVolume(t *testing.T) {
	c := newTestCylinder(t)

	require.NoError(t, c.SetGasVolume(decimal.NewFromFloat(4.5)))
	assert.True(t, c.CurrentGasVolume.Equal(decimal.NewFromFloat(4.5)))

	assert.Error(t, c.SetGasVolume(decimal.NewFromInt(-1)))
	assert.Error(t, c.SetGasVolume(decimal.NewFromInt(11)))
}

func TestCylinderFillRatio(t *testing.T) {
	c := newTestCylinder(t)
	require.NoError(t, c.SetGasVolume(decimal.NewFromFloat(2.5)))

	assert.True(t, c.FillRatio().Equal(decimal.NewFromFloat(0.25)))
}
