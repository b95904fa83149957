package settings

import (
	"context"
	"testing"
	"time"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSettingRepository serves canned settings keyed by setting key
type stubSettingRepository struct {
	byKey map[string][]BusinessSetting
}

func (s *stubSettingRepository) FindByID(_ context.Context, id uuid.UUID) (*BusinessSetting, error) {
	for _, list := range s.byKey {
		for i := range list {
			if list[i].ID == id {
				return &list[i], nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubSettingRepository) FindActiveByKey(_ context.Context, key string) ([]BusinessSetting, error) {
	out := make([]BusinessSetting, 0)
	for _, setting := range s.byKey[key] {
		if setting.IsActive {
			out = append(out, setting)
		}
	}
	return out, nil
}

func (s *stubSettingRepository) FindByCategory(_ context.Context, _ int, _ shared.Filter) ([]BusinessSetting, error) {
	return nil, nil
}

func (s *stubSettingRepository) FindAll(_ context.Context, _ shared.Filter) ([]BusinessSetting, error) {
	return nil, nil
}

func (s *stubSettingRepository) Save(_ context.Context, setting *BusinessSetting) error {
	s.byKey[setting.SettingKey] = append(s.byKey[setting.SettingKey], *setting)
	return nil
}

func (s *stubSettingRepository) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func mustSetting(t *testing.T, key string, value interface{}, dataType DataType) *BusinessSetting {
	t.Helper()
	setting, err := NewBusinessSetting(2, key, value, dataType, uuid.New())
	require.NoError(t, err)
	return setting
}

func TestStoreResolverPrecedence(t *testing.T) {
	outletID := uuid.New()
	cylinderType := "10kg"

	global := mustSetting(t, KeyLeaseFeePerKG, 1000, DataTypeNumber)
	typeScoped := mustSetting(t, KeyLeaseFeePerKG, 900, DataTypeNumber).ScopeToCylinderType(cylinderType)
	outletScoped := mustSetting(t, KeyLeaseFeePerKG, 800, DataTypeNumber).ScopeToOutlet(outletID)
	full := mustSetting(t, KeyLeaseFeePerKG, 700, DataTypeNumber).ScopeToOutlet(outletID)
	full.ScopeToCylinderType(cylinderType)

	repo := &stubSettingRepository{byKey: map[string][]BusinessSetting{
		KeyLeaseFeePerKG: {*global, *typeScoped, *outletScoped, *full},
	}}
	resolver := NewStoreResolver(repo)

	t.Run("outlet plus type wins over all", func(t *testing.T) {
		v, err := resolver.ResolveDecimal(context.Background(), Query{
			Key:          KeyLeaseFeePerKG,
			OutletID:     &outletID,
			CylinderType: &cylinderType,
		})
		require.NoError(t, err)
		assert.True(t, v.Equal(decimal.NewFromInt(700)))
	})

	t.Run("outlet-only beats type-only", func(t *testing.T) {
		other := "5kg"
		v, err := resolver.ResolveDecimal(context.Background(), Query{
			Key:          KeyLeaseFeePerKG,
			OutletID:     &outletID,
			CylinderType: &other,
		})
		require.NoError(t, err)
		assert.True(t, v.Equal(decimal.NewFromInt(800)))
	})

	t.Run("type-only beats global", func(t *testing.T) {
		otherOutlet := uuid.New()
		v, err := resolver.ResolveDecimal(context.Background(), Query{
			Key:          KeyLeaseFeePerKG,
			OutletID:     &otherOutlet,
			CylinderType: &cylinderType,
		})
		require.NoError(t, err)
		assert.True(t, v.Equal(decimal.NewFromInt(900)))
	})

	t.Run("global is the fallback", func(t *testing.T) {
		v, err := resolver.ResolveDecimal(context.Background(), Global(KeyLeaseFeePerKG))
		require.NoError(t, err)
		assert.True(t, v.Equal(decimal.NewFromInt(1000)))
	})
}

func TestStoreResolverTieBreak(t *testing.T) {
	older := mustSetting(t, KeyTaxRate, 5, DataTypeNumber)
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := mustSetting(t, KeyTaxRate, 7.5, DataTypeNumber)

	repo := &stubSettingRepository{byKey: map[string][]BusinessSetting{
		KeyTaxRate: {*older, *newer},
	}}
	resolver := NewStoreResolver(repo)

	v, err := resolver.ResolveDecimal(context.Background(), Global(KeyTaxRate))
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromFloat(7.5)))
}

func TestStoreResolverOperationScope(t *testing.T) {
	leaseScoped := mustSetting(t, KeyLeaseDepositPerKG, 500, DataTypeNumber).ScopeToOperation(OperationLease)

	repo := &stubSettingRepository{byKey: map[string][]BusinessSetting{
		KeyLeaseDepositPerKG: {*leaseScoped},
	}}
	resolver := NewStoreResolver(repo)

	t.Run("matching operation resolves", func(t *testing.T) {
		op := OperationLease
		v, err := resolver.ResolveDecimal(context.Background(), Query{
			Key:           KeyLeaseDepositPerKG,
			OperationType: &op,
		})
		require.NoError(t, err)
		assert.True(t, v.Equal(decimal.NewFromInt(500)))
	})

	t.Run("unscoped query does not see operation-scoped settings", func(t *testing.T) {
		_, err := resolver.ResolveDecimal(context.Background(), Global(KeyLeaseDepositPerKG))
		assert.True(t, shared.IsCode(err, shared.CodeNotConfigured))
	})
}

func TestStoreResolverNotConfigured(t *testing.T) {
	resolver := NewStoreResolver(&stubSettingRepository{byKey: map[string][]BusinessSetting{}})

	_, err := resolver.Resolve(context.Background(), Global("no.such.key"))

	assert.True(t, shared.IsCode(err, shared.CodeNotConfigured))
}

func TestStoreResolverIgnoresInactive(t *testing.T) {
	inactive := mustSetting(t, KeyRefillMinCharge, 50, DataTypeNumber)
	inactive.Deactivate(uuid.New())

	repo := &stubSettingRepository{byKey: map[string][]BusinessSetting{
		KeyRefillMinCharge: {*inactive},
	}}
	resolver := NewStoreResolver(repo)

	_, err := resolver.ResolveDecimal(context.Background(), Global(KeyRefillMinCharge))
	assert.True(t, shared.IsCode(err, shared.CodeNotConfigured))
}

func TestSettingTypedDecoding(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		s := mustSetting(t, KeyTaxRate, 7.5, DataTypeNumber)
		v, err := s.DecimalValue()
		require.NoError(t, err)
		assert.True(t, v.Equal(decimal.NewFromFloat(7.5)))
	})

	t.Run("string", func(t *testing.T) {
		s := mustSetting(t, KeyTaxType, "exclusive", DataTypeString)
		v, err := s.StringValue()
		require.NoError(t, err)
		assert.Equal(t, "exclusive", v)
	})

	t.Run("boolean", func(t *testing.T) {
		s := mustSetting(t, "notify.enabled", true, DataTypeBoolean)
		v, err := s.BoolValue()
		require.NoError(t, err)
		assert.True(t, v)
	})

	t.Run("json", func(t *testing.T) {
		s := mustSetting(t, "lease.terms", map[string]int{"max_days": 60}, DataTypeJSON)
		var target map[string]int
		require.NoError(t, s.JSONValue(&target))
		assert.Equal(t, 60, target["max_days"])
	})

	t.Run("type mismatch", func(t *testing.T) {
		s := mustSetting(t, KeyTaxType, "exclusive", DataTypeString)
		_, err := s.DecimalValue()
		assert.True(t, shared.IsCode(err, shared.CodeTypeMismatch))
	})

	t.Run("mismatch in resolver helper", func(t *testing.T) {
		s := mustSetting(t, KeyTaxType, "exclusive", DataTypeString)
		repo := &stubSettingRepository{byKey: map[string][]BusinessSetting{
			KeyTaxType: {*s},
		}}
		resolver := NewStoreResolver(repo)

		_, err := resolver.ResolveBool(context.Background(), Global(KeyTaxType))
		assert.True(t, shared.IsCode(err, shared.CodeTypeMismatch))
	})
}
