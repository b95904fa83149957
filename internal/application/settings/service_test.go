package settings

import (
	"context"
	"sync"
	"testing"

	"github.com/cylinderx/backend/internal/domain/identity"
	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSettingRepo struct {
	mu       sync.Mutex
	settings map[uuid.UUID]settings.BusinessSetting
}

func newStubSettingRepo() *stubSettingRepo {
	return &stubSettingRepo{settings: make(map[uuid.UUID]settings.BusinessSetting)}
}

func (r *stubSettingRepo) FindByID(_ context.Context, id uuid.UUID) (*settings.BusinessSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := s
	return &copied, nil
}

func (r *stubSettingRepo) FindActiveByKey(_ context.Context, key string) ([]settings.BusinessSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []settings.BusinessSetting
	for _, s := range r.settings {
		if s.SettingKey == key && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSettingRepo) FindByCategory(_ context.Context, categoryID int, _ shared.Filter) ([]settings.BusinessSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []settings.BusinessSetting
	for _, s := range r.settings {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSettingRepo) FindAll(_ context.Context, _ shared.Filter) ([]settings.BusinessSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]settings.BusinessSetting, 0, len(r.settings))
	for _, s := range r.settings {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubSettingRepo) Save(_ context.Context, s *settings.BusinessSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.ID] = *s
	return nil
}

func (r *stubSettingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.settings, id)
	return nil
}

type stubUserRepo struct {
	users map[uuid.UUID]identity.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, _ string) (*identity.User, error) {
	return nil, shared.ErrNotFound
}

func (r *stubUserRepo) FindByOutlet(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]identity.User, error) {
	return nil, nil
}

func (r *stubUserRepo) FindByRole(_ context.Context, _ identity.Role, _ shared.Filter) ([]identity.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Save(_ context.Context, u *identity.User) error {
	r.users[u.ID] = *u
	return nil
}

func setup(t *testing.T) (*Service, *stubSettingRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	repo := newStubSettingRepo()

	admin, err := identity.NewUser("admin@example.com", "Ada", "Okafor", identity.RoleAdmin)
	require.NoError(t, err)
	staff, err := identity.NewUser("staff@example.com", "Bode", "Adeyemi", identity.RoleStaff)
	require.NoError(t, err)
	users := &stubUserRepo{users: map[uuid.UUID]identity.User{
		admin.ID: *admin,
		staff.ID: *staff,
	}}

	return NewService(repo, users, zap.NewNop()), repo, admin.ID, staff.ID
}

func TestCreateSetting(t *testing.T) {
	t.Run("admin creates a scoped setting", func(t *testing.T) {
		svc, _, adminID, _ := setup(t)
		outletID := uuid.New()
		cylType := "10kg"

		resp, err := svc.Create(context.Background(), CreateSettingCommand{
			CategoryID:   1,
			Key:          settings.KeyLeaseFeePerKG,
			Value:        900,
			DataType:     settings.DataTypeNumber,
			OutletID:     &outletID,
			CylinderType: &cylType,
			CreatedBy:    adminID,
		})
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		require.NotNil(t, resp.OutletID)
		assert.Equal(t, outletID, *resp.OutletID)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		svc, _, _, staffID := setup(t)

		_, err := svc.Create(context.Background(), CreateSettingCommand{
			CategoryID: 1,
			Key:        settings.KeyLeaseFeePerKG,
			Value:      900,
			DataType:   settings.DataTypeNumber,
			CreatedBy:  staffID,
		})
		assert.True(t, shared.IsCode(err, shared.CodePreconditionFailed))
	})

	t.Run("invalid data type is rejected", func(t *testing.T) {
		svc, _, adminID, _ := setup(t)

		_, err := svc.Create(context.Background(), CreateSettingCommand{
			CategoryID: 1,
			Key:        "x",
			Value:      1,
			DataType:   settings.DataType("float"),
			CreatedBy:  adminID,
		})
		assert.Error(t, err)
	})
}

func TestUpdateSetting(t *testing.T) {
	svc, repo, adminID, _ := setup(t)

	created, err := svc.Create(context.Background(), CreateSettingCommand{
		CategoryID: 1,
		Key:        settings.KeyTaxRate,
		Value:      7.5,
		DataType:   settings.DataTypeNumber,
		CreatedBy:  adminID,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), UpdateSettingCommand{
		SettingID: created.ID,
		Value:     10,
		UpdatedBy: adminID,
	})
	require.NoError(t, err)
	assert.Equal(t, "10", updated.Value)

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	v, err := stored.DecimalValue()
	require.NoError(t, err)
	assert.Equal(t, "10", v.String())
}

func TestDeactivateSetting(t *testing.T) {
	svc, _, adminID, _ := setup(t)

	created, err := svc.Create(context.Background(), CreateSettingCommand{
		CategoryID: 1,
		Key:        settings.KeyLateFeeDaily,
		Value:      10,
		DataType:   settings.DataTypeNumber,
		CreatedBy:  adminID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID, adminID))

	active, err := svc.ListByKey(context.Background(), settings.KeyLateFeeDaily)
	require.NoError(t, err)
	assert.Empty(t, active, "deactivated settings leave resolution")

	// the record itself survives
	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
