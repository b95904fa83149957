package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cylinderx/backend/internal/domain/cylinder"
	"github.com/cylinderx/backend/internal/domain/identity"
	"github.com/cylinderx/backend/internal/domain/ledger"
	"github.com/cylinderx/backend/internal/domain/outlet"
	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher collects published domain events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// memCylinderRepo is an in-memory cylinder repository with real
// optimistic lock semantics, safe for concurrent use.
type memCylinderRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]cylinder.Cylinder
}

func newMemCylinderRepo() *memCylinderRepo {
	return &memCylinderRepo{items: make(map[uuid.UUID]cylinder.Cylinder)}
}

func (r *memCylinderRepo) FindByID(_ context.Context, id uuid.UUID) (*cylinder.Cylinder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := c
	return &copied, nil
}

func (r *memCylinderRepo) FindByCode(_ context.Context, code string) (*cylinder.Cylinder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.CylinderCode == code {
			copied := c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCylinderRepo) FindByQRCode(_ context.Context, qrCode string) (*cylinder.Cylinder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.QRCode == qrCode {
			copied := c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCylinderRepo) FindByOutlet(_ context.Context, outletID uuid.UUID, _ shared.Filter) ([]cylinder.Cylinder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []cylinder.Cylinder
	for _, c := range r.items {
		if c.CurrentOutletID == outletID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCylinderRepo) FindByOutletAndStatus(_ context.Context, outletID uuid.UUID, status cylinder.Status, _ shared.Filter) ([]cylinder.Cylinder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []cylinder.Cylinder
	for _, c := range r.items {
		if c.CurrentOutletID == outletID && c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCylinderRepo) Save(_ context.Context, c *cylinder.Cylinder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = *c
	return nil
}

func (r *memCylinderRepo) SaveWithLock(_ context.Context, c *cylinder.Cylinder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[c.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != c.Version {
		return shared.ErrConcurrencyConflict
	}
	c.IncrementVersion()
	r.items[c.ID] = *c
	return nil
}

func (r *memCylinderRepo) CountByOutletAndStatus(_ context.Context, outletID uuid.UUID, status cylinder.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.items {
		if c.CurrentOutletID == outletID && c.Status == status {
			n++
		}
	}
	return n, nil
}

// memLeaseRepo is an in-memory lease record store
type memLeaseRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]ledger.LeaseRecord
}

func newMemLeaseRepo() *memLeaseRepo {
	return &memLeaseRepo{records: make(map[uuid.UUID]ledger.LeaseRecord)}
}

func (r *memLeaseRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.LeaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := rec
	return &copied, nil
}

func (r *memLeaseRepo) FindOpenByCylinder(_ context.Context, cylinderID uuid.UUID) (*ledger.LeaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.CylinderID == cylinderID && rec.Status.IsOpen() {
			copied := rec
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLeaseRepo) FindActiveByCustomer(_ context.Context, customerID uuid.UUID) ([]ledger.LeaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.LeaseRecord
	for _, rec := range r.records {
		if rec.CustomerID == customerID && rec.Status.IsOpen() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memLeaseRepo) CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	records, _ := r.FindActiveByCustomer(ctx, customerID)
	return int64(len(records)), nil
}

func (r *memLeaseRepo) FindByCylinder(_ context.Context, cylinderID uuid.UUID, _ shared.Filter) ([]ledger.LeaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.LeaseRecord
	for _, rec := range r.records {
		if rec.CylinderID == cylinderID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memLeaseRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]ledger.LeaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.LeaseRecord
	for _, rec := range r.records {
		if !rec.LeaseDate.Before(start) && !rec.LeaseDate.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memLeaseRepo) FindExpiredActive(_ context.Context, asOf time.Time) ([]ledger.LeaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.LeaseRecord
	for _, rec := range r.records {
		if rec.Status == ledger.LeaseStatusActive && asOf.After(rec.ExpectedReturnDate) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memLeaseRepo) Create(_ context.Context, record *ledger.LeaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = *record
	return nil
}

func (r *memLeaseRepo) Update(_ context.Context, record *ledger.LeaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return shared.ErrNotFound
	}
	r.records[record.ID] = *record
	return nil
}

func (r *memLeaseRepo) MarkOverdue(_ context.Context, record *ledger.LeaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[record.ID]
	if !ok || stored.Status != ledger.LeaseStatusActive {
		return shared.ErrConcurrencyConflict
	}
	stored.Status = record.Status
	stored.UpdatedAt = record.UpdatedAt
	r.records[record.ID] = stored
	return nil
}

// memRefillRepo is an in-memory append-only refill record store
type memRefillRepo struct {
	mu      sync.Mutex
	records []ledger.RefillRecord
}

func (r *memRefillRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.RefillRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			copied := r.records[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memRefillRepo) FindByCylinder(_ context.Context, cylinderID uuid.UUID, _ shared.Filter) ([]ledger.RefillRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.RefillRecord
	for _, rec := range r.records {
		if rec.CylinderID == cylinderID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRefillRepo) FindByBatch(_ context.Context, batchNumber string) ([]ledger.RefillRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.RefillRecord
	for _, rec := range r.records {
		if rec.BatchNumber == batchNumber {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRefillRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]ledger.RefillRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.RefillRecord
	for _, rec := range r.records {
		if !rec.RefillDate.Before(start) && !rec.RefillDate.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRefillRepo) Create(_ context.Context, record *ledger.RefillRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

// memTransferRepo is an in-memory append-only transfer record store
type memTransferRepo struct {
	mu      sync.Mutex
	records []ledger.TransferRecord
}

func (r *memTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			copied := r.records[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransferRepo) FindByCylinder(_ context.Context, cylinderID uuid.UUID, _ shared.Filter) ([]ledger.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.TransferRecord
	for _, rec := range r.records {
		if rec.CylinderID == cylinderID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memTransferRepo) FindLatestByCylinder(_ context.Context, cylinderID uuid.UUID) (*ledger.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *ledger.TransferRecord
	for i := range r.records {
		rec := &r.records[i]
		if rec.CylinderID != cylinderID {
			continue
		}
		if latest == nil || rec.TransferDate.After(latest.TransferDate) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *memTransferRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]ledger.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.TransferRecord
	for _, rec := range r.records {
		if !rec.TransferDate.Before(start) && !rec.TransferDate.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memTransferRepo) Create(_ context.Context, record *ledger.TransferRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

// memOutletRepo is an in-memory outlet store
type memOutletRepo struct {
	mu      sync.Mutex
	outlets map[uuid.UUID]outlet.Outlet
}

func newMemOutletRepo() *memOutletRepo {
	return &memOutletRepo{outlets: make(map[uuid.UUID]outlet.Outlet)}
}

func (r *memOutletRepo) FindByID(_ context.Context, id uuid.UUID) (*outlet.Outlet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.outlets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := o
	return &copied, nil
}

func (r *memOutletRepo) FindByName(_ context.Context, name string) (*outlet.Outlet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.outlets {
		if o.Name == name {
			copied := o
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOutletRepo) FindAll(_ context.Context, _ shared.Filter) ([]outlet.Outlet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]outlet.Outlet, 0, len(r.outlets))
	for _, o := range r.outlets {
		out = append(out, o)
	}
	return out, nil
}

func (r *memOutletRepo) FindActive(_ context.Context) ([]outlet.Outlet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []outlet.Outlet
	for _, o := range r.outlets {
		if o.IsActive() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOutletRepo) Save(_ context.Context, o *outlet.Outlet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outlets[o.ID] = *o
	return nil
}

// memUserRepo is an in-memory user store
type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]identity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]identity.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepo) FindByOutlet(_ context.Context, outletID uuid.UUID, _ shared.Filter) ([]identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []identity.User
	for _, u := range r.users {
		if u.OutletID != nil && *u.OutletID == outletID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) FindByRole(_ context.Context, role identity.Role, _ shared.Filter) ([]identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []identity.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) Save(_ context.Context, u *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

// memSettingRepo serves settings for the store resolver
type memSettingRepo struct {
	mu       sync.Mutex
	settings []settings.BusinessSetting
}

func (r *memSettingRepo) FindByID(_ context.Context, id uuid.UUID) (*settings.BusinessSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.settings {
		if r.settings[i].ID == id {
			copied := r.settings[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSettingRepo) FindActiveByKey(_ context.Context, key string) ([]settings.BusinessSetting, error) {
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

func (r *memSettingRepo) FindByCategory(_ context.Context, categoryID int, _ shared.Filter) ([]settings.BusinessSetting, error) {
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

func (r *memSettingRepo) FindAll(_ context.Context, _ shared.Filter) ([]settings.BusinessSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]settings.BusinessSetting, len(r.settings))
	copy(out, r.settings)
	return out, nil
}

func (r *memSettingRepo) Save(_ context.Context, s *settings.BusinessSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.settings {
		if r.settings[i].ID == s.ID {
			r.settings[i] = *s
			return nil
		}
	}
	r.settings = append(r.settings, *s)
	return nil
}

func (r *memSettingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.settings {
		if r.settings[i].ID == id {
			r.settings = append(r.settings[:i], r.settings[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// defaultSettings seeds the standard pricing configuration
func defaultSettings(t *testing.T) *memSettingRepo {
	t.Helper()
	repo := &memSettingRepo{}
	admin := uuid.New()
	seed := []struct {
		key   string
		value interface{}
		dt    settings.DataType
	}{
		{settings.KeyLeaseFeePerKG, 1000, settings.DataTypeNumber},
		{settings.KeyLeaseDepositPerKG, 500, settings.DataTypeNumber},
		{"return.penalty.good", 0, settings.DataTypeNumber},
		{"return.penalty.poor", 500, settings.DataTypeNumber},
		{"return.penalty.damaged", 2000, settings.DataTypeNumber},
		{settings.KeyRefillPricePerKG, 10, settings.DataTypeNumber},
		{settings.KeyRefillMinCharge, 50, settings.DataTypeNumber},
		{settings.KeyTaxRate, 7.5, settings.DataTypeNumber},
		{settings.KeyTaxType, "exclusive", settings.DataTypeString},
		{settings.KeyLateFeeDaily, 10, settings.DataTypeNumber},
		{settings.KeyMaxActiveLeases, 5, settings.DataTypeNumber},
	}
	for _, s := range seed {
		setting, err := settings.NewBusinessSetting(1, s.key, s.value, s.dt, admin)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), setting))
	}
	return repo
}
