package settings

import (
	"context"
	"fmt"
	"sort"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Query identifies one setting lookup. OutletID and CylinderType
// narrow the scope; a nil field only matches globally scoped settings
// on that axis.
type Query struct {
	Key           string
	OperationType *OperationType
	OutletID      *uuid.UUID
	CylinderType  *string
}

// ForOperation builds a query scoped to an operation, outlet and
// cylinder type, the common shape used by the ledger engine.
func ForOperation(key string, op OperationType, outletID uuid.UUID, cylinderType string) Query {
	return Query{
		Key:           key,
		OperationType: &op,
		OutletID:      &outletID,
		CylinderType:  &cylinderType,
	}
}

// Global builds an unscoped query for business-wide settings
func Global(key string) Query {
	return Query{Key: key}
}

// Resolver resolves pricing/policy values with scope precedence:
// outlet+type > outlet > type > global. The first active match wins;
// ties break by most recent update.
type Resolver interface {
	// Resolve returns the best-matching active setting for the query,
	// or a NOT_CONFIGURED domain error when none matches.
	Resolve(ctx context.Context, q Query) (*BusinessSetting, error)

	// ResolveDecimal resolves and decodes a number setting
	ResolveDecimal(ctx context.Context, q Query) (decimal.Decimal, error)

	// ResolveString resolves and decodes a string setting
	ResolveString(ctx context.Context, q Query) (string, error)

	// ResolveBool resolves and decodes a boolean setting
	ResolveBool(ctx context.Context, q Query) (bool, error)

	// ResolveJSON resolves and decodes a json setting into target
	ResolveJSON(ctx context.Context, q Query, target interface{}) error
}

// StoreResolver resolves settings directly against the repository
type StoreResolver struct {
	repo Repository
}

// NewStoreResolver creates a repository-backed resolver
func NewStoreResolver(repo Repository) *StoreResolver {
	return &StoreResolver{repo: repo}
}

// Resolve implements Resolver
func (r *StoreResolver) Resolve(ctx context.Context, q Query) (*BusinessSetting, error) {
	candidates, err := r.repo.FindActiveByKey(ctx, q.Key)
	if err != nil {
		return nil, err
	}

	matched := make([]*BusinessSetting, 0, len(candidates))
	for i := range candidates {
		if candidates[i].MatchesScope(q.OutletID, q.CylinderType, q.OperationType) {
			matched = append(matched, &candidates[i])
		}
	}
	if len(matched) == 0 {
		return nil, notConfigured(q)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Specificity() != matched[j].Specificity() {
			return matched[i].Specificity() > matched[j].Specificity()
		}
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	return matched[0], nil
}

// ResolveDecimal implements Resolver
func (r *StoreResolver) ResolveDecimal(ctx context.Context, q Query) (decimal.Decimal, error) {
	setting, err := r.Resolve(ctx, q)
	if err != nil {
		return decimal.Zero, err
	}
	return setting.DecimalValue()
}

// ResolveString implements Resolver
func (r *StoreResolver) ResolveString(ctx context.Context, q Query) (string, error) {
	setting, err := r.Resolve(ctx, q)
	if err != nil {
		return "", err
	}
	return setting.StringValue()
}

// ResolveBool implements Resolver
func (r *StoreResolver) ResolveBool(ctx context.Context, q Query) (bool, error) {
	setting, err := r.Resolve(ctx, q)
	if err != nil {
		return false, err
	}
	return setting.BoolValue()
}

// ResolveJSON implements Resolver
func (r *StoreResolver) ResolveJSON(ctx context.Context, q Query, target interface{}) error {
	setting, err := r.Resolve(ctx, q)
	if err != nil {
		return err
	}
	return setting.JSONValue(target)
}

func notConfigured(q Query) error {
	return shared.NewDomainError(shared.CodeNotConfigured,
		fmt.Sprintf("No active setting configured for key %q", q.Key))
}

var _ Resolver = (*StoreResolver)(nil)
