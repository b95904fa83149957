package ledger

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/cylinder"
	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LowStockHandler watches lease and transfer events and warns when an
// outlet's available cylinder count drops below the configured
// threshold. The threshold may be set per outlet or globally via
// business.inventory_low_threshold; outlets with no threshold
// configured are not watched.
type LowStockHandler struct {
	cylinderRepo cylinder.Repository
	resolver     settings.Resolver
	logger       *zap.Logger
}

// NewLowStockHandler creates a low stock event handler
func NewLowStockHandler(cylinderRepo cylinder.Repository, resolver settings.Resolver, logger *zap.Logger) *LowStockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockHandler{
		cylinderRepo: cylinderRepo,
		resolver:     resolver,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockHandler) EventTypes() []string {
	return []string{
		cylinder.EventTypeCylinderLeased,
		cylinder.EventTypeCylinderTransferred,
	}
}

// Handle checks the affected outlet's available stock against its
// threshold. Both watched events reduce stock at exactly one outlet.
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var outletID uuid.UUID
	switch e := event.(type) {
	case *cylinder.LeasedEvent:
		outletID = e.OutletID
	case *cylinder.TransferredEvent:
		outletID = e.FromOutletID
	default:
		return nil
	}

	threshold, err := h.resolver.ResolveDecimal(ctx, settings.Query{
		Key:      settings.KeyLowStockThreshold,
		OutletID: &outletID,
	})
	if err != nil {
		if shared.IsCode(err, shared.CodeNotConfigured) {
			return nil
		}
		return err
	}

	available, err := h.cylinderRepo.CountByOutletAndStatus(ctx, outletID, cylinder.StatusAvailable)
	if err != nil {
		return err
	}

	if decimal.NewFromInt(available).LessThan(threshold) {
		h.logger.Warn("outlet stock below threshold",
			zap.String("outlet_id", outletID.String()),
			zap.Int64("available", available),
			zap.String("threshold", threshold.String()),
		)
	}
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
