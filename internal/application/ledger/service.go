package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cylinderx/backend/internal/domain/cylinder"
	"github.com/cylinderx/backend/internal/domain/identity"
	"github.com/cylinderx/backend/internal/domain/ledger"
	"github.com/cylinderx/backend/internal/domain/outlet"
	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxRetries bounds the optimistic retry loop around cylinder writes
const DefaultMaxRetries = 3

// Service coordinates the cylinder lifecycle operations: lease-out,
// return, refill and transfer. Every mutation resolves its pricing and
// policy settings first, then applies the domain transition and the
// ledger record in one transaction guarded by the cylinder's version.
type Service struct {
	cylinderRepo cylinder.Repository
	leaseRepo    ledger.LeaseRecordRepository
	refillRepo   ledger.RefillRecordRepository
	transferRepo ledger.TransferRecordRepository
	outletRepo   outlet.Repository
	userRepo     identity.Repository
	resolver     settings.Resolver
	scope        TransactionScope
	publisher    shared.EventPublisher
	logger       *zap.Logger
	maxRetries   int
}

// NewService creates a ledger service
func NewService(
	cylinderRepo cylinder.Repository,
	leaseRepo ledger.LeaseRecordRepository,
	refillRepo ledger.RefillRecordRepository,
	transferRepo ledger.TransferRecordRepository,
	outletRepo outlet.Repository,
	userRepo identity.Repository,
	resolver settings.Resolver,
	scope TransactionScope,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cylinderRepo: cylinderRepo,
		leaseRepo:    leaseRepo,
		refillRepo:   refillRepo,
		transferRepo: transferRepo,
		outletRepo:   outletRepo,
		userRepo:     userRepo,
		resolver:     resolver,
		scope:        scope,
		logger:       logger,
		maxRetries:   DefaultMaxRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetMaxRetries overrides the bounded retry count for version conflicts
func (s *Service) SetMaxRetries(n int) {
	if n > 0 {
		s.maxRetries = n
	}
}

// withRetry runs fn, retrying on version conflicts up to maxRetries
// times. fn must re-read all guarded state on each attempt. Exhausted
// retries surface as a CONTENTION error.
func (s *Service) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = fn()
		if err == nil || !shared.IsCode(err, shared.ErrConcurrencyConflict.Code) {
			return err
		}
		s.logger.Warn("version conflict, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1))
	}
	s.logger.Error("retries exhausted",
		zap.String("operation", op),
		zap.Int("max_retries", s.maxRetries))
	return shared.NewDomainError(shared.CodeContention,
		fmt.Sprintf("Operation %s aborted after %d conflicting attempts", op, s.maxRetries))
}

// publishEvents publishes the aggregate's pending domain events.
// Errors are logged by the event bus, not propagated.
func (s *Service) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
	if s.publisher == nil {
		return
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	agg.ClearDomainEvents()
}

// checkActiveOutlet loads the outlet and rejects inactive ones
func (s *Service) checkActiveOutlet(ctx context.Context, outletID uuid.UUID) (*outlet.Outlet, error) {
	o, err := s.outletRepo.FindByID(ctx, outletID)
	if err != nil {
		return nil, err
	}
	if !o.IsActive() {
		return nil, shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("Outlet %s is inactive", o.Name))
	}
	return o, nil
}

// LeaseOut opens a lease: the cylinder leaves the outlet's available
// pool, and a lease record fixes the deposit and fee computed from the
// resolved settings.
func (s *Service) LeaseOut(ctx context.Context, cmd LeaseOutCommand) (*LeaseResponse, error) {
	if _, err := s.checkActiveOutlet(ctx, cmd.OutletID); err != nil {
		return nil, err
	}

	customer, err := s.userRepo.FindByID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Role != identity.RoleCustomer {
		return nil, shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("User %s is not a customer", customer.Email))
	}
	if !customer.CanLease() {
		return nil, shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("Customer %s is blocked from leasing", customer.Email))
	}

	if err := s.checkLeaseLimit(ctx, cmd.CustomerID); err != nil {
		return nil, err
	}

	// Price before mutating anything. A missing setting aborts here.
	probe, err := s.cylinderRepo.FindByID(ctx, cmd.CylinderID)
	if err != nil {
		return nil, err
	}
	quote, err := (&pricer{resolver: s.resolver}).QuoteLease(ctx, probe)
	if err != nil {
		return nil, err
	}

	var record *ledger.LeaseRecord
	var leased *cylinder.Cylinder
	err = s.withRetry(ctx, "lease_out", func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			c, err := repos.CylinderRepo().FindByID(ctx, cmd.CylinderID)
			if err != nil {
				return err
			}
			if c.CurrentOutletID != cmd.OutletID {
				return shared.NewDomainError(shared.CodeOutletMismatch,
					fmt.Sprintf("Cylinder %s is at another outlet", c.CylinderCode))
			}
			if err := c.Lease(cmd.CustomerID, cmd.OutletID); err != nil {
				return err
			}

			rec, err := ledger.NewLeaseRecord(c.ID, cmd.CustomerID, cmd.OutletID, cmd.StaffID,
				cmd.ExpectedReturnDate, quote.Deposit, quote.LeaseFee)
			if err != nil {
				return err
			}
			rec.Notes = cmd.Notes

			if err := repos.CylinderRepo().SaveWithLock(ctx, c); err != nil {
				return err
			}
			if err := repos.LeaseRepo().Create(ctx, rec); err != nil {
				return err
			}
			record = rec
			leased = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, leased)
	s.logger.Info("cylinder leased out",
		zap.String("cylinder_code", leased.CylinderCode),
		zap.String("customer_id", cmd.CustomerID.String()),
		zap.String("outlet_id", cmd.OutletID.String()),
		zap.String("lease_id", record.ID.String()))

	resp := ToLeaseResponse(record)
	return &resp, nil
}

// checkLeaseLimit enforces the per-customer open lease cap when one is
// configured. An unconfigured cap means no limit.
func (s *Service) checkLeaseLimit(ctx context.Context, customerID uuid.UUID) error {
	limit, err := s.resolver.ResolveDecimal(ctx, settings.Global(settings.KeyMaxActiveLeases))
	if err != nil {
		if shared.IsCode(err, shared.CodeNotConfigured) {
			return nil
		}
		return err
	}
	count, err := s.leaseRepo.CountActiveByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if decimal.NewFromInt(count).GreaterThanOrEqual(limit) {
		return shared.NewDomainError(shared.CodeLimitExceeded,
			fmt.Sprintf("Customer has %d active leases, limit is %s", count, limit))
	}
	return nil
}

// Return closes the open lease on a cylinder. The remaining gas volume
// is gauged, the refund is the deposit minus the condition penalty and
// any late fee, floored at zero, and the cylinder returns to service
// unless it came back damaged.
func (s *Service) Return(ctx context.Context, cmd ReturnCommand) (*ReturnResponse, error) {
	if !cmd.Condition.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONDITION",
			fmt.Sprintf("Unknown return condition %q", cmd.Condition))
	}

	probe, err := s.cylinderRepo.FindByID(ctx, cmd.CylinderID)
	if err != nil {
		return nil, err
	}
	openLease, err := s.leaseRepo.FindOpenByCylinder(ctx, cmd.CylinderID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewDomainError(shared.CodeAlreadyReturned,
				fmt.Sprintf("Cylinder %s has no open lease", probe.CylinderCode))
		}
		return nil, err
	}

	now := time.Now()
	quote, err := (&pricer{resolver: s.resolver}).QuoteReturn(ctx, probe, openLease, cmd.Condition, openLease.DaysLate(now))
	if err != nil {
		return nil, err
	}

	var closed *ledger.LeaseRecord
	var returned *cylinder.Cylinder
	err = s.withRetry(ctx, "return", func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			c, err := repos.CylinderRepo().FindByID(ctx, cmd.CylinderID)
			if err != nil {
				return err
			}
			lease, err := repos.LeaseRepo().FindOpenByCylinder(ctx, cmd.CylinderID)
			if err != nil {
				if shared.IsCode(err, shared.CodeNotFound) {
					return shared.NewDomainError(shared.CodeAlreadyReturned,
						fmt.Sprintf("Cylinder %s has no open lease", c.CylinderCode))
				}
				return err
			}

			if err := lease.CompleteReturn(cmd.ReturnStaffID, quote.Refund, now); err != nil {
				return err
			}
			lease.Notes = appendNote(lease.Notes, cmd.Notes)

			if err := c.SetGasVolume(cmd.RemainingVolume); err != nil {
				return err
			}
			if cmd.Condition == ledger.ConditionDamaged {
				if err := c.MarkDamaged("damaged at lease return"); err != nil {
					return err
				}
			} else {
				if err := c.ReturnToService(); err != nil {
					return err
				}
			}

			if err := repos.CylinderRepo().SaveWithLock(ctx, c); err != nil {
				return err
			}
			if err := repos.LeaseRepo().Update(ctx, lease); err != nil {
				return err
			}
			closed = lease
			returned = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, returned)
	s.logger.Info("cylinder returned",
		zap.String("cylinder_code", returned.CylinderCode),
		zap.String("lease_id", closed.ID.String()),
		zap.String("condition", string(cmd.Condition)),
		zap.String("refund", quote.Refund.String()))

	return &ReturnResponse{
		LeaseID:       closed.ID,
		CylinderID:    returned.ID,
		Condition:     string(cmd.Condition),
		DepositAmount: quote.Deposit,
		PenaltyAmount: quote.Penalty,
		LateFeeAmount: quote.LateFee,
		DaysLate:      quote.DaysLate,
		RefundAmount:  quote.Refund,
		ReturnedAt:    now,
	}, nil
}

// RequestRefill moves an available cylinder into the refilling state so
// it leaves the leasable pool while at the filling station.
func (s *Service) RequestRefill(ctx context.Context, cmd RequestRefillCommand) (*CylinderResponse, error) {
	operator, err := s.checkRefillOperator(ctx, cmd.OperatorID)
	if err != nil {
		return nil, err
	}

	var updated *cylinder.Cylinder
	err = s.withRetry(ctx, "request_refill", func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			c, err := repos.CylinderRepo().FindByID(ctx, cmd.CylinderID)
			if err != nil {
				return err
			}
			if err := checkOperatorOutlet(operator, c); err != nil {
				return err
			}
			if err := c.BeginRefill(); err != nil {
				return err
			}
			if err := repos.CylinderRepo().SaveWithLock(ctx, c); err != nil {
				return err
			}
			updated = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	resp := ToCylinderResponse(updated)
	return &resp, nil
}

/// Refill records a completed refill: the gas volume rises to the rated
// maximum, the cost is priced from the resolved settings, and an
// append-only refill record is written.
func (s *Service) Refill(ctx context.Context, cmd RefillCommand) (*RefillResponse, error) {
	operator, err := s.checkRefillOperator(ctx, cmd.OperatorID)
	if err != nil {
		return nil, err
	}

	// Unlike lease pricing, the refill quote depends on the cylinder's
	// mutable gas volume, so it is computed inside each attempt from the
	// same read the record will be built from.
	var record *ledger.RefillRecord
	var refilled *cylinder.Cylinder
	err = s.withRetry(ctx, "refill", func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			c, err := repos.CylinderRepo().FindByID(ctx, cmd.CylinderID)
			if err != nil {
				return err
			}
			if err := checkOperatorOutlet(operator, c); err != nil {
				return err
			}
			pre := c.CurrentGasVolume
			quote, err := (&pricer{resolver: s.resolver}).QuoteRefill(ctx, c, c.MaxGasVolume.Sub(pre))
			if err != nil {
				return err
			}
			if err := c.CompleteRefill(); err != nil {
				return err
			}

			rec, err := ledger.NewRefillRecord(c.ID, cmd.OperatorID, c.CurrentOutletID,
				pre, c.CurrentGasVolume, quote.Cost, cmd.BatchNumber)
			if err != nil {
				return err
			}

			if err := repos.CylinderRepo().SaveWithLock(ctx, c); err != nil {
				return err
			}
			if err := repos.RefillRepo().Create(ctx, rec); err != nil {
				return err
			}
			record = rec
			refilled = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, refilled)
	s.logger.Info("cylinder refilled",
		zap.String("cylinder_code", refilled.CylinderCode),
		zap.String("batch_number", record.BatchNumber),
		zap.String("volume_added", record.VolumeAdded().String()),
		zap.String("cost", record.RefillCost.String()))

	return &RefillResponse{
		RefillID:    record.ID,
		CylinderID:  refilled.ID,
		BatchNumber: record.BatchNumber,
		VolumeAdded: record.VolumeAdded(),
		RefillCost:  record.RefillCost,
		RefillDate:  record.RefillDate,
	}, nil
}

// checkRefillOperator verifies the operator may run refills. Operators
// assigned to an outlet may only refill cylinders at that outlet;
// unassigned staff (admins) may refill anywhere.
func (s *Service) checkRefillOperator(ctx context.Context, operatorID uuid.UUID) (*identity.User, error) {
	operator, err := s.userRepo.FindByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if !operator.Active || !operator.Role.IsStaffRole() {
		return nil, shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("User %s cannot perform refills", operator.Email))
	}
	return operator, nil
}

func checkOperatorOutlet(operator *identity.User, c *cylinder.Cylinder) error {
	if operator.OutletID != nil && *operator.OutletID != c.CurrentOutletID {
		return shared.NewDomainError(shared.CodeOutletMismatch,
			fmt.Sprintf("Operator %s is not assigned to the outlet holding cylinder %s",
				operator.Email, c.CylinderCode))
	}
	return nil
}

// Transfer moves a cylinder between outlets. The lifecycle status never
// changes; leased and retired cylinders cannot move. The destination
// outlet must exist and be active.
func (s *Service) Transfer(ctx context.Context, cmd TransferCommand) (*TransferResponse, error) {
	dest, err := s.outletRepo.FindByID(ctx, cmd.ToOutletID)
	if err != nil {
		return nil, err
	}
	if !dest.IsActive() {
		return nil, shared.NewDomainError(shared.CodeInvalidTransfer,
			fmt.Sprintf("Destination outlet %s is inactive", dest.Name))
	}

	var record *ledger.TransferRecord
	var moved *cylinder.Cylinder
	err = s.withRetry(ctx, "transfer", func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			c, err := repos.CylinderRepo().FindByID(ctx, cmd.CylinderID)
			if err != nil {
				return err
			}
			fromOutletID := c.CurrentOutletID
			if err := c.Relocate(cmd.ToOutletID, cmd.StaffID, cmd.Reason); err != nil {
				return err
			}

			rec, err := ledger.NewTransferRecord(c.ID, fromOutletID, cmd.ToOutletID, cmd.StaffID, cmd.Reason)
			if err != nil {
				return err
			}

			if err := repos.CylinderRepo().SaveWithLock(ctx, c); err != nil {
				return err
			}
			if err := repos.TransferRepo().Create(ctx, rec); err != nil {
				return err
			}
			record = rec
			moved = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, moved)
	s.logger.Info("cylinder transferred",
		zap.String("cylinder_code", moved.CylinderCode),
		zap.String("from_outlet_id", record.FromOutletID.String()),
		zap.String("to_outlet_id", record.ToOutletID.String()))

	return &TransferResponse{
		TransferID:   record.ID,
		CylinderID:   moved.ID,
		FromOutletID: record.FromOutletID,
		ToOutletID:   record.ToOutletID,
		TransferDate: record.TransferDate,
	}, nil
}

// Retire permanently retires a damaged cylinder
func (s *Service) Retire(ctx context.Context, cmd RetireCommand) (*CylinderResponse, error) {
	var retired *cylinder.Cylinder
	err := s.withRetry(ctx, "retire", func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			c, err := repos.CylinderRepo().FindByID(ctx, cmd.CylinderID)
			if err != nil {
				return err
			}
			if err := c.Retire(cmd.Reason); err != nil {
				return err
			}
			if err := repos.CylinderRepo().SaveWithLock(ctx, c); err != nil {
				return err
			}
			retired = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, retired)
	s.logger.Info("cylinder retired",
		zap.String("cylinder_code", retired.CylinderCode),
		zap.String("reason", cmd.Reason))

	resp := ToCylinderResponse(retired)
	return &resp, nil
}

// MarkOverdueLeases flips active leases past their expected return date
// to overdue and flags the customers' payment standing. Returns the
// number of leases updated. Run periodically by the scheduler.
func (s *Service) MarkOverdueLeases(ctx context.Context, asOf time.Time) (int, error) {
	expired, err := s.leaseRepo.FindExpiredActive(ctx, asOf)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range expired {
		lease := &expired[i]
		if !lease.MarkOverdue(asOf) {
			continue
		}
		if err := s.leaseRepo.MarkOverdue(ctx, lease); err != nil {
			if shared.IsCode(err, shared.ErrConcurrencyConflict.Code) {
				// Returned between the sweep's read and its write.
				continue
			}
			s.logger.Error("failed to mark lease overdue",
				zap.String("lease_id", lease.ID.String()),
				zap.Error(err))
			continue
		}
		updated++

		customer, err := s.userRepo.FindByID(ctx, lease.CustomerID)
		if err != nil {
			continue
		}
		if customer.PaymentStatus == identity.PaymentStatusGood {
			customer.FlagOverdue()
			if err := s.userRepo.Save(ctx, customer); err != nil {
				s.logger.Error("failed to flag customer overdue",
					zap.String("customer_id", customer.ID.String()),
					zap.Error(err))
			}
		}
	}

	if updated > 0 {
		s.logger.Info("marked leases overdue", zap.Int("count", updated))
	}
	return updated, nil
}

// GetCylinder returns the current cylinder state
func (s *Service) GetCylinder(ctx context.Context, id uuid.UUID) (*CylinderResponse, error) {
	c, err := s.cylinderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCylinderResponse(c)
	return &resp, nil
}

// GetCylinderByQRCode returns the cylinder matching a scan tag
func (s *Service) GetCylinderByQRCode(ctx context.Context, qrCode string) (*CylinderResponse, error) {
	c, err := s.cylinderRepo.FindByQRCode(ctx, qrCode)
	if err != nil {
		return nil, err
	}
	resp := ToCylinderResponse(c)
	return &resp, nil
}

// ListActiveLeasesForCustomer returns the customer's open leases
func (s *Service) ListActiveLeasesForCustomer(ctx context.Context, customerID uuid.UUID) ([]LeaseResponse, error) {
	records, err := s.leaseRepo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]LeaseResponse, 0, len(records))
	for i := range records {
		out = append(out, ToLeaseResponse(&records[i]))
	}
	return out, nil
}

// ListTransactionsForCylinder returns the cylinder's combined lease,
// refill and transfer history, newest first.
func (s *Service) ListTransactionsForCylinder(ctx context.Context, cylinderID uuid.UUID, filter shared.Filter) ([]HistoryEntry, error) {
	leases, err := s.leaseRepo.FindByCylinder(ctx, cylinderID, filter)
	if err != nil {
		return nil, err
	}
	refills, err := s.refillRepo.FindByCylinder(ctx, cylinderID, filter)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.FindByCylinder(ctx, cylinderID, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(leases)+len(refills)+len(transfers))
	for i := range leases {
		r := &leases[i]
		amount := r.LeaseAmount
		entries = append(entries, HistoryEntry{
			RecordID:   r.ID,
			Kind:       "lease",
			OccurredAt: r.LeaseDate,
			OutletID:   r.OutletID,
			ActorID:    r.StaffID,
			Amount:     &amount,
			Detail:     string(r.Status),
		})
	}
	for i := range refills {
		r := &refills[i]
		amount := r.RefillCost
		entries = append(entries, HistoryEntry{
			RecordID:   r.ID,
			Kind:       "refill",
			OccurredAt: r.RefillDate,
			OutletID:   r.OutletID,
			ActorID:    r.OperatorID,
			Amount:     &amount,
			Detail:     r.BatchNumber,
		})
	}
	for i := range transfers {
		r := &transfers[i]
		entries = append(entries, HistoryEntry{
			RecordID:   r.ID,
			Kind:       "transfer",
			OccurredAt: r.TransferDate,
			OutletID:   r.ToOutletID,
			ActorID:    r.TransferredByID,
			Detail:     r.Reason,
		})
	}

	sortHistoryDesc(entries)
	return entries, nil
}

// OutletInventory summarizes cylinder counts by status at an outlet
type OutletInventory struct {
	OutletID  uuid.UUID        `json:"outlet_id"`
	ByStatus  map[string]int64 `json:"by_status"`
	Available int64            `json:"available"`
	LowStock  bool             `json:"low_stock"`
}

// GetOutletInventory counts the outlet's cylinders by status and flags
// low stock against the configured threshold.
func (s *Service) GetOutletInventory(ctx context.Context, outletID uuid.UUID) (*OutletInventory, error) {
	if _, err := s.outletRepo.FindByID(ctx, outletID); err != nil {
		return nil, err
	}

	inv := &OutletInventory{
		OutletID: outletID,
		ByStatus: make(map[string]int64),
	}
	for _, status := range []cylinder.Status{
		cylinder.StatusAvailable, cylinder.StatusLeased, cylinder.StatusRefilling,
		cylinder.StatusDamaged, cylinder.StatusRetired,
	} {
		count, err := s.cylinderRepo.CountByOutletAndStatus(ctx, outletID, status)
		if err != nil {
			return nil, err
		}
		inv.ByStatus[status.String()] = count
	}
	inv.Available = inv.ByStatus[cylinder.StatusAvailable.String()]

	threshold, err := s.resolver.ResolveDecimal(ctx, settings.Query{
		Key:      settings.KeyLowStockThreshold,
		OutletID: &outletID,
	})
	if err == nil {
		inv.LowStock = decimal.NewFromInt(inv.Available).LessThan(threshold)
	} else if !shared.IsCode(err, shared.CodeNotConfigured) {
		return nil, err
	}

	return inv, nil
}

func appendNote(existing, extra string) string {
	if extra == "" {
		return existing
	}
	if existing == "" {
		return extra
	}
	return existing + "; " + extra
}

// sortHistoryDesc orders history entries newest first
func sortHistoryDesc(entries []HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})
}
