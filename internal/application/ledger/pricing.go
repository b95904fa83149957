package ledger

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/cylinder"
	"github.com/cylinderx/backend/internal/domain/ledger"
	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/cylinderx/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	taxTypeExclusive = "exclusive"
	taxTypeInclusive = "inclusive"
)

// pricer computes lease, return and refill amounts from resolved
// settings. All amounts are fixed before any state is mutated and are
// never recomputed afterwards.
type pricer struct {
	resolver settings.Resolver
}

// LeaseQuote is the priced cost of opening a lease
type LeaseQuote struct {
	Deposit  decimal.Decimal
	LeaseFee decimal.Decimal // tax included when tax.type is exclusive
}

// ReturnQuote is the priced outcome of closing a lease
type ReturnQuote struct {
	Deposit  decimal.Decimal
	Penalty  decimal.Decimal
	LateFee  decimal.Decimal
	DaysLate int
	Refund   decimal.Decimal // never negative
}

// RefillQuote is the priced cost of a refill
type RefillQuote struct {
	VolumeAdded decimal.Decimal
	Cost        decimal.Decimal // tax included when tax.type is exclusive
}

// applyTax adds tax on top of amount when the tax type resolves to
// exclusive. Inclusive or unconfigured tax leaves the amount as-is.
func (p *pricer) applyTax(ctx context.Context, amount valueobject.Money, op settings.OperationType, outletID uuid.UUID, cylType string) (valueobject.Money, error) {
	taxType, err := p.resolver.ResolveString(ctx, settings.ForOperation(settings.KeyTaxType, op, outletID, cylType))
	if err != nil {
		if shared.IsCode(err, shared.CodeNotConfigured) {
			return amount, nil
		}
		return amount, err
	}
	if taxType != taxTypeExclusive {
		return amount, nil
	}
	rate, err := p.resolver.ResolveDecimal(ctx, settings.ForOperation(settings.KeyTaxRate, op, outletID, cylType))
	if err != nil {
		return amount, err
	}
	tax := amount.Multiply(rate.Div(decimal.NewFromInt(100)))
	return amount.Add(tax.Round(2))
}

// QuoteLease prices a lease: deposit and fee are per rated kilogram of
// the cylinder type, tax applies to the fee only.
func (p *pricer) QuoteLease(ctx context.Context, c *cylinder.Cylinder) (LeaseQuote, error) {
	kg := c.Type.RatedVolume()

	feePerKG, err := p.resolver.ResolveDecimal(ctx,
		settings.ForOperation(settings.KeyLeaseFeePerKG, settings.OperationLease, c.CurrentOutletID, c.Type.String()))
	if err != nil {
		return LeaseQuote{}, err
	}
	depositPerKG, err := p.resolver.ResolveDecimal(ctx,
		settings.ForOperation(settings.KeyLeaseDepositPerKG, settings.OperationLease, c.CurrentOutletID, c.Type.String()))
	if err != nil {
		return LeaseQuote{}, err
	}

	fee := valueobject.NewMoneyUSD(feePerKG.Mul(kg)).Round(2)
	fee, err = p.applyTax(ctx, fee, settings.OperationLease, c.CurrentOutletID, c.Type.String())
	if err != nil {
		return LeaseQuote{}, err
	}
	deposit := valueobject.NewMoneyUSD(depositPerKG.Mul(kg)).Round(2)

	return LeaseQuote{
		Deposit:  deposit.Amount(),
		LeaseFee: fee.Amount(),
	}, nil
}

// QuoteReturn prices a lease return: the condition penalty and any
// accrued late fee are deducted from the deposit, floored at zero.
func (p *pricer) QuoteReturn(ctx context.Context, c *cylinder.Cylinder, lease *ledger.LeaseRecord, condition ledger.ReturnCondition, daysLate int) (ReturnQuote, error) {
	penalty, err := p.resolver.ResolveDecimal(ctx,
		settings.ForOperation(condition.PenaltyKey(), settings.OperationLease, c.CurrentOutletID, c.Type.String()))
	if err != nil {
		return ReturnQuote{}, err
	}

	lateFee := decimal.Zero
	if daysLate > 0 {
		daily, err := p.resolver.ResolveDecimal(ctx,
			settings.ForOperation(settings.KeyLateFeeDaily, settings.OperationLease, c.CurrentOutletID, c.Type.String()))
		if err != nil {
			return ReturnQuote{}, err
		}
		lateFee = daily.Mul(decimal.NewFromInt(int64(daysLate)))
	}

	deposit := valueobject.NewMoneyUSD(lease.DepositAmount)
	refund, err := deposit.Subtract(valueobject.NewMoneyUSD(penalty.Add(lateFee)))
	if err != nil {
		return ReturnQuote{}, err
	}

	return ReturnQuote{
		Deposit:  lease.DepositAmount,
		Penalty:  penalty,
		LateFee:  lateFee,
		DaysLate: daysLate,
		Refund:   refund.FloorAtZero().Round(2).Amount(),
	}, nil
}

// QuoteRefill prices a refill of the given added volume: per-kilogram
// price with a floor at the minimum charge, then tax.
func (p *pricer) QuoteRefill(ctx context.Context, c *cylinder.Cylinder, volumeAdded decimal.Decimal) (RefillQuote, error) {
	pricePerKG, err := p.resolver.ResolveDecimal(ctx,
		settings.ForOperation(settings.KeyRefillPricePerKG, settings.OperationRefill, c.CurrentOutletID, c.Type.String()))
	if err != nil {
		return RefillQuote{}, err
	}
	minCharge, err := p.resolver.ResolveDecimal(ctx,
		settings.ForOperation(settings.KeyRefillMinCharge, settings.OperationRefill, c.CurrentOutletID, c.Type.String()))
	if err != nil {
		return RefillQuote{}, err
	}

	cost := valueobject.NewMoneyUSD(pricePerKG.Mul(volumeAdded)).Round(2)
	cost, err = cost.Max(valueobject.NewMoneyUSD(minCharge))
	if err != nil {
		return RefillQuote{}, err
	}
	cost, err = p.applyTax(ctx, cost, settings.OperationRefill, c.CurrentOutletID, c.Type.String())
	if err != nil {
		return RefillQuote{}, err
	}

	return RefillQuote{
		VolumeAdded: volumeAdded,
		Cost:        cost.Amount(),
	}, nil
}
