package persistence

import (
	"context"

	appledger "github.com/cylinderx/backend/internal/application/ledger"
	"github.com/cylinderx/backend/internal/domain/cylinder"
	"github.com/cylinderx/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// CylinderRepo returns the cylinder repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CylinderRepo() cylinder.Repository {
	return NewGormCylinderRepository(r.tx)
}

// LeaseRepo returns the lease record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LeaseRepo() ledger.LeaseRecordRepository {
	return NewGormLeaseRecordRepository(r.tx)
}

// RefillRepo returns the refill record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RefillRepo() ledger.RefillRecordRepository {
	return NewGormRefillRecordRepository(r.tx)
}

// TransferRepo returns the transfer record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TransferRepo() ledger.TransferRecordRepository {
	return NewGormTransferRecordRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
