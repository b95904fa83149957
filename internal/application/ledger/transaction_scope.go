package ledger

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/cylinder"
	"github.com/cylinderx/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a ledger
// operation touches within one transaction. All repositories returned
// share the same underlying database transaction.
//
// Aggregate boundary notes:
//   - CylinderRepo: repository for the Cylinder aggregate root; all status,
//     location and volume changes go through SaveWithLock.
//   - LeaseRepo: lease record store; created at lease-out, updated only to
//     close or mark overdue.
//   - RefillRepo / TransferRepo: append-only record stores.
type TransactionalRepositories interface {
	// CylinderRepo returns the cylinder repository scoped to the current transaction
	CylinderRepo() cylinder.Repository
	// LeaseRepo returns the lease record repository scoped to the current transaction
	LeaseRepo() ledger.LeaseRecordRepository
	// RefillRepo returns the refill record repository scoped to the current transaction
	RefillRepo() ledger.RefillRecordRepository
	// TransferRepo returns the transfer record repository scoped to the current transaction
	TransferRepo() ledger.TransferRecordRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	cylinderRepo cylinder.Repository
	leaseRepo    ledger.LeaseRecordRepository
	refillRepo   ledger.RefillRecordRepository
	transferRepo ledger.TransferRecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	cylinderRepo cylinder.Repository,
	leaseRepo ledger.LeaseRecordRepository,
	refillRepo ledger.RefillRecordRepository,
	transferRepo ledger.TransferRecordRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		cylinderRepo: cylinderRepo,
		leaseRepo:    leaseRepo,
		refillRepo:   refillRepo,
		transferRepo: transferRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CylinderRepo returns the cylinder repository.
func (s *NoOpTransactionScope) CylinderRepo() cylinder.Repository {
	return s.cylinderRepo
}

// LeaseRepo returns the lease record repository.
func (s *NoOpTransactionScope) LeaseRepo() ledger.LeaseRecordRepository {
	return s.leaseRepo
}

// RefillRepo returns the refill record repository.
func (s *NoOpTransactionScope) RefillRepo() ledger.RefillRecordRepository {
	return s.refillRepo
}

// TransferRepo returns the transfer record repository.
func (s *NoOpTransactionScope) TransferRepo() ledger.TransferRecordRepository {
	return s.transferRepo
}
