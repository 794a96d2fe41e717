package billing

import (
	"context"

	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Fee rows are the serialization point: reconciliation locks the fee
// before appending to the payment journal, and issuance relies on the
// (unit, type, period) unique index.
type TransactionalRepositories interface {
	// ExpenseTypeRepo returns the expense catalog scoped to the current transaction
	ExpenseTypeRepo() billing.ExpenseTypeRepository
	// UnitRepo returns the unit registry scoped to the current transaction
	UnitRepo() billing.UnitRepository
	// FeeRepo returns the fee ledger scoped to the current transaction
	FeeRepo() billing.FeeRepository
	// PaymentRepo returns the payment journal scoped to the current transaction
	PaymentRepo() billing.PaymentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	expenseTypeRepo billing.ExpenseTypeRepository
	unitRepo        billing.UnitRepository
	feeRepo         billing.FeeRepository
	paymentRepo     billing.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	expenseTypeRepo billing.ExpenseTypeRepository,
	unitRepo billing.UnitRepository,
	feeRepo billing.FeeRepository,
	paymentRepo billing.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		expenseTypeRepo: expenseTypeRepo,
		unitRepo:        unitRepo,
		feeRepo:         feeRepo,
		paymentRepo:     paymentRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ExpenseTypeRepo returns the expense type repository.
func (s *NoOpTransactionScope) ExpenseTypeRepo() billing.ExpenseTypeRepository {
	return s.expenseTypeRepo
}

// UnitRepo returns the unit repository.
func (s *NoOpTransactionScope) UnitRepo() billing.UnitRepository {
	return s.unitRepo
}

// FeeRepo returns the fee repository.
func (s *NoOpTransactionScope) FeeRepo() billing.FeeRepository {
	return s.feeRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository {
	return s.paymentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
