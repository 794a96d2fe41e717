package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]shared.DomainEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
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

// MockExpenseTypeRepository is a mock implementation of ExpenseTypeRepository
type MockExpenseTypeRepository struct {
	mock.Mock
}

func (m *MockExpenseTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.ExpenseType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ExpenseType), args.Error(1)
}

func (m *MockExpenseTypeRepository) FindAll(ctx context.Context, filter billing.ExpenseTypeFilter) ([]billing.ExpenseType, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.ExpenseType), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseTypeRepository) FindActive(ctx context.Context, id *uuid.UUID) ([]billing.ExpenseType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.ExpenseType), args.Error(1)
}

func (m *MockExpenseTypeRepository) Save(ctx context.Context, et *billing.ExpenseType) error {
	args := m.Called(ctx, et)
	return args.Error(0)
}

// MockUnitRepository is a mock implementation of UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindAll(ctx context.Context, filter billing.UnitFilter) ([]billing.Unit, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Unit), args.Get(1).(int64), args.Error(2)
}

func (m *MockUnitRepository) FindActive(ctx context.Context) ([]billing.Unit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Unit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, u *billing.Unit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockFeeRepository is a mock implementation of FeeRepository
type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Fee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Fee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindByKey(ctx context.Context, key billing.FeeKey) (*billing.Fee, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Fee), args.Error(1)
}

func (m *MockFeeRepository) InsertIfAbsent(ctx context.Context, fee *billing.Fee) (bool, error) {
	args := m.Called(ctx, fee)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeeRepository) Update(ctx context.Context, fee *billing.Fee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *MockFeeRepository) FindAll(ctx context.Context, filter billing.FeeFilter) ([]billing.FeeListItem, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.FeeListItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeeRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Append(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByFee(ctx context.Context, feeID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumByFee(ctx context.Context, feeID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, feeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) ExistsForFee(ctx context.Context, feeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, feeID)
	return args.Bool(0), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

// ledgerMocks bundles the repository mocks behind a NoOpTransactionScope
type ledgerMocks struct {
	types    *MockExpenseTypeRepository
	units    *MockUnitRepository
	fees     *MockFeeRepository
	payments *MockPaymentRepository
	scope    *NoOpTransactionScope
}

func newLedgerMocks() *ledgerMocks {
	m := &ledgerMocks{
		types:    new(MockExpenseTypeRepository),
		units:    new(MockUnitRepository),
		fees:     new(MockFeeRepository),
		payments: new(MockPaymentRepository),
	}
	m.scope = NewNoOpTransactionScope(m.types, m.units, m.fees, m.payments)
	return m
}
