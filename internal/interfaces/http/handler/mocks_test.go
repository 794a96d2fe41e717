package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/irenerossetti/condominio-backend/internal/application/billing"
	"github.com/irenerossetti/condominio-backend/internal/application/catalog"
	appreport "github.com/irenerossetti/condominio-backend/internal/application/report"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/export"
	"github.com/stretchr/testify/mock"
)

type MockFeeService struct {
	mock.Mock
}

func (m *MockFeeService) IssueFees(ctx context.Context, caller identity.Caller, cmd appbilling.IssueFeesCommand) (*appbilling.IssueFeesResult, error) {
	args := m.Called(ctx, caller, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.IssueFeesResult), args.Error(1)
}

func (m *MockFeeService) RegisterPayment(ctx context.Context, caller identity.Caller, cmd appbilling.RegisterPaymentCommand) (*appbilling.FeeBalanceResponse, error) {
	args := m.Called(ctx, caller, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.FeeBalanceResponse), args.Error(1)
}

func (m *MockFeeService) GetBalance(ctx context.Context, caller identity.Caller, feeID uuid.UUID) (*appbilling.FeeBalanceResponse, error) {
	args := m.Called(ctx, caller, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.FeeBalanceResponse), args.Error(1)
}

func (m *MockFeeService) ListFees(ctx context.Context, caller identity.Caller, query appbilling.ListFeesQuery) (*shared.Paginated[appbilling.FeeResponse], error) {
	args := m.Called(ctx, caller, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[appbilling.FeeResponse]), args.Error(1)
}

func (m *MockFeeService) GetFee(ctx context.Context, caller identity.Caller, id uuid.UUID) (*appbilling.FeeDetailResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.FeeDetailResponse), args.Error(1)
}

func (m *MockFeeService) MarkOverdue(ctx context.Context, caller identity.Caller, asOf time.Time) (*appbilling.MarkOverdueResult, error) {
	args := m.Called(ctx, caller, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.MarkOverdueResult), args.Error(1)
}

type MockFinanceReporter struct {
	mock.Mock
}

func (m *MockFinanceReporter) GetFinanceReport(ctx context.Context, caller identity.Caller, query appreport.FinanceReportQuery) (*appreport.FinanceReportResponse, error) {
	args := m.Called(ctx, caller, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreport.FinanceReportResponse), args.Error(1)
}

func (m *MockFinanceReporter) Export(ctx context.Context, caller identity.Caller, query appreport.FinanceReportQuery, format string) (*export.File, error) {
	args := m.Called(ctx, caller, query, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.File), args.Error(1)
}

type MockExpenseTypeCatalog struct {
	mock.Mock
}

func (m *MockExpenseTypeCatalog) Create(ctx context.Context, caller identity.Caller, req catalog.CreateExpenseTypeRequest) (*catalog.ExpenseTypeResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ExpenseTypeResponse), args.Error(1)
}

func (m *MockExpenseTypeCatalog) Get(ctx context.Context, id uuid.UUID) (*catalog.ExpenseTypeResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ExpenseTypeResponse), args.Error(1)
}

func (m *MockExpenseTypeCatalog) List(ctx context.Context, filter catalog.ExpenseTypeListFilter) (*shared.Paginated[catalog.ExpenseTypeResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalog.ExpenseTypeResponse]), args.Error(1)
}

func (m *MockExpenseTypeCatalog) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, req catalog.UpdateExpenseTypeRequest) (*catalog.ExpenseTypeResponse, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ExpenseTypeResponse), args.Error(1)
}

type MockUnitRegistry struct {
	mock.Mock
}

func (m *MockUnitRegistry) Create(ctx context.Context, caller identity.Caller, req catalog.CreateUnitRequest) (*catalog.UnitResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.UnitResponse), args.Error(1)
}

func (m *MockUnitRegistry) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*catalog.UnitResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.UnitResponse), args.Error(1)
}

func (m *MockUnitRegistry) List(ctx context.Context, caller identity.Caller, filter catalog.UnitListFilter) (*shared.Paginated[catalog.UnitResponse], error) {
	args := m.Called(ctx, caller, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalog.UnitResponse]), args.Error(1)
}

func (m *MockUnitRegistry) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, req catalog.UpdateUnitRequest) (*catalog.UnitResponse, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.UnitResponse), args.Error(1)
}
