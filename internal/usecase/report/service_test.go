package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finbook-dev/finbook/internal/domain"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Transaction, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByType(ctx context.Context, tt domain.TransactionType) ([]*domain.Transaction, error) {
	args := m.Called(ctx, tt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Transaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBudgetRepository is a mock implementation of BudgetRepository for testing
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) Save(ctx context.Context, budget *domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) GetAll(ctx context.Context) ([]*domain.Budget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Budget, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) GetByPeriod(ctx context.Context, period domain.Period) ([]*domain.Budget, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetRoots(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newExpense(t *testing.T, amount int64, description string, categoryID uuid.UUID) *domain.Transaction {
	t.Helper()
	tx, err := domain.NewExpense(decimal.NewFromInt(amount), description, categoryID, "EUR")
	require.NoError(t, err)
	return tx
}

func TestGetMonthlyBalance(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockBudgetRepository), new(MockCategoryRepository))

	categoryID := uuid.New()

	income, err := domain.NewIncome(decimal.NewFromInt(2500), "Salary", categoryID, "EUR")
	require.NoError(t, err)
	expense := newExpense(t, 400, "Rent", categoryID)
	investment, err := domain.NewInvestment(decimal.NewFromInt(300), "ETF buy", categoryID, "EUR")
	require.NoError(t, err)

	// One transaction from another month must not count.
	other := newExpense(t, 999, "Old rent", categoryID)
	other.Timestamp = other.Timestamp.AddDate(0, -2, 0)

	mockTxRepo.On("GetAll", ctx).
		Return([]*domain.Transaction{income, expense, investment, other}, nil)

	result, err := service.GetMonthlyBalance(ctx, domain.CurrentPeriod())

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2500).Equal(result.Income))
	assert.True(t, decimal.NewFromInt(400).Equal(result.Expenses))
	assert.True(t, decimal.NewFromInt(300).Equal(result.Investments))
	assert.True(t, decimal.NewFromInt(1800).Equal(result.Balance))
}

func TestGetExpensesByCategory(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewService(mockTxRepo, new(MockBudgetRepository), mockCategoryRepo)

	groceries, err := domain.NewCategory("Groceries", "")
	require.NoError(t, err)

	first := newExpense(t, 40, "Shop", groceries.ID)
	second := newExpense(t, 60, "Shop again", groceries.ID)
	// An expense against a category that no longer exists keys by ID string.
	orphanID := uuid.New()
	orphan := newExpense(t, 10, "Orphan", orphanID)

	mockTxRepo.On("GetByType", ctx, domain.TransactionTypeExpense).
		Return([]*domain.Transaction{first, second, orphan}, nil)
	mockCategoryRepo.On("GetAll", ctx).Return([]*domain.Category{groceries}, nil)

	totals, err := service.GetExpensesByCategory(ctx)

	assert.NoError(t, err)
	require.Len(t, totals, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(totals["Groceries"]))
	assert.True(t, decimal.NewFromInt(10).Equal(totals[orphanID.String()]))
}

func TestGetMonthlyTrend(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockBudgetRepository), new(MockCategoryRepository))

	categoryID := uuid.New()
	expense := newExpense(t, 100, "This month", categoryID)

	mockTxRepo.On("GetAll", ctx).Return([]*domain.Transaction{expense}, nil)

	end := domain.CurrentPeriod()
	trend, err := service.GetMonthlyTrend(ctx, end, 3)

	assert.NoError(t, err)
	require.Len(t, trend, 3)
	// Oldest month first, ending at the requested period.
	assert.Equal(t, end.AddMonths(-2), trend[0].Period)
	assert.Equal(t, end, trend[2].Period)
	assert.True(t, trend[0].Balance.IsZero())
	assert.True(t, decimal.NewFromInt(-100).Equal(trend[2].Balance))
}

func TestGetMonthlyTrend_InvalidLength(t *testing.T) {
	service := NewService(new(MockTransactionRepository), new(MockBudgetRepository), new(MockCategoryRepository))

	_, err := service.GetMonthlyTrend(context.Background(), domain.CurrentPeriod(), 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetTotalBalance(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockBudgetRepository), new(MockCategoryRepository))

	categoryID := uuid.New()
	income, err := domain.NewIncome(decimal.NewFromInt(1000), "Salary", categoryID, "EUR")
	require.NoError(t, err)
	expense := newExpense(t, 250, "Rent", categoryID)
	investment, err := domain.NewInvestment(decimal.NewFromInt(100), "ETF", categoryID, "EUR")
	require.NoError(t, err)

	mockTxRepo.On("GetAll", ctx).
		Return([]*domain.Transaction{income, expense, investment}, nil)

	total, err := service.GetTotalBalance(ctx)

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(650).Equal(total))
}

func TestBudgetAlerts(t *testing.T) {
	ctx := context.Background()
	mockBudgetRepo := new(MockBudgetRepository)
	service := NewService(new(MockTransactionRepository), mockBudgetRepo, new(MockCategoryRepository))

	period := domain.CurrentPeriod()

	healthy, err := domain.NewBudget(uuid.New(), decimal.NewFromInt(100), period, "EUR")
	require.NoError(t, err)
	require.NoError(t, healthy.AddExpense(decimal.NewFromInt(50)))

	near, err := domain.NewBudget(uuid.New(), decimal.NewFromInt(100), period, "EUR")
	require.NoError(t, err)
	require.NoError(t, near.AddExpense(decimal.NewFromInt(95)))

	over, err := domain.NewBudget(uuid.New(), decimal.NewFromInt(100), period, "EUR")
	require.NoError(t, err)
	require.NoError(t, over.AddExpense(decimal.NewFromInt(120)))

	mockBudgetRepo.On("GetAll", ctx).Return([]*domain.Budget{healthy, near, over}, nil)

	exceeded, err := service.GetExceededBudgets(ctx)
	assert.NoError(t, err)
	require.Len(t, exceeded, 1)
	assert.Equal(t, over.ID, exceeded[0].ID)

	// Near-limit excludes budgets that are already exceeded.
	nearLimit, err := service.GetBudgetsNearLimit(ctx)
	assert.NoError(t, err)
	require.Len(t, nearLimit, 1)
	assert.Equal(t, near.ID, nearLimit[0].ID)
}
