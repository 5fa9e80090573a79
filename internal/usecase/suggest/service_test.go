package suggest

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

func TestSuggestedBudget_UsesSubtreeHistoryAndPeriodIncome(t *testing.T) {
	ctx := context.Background()
	mockCategoryRepo := new(MockCategoryRepository)
	mockTxRepo := new(MockTransactionRepository)

	service := NewService(mockCategoryRepo, mockTxRepo, Conservative{})

	// Setup: Food > Groceries; suggesting for Food must include the
	// Groceries expense in its history.
	food, err := domain.NewCategory("Food", "")
	require.NoError(t, err)
	groceries, err := domain.NewCategory("Groceries", "")
	require.NoError(t, err)
	groceries.ParentID = &food.ID

	salary, err := domain.NewIncome(decimal.NewFromInt(2000), "Salary", food.ID, "EUR")
	require.NoError(t, err)
	childExpense, err := domain.NewExpense(decimal.NewFromInt(200), "Shop", groceries.ID, "EUR")
	require.NoError(t, err)

	period := domain.CurrentPeriod()

	mockCategoryRepo.On("GetByID", ctx, food.ID).Return(food, nil)
	mockCategoryRepo.On("GetAll", ctx).Return([]*domain.Category{food, groceries}, nil)
	mockTxRepo.On("GetByType", ctx, domain.TransactionTypeIncome).
		Return([]*domain.Transaction{salary}, nil)
	mockTxRepo.On("GetAll", ctx).
		Return([]*domain.Transaction{salary, childExpense}, nil)

	budget, err := service.SuggestedBudget(ctx, food.ID, period, "EUR")

	assert.NoError(t, err)
	// avg 200 * 0.85 = 170, below the 25% cap of 500.
	assert.True(t, decimal.NewFromInt(170).Equal(budget.Amount), "got %s", budget.Amount)
	assert.Equal(t, food.ID, budget.CategoryID)
	assert.Equal(t, period, budget.Period)
}

func TestSuggestedBudget_NoStrategy(t *testing.T) {
	service := NewService(new(MockCategoryRepository), new(MockTransactionRepository), nil)

	_, err := service.SuggestedBudget(context.Background(), uuid.New(), domain.CurrentPeriod(), "EUR")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSuggestedBudget_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	mockCategoryRepo := new(MockCategoryRepository)

	service := NewService(mockCategoryRepo, new(MockTransactionRepository), Conservative{})

	id := uuid.New()
	mockCategoryRepo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound)

	_, err := service.SuggestedBudget(ctx, id, domain.CurrentPeriod(), "EUR")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
