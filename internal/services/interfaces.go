package services

import (
	"time"

	"finance-analytics/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryServiceInterface manages categories and runs the categorization
// strategy chain over transactions.
type CategoryServiceInterface interface {
	SaveCategory(category *models.Category) error
	DeleteCategory(id uuid.UUID) error
	GetCategoryByID(id uuid.UUID) (*models.Category, error)
	// FindByName resolves an active category by its unique name.
	FindByName(name string) (*models.Category, error)
	GetAllCategories() ([]models.Category, error)
	GetActiveCategories() ([]models.Category, error)
	GetMainCategories() ([]models.Category, error)
	GetSubCategories(parentID uuid.UUID) ([]models.Category, error)
	GetExpenseCategories() ([]models.Category, error)
	GetIncomeCategories() ([]models.Category, error)
	GetCategoryColors() ([]string, error)
	CountTransactionsByCategory(categoryID uuid.UUID) (int64, error)

	// CategorizeTransaction runs the strategy chain (keywords, counterparty,
	// amount, default) and returns the winning category, or nil when the
	// transaction cannot be categorized at all.
	CategorizeTransaction(transaction *models.Transaction) (*models.Category, error)

	// ProcessBatch categorizes every uncategorized transaction in the batch,
	// marks each touched transaction PROCESSED and persists the whole batch
	// atomically. Returns the persisted transactions.
	ProcessBatch(transactions []*models.Transaction) ([]*models.Transaction, error)

	ClearCache()
	GetStatistics() (*models.CategoryStatistics, error)
}

// TransactionServiceInterface provides transaction CRUD, queries and the
// financial analytics surface.
type TransactionServiceInterface interface {
	SaveTransaction(transaction *models.Transaction) error
	SaveAllTransactions(transactions []*models.Transaction) error
	GetTransactionByID(id uuid.UUID) (*models.Transaction, error)
	GetAllTransactions() ([]models.Transaction, error)
	DeleteTransaction(id uuid.UUID) error

	GetByBankName(bankName string) ([]models.Transaction, error)
	GetByDateRange(startDate, endDate time.Time) ([]models.Transaction, error)
	GetCurrentMonthTransactions() ([]models.Transaction, error)
	GetByDirection(direction string) ([]models.Transaction, error)
	GetExpenses() ([]models.Transaction, error)
	GetIncome() ([]models.Transaction, error)
	GetUncategorized() ([]models.Transaction, error)
	GetByState(state string) ([]models.Transaction, error)
	SearchByReference(keyword string) ([]models.Transaction, error)
	SearchByCounterparty(counterparty string) ([]models.Transaction, error)

	CalculateTotalIncome(startDate, endDate time.Time) (decimal.Decimal, error)
	CalculateTotalExpenses(startDate, endDate time.Time) (decimal.Decimal, error)
	CalculateNetIncome(startDate, endDate time.Time) (decimal.Decimal, error)
	CalculateCurrentMonthBalance() (decimal.Decimal, error)

	GenerateMonthlyReport(year int, month time.Month) (*models.MonthlyReport, error)
	GetExpensesByCategory(startDate, endDate time.Time) (map[string]decimal.Decimal, error)
	GetCategorySummary(startDate, endDate time.Time) ([]models.CategorySummary, error)
	GetAllBankNames() ([]string, error)
	GetBankTransactionCounts() (map[string]int64, error)
	GetTopCounterparties(limit int) ([]models.CounterpartyStats, error)
	GetDashboardStats() (*models.DashboardStats, error)

	RecategorizeAll() error
	UpdateTransactionStates(ids []uuid.UUID, state string) error
}

// TransactionGeneratorInterface produces realistic sample transactions for
// development seeding and tests.
type TransactionGeneratorInterface interface {
	GenerateTransaction() *models.Transaction
	GenerateBatch(count int) []*models.Transaction
	GenerateMonth(year int, month time.Month, count int) []*models.Transaction
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
