package repositories

import (
	"time"

	"finance-analytics/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryRepositoryInterface defines the contract for category storage.
// Categories are soft-deleted only (IsActive flag) so historical
// transactions never lose their reference.
type CategoryRepositoryInterface interface {
	Save(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	// GetAllActive returns active categories in their retrieval order
	// (creation time ascending). The keyword matcher's "first match wins"
	// rule depends on this order being stable.
	GetAllActive() ([]models.Category, error)
	GetMainCategories() ([]models.Category, error)
	GetSubCategories(parentID uuid.UUID) ([]models.Category, error)
	GetByExpenseFlag(isExpense bool) ([]models.Category, error)
	GetActiveColors() ([]string, error)
	Deactivate(id uuid.UUID) error
}

// TransactionRepositoryInterface defines the contract for transaction storage.
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	Save(transaction *models.Transaction) error
	// SaveAll persists the whole batch inside a single database
	// transaction: either every row lands or none does.
	SaveAll(transactions []*models.Transaction) error
	Delete(id uuid.UUID) error

	GetByID(id uuid.UUID) (*models.Transaction, error)
	GetAll() ([]models.Transaction, error)
	GetByBankName(bankName string) ([]models.Transaction, error)
	GetByAccountNumber(accountNumber string) ([]models.Transaction, error)
	GetByDateRange(startDate, endDate time.Time) ([]models.Transaction, error)
	GetByDirection(direction string) ([]models.Transaction, error)
	GetByDirectionAndAmountBelow(direction string, amount decimal.Decimal) ([]models.Transaction, error)
	GetByDirectionAndAmountAbove(direction string, amount decimal.Decimal) ([]models.Transaction, error)
	GetByState(state string) ([]models.Transaction, error)
	GetByImportSourceAndState(importSource, state string) ([]models.Transaction, error)
	GetUncategorized() ([]models.Transaction, error)
	SearchByReference(keyword string) ([]models.Transaction, error)
	SearchByCounterparty(counterparty string) ([]models.Transaction, error)

	Count() (int64, error)
	CountUncategorized() (int64, error)
	CountByCategory(categoryID uuid.UUID) (int64, error)

	// SumIncomeInPeriod sums amounts of CREDIT transactions with positive
	// amount, booking date within [startDate, endDate]. Returns exact
	// decimal zero when nothing matches.
	SumIncomeInPeriod(startDate, endDate time.Time) (decimal.Decimal, error)
	// SumExpensesInPeriod sums absolute amounts of DEBIT transactions with
	// negative amount over the same inclusive window.
	SumExpensesInPeriod(startDate, endDate time.Time) (decimal.Decimal, error)
	DistinctBankNames() ([]string, error)
	TopCounterparties(limit int) ([]models.CounterpartyStats, error)

	UpdateStates(ids []uuid.UUID, state string) error
}
