package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-analytics/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Save creates or updates a transaction
func (r *transactionRepository) Save(transaction *models.Transaction) error {
	if err := r.db.Save(transaction).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// SaveAll persists all transactions inside a single database transaction.
// A failure on any row rolls back the whole batch.
func (r *transactionRepository) SaveAll(transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, transaction := range transactions {
			if err := tx.Save(transaction).Error; err != nil {
				return fmt.Errorf("failed to save transaction batch: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a transaction
func (r *transactionRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Transaction{ID: id})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// GetByID retrieves a transaction by ID with its category preloaded
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Preload("Category").First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// GetAll retrieves all transactions, newest booking first
func (r *transactionRepository) GetAll() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Preload("Category").
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

// GetByBankName retrieves transactions for one bank
func (r *transactionRepository) GetByBankName(bankName string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("bank_name = ?", bankName).
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by bank: %w", err)
	}
	return transactions, nil
}

// GetByAccountNumber retrieves transactions for one account
func (r *transactionRepository) GetByAccountNumber(accountNumber string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("account_number = ?", accountNumber).
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by account: %w", err)
	}
	return transactions, nil
}

// GetByDateRange retrieves transactions with booking date in the inclusive
// window, category preloaded for report building
func (r *transactionRepository) GetByDateRange(startDate, endDate time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Preload("Category").
		Where("booking_date BETWEEN ? AND ?", startDate, endDate).
		Order("booking_date ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	return transactions, nil
}

// GetByDirection retrieves transactions by DEBIT/CREDIT direction
func (r *transactionRepository) GetByDirection(direction string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("direction = ?", direction).
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by direction: %w", err)
	}
	return transactions, nil
}

// GetByDirectionAndAmountBelow retrieves transactions of a direction with
// amount strictly below the threshold
func (r *transactionRepository) GetByDirectionAndAmountBelow(direction string, amount decimal.Decimal) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("direction = ? AND amount < ?", direction, amount).
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions below amount: %w", err)
	}
	return transactions, nil
}

// GetByDirectionAndAmountAbove retrieves transactions of a direction with
// amount strictly above the threshold
func (r *transactionRepository) GetByDirectionAndAmountAbove(direction string, amount decimal.Decimal) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("direction = ? AND amount > ?", direction, amount).
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions above amount: %w", err)
	}
	return transactions, nil
}

// GetByState retrieves transactions in one processing state
func (r *transactionRepository) GetByState(state string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("state = ?", state).
		Order("created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by state: %w", err)
	}
	return transactions, nil
}

// GetByImportSourceAndState retrieves transactions from one import source in
// one processing state
func (r *transactionRepository) GetByImportSourceAndState(importSource, state string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("import_source = ? AND state = ?", importSource, state).
		Order("created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by import source and state: %w", err)
	}
	return transactions, nil
}

// GetUncategorized retrieves transactions without an assigned category
func (r *transactionRepository) GetUncategorized() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("category_id IS NULL").
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get uncategorized transactions: %w", err)
	}
	return transactions, nil
}

// SearchByReference retrieves transactions whose reference contains the
// keyword, case-insensitive
func (r *transactionRepository) SearchByReference(keyword string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("LOWER(reference) LIKE ?", "%"+strings.ToLower(keyword)+"%").
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to search transactions by reference: %w", err)
	}
	return transactions, nil
}

// SearchByCounterparty retrieves transactions whose counterparty contains the
// keyword, case-insensitive
func (r *transactionRepository) SearchByCounterparty(counterparty string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("LOWER(counterparty) LIKE ?", "%"+strings.ToLower(counterparty)+"%").
		Order("booking_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to search transactions by counterparty: %w", err)
	}
	return transactions, nil
}

// Count returns the total number of transactions
func (r *transactionRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// CountUncategorized returns the number of transactions without a category
func (r *transactionRepository) CountUncategorized() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).
		Where("category_id IS NULL").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count uncategorized transactions: %w", err)
	}
	return count, nil
}

// CountByCategory returns the number of transactions assigned to a category
func (r *transactionRepository) CountByCategory(categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions by category: %w", err)
	}
	return count, nil
}

// SumIncomeInPeriod sums CREDIT transactions with positive amount inside the
// inclusive booking-date window. Amounts are fetched as decimals and folded
// in Go; a SQL SUM over the decimal column would round-trip through float64
// on some drivers and lose cents.
func (r *transactionRepository) SumIncomeInPeriod(startDate, endDate time.Time) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := r.db.Model(&models.Transaction{}).
		Where("direction = ? AND amount > 0 AND booking_date BETWEEN ? AND ?",
			models.DirectionCredit, startDate, endDate).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum income: %w", err)
	}

	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total, nil
}

// SumExpensesInPeriod sums the absolute amounts of DEBIT transactions with
// negative amount inside the inclusive booking-date window.
func (r *transactionRepository) SumExpensesInPeriod(startDate, endDate time.Time) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := r.db.Model(&models.Transaction{}).
		Where("direction = ? AND amount < 0 AND booking_date BETWEEN ? AND ?",
			models.DirectionDebit, startDate, endDate).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}

	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount.Abs())
	}
	return total, nil
}

// DistinctBankNames returns the distinct bank names present in the store
func (r *transactionRepository) DistinctBankNames() ([]string, error) {
	var names []string
	if err := r.db.Model(&models.Transaction{}).
		Distinct().
		Order("bank_name ASC").
		Pluck("bank_name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to get distinct bank names: %w", err)
	}
	return names, nil
}

// TopCounterparties returns the most frequent counterparties by transaction
// count. Rows without a counterparty are excluded.
func (r *transactionRepository) TopCounterparties(limit int) ([]models.CounterpartyStats, error) {
	var stats []models.CounterpartyStats

	query := `
		SELECT
			counterparty,
			COUNT(*) as transaction_count
		FROM transactions
		WHERE counterparty IS NOT NULL AND counterparty <> ''
		GROUP BY counterparty
		ORDER BY transaction_count DESC
		LIMIT ?
	`

	if err := r.db.Raw(query, limit).Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get top counterparties: %w", err)
	}

	return stats, nil
}

// UpdateStates sets the processing state on all given transactions. Hooks
// are skipped: the batch update runs against an empty model, whose
// BeforeUpdate validation would reject it.
func (r *transactionRepository) UpdateStates(ids []uuid.UUID, state string) error {
	if len(ids) == 0 {
		return nil
	}

	result := r.db.Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Transaction{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"state":      state,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update transaction states: %w", result.Error)
	}
	return nil
}
