package services

import (
	"log/slog"
	"sort"
	"time"

	"finance-analytics/internal/models"
	"finance-analytics/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type transactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	categoryService CategoryServiceInterface
	metricsRecorder MetricsRecorderInterface
}

// NewTransactionService creates a new TransactionServiceInterface instance
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryService CategoryServiceInterface,
	metricsRecorder MetricsRecorderInterface,
) TransactionServiceInterface {
	return &transactionService{
		transactionRepo: transactionRepo,
		categoryService: categoryService,
		metricsRecorder: metricsRecorder,
	}
}

// SaveTransaction persists a transaction, auto-categorizing it first when no
// category is assigned
func (s *transactionService) SaveTransaction(transaction *models.Transaction) error {
	if transaction == nil {
		return ErrTransactionNil
	}

	if transaction.CategoryID == nil {
		category, err := s.categoryService.CategorizeTransaction(transaction)
		if err != nil {
			return err
		}
		if category != nil {
			assignCategory(transaction, category)
		}
	}

	if err := s.transactionRepo.Save(transaction); err != nil {
		return err
	}

	s.metricsRecorder.IncrementCounter("transaction.saved", nil)
	slog.Debug("saved transaction",
		"transaction_id", transaction.ID,
		"reference", transaction.Reference,
	)
	return nil
}

// SaveAllTransactions categorizes and persists a batch atomically
func (s *transactionService) SaveAllTransactions(transactions []*models.Transaction) error {
	slog.Info("saving transactions", "count", len(transactions))

	if _, err := s.categoryService.ProcessBatch(transactions); err != nil {
		return err
	}

	s.metricsRecorder.IncrementCounter("transaction.batch.saved", nil)
	return nil
}

// GetTransactionByID retrieves a transaction by ID
func (s *transactionService) GetTransactionByID(id uuid.UUID) (*models.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

// GetAllTransactions retrieves all transactions
func (s *transactionService) GetAllTransactions() ([]models.Transaction, error) {
	return s.transactionRepo.GetAll()
}

// DeleteTransaction removes a transaction
func (s *transactionService) DeleteTransaction(id uuid.UUID) error {
	if err := s.transactionRepo.Delete(id); err != nil {
		return err
	}
	slog.Info("deleted transaction", "transaction_id", id)
	return nil
}

// GetByBankName retrieves transactions for one bank
func (s *transactionService) GetByBankName(bankName string) ([]models.Transaction, error) {
	return s.transactionRepo.GetByBankName(bankName)
}

// GetByDateRange retrieves transactions inside the inclusive window
func (s *transactionService) GetByDateRange(startDate, endDate time.Time) ([]models.Transaction, error) {
	return s.transactionRepo.GetByDateRange(startDate, endDate)
}

// GetCurrentMonthTransactions retrieves transactions of the current month
func (s *transactionService) GetCurrentMonthTransactions() ([]models.Transaction, error) {
	start, end := monthRange(time.Now().Year(), time.Now().Month())
	return s.transactionRepo.GetByDateRange(start, end)
}

// GetByDirection retrieves transactions by DEBIT/CREDIT direction
func (s *transactionService) GetByDirection(direction string) ([]models.Transaction, error) {
	return s.transactionRepo.GetByDirection(direction)
}

// GetExpenses retrieves DEBIT transactions with negative amounts
func (s *transactionService) GetExpenses() ([]models.Transaction, error) {
	return s.transactionRepo.GetByDirectionAndAmountBelow(models.DirectionDebit, decimal.Zero)
}

// GetIncome retrieves CREDIT transactions with positive amounts
func (s *transactionService) GetIncome() ([]models.Transaction, error) {
	return s.transactionRepo.GetByDirectionAndAmountAbove(models.DirectionCredit, decimal.Zero)
}

// GetUncategorized retrieves transactions without a category
func (s *transactionService) GetUncategorized() ([]models.Transaction, error) {
	return s.transactionRepo.GetUncategorized()
}

// GetByState retrieves transactions in one processing state
func (s *transactionService) GetByState(state string) ([]models.Transaction, error) {
	return s.transactionRepo.GetByState(state)
}

// SearchByReference searches transaction references, case-insensitive
func (s *transactionService) SearchByReference(keyword string) ([]models.Transaction, error) {
	return s.transactionRepo.SearchByReference(keyword)
}

// SearchByCounterparty searches counterparties, case-insensitive
func (s *transactionService) SearchByCounterparty(counterparty string) ([]models.Transaction, error) {
	return s.transactionRepo.SearchByCounterparty(counterparty)
}

// CalculateTotalIncome sums income in the inclusive window
func (s *transactionService) CalculateTotalIncome(startDate, endDate time.Time) (decimal.Decimal, error) {
	return s.transactionRepo.SumIncomeInPeriod(startDate, endDate)
}

// CalculateTotalExpenses sums absolute expenses in the inclusive window
func (s *transactionService) CalculateTotalExpenses(startDate, endDate time.Time) (decimal.Decimal, error) {
	return s.transactionRepo.SumExpensesInPeriod(startDate, endDate)
}

// CalculateNetIncome returns income minus expenses for the window
func (s *transactionService) CalculateNetIncome(startDate, endDate time.Time) (decimal.Decimal, error) {
	income, err := s.transactionRepo.SumIncomeInPeriod(startDate, endDate)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := s.transactionRepo.SumExpensesInPeriod(startDate, endDate)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expenses), nil
}

// CalculateCurrentMonthBalance returns the net income of the current month
func (s *transactionService) CalculateCurrentMonthBalance() (decimal.Decimal, error) {
	start, end := monthRange(time.Now().Year(), time.Now().Month())
	return s.CalculateNetIncome(start, end)
}

// GenerateMonthlyReport builds the full analytics report for one calendar
// month. Expense breakdown is keyed by category name and only lists
// categories with at least one expense in the month.
func (s *transactionService) GenerateMonthlyReport(year int, month time.Month) (*models.MonthlyReport, error) {
	start := time.Now()
	defer func() {
		s.metricsRecorder.RecordProcessingTime("report.monthly", time.Since(start))
	}()

	startDate, endDate := monthRange(year, month)

	transactions, err := s.transactionRepo.GetByDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	totalIncome, err := s.transactionRepo.SumIncomeInPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}
	totalExpenses, err := s.transactionRepo.SumExpensesInPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	return &models.MonthlyReport{
		Year:               year,
		Month:              month,
		TransactionCount:   len(transactions),
		TotalIncome:        totalIncome,
		TotalExpenses:      totalExpenses,
		NetIncome:          totalIncome.Sub(totalExpenses),
		ExpensesByCategory: expensesByCategory(transactions),
	}, nil
}

// GetExpensesByCategory folds expense amounts per category name for the
// inclusive window
func (s *transactionService) GetExpensesByCategory(startDate, endDate time.Time) (map[string]decimal.Decimal, error) {
	transactions, err := s.transactionRepo.GetByDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return expensesByCategory(transactions), nil
}

// GetCategorySummary builds per-category expense summaries for the window,
// sorted by total amount descending
func (s *transactionService) GetCategorySummary(startDate, endDate time.Time) ([]models.CategorySummary, error) {
	transactions, err := s.transactionRepo.GetByDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]decimal.Decimal)
	counts := make(map[uuid.UUID]int64)
	categories := make(map[uuid.UUID]*models.Category)

	for i := range transactions {
		t := &transactions[i]
		if t.CategoryID == nil {
			continue
		}
		counts[*t.CategoryID]++
		if t.IsExpense() {
			totals[*t.CategoryID] = totals[*t.CategoryID].Add(t.AbsoluteAmount())
			if t.Category != nil {
				categories[*t.CategoryID] = t.Category
			}
		}
	}

	summaries := make([]models.CategorySummary, 0, len(totals))
	for id, total := range totals {
		summaries = append(summaries, models.CategorySummary{
			Category:         categories[id],
			TotalAmount:      total,
			TransactionCount: counts[id],
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TotalAmount.GreaterThan(summaries[j].TotalAmount)
	})
	return summaries, nil
}

// GetAllBankNames retrieves the distinct bank names in the store
func (s *transactionService) GetAllBankNames() ([]string, error) {
	return s.transactionRepo.DistinctBankNames()
}

// GetBankTransactionCounts counts transactions per bank
func (s *transactionService) GetBankTransactionCounts() (map[string]int64, error) {
	transactions, err := s.transactionRepo.GetAll()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for i := range transactions {
		counts[transactions[i].BankName]++
	}
	return counts, nil
}

// GetTopCounterparties returns the most frequent counterparties
func (s *transactionService) GetTopCounterparties(limit int) ([]models.CounterpartyStats, error) {
	return s.transactionRepo.TopCounterparties(limit)
}

// GetDashboardStats builds a fresh dashboard snapshot
func (s *transactionService) GetDashboardStats() (*models.DashboardStats, error) {
	total, err := s.transactionRepo.Count()
	if err != nil {
		return nil, err
	}
	uncategorized, err := s.transactionRepo.CountUncategorized()
	if err != nil {
		return nil, err
	}

	startDate, endDate := monthRange(time.Now().Year(), time.Now().Month())
	monthlyIncome, err := s.transactionRepo.SumIncomeInPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}
	monthlyExpenses, err := s.transactionRepo.SumExpensesInPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	bankNames, err := s.transactionRepo.DistinctBankNames()
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalTransactions:         total,
		UncategorizedTransactions: uncategorized,
		MonthlyIncome:             monthlyIncome,
		MonthlyExpenses:           monthlyExpenses,
		MonthlyBalance:            monthlyIncome.Sub(monthlyExpenses),
		BankCount:                 len(bankNames),
	}, nil
}

// RecategorizeAll re-runs categorization over every uncategorized
// transaction
func (s *transactionService) RecategorizeAll() error {
	slog.Info("starting re-categorization of uncategorized transactions")

	transactions, err := s.transactionRepo.GetUncategorized()
	if err != nil {
		return err
	}
	slog.Info("found uncategorized transactions", "count", len(transactions))

	batch := make([]*models.Transaction, len(transactions))
	for i := range transactions {
		batch[i] = &transactions[i]
	}

	if _, err := s.categoryService.ProcessBatch(batch); err != nil {
		return err
	}

	slog.Info("re-categorization completed")
	return nil
}

// UpdateTransactionStates sets the state on all given transactions
func (s *transactionService) UpdateTransactionStates(ids []uuid.UUID, state string) error {
	if !models.IsValidState(state) {
		return models.ErrInvalidState
	}

	if err := s.transactionRepo.UpdateStates(ids, state); err != nil {
		return err
	}

	slog.Info("updated transaction states", "count", len(ids), "state", state)
	return nil
}

// expensesByCategory folds absolute expense amounts by category name,
// skipping uncategorized transactions
func expensesByCategory(transactions []models.Transaction) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal)
	for i := range transactions {
		t := &transactions[i]
		if !t.IsExpense() || t.Category == nil {
			continue
		}
		result[t.Category.Name] = result[t.Category.Name].Add(t.AbsoluteAmount())
	}
	return result
}

// monthRange returns the inclusive booking-date window of one calendar month
func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
