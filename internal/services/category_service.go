package services

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"finance-analytics/internal/models"
	"finance-analytics/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrCategoryNil    = errors.New("category cannot be nil")
	ErrTransactionNil = errors.New("transaction cannot be nil")
)

type categoryService struct {
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	metricsRecorder MetricsRecorderInterface
	thresholds      CategorizationThresholds

	// cacheMu guards activeCategories. The cache is invalidated
	// synchronously on every category mutation, so readers never see a
	// list that predates the last write.
	cacheMu          sync.RWMutex
	activeCategories []models.Category
	cacheLoaded      bool
}

// NewCategoryService creates a new CategoryServiceInterface instance
func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	metricsRecorder MetricsRecorderInterface,
	thresholds CategorizationThresholds,
) CategoryServiceInterface {
	return &categoryService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		metricsRecorder: metricsRecorder,
		thresholds:      thresholds,
	}
}

// SaveCategory creates or updates a category and invalidates the cache
func (s *categoryService) SaveCategory(category *models.Category) error {
	if category == nil {
		return ErrCategoryNil
	}

	if err := s.categoryRepo.Save(category); err != nil {
		return err
	}

	s.ClearCache()
	s.metricsRecorder.IncrementCounter("category.saved", nil)
	slog.Info("saved category",
		"category_id", category.ID,
		"name", category.Name,
	)
	return nil
}

// DeleteCategory soft-deletes a category and invalidates the cache
func (s *categoryService) DeleteCategory(id uuid.UUID) error {
	if err := s.categoryRepo.Deactivate(id); err != nil {
		return err
	}

	s.ClearCache()
	s.metricsRecorder.IncrementCounter("category.deactivated", nil)
	slog.Info("deactivated category", "category_id", id)
	return nil
}

// GetCategoryByID retrieves a category by ID, active or not
func (s *categoryService) GetCategoryByID(id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// FindByName resolves an active category by its unique name
func (s *categoryService) FindByName(name string) (*models.Category, error) {
	active, err := s.getActiveCategoriesCached()
	if err != nil {
		return nil, err
	}

	for i := range active {
		if active[i].Name == name {
			return &active[i], nil
		}
	}
	return nil, repositories.ErrCategoryNotFound
}

// GetAllCategories retrieves all categories including deactivated ones
func (s *categoryService) GetAllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// GetActiveCategories retrieves the active categories in retrieval order
func (s *categoryService) GetActiveCategories() ([]models.Category, error) {
	return s.getActiveCategoriesCached()
}

// GetMainCategories retrieves active top-level categories
func (s *categoryService) GetMainCategories() ([]models.Category, error) {
	return s.categoryRepo.GetMainCategories()
}

// GetSubCategories retrieves active children of a parent category
func (s *categoryService) GetSubCategories(parentID uuid.UUID) ([]models.Category, error) {
	return s.categoryRepo.GetSubCategories(parentID)
}

// GetExpenseCategories retrieves active expense categories
func (s *categoryService) GetExpenseCategories() ([]models.Category, error) {
	return s.categoryRepo.GetByExpenseFlag(true)
}

// GetIncomeCategories retrieves active income categories
func (s *categoryService) GetIncomeCategories() ([]models.Category, error) {
	return s.categoryRepo.GetByExpenseFlag(false)
}

// GetCategoryColors retrieves the distinct colors of active categories
func (s *categoryService) GetCategoryColors() ([]string, error) {
	return s.categoryRepo.GetActiveColors()
}

// CountTransactionsByCategory counts transactions assigned to a category
func (s *categoryService) CountTransactionsByCategory(categoryID uuid.UUID) (int64, error) {
	return s.transactionRepo.CountByCategory(categoryID)
}

// CategorizeTransaction runs the strategy chain over a single transaction.
// A transaction without a reference cannot be categorized and yields nil.
func (s *categoryService) CategorizeTransaction(transaction *models.Transaction) (*models.Category, error) {
	if transaction == nil {
		return nil, ErrTransactionNil
	}
	if transaction.Reference == "" {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		s.metricsRecorder.RecordProcessingTime("categorization", time.Since(start))
	}()

	activeCategories, err := s.getActiveCategoriesCached()
	if err != nil {
		return nil, err
	}

	if category := matchByKeywords(transaction, activeCategories); category != nil {
		s.metricsRecorder.IncrementCounter("categorization.matched", map[string]string{"strategy": "keywords"})
		return category, nil
	}

	if name := matchByCounterparty(transaction); name != "" {
		if category := findByName(activeCategories, name); category != nil {
			s.metricsRecorder.IncrementCounter("categorization.matched", map[string]string{"strategy": "counterparty"})
			return category, nil
		}
	}

	if name := matchByAmount(transaction, s.thresholds); name != "" {
		if category := findByName(activeCategories, name); category != nil {
			s.metricsRecorder.IncrementCounter("categorization.matched", map[string]string{"strategy": "amount"})
			return category, nil
		}
	}

	s.metricsRecorder.IncrementCounter("categorization.matched", map[string]string{"strategy": "default"})
	return findByName(activeCategories, models.CategoryNameUncategorized), nil
}

// ProcessBatch categorizes the uncategorized transactions of the batch,
// marks them PROCESSED and persists everything atomically. Already
// categorized transactions pass through untouched, so reprocessing a batch
// is idempotent.
func (s *categoryService) ProcessBatch(transactions []*models.Transaction) ([]*models.Transaction, error) {
	slog.Info("processing transaction batch", "size", len(transactions))

	activeCategories, err := s.getActiveCategoriesCached()
	if err != nil {
		return nil, err
	}
	fallback := findByName(activeCategories, models.CategoryNameUncategorized)

	categorizedCount := 0
	for _, transaction := range transactions {
		if transaction.CategoryID != nil {
			continue
		}

		category, err := s.CategorizeTransaction(transaction)
		if err != nil {
			return nil, err
		}

		if category != nil && category.Name != models.CategoryNameUncategorized {
			assignCategory(transaction, category)
			categorizedCount++
			slog.Debug("categorized transaction",
				"transaction_id", transaction.ID,
				"category", category.Name,
			)
		} else if category != nil {
			assignCategory(transaction, category)
		} else if fallback != nil {
			assignCategory(transaction, fallback)
		}
		transaction.MarkProcessed()
	}

	if err := s.transactionRepo.SaveAll(transactions); err != nil {
		s.metricsRecorder.IncrementCounter("categorization.batch.failed", nil)
		return nil, err
	}

	s.metricsRecorder.IncrementCounter("categorization.batch.processed", nil)
	s.metricsRecorder.RecordGauge("categorization.batch.size", float64(len(transactions)), nil)
	slog.Info("batch processed",
		"categorized", categorizedCount,
		"total", len(transactions),
	)
	return transactions, nil
}

// ClearCache drops the active-category cache. The next read reloads it
// from the repository.
func (s *categoryService) ClearCache() {
	s.cacheMu.Lock()
	s.activeCategories = nil
	s.cacheLoaded = false
	s.cacheMu.Unlock()
	slog.Debug("category cache cleared")
}

// GetStatistics summarizes categorization coverage for dashboards
func (s *categoryService) GetStatistics() (*models.CategoryStatistics, error) {
	active, err := s.getActiveCategoriesCached()
	if err != nil {
		return nil, err
	}

	totalTransactions, err := s.transactionRepo.Count()
	if err != nil {
		return nil, err
	}

	uncategorized, err := s.transactionRepo.CountUncategorized()
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if totalTransactions > 0 {
		rate = float64(totalTransactions-uncategorized) / float64(totalTransactions) * 100
	}

	s.metricsRecorder.RecordGauge("transactions.uncategorized", float64(uncategorized), nil)

	return &models.CategoryStatistics{
		TotalCategories:           len(active),
		TotalTransactions:         totalTransactions,
		UncategorizedTransactions: uncategorized,
		CategorizationRate:        rate,
	}, nil
}

func (s *categoryService) getActiveCategoriesCached() ([]models.Category, error) {
	s.cacheMu.RLock()
	if s.cacheLoaded {
		categories := s.activeCategories
		s.cacheMu.RUnlock()
		return categories, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheLoaded {
		return s.activeCategories, nil
	}

	categories, err := s.categoryRepo.GetAllActive()
	if err != nil {
		return nil, err
	}

	s.activeCategories = categories
	s.cacheLoaded = true
	slog.Debug("cached active categories", "count", len(categories))
	return categories, nil
}

func findByName(categories []models.Category, name string) *models.Category {
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i]
		}
	}
	return nil
}

func assignCategory(transaction *models.Transaction, category *models.Category) {
	id := category.ID
	transaction.CategoryID = &id
	transaction.Category = category
}
