package services

import (
	"testing"
	"time"

	"finance-analytics/internal/models"
	"finance-analytics/internal/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// noopMetrics satisfies MetricsRecorderInterface for tests
type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string)     {}
func (noopMetrics) RecordProcessingTime(string, time.Duration)     {}
func (noopMetrics) RecordGauge(string, float64, map[string]string) {}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Transaction{}))
	return db
}

type serviceFixture struct {
	db              *gorm.DB
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	categoryService CategoryServiceInterface
	clock           time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db := setupServiceTestDB(t)
	categoryRepo := repositories.NewCategoryRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	return &serviceFixture{
		db:              db,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		categoryService: NewCategoryService(
			categoryRepo, transactionRepo, noopMetrics{}, DefaultCategorizationThresholds()),
		clock: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// createCategory saves a category with strictly increasing creation times so
// the matcher's retrieval order follows creation order
func (f *serviceFixture) createCategory(t *testing.T, name, keywords string, isExpense bool) *models.Category {
	t.Helper()

	f.clock = f.clock.Add(time.Second)
	category := &models.Category{
		Name:        name,
		DisplayName: name,
		Keywords:    keywords,
		IsExpense:   isExpense,
		IsActive:    true,
		CreatedAt:   f.clock,
	}
	require.NoError(t, f.categoryService.SaveCategory(category))
	return category
}
