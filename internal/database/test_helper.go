package database

import (
	"fmt"
	"testing"
	"time"

	"finance-analytics/internal/config"
	"finance-analytics/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

// CreateTestCategory creates an active category. Categories created in
// sequence get strictly increasing creation timestamps so retrieval order
// is deterministic in tests.
func CreateTestCategory(t *testing.T, db *DB, name, keywords string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:        name,
		DisplayName: name,
		Keywords:    keywords,
		IsExpense:   true,
		IsActive:    true,
		CreatedAt:   nextTestTimestamp(),
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category %s: %v", name, err)
	}

	return category
}

func CreateTestTransaction(t *testing.T, db *DB, direction string, amount decimal.Decimal, reference string) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		BankName:    "Sparkasse Berlin",
		BookingDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Direction:   direction,
		Amount:      amount,
		Reference:   reference,
	}

	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return transaction
}

var testClock = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func nextTestTimestamp() time.Time {
	testClock = testClock.Add(time.Second)
	return testClock
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"transactions",
		"categories",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
