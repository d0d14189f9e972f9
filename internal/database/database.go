package database

import (
	"fmt"
	"log"
	"time"

	"finance-analytics/internal/config"
	"finance-analytics/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Category{},
		&models.Transaction{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (db *DB) Transaction(fn func(*gorm.DB) error) error {
	return db.DB.Transaction(fn)
}

func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)",
		"CREATE INDEX IF NOT EXISTS idx_categories_is_active ON categories(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_category_id) WHERE parent_category_id IS NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_categories_created_at ON categories(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_bank_name ON transactions(bank_name)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_booking_date ON transactions(booking_date)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_direction ON transactions(direction)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_state ON transactions(state)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_category_id ON transactions(category_id) WHERE category_id IS NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_transactions_counterparty ON transactions(counterparty) WHERE counterparty <> ''",
		"CREATE INDEX IF NOT EXISTS idx_transactions_reference_lower ON transactions(LOWER(reference))",
		"CREATE INDEX IF NOT EXISTS idx_transactions_import_source ON transactions(import_source)",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			log.Printf("Failed to create index: %s, error: %v", query, err)
		}
	}

	return nil
}

// SeedDefaultCategories inserts the standard German category set when it is
// not present yet. Existing categories are left untouched.
func (db *DB) SeedDefaultCategories() error {
	for _, category := range DefaultCategories() {
		var existing models.Category
		if err := db.DB.Where("name = ?", category.Name).First(&existing).Error; err == nil {
			continue
		}

		c := category
		if err := db.DB.Create(&c).Error; err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
	}
	return nil
}

// DefaultCategories returns the built-in category set with German banking
// keywords. Creation order matters: it fixes the keyword matcher's
// precedence.
func DefaultCategories() []models.Category {
	return []models.Category{
		{Name: "groceries", DisplayName: "Lebensmittel", ColorHex: "#27AE60", Icon: "🛒",
			Keywords: "rewe,edeka,aldi,lidl,kaufland,netto,penny,supermarkt", IsExpense: true, IsActive: true},
		{Name: models.CategoryNameSalary, DisplayName: "Gehalt", ColorHex: "#2ECC71", Icon: "💰",
			Keywords: "gehalt,lohn,salary,bezuege", IsExpense: false, IsActive: true},
		{Name: models.CategoryNameTransport, DisplayName: "Transport", ColorHex: "#3498DB", Icon: "🚇",
			Keywords: "bvg,mvg,hvv,bahn,fahrschein,tankstelle,aral,shell", IsExpense: true, IsActive: true},
		{Name: "housing", DisplayName: "Wohnen", ColorHex: "#E67E22", Icon: "🏠",
			Keywords: "miete,nebenkosten,stadtwerke,strom,heizung", IsExpense: true, IsActive: true},
		{Name: models.CategoryNameInsurance, DisplayName: "Versicherungen", ColorHex: "#9B59B6", Icon: "🛡",
			Keywords: "versicherung,beitrag,haftpflicht,hausrat", IsExpense: true, IsActive: true},
		{Name: models.CategoryNameFinancial, DisplayName: "Finanzen", ColorHex: "#34495E", Icon: "🏦",
			Keywords: "entgelt,kontofuehrung,zinsen,dispozins", IsExpense: true, IsActive: true},
		{Name: models.CategoryNameGovernment, DisplayName: "Behoerden", ColorHex: "#7F8C8D", Icon: "🏛",
			Keywords: "steuer,gebuehr,bescheid", IsExpense: true, IsActive: true},
		{Name: models.CategoryNameUncategorized, DisplayName: "Nicht kategorisiert", ColorHex: "#95A5A6", Icon: "❓",
			Keywords: "", IsExpense: true, IsActive: true},
	}
}

// Initialize creates and configures the database connection
func Initialize(cfg *config.Config) (*DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Run SQL-based migrations using golang-migrate if enabled
	if err := RunMigrationsIfEnabled(sqlDB, cfg.Migration); err != nil {
		log.Printf("Warning: migration runner failed: %v", err)
		log.Println("Falling back to GORM AutoMigrate...")

		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(); err != nil {
		log.Printf("Warning: failed to create some indexes: %v", err)
	}

	log.Println("Database initialized successfully")

	return db, nil
}
