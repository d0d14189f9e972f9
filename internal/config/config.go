package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database       DatabaseConfig
	Migration      MigrationConfig
	Categorization CategorizationConfig
	Environment    string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MigrationConfig controls the SQL migration runner. When AutoMigrate is
// off the gorm AutoMigrate fallback handles the schema instead.
type MigrationConfig struct {
	AutoMigrate    bool
	SeedDatabase   bool
	MigrationsPath string
	SeedsPath      string
}

// CategorizationConfig holds the amount heuristic boundaries. Income above
// SalaryMinimum is treated as salary, expenses under SmallExpenseMax as
// transit fares.
type CategorizationConfig struct {
	SalaryMinimum   float64
	SmallExpenseMax float64
	TopCounterparty int
}

func Load() *Config {
	// .env is a dev convenience; a missing file is not an error
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "finance_user"),
			Password:        getEnv("DB_PASSWORD", "finance_password"),
			Name:            getEnv("DB_NAME", "finance_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Migration: MigrationConfig{
			AutoMigrate:    getBoolEnv("AUTO_MIGRATE", false),
			SeedDatabase:   getBoolEnv("SEED_DATABASE", false),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "db/migrations"),
			SeedsPath:      getEnv("SEEDS_PATH", "db/seeds"),
		},
		Categorization: CategorizationConfig{
			SalaryMinimum:   getFloatEnv("CATEGORIZATION_SALARY_MINIMUM", 1500),
			SmallExpenseMax: getFloatEnv("CATEGORIZATION_SMALL_EXPENSE_MAX", 10),
			TopCounterparty: getIntEnv("CATEGORIZATION_TOP_COUNTERPARTIES", 10),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
