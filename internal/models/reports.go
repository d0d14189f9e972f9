package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyReport bundles the analytics for one calendar month.
// ExpensesByCategory is keyed by category name and only contains categories
// with at least one matching expense in the month.
type MonthlyReport struct {
	Year               int                        `json:"year"`
	Month              time.Month                 `json:"month"`
	TransactionCount   int                        `json:"transaction_count"`
	TotalIncome        decimal.Decimal            `json:"total_income"`
	TotalExpenses      decimal.Decimal            `json:"total_expenses"`
	NetIncome          decimal.Decimal            `json:"net_income"`
	ExpensesByCategory map[string]decimal.Decimal `json:"expenses_by_category"`
}

// CategorySummary pairs a category with its expense total and transaction
// count for a date window.
type CategorySummary struct {
	Category         *Category       `json:"category"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TransactionCount int64           `json:"transaction_count"`
}

// CounterpartyStats ranks a counterparty by transaction count.
type CounterpartyStats struct {
	Counterparty     string `json:"counterparty"`
	TransactionCount int64  `json:"transaction_count"`
}

// DashboardStats is the fresh-per-call dashboard snapshot.
type DashboardStats struct {
	TotalTransactions         int64           `json:"total_transactions"`
	UncategorizedTransactions int64           `json:"uncategorized_transactions"`
	MonthlyIncome             decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses           decimal.Decimal `json:"monthly_expenses"`
	MonthlyBalance            decimal.Decimal `json:"monthly_balance"`
	BankCount                 int             `json:"bank_count"`
}

// CategoryStatistics summarizes categorization coverage.
type CategoryStatistics struct {
	TotalCategories           int     `json:"total_categories"`
	TotalTransactions         int64   `json:"total_transactions"`
	UncategorizedTransactions int64   `json:"uncategorized_transactions"`
	CategorizationRate        float64 `json:"categorization_rate"`
}
