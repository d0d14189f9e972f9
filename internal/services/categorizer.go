package services

import (
	"strings"

	"finance-analytics/internal/models"

	"github.com/shopspring/decimal"
)

// CategorizationThresholds holds the amount heuristic boundaries.
// Comparisons are strict: income above SalaryMinimum, expense absolute
// amount below SmallExpenseMax.
type CategorizationThresholds struct {
	SalaryMinimum   decimal.Decimal
	SmallExpenseMax decimal.Decimal
}

// DefaultCategorizationThresholds returns the standard boundaries: incomes
// above 1500 look like salary, expenses under 10 look like transit fares.
func DefaultCategorizationThresholds() CategorizationThresholds {
	return CategorizationThresholds{
		SalaryMinimum:   decimal.NewFromInt(1500),
		SmallExpenseMax: decimal.NewFromInt(10),
	}
}

// NewCategorizationThresholds builds thresholds from configured values
func NewCategorizationThresholds(salaryMinimum, smallExpenseMax float64) CategorizationThresholds {
	return CategorizationThresholds{
		SalaryMinimum:   decimal.NewFromFloat(salaryMinimum),
		SmallExpenseMax: decimal.NewFromFloat(smallExpenseMax),
	}
}

type counterpartyPattern struct {
	substrings []string
	category   string
}

// counterpartyPatterns maps well-known German counterparty fragments to
// category names. Checked in order against the normalized counterparty.
func counterpartyPatterns() []counterpartyPattern {
	return []counterpartyPattern{
		{
			substrings: []string{"sparkasse", "volksbank", "dkb", "ing", "commerzbank"},
			category:   models.CategoryNameFinancial,
		},
		{
			substrings: []string{"finanzamt", "stadt", "gemeinde", "bundesagentur"},
			category:   models.CategoryNameGovernment,
		},
		{
			substrings: []string{"versicherung", "allianz", "axa", "generali"},
			category:   models.CategoryNameInsurance,
		},
	}
}

var umlautReplacer = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// normalizeText lowercases the input, transliterates German umlauts,
// replaces everything outside [a-z0-9] with spaces and collapses runs of
// whitespace. Category keywords are matched against this normalized form.
func normalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = umlautReplacer.Replace(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// matchByKeywords walks the active categories in retrieval order and returns
// the first whose keywords occur in the transaction's normalized reference
// and counterparty text.
func matchByKeywords(transaction *models.Transaction, activeCategories []models.Category) *models.Category {
	searchText := strings.TrimSpace(
		normalizeText(transaction.Reference) + " " + normalizeText(transaction.Counterparty))

	for i := range activeCategories {
		if activeCategories[i].Keywords == "" {
			continue
		}
		if activeCategories[i].MatchesKeywords(searchText) {
			return &activeCategories[i]
		}
	}
	return nil
}

// matchByCounterparty returns the category name for well-known counterparty
// fragments, or "" when none applies.
func matchByCounterparty(transaction *models.Transaction) string {
	if transaction.Counterparty == "" {
		return ""
	}

	counterparty := normalizeText(transaction.Counterparty)
	for _, pattern := range counterpartyPatterns() {
		if containsAny(counterparty, pattern.substrings...) {
			return pattern.category
		}
	}
	return ""
}

// matchByAmount applies the amount heuristics: large incomes look like
// salary, small expenses look like transit fares. Returns "" when neither
// applies.
func matchByAmount(transaction *models.Transaction, thresholds CategorizationThresholds) string {
	if transaction.IsIncome() && transaction.Amount.GreaterThan(thresholds.SalaryMinimum) {
		return models.CategoryNameSalary
	}
	if transaction.IsExpense() && transaction.AbsoluteAmount().LessThan(thresholds.SmallExpenseMax) {
		return models.CategoryNameTransport
	}
	return ""
}

func containsAny(text string, substrings ...string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
