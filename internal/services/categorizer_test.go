package services

import (
	"testing"
	"time"

	"finance-analytics/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CategorizerTestSuite struct {
	suite.Suite
	thresholds CategorizationThresholds
}

func TestCategorizerSuite(t *testing.T) {
	suite.Run(t, new(CategorizerTestSuite))
}

func (s *CategorizerTestSuite) SetupTest() {
	s.thresholds = DefaultCategorizationThresholds()
}

func (s *CategorizerTestSuite) newTransaction(direction, amount, reference, counterparty string) *models.Transaction {
	return &models.Transaction{
		BankName:     "Sparkasse Berlin",
		BookingDate:  time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Direction:    direction,
		Amount:       decimal.RequireFromString(amount),
		Reference:    reference,
		Counterparty: counterparty,
	}
}

func (s *CategorizerTestSuite) TestNormalizeText() {
	testCases := []struct {
		input    string
		expected string
	}{
		{"REWE SAGT DANKE. 44310901", "rewe sagt danke 44310901"},
		{"Überweisung Gebühren", "ueberweisung gebuehren"},
		{"Müller & Söhne GmbH", "mueller soehne gmbh"},
		{"Straße    12", "strasse 12"},
		{"GEHALT-06/2024", "gehalt 06 2024"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range testCases {
		s.Equal(tc.expected, normalizeText(tc.input), "input %q", tc.input)
	}
}

func (s *CategorizerTestSuite) TestMatchByKeywords_FirstActiveWins() {
	categories := []models.Category{
		{Name: "first", Keywords: "rewe", IsActive: true},
		{Name: "second", Keywords: "rewe,danke", IsActive: true},
	}

	t := s.newTransaction(models.DirectionDebit, "-20.00", "REWE SAGT DANKE", "")
	match := matchByKeywords(t, categories)
	s.Require().NotNil(match)
	s.Equal("first", match.Name)
}

func (s *CategorizerTestSuite) TestMatchByKeywords_UsesCounterpartyToo() {
	categories := []models.Category{
		{Name: "groceries", Keywords: "edeka", IsActive: true},
	}

	t := s.newTransaction(models.DirectionDebit, "-20.00", "Einkauf 123", "EDEKA Zentrale")
	match := matchByKeywords(t, categories)
	s.Require().NotNil(match)
	s.Equal("groceries", match.Name)
}

func (s *CategorizerTestSuite) TestMatchByKeywords_UmlautsInReference() {
	categories := []models.Category{
		{Name: "fees", Keywords: "gebuehren", IsActive: true},
	}

	t := s.newTransaction(models.DirectionDebit, "-5.00", "Gebühren Kontoführung", "")
	s.NotNil(matchByKeywords(t, categories))
}

func (s *CategorizerTestSuite) TestMatchByKeywords_NoMatch() {
	categories := []models.Category{
		{Name: "groceries", Keywords: "rewe", IsActive: true},
		{Name: "nokeywords", Keywords: "", IsActive: true},
	}

	t := s.newTransaction(models.DirectionDebit, "-20.00", "Netflix Abo", "")
	s.Nil(matchByKeywords(t, categories))
}

func (s *CategorizerTestSuite) TestMatchByCounterparty() {
	testCases := []struct {
		counterparty string
		expected     string
	}{
		{"Sparkasse Berlin", models.CategoryNameFinancial},
		{"Volksbank München eG", models.CategoryNameFinancial},
		{"Commerzbank AG", models.CategoryNameFinancial},
		{"Finanzamt Berlin", models.CategoryNameGovernment},
		{"Stadt München", models.CategoryNameGovernment},
		{"Bundesagentur für Arbeit", models.CategoryNameGovernment},
		{"Allianz Versicherung AG", models.CategoryNameInsurance},
		{"AXA Krankenversicherung", models.CategoryNameInsurance},
		{"Generali Deutschland", models.CategoryNameInsurance},
		{"REWE Markt GmbH", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		t := s.newTransaction(models.DirectionDebit, "-20.00", "x", tc.counterparty)
		s.Equal(tc.expected, matchByCounterparty(t), "counterparty %q", tc.counterparty)
	}
}

func (s *CategorizerTestSuite) TestMatchByAmount_SalaryBoundary() {
	// strictly above the threshold
	above := s.newTransaction(models.DirectionCredit, "1500.01", "x", "")
	s.Equal(models.CategoryNameSalary, matchByAmount(above, s.thresholds))

	exact := s.newTransaction(models.DirectionCredit, "1500.00", "x", "")
	s.Equal("", matchByAmount(exact, s.thresholds))

	// a large DEBIT is never salary
	largeDebit := s.newTransaction(models.DirectionDebit, "2000.00", "x", "")
	s.Equal("", matchByAmount(largeDebit, s.thresholds))
}

func (s *CategorizerTestSuite) TestMatchByAmount_SmallExpenseBoundary() {
	below := s.newTransaction(models.DirectionDebit, "-9.99", "x", "")
	s.Equal(models.CategoryNameTransport, matchByAmount(below, s.thresholds))

	exact := s.newTransaction(models.DirectionDebit, "-10.00", "x", "")
	s.Equal("", matchByAmount(exact, s.thresholds))

	// small CREDIT is not a transport expense
	smallCredit := s.newTransaction(models.DirectionCredit, "5.00", "x", "")
	s.Equal("", matchByAmount(smallCredit, s.thresholds))
}

func (s *CategorizerTestSuite) TestNewCategorizationThresholds() {
	thresholds := NewCategorizationThresholds(2000, 5)

	income := s.newTransaction(models.DirectionCredit, "1800.00", "x", "")
	s.Equal("", matchByAmount(income, thresholds))

	expense := s.newTransaction(models.DirectionDebit, "-4.50", "x", "")
	s.Equal(models.CategoryNameTransport, matchByAmount(expense, thresholds))
}
