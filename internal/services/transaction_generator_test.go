package services

import (
	"testing"
	"time"

	"finance-analytics/internal/models"

	"github.com/stretchr/testify/suite"
)

type TransactionGeneratorTestSuite struct {
	suite.Suite
	generator TransactionGeneratorInterface
}

func TestTransactionGeneratorSuite(t *testing.T) {
	suite.Run(t, new(TransactionGeneratorTestSuite))
}

func (s *TransactionGeneratorTestSuite) SetupTest() {
	s.generator = NewSeededTransactionGenerator(42)
}

func (s *TransactionGeneratorTestSuite) TestGenerateTransaction_Shape() {
	t := s.generator.GenerateTransaction()

	s.NotEqual("", t.BankName)
	s.Regexp(`^DE\d{20}$`, t.AccountNumber)
	s.Equal(models.DefaultCurrency, t.Currency)
	s.Equal(models.StatePending, t.State)
	s.Equal("GENERATOR", t.ImportSource)
	s.NotEqual("", t.Reference)
	s.NotEqual("", t.Counterparty)
	s.NoError(t.Validate())
}

func (s *TransactionGeneratorTestSuite) TestGenerateBatch_Count() {
	transactions := s.generator.GenerateBatch(50)
	s.Len(transactions, 50)
}

func (s *TransactionGeneratorTestSuite) TestGenerateBatch_DirectionMatchesSign() {
	for _, t := range s.generator.GenerateBatch(100) {
		switch t.Direction {
		case models.DirectionDebit:
			s.True(t.Amount.IsNegative(), "DEBIT amount %s must be negative", t.Amount)
		case models.DirectionCredit:
			s.True(t.Amount.IsPositive(), "CREDIT amount %s must be positive", t.Amount)
		default:
			s.Failf("unexpected direction", "got %q", t.Direction)
		}
	}
}

func (s *TransactionGeneratorTestSuite) TestGenerateMonth_DatesInsideMonth() {
	start, end := monthRange(2024, time.February)

	for _, t := range s.generator.GenerateMonth(2024, time.February, 40) {
		s.False(t.BookingDate.Before(start), "booking date %s before month start", t.BookingDate)
		s.False(t.BookingDate.After(end), "booking date %s after month end", t.BookingDate)
	}
}

func (s *TransactionGeneratorTestSuite) TestGenerateMonth_ContainsSalary() {
	transactions := s.generator.GenerateMonth(2024, time.June, 10)
	s.Require().Len(transactions, 10)

	first := transactions[0]
	s.Equal(models.DirectionCredit, first.Direction)
	s.Contains(first.Reference, "GEHALT")
	s.True(first.Amount.GreaterThan(DefaultCategorizationThresholds().SalaryMinimum))
}

func (s *TransactionGeneratorTestSuite) TestSeededGeneratorIsDeterministic() {
	first := NewSeededTransactionGenerator(7).GenerateBatch(5)
	second := NewSeededTransactionGenerator(7).GenerateBatch(5)

	for i := range first {
		s.Equal(first[i].Counterparty, second[i].Counterparty)
		s.True(first[i].Amount.Equal(second[i].Amount))
		s.Equal(first[i].BookingDate, second[i].BookingDate)
	}
}
