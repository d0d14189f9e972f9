package repositories

import (
	"testing"
	"time"

	"finance-analytics/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TransactionRepositoryTestSuite is the test suite for the transaction repository
type TransactionRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo TransactionRepositoryInterface
}

func TestTransactionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositoryTestSuite))
}

func (s *TransactionRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	err = db.AutoMigrate(&models.Category{}, &models.Transaction{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewTransactionRepository(db)
}

func (s *TransactionRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (s *TransactionRepositoryTestSuite) createTransaction(mutate func(*models.Transaction)) *models.Transaction {
	transaction := &models.Transaction{
		BankName:    "Sparkasse Berlin",
		BookingDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Direction:   models.DirectionDebit,
		Amount:      decimal.RequireFromString("-25.50"),
		Reference:   "REWE SAGT DANKE",
	}
	if mutate != nil {
		mutate(transaction)
	}
	require.NoError(s.T(), s.repo.Create(transaction))
	return transaction
}

func (s *TransactionRepositoryTestSuite) TestCreateAndGetByID() {
	created := s.createTransaction(nil)

	loaded, err := s.repo.GetByID(created.ID)
	s.NoError(err)
	s.Equal(created.ID, loaded.ID)
	s.Equal(models.StatePending, loaded.State)
	s.Equal(models.DefaultCurrency, loaded.Currency)
	s.True(loaded.Amount.Equal(decimal.RequireFromString("-25.50")))
}

func (s *TransactionRepositoryTestSuite) TestGetByID_PreloadsCategory() {
	category := &models.Category{Name: "groceries", DisplayName: "Lebensmittel", IsActive: true}
	require.NoError(s.T(), s.db.Create(category).Error)

	created := s.createTransaction(func(t *models.Transaction) {
		t.CategoryID = &category.ID
	})

	loaded, err := s.repo.GetByID(created.ID)
	s.NoError(err)
	s.Require().NotNil(loaded.Category)
	s.Equal("groceries", loaded.Category.Name)
}

func (s *TransactionRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositoryTestSuite) TestSaveAll_PersistsBatch() {
	first := s.createTransaction(nil)
	first.State = models.StateProcessed

	second := &models.Transaction{
		BankName:    "DKB",
		BookingDate: time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
		Direction:   models.DirectionCredit,
		Amount:      decimal.RequireFromString("3500.00"),
		Reference:   "GEHALT 06/2024",
		State:       models.StatePending,
		Currency:    models.DefaultCurrency,
	}
	second.ID = uuid.New()

	s.NoError(s.repo.SaveAll([]*models.Transaction{first, second}))

	count, err := s.repo.Count()
	s.NoError(err)
	s.Equal(int64(2), count)

	reloaded, err := s.repo.GetByID(first.ID)
	s.NoError(err)
	s.Equal(models.StateProcessed, reloaded.State)
}

func (s *TransactionRepositoryTestSuite) TestSaveAll_EmptyBatch() {
	s.NoError(s.repo.SaveAll(nil))
}

func (s *TransactionRepositoryTestSuite) TestDelete() {
	created := s.createTransaction(nil)

	s.NoError(s.repo.Delete(created.ID))
	_, err := s.repo.GetByID(created.ID)
	s.ErrorIs(err, ErrTransactionNotFound)

	s.ErrorIs(s.repo.Delete(uuid.New()), ErrTransactionNotFound)
}

func (s *TransactionRepositoryTestSuite) TestGetByDateRange_InclusiveBounds() {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	s.createTransaction(func(t *models.Transaction) { t.BookingDate = start })
	s.createTransaction(func(t *models.Transaction) { t.BookingDate = end })
	s.createTransaction(func(t *models.Transaction) {
		t.BookingDate = time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	})
	s.createTransaction(func(t *models.Transaction) {
		t.BookingDate = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	})

	inRange, err := s.repo.GetByDateRange(start, end)
	s.NoError(err)
	s.Len(inRange, 2)
}

func (s *TransactionRepositoryTestSuite) TestDirectionAndAmountQueries() {
	s.createTransaction(nil) // DEBIT -25.50
	s.createTransaction(func(t *models.Transaction) {
		t.Direction = models.DirectionCredit
		t.Amount = decimal.RequireFromString("3500.00")
		t.Reference = "GEHALT 06/2024"
	})
	s.createTransaction(func(t *models.Transaction) {
		t.Direction = models.DirectionDebit
		t.Amount = decimal.RequireFromString("15.00") // refund booked as DEBIT
	})

	debits, err := s.repo.GetByDirection(models.DirectionDebit)
	s.NoError(err)
	s.Len(debits, 2)

	expenses, err := s.repo.GetByDirectionAndAmountBelow(models.DirectionDebit, decimal.Zero)
	s.NoError(err)
	s.Len(expenses, 1)
	s.True(expenses[0].Amount.IsNegative())

	income, err := s.repo.GetByDirectionAndAmountAbove(models.DirectionCredit, decimal.Zero)
	s.NoError(err)
	s.Len(income, 1)
	s.True(income[0].Amount.IsPositive())
}

func (s *TransactionRepositoryTestSuite) TestSumIncomeAndExpenses_ExactDecimals() {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	s.createTransaction(func(t *models.Transaction) {
		t.Direction = models.DirectionCredit
		t.Amount = decimal.RequireFromString("0.10")
	})
	s.createTransaction(func(t *models.Transaction) {
		t.Direction = models.DirectionCredit
		t.Amount = decimal.RequireFromString("0.20")
	})
	s.createTransaction(func(t *models.Transaction) {
		t.Amount = decimal.RequireFromString("-135.75")
	})
	// negative CREDIT and positive DEBIT must not be counted
	s.createTransaction(func(t *models.Transaction) {
		t.Direction = models.DirectionCredit
		t.Amount = decimal.RequireFromString("-50.00")
	})
	s.createTransaction(func(t *models.Transaction) {
		t.Amount = decimal.RequireFromString("40.00")
	})

	income, err := s.repo.SumIncomeInPeriod(start, end)
	s.NoError(err)
	s.True(decimal.RequireFromString("0.3").Equal(income), "got %s", income)

	expenses, err := s.repo.SumExpensesInPeriod(start, end)
	s.NoError(err)
	s.True(decimal.RequireFromString("135.75").Equal(expenses), "got %s", expenses)
}

func (s *TransactionRepositoryTestSuite) TestSums_EmptyPeriodIsZero() {
	start := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, time.January, 31, 0, 0, 0, 0, time.UTC)

	income, err := s.repo.SumIncomeInPeriod(start, end)
	s.NoError(err)
	s.True(income.IsZero())

	expenses, err := s.repo.SumExpensesInPeriod(start, end)
	s.NoError(err)
	s.True(expenses.IsZero())
}

func (s *TransactionRepositoryTestSuite) TestDistinctBankNames() {
	s.createTransaction(nil)
	s.createTransaction(nil)
	s.createTransaction(func(t *models.Transaction) { t.BankName = "DKB" })

	names, err := s.repo.DistinctBankNames()
	s.NoError(err)
	s.Equal([]string{"DKB", "Sparkasse Berlin"}, names)
}

func (s *TransactionRepositoryTestSuite) TestTopCounterparties() {
	for i := 0; i < 3; i++ {
		s.createTransaction(func(t *models.Transaction) { t.Counterparty = "REWE Markt GmbH" })
	}
	for i := 0; i < 2; i++ {
		s.createTransaction(func(t *models.Transaction) { t.Counterparty = "Allianz Versicherung AG" })
	}
	s.createTransaction(func(t *models.Transaction) { t.Counterparty = "" })

	stats, err := s.repo.TopCounterparties(2)
	s.NoError(err)
	s.Require().Len(stats, 2)
	s.Equal("REWE Markt GmbH", stats[0].Counterparty)
	s.Equal(int64(3), stats[0].TransactionCount)
	s.Equal("Allianz Versicherung AG", stats[1].Counterparty)
	s.Equal(int64(2), stats[1].TransactionCount)
}

func (s *TransactionRepositoryTestSuite) TestCountUncategorizedAndByCategory() {
	category := &models.Category{Name: "groceries", DisplayName: "Lebensmittel", IsActive: true}
	require.NoError(s.T(), s.db.Create(category).Error)

	s.createTransaction(func(t *models.Transaction) { t.CategoryID = &category.ID })
	s.createTransaction(nil)
	s.createTransaction(nil)

	uncategorized, err := s.repo.CountUncategorized()
	s.NoError(err)
	s.Equal(int64(2), uncategorized)

	byCategory, err := s.repo.CountByCategory(category.ID)
	s.NoError(err)
	s.Equal(int64(1), byCategory)
}

func (s *TransactionRepositoryTestSuite) TestUpdateStates() {
	first := s.createTransaction(nil)
	second := s.createTransaction(nil)
	untouched := s.createTransaction(nil)

	err := s.repo.UpdateStates([]uuid.UUID{first.ID, second.ID}, models.StateProcessed)
	s.NoError(err)

	processed, err := s.repo.GetByState(models.StateProcessed)
	s.NoError(err)
	s.Len(processed, 2)

	reloaded, err := s.repo.GetByID(untouched.ID)
	s.NoError(err)
	s.Equal(models.StatePending, reloaded.State)
}

func (s *TransactionRepositoryTestSuite) TestSearchByReference_CaseInsensitive() {
	s.createTransaction(nil) // reference "REWE SAGT DANKE"
	s.createTransaction(func(t *models.Transaction) { t.Reference = "Miete Juni" })

	found, err := s.repo.SearchByReference("rewe")
	s.NoError(err)
	s.Len(found, 1)

	found, err = s.repo.SearchByReference("MIETE")
	s.NoError(err)
	s.Len(found, 1)

	found, err = s.repo.SearchByReference("netflix")
	s.NoError(err)
	s.Empty(found)
}

func (s *TransactionRepositoryTestSuite) TestSearchByCounterparty_CaseInsensitive() {
	s.createTransaction(func(t *models.Transaction) { t.Counterparty = "Finanzamt Berlin" })

	found, err := s.repo.SearchByCounterparty("finanzamt")
	s.NoError(err)
	s.Len(found, 1)
}

func (s *TransactionRepositoryTestSuite) TestGetByImportSourceAndState() {
	s.createTransaction(func(t *models.Transaction) { t.ImportSource = "CSV" })
	s.createTransaction(func(t *models.Transaction) {
		t.ImportSource = "CSV"
		t.State = models.StateProcessed
	})
	s.createTransaction(func(t *models.Transaction) { t.ImportSource = "API" })

	found, err := s.repo.GetByImportSourceAndState("CSV", models.StatePending)
	s.NoError(err)
	s.Len(found, 1)
}

func (s *TransactionRepositoryTestSuite) TestGetUncategorized() {
	category := &models.Category{Name: "groceries", DisplayName: "Lebensmittel", IsActive: true}
	require.NoError(s.T(), s.db.Create(category).Error)

	s.createTransaction(func(t *models.Transaction) { t.CategoryID = &category.ID })
	s.createTransaction(nil)

	uncategorized, err := s.repo.GetUncategorized()
	s.NoError(err)
	s.Len(uncategorized, 1)
	s.Nil(uncategorized[0].CategoryID)
}
