package services

import (
	"fmt"
	"time"

	"finance-analytics/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type transactionGenerator struct {
	faker *gofakeit.Faker
}

type counterpartyProfile struct {
	name          string
	referenceText string
	minAmount     float64
	maxAmount     float64
}

const generatorImportSource = "GENERATOR"

// NewTransactionGenerator creates a generator seeded from the clock
func NewTransactionGenerator() TransactionGeneratorInterface {
	return &transactionGenerator{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewSeededTransactionGenerator creates a deterministic generator for tests
func NewSeededTransactionGenerator(seed uint64) TransactionGeneratorInterface {
	return &transactionGenerator{
		faker: gofakeit.New(seed),
	}
}

var germanBanks = []string{
	"Sparkasse Berlin",
	"Deutsche Bank",
	"Commerzbank",
	"DKB",
	"ING-DiBa",
	"Volksbank Muenchen",
}

// expenseProfiles are everyday German merchants with realistic amount bands
func expenseProfiles() []counterpartyProfile {
	return []counterpartyProfile{
		{"REWE Markt GmbH", "REWE SAGT DANKE", 8, 120},
		{"EDEKA Zentrale", "EDEKA Einkauf", 5, 95},
		{"ALDI SUED", "ALDI SAGT DANKE", 4, 80},
		{"LIDL Vertriebs GmbH", "LIDL Einkauf", 4, 85},
		{"Amazon EU S.a.r.l.", "AMAZON.DE Bestellung", 10, 300},
		{"Deutsche Telekom AG", "Rechnung Mobilfunk", 20, 90},
		{"Stadtwerke Muenchen", "Abschlag Strom", 40, 180},
		{"Shell Deutschland", "Tankstelle", 30, 110},
	}
}

// smallExpenseProfiles stay under typical transit fare amounts
func smallExpenseProfiles() []counterpartyProfile {
	return []counterpartyProfile{
		{"BVG Berlin", "Einzelfahrschein", 2, 5},
		{"Deutsche Bahn AG", "DB Automat", 3, 9},
		{"MVG Muenchen", "Tageskarte", 3, 9},
		{"Backerei Kamps", "Kleiner Einkauf", 1, 6},
	}
}

func insuranceProfiles() []counterpartyProfile {
	return []counterpartyProfile{
		{"Allianz Versicherung AG", "Monatsbeitrag Haftpflicht", 15, 120},
		{"AXA Krankenversicherung", "Beitrag Zusatzversicherung", 25, 200},
		{"Generali Deutschland", "Hausratversicherung Beitrag", 10, 80},
	}
}

func governmentProfiles() []counterpartyProfile {
	return []counterpartyProfile{
		{"Finanzamt Berlin", "Einkommensteuer Vorauszahlung", 100, 900},
		{"Stadt Muenchen", "Muellgebuehren", 30, 150},
		{"Bundesagentur fuer Arbeit", "Rueckforderung", 50, 400},
	}
}

// GenerateTransaction produces one random PENDING transaction with a
// realistic German banking shape
func (g *transactionGenerator) GenerateTransaction() *models.Transaction {
	now := time.Now().UTC()
	start := now.AddDate(0, -3, 0)
	return g.generateInWindow(start, now)
}

// GenerateBatch produces count transactions over the last three months
func (g *transactionGenerator) GenerateBatch(count int) []*models.Transaction {
	transactions := make([]*models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		transactions = append(transactions, g.GenerateTransaction())
	}
	return transactions
}

// GenerateMonth produces count transactions booked inside one calendar
// month, including at least one salary deposit when count allows
func (g *transactionGenerator) GenerateMonth(year int, month time.Month, count int) []*models.Transaction {
	startDate, endDate := monthRange(year, month)

	transactions := make([]*models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		if i == 0 && count > 1 {
			transactions = append(transactions, g.generateSalary(startDate, endDate))
			continue
		}
		transactions = append(transactions, g.generateInWindow(startDate, endDate))
	}
	return transactions
}

func (g *transactionGenerator) generateInWindow(startDate, endDate time.Time) *models.Transaction {
	roll := g.faker.Float64Range(0, 1)

	switch {
	case roll < 0.50:
		return g.generateExpense(expenseProfiles(), startDate, endDate)
	case roll < 0.62:
		return g.generateExpense(smallExpenseProfiles(), startDate, endDate)
	case roll < 0.72:
		return g.generateExpense(insuranceProfiles(), startDate, endDate)
	case roll < 0.80:
		return g.generateExpense(governmentProfiles(), startDate, endDate)
	case roll < 0.92:
		return g.generateSalary(startDate, endDate)
	default:
		return g.generateRefund(startDate, endDate)
	}
}

func (g *transactionGenerator) generateExpense(profiles []counterpartyProfile, startDate, endDate time.Time) *models.Transaction {
	profile := profiles[g.faker.Number(0, len(profiles)-1)]
	amount := decimal.NewFromFloat(g.faker.Float64Range(profile.minAmount, profile.maxAmount)).Round(2).Neg()

	t := g.newBaseTransaction(startDate, endDate)
	t.Direction = models.DirectionDebit
	t.Amount = amount
	t.Counterparty = profile.name
	t.Reference = fmt.Sprintf("%s %d", profile.referenceText, g.faker.Number(10000000, 99999999))
	return t
}

func (g *transactionGenerator) generateSalary(startDate, endDate time.Time) *models.Transaction {
	employer := g.faker.Company() + " GmbH"
	amount := decimal.NewFromFloat(g.faker.Float64Range(2200, 5200)).Round(2)

	t := g.newBaseTransaction(startDate, endDate)
	t.Direction = models.DirectionCredit
	t.Amount = amount
	t.Counterparty = employer
	t.Reference = fmt.Sprintf("GEHALT %02d/%d %s", t.BookingDate.Month(), t.BookingDate.Year(), employer)
	return t
}

func (g *transactionGenerator) generateRefund(startDate, endDate time.Time) *models.Transaction {
	profile := expenseProfiles()[g.faker.Number(0, len(expenseProfiles())-1)]
	amount := decimal.NewFromFloat(g.faker.Float64Range(5, 60)).Round(2)

	t := g.newBaseTransaction(startDate, endDate)
	t.Direction = models.DirectionCredit
	t.Amount = amount
	t.Counterparty = profile.name
	t.Reference = fmt.Sprintf("ERSTATTUNG %s %d", profile.name, g.faker.Number(1000, 9999))
	return t
}

func (g *transactionGenerator) newBaseTransaction(startDate, endDate time.Time) *models.Transaction {
	bookingDate := g.randomDate(startDate, endDate)
	valueDate := bookingDate.AddDate(0, 0, g.faker.Number(0, 2))

	return &models.Transaction{
		ID:              uuid.New(),
		BankName:        germanBanks[g.faker.Number(0, len(germanBanks)-1)],
		AccountNumber:   fmt.Sprintf("DE%020d", g.faker.Number(1, 999999999)),
		BookingDate:     bookingDate,
		ValueDate:       &valueDate,
		Currency:        models.DefaultCurrency,
		State:           models.StatePending,
		ImportSource:    generatorImportSource,
		ImportTimestamp: time.Now().UTC(),
	}
}

func (g *transactionGenerator) randomDate(startDate, endDate time.Time) time.Time {
	window := int(endDate.Sub(startDate).Hours() / 24)
	if window < 1 {
		window = 1
	}
	day := startDate.AddDate(0, 0, g.faker.Number(0, window-1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
