package dto

import (
	"time"

	"finance-analytics/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionImport is the shape the import layer hands over for one bank
// transaction. Amounts arrive as strings so no float conversion happens
// before the decimal parse.
type TransactionImport struct {
	BankName      string     `json:"bank_name" validate:"required,max=100"`
	AccountNumber string     `json:"account_number,omitempty" validate:"omitempty,iban"`
	BookingDate   time.Time  `json:"booking_date" validate:"required"`
	ValueDate     *time.Time `json:"value_date,omitempty"`
	Direction     string     `json:"direction" validate:"required,transaction_direction"`
	Amount        string     `json:"amount" validate:"required,amount_scale"`
	Currency      string     `json:"currency,omitempty" validate:"omitempty,currency_code"`
	Reference     string     `json:"reference,omitempty" validate:"max=500"`
	Counterparty  string     `json:"counterparty,omitempty" validate:"max=200"`
	ImportSource  string     `json:"import_source,omitempty" validate:"max=20"`
	RawData       string     `json:"raw_data,omitempty"`
}

// ToModel converts the import DTO into a transaction entity. Validation is
// the caller's responsibility; a malformed amount surfaces as a parse error.
func (ti *TransactionImport) ToModel() (*models.Transaction, error) {
	amount, err := decimal.NewFromString(ti.Amount)
	if err != nil {
		return nil, err
	}

	currency := ti.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	return &models.Transaction{
		BankName:      ti.BankName,
		AccountNumber: ti.AccountNumber,
		BookingDate:   ti.BookingDate,
		ValueDate:     ti.ValueDate,
		Direction:     ti.Direction,
		Amount:        amount,
		Currency:      currency,
		Reference:     ti.Reference,
		Counterparty:  ti.Counterparty,
		State:         models.StatePending,
		ImportSource:  ti.ImportSource,
		RawData:       ti.RawData,
	}, nil
}

// CategoryRequest is the shape for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	DisplayName string `json:"display_name" validate:"required,max=200"`
	ColorHex    string `json:"color_hex,omitempty" validate:"omitempty,color_hex"`
	Icon        string `json:"icon,omitempty" validate:"max=10"`
	Keywords    string `json:"keywords,omitempty"`
	IsExpense   bool   `json:"is_expense"`
}

// ToModel converts the category request into a category entity.
func (cr *CategoryRequest) ToModel() *models.Category {
	return &models.Category{
		Name:        cr.Name,
		DisplayName: cr.DisplayName,
		ColorHex:    cr.ColorHex,
		Icon:        cr.Icon,
		Keywords:    cr.Keywords,
		IsExpense:   cr.IsExpense,
		IsActive:    true,
	}
}
