package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Banking direction. DEBIT reduces the account balance, CREDIT increases it.
const (
	DirectionDebit  = "DEBIT"
	DirectionCredit = "CREDIT"
)

// Processing states for the import/categorization pipeline.
const (
	StatePending   = "PENDING"   // imported, waiting for categorization
	StateProcessed = "PROCESSED" // categorization pass completed
	StateFailed    = "FAILED"    // import/validation error, retryable
	StateCancelled = "CANCELLED" // invalid, terminal
)

const DefaultCurrency = "EUR"

var (
	ErrInvalidDirection   = errors.New("invalid transaction direction")
	ErrInvalidState       = errors.New("invalid transaction state")
	ErrMissingBankName    = errors.New("bank name is required")
	ErrMissingBookingDate = errors.New("booking date is required")
	ErrInvalidCurrency    = errors.New("currency must be a 3-letter ISO 4217 code")
)

// Transaction is an imported bank transaction.
//
// The import layer hands transactions over fully populated; this module
// never parses bank files itself.
type Transaction struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BankName      string     `gorm:"type:varchar(100);not null;index" json:"bank_name"`
	AccountNumber string     `gorm:"type:varchar(34)" json:"account_number,omitempty"`
	BookingDate   time.Time  `gorm:"not null;index" json:"booking_date"`
	ValueDate     *time.Time `json:"value_date,omitempty"`

	Direction string          `gorm:"type:varchar(10);not null" json:"direction"`
	Amount    decimal.Decimal `gorm:"type:decimal(19,2);not null" json:"amount"`
	Currency  string          `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`

	// Reference is the free-text purpose line. An empty reference is
	// treated as absent: categorization short-circuits to no-match.
	Reference    string `gorm:"type:varchar(500)" json:"reference,omitempty"`
	Counterparty string `gorm:"type:varchar(200);index" json:"counterparty,omitempty"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	State string `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"state"`

	ImportSource    string    `gorm:"type:varchar(20)" json:"import_source,omitempty"`
	ImportTimestamp time.Time `json:"import_timestamp"`
	RawData         string    `gorm:"type:text" json:"raw_data,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()

	if t.State == "" {
		t.State = StatePending
	}
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.ImportTimestamp.IsZero() {
		t.ImportTimestamp = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.BankName == "" {
		return ErrMissingBankName
	}
	if t.BookingDate.IsZero() {
		return ErrMissingBookingDate
	}
	if !IsValidDirection(t.Direction) {
		return ErrInvalidDirection
	}
	if !IsValidState(t.State) {
		return ErrInvalidState
	}
	if len(t.Currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsExpense reports whether this transaction is an expense: DEBIT direction
// AND a strictly negative amount. A positive-amount DEBIT (refund) is
// neither expense nor income.
func (t *Transaction) IsExpense() bool {
	return t.Direction == DirectionDebit && t.Amount.IsNegative()
}

// IsIncome reports whether this transaction is income: CREDIT direction AND
// a strictly positive amount.
func (t *Transaction) IsIncome() bool {
	return t.Direction == DirectionCredit && t.Amount.IsPositive()
}

// AbsoluteAmount returns the unsigned amount.
func (t *Transaction) AbsoluteAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// IsProcessable returns true for states a categorization pass may pick up.
func (t *Transaction) IsProcessable() bool {
	return t.State == StatePending || t.State == StateFailed
}

// IsComplete returns true once a categorization pass has run.
func (t *Transaction) IsComplete() bool {
	return t.State == StateProcessed
}

// MarkProcessed marks the transaction as processed.
func (t *Transaction) MarkProcessed() {
	t.State = StateProcessed
}

// MarkFailed marks the transaction as failed (retryable).
func (t *Transaction) MarkFailed() {
	t.State = StateFailed
}

// MarkCancelled marks the transaction as cancelled (terminal).
func (t *Transaction) MarkCancelled() {
	t.State = StateCancelled
}

// CanTransitionTo checks whether the state machine allows moving to newState.
func (t *Transaction) CanTransitionTo(newState string) bool {
	validTransitions := map[string][]string{
		StatePending:   {StateProcessed, StateFailed, StateCancelled},
		StateFailed:    {StatePending, StateProcessed, StateCancelled},
		StateProcessed: {}, // terminal
		StateCancelled: {}, // terminal
	}

	allowed, exists := validTransitions[t.State]
	if !exists {
		return false
	}
	for _, state := range allowed {
		if state == newState {
			return true
		}
	}
	return false
}

// IsValidDirection checks if the direction is valid
func IsValidDirection(direction string) bool {
	switch direction {
	case DirectionDebit, DirectionCredit:
		return true
	default:
		return false
	}
}

// IsValidState checks if the processing state is valid
func IsValidState(state string) bool {
	switch state {
	case StatePending, StateProcessed, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}
