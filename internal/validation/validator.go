package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with custom banking rules and
// error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("transaction_direction", validateTransactionDirection)
	_ = v.RegisterValidation("transaction_state", validateTransactionState)
	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	_ = v.RegisterValidation("amount_scale", validateAmountScale)
	_ = v.RegisterValidation("color_hex", validateColorHex)
	_ = v.RegisterValidation("iban", validateIBAN)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct with the configured rules
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Custom validation functions

// validateTransactionDirection allows only the two banking directions
func validateTransactionDirection(fl validator.FieldLevel) bool {
	direction := strings.ToUpper(fl.Field().String())
	return direction == "DEBIT" || direction == "CREDIT"
}

// validateTransactionState allows only the processing pipeline states
func validateTransactionState(fl validator.FieldLevel) bool {
	state := strings.ToUpper(fl.Field().String())
	validStates := map[string]bool{
		"PENDING":   true,
		"PROCESSED": true,
		"FAILED":    true,
		"CANCELLED": true,
	}
	return validStates[state]
}

// validateCurrencyCode checks for a 3-letter uppercase ISO 4217 code
func validateCurrencyCode(fl validator.FieldLevel) bool {
	currency := fl.Field().String()
	matched, _ := regexp.MatchString(`^[A-Z]{3}$`, currency)
	return matched
}

// validateAmountScale checks that a decimal string carries at most 2
// fractional digits
func validateAmountScale(fl validator.FieldLevel) bool {
	amount := fl.Field().String()
	if amount == "" {
		return false
	}

	matched, _ := regexp.MatchString(`^-?\d+(\.\d{1,2})?$`, amount)
	return matched
}

// validateColorHex checks for a #RRGGBB color
func validateColorHex(fl validator.FieldLevel) bool {
	color := fl.Field().String()
	matched, _ := regexp.MatchString(`^#[0-9A-Fa-f]{6}$`, color)
	return matched
}

// validateIBAN checks the coarse IBAN shape, not the checksum
func validateIBAN(fl validator.FieldLevel) bool {
	iban := strings.ReplaceAll(fl.Field().String(), " ", "")
	matched, _ := regexp.MatchString(`^[A-Z]{2}\d{2}[A-Z0-9]{10,30}$`, iban)
	return matched
}
