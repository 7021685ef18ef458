// Package validator provides the custom validation tags shared by Gin's
// binding engine and the ledger draft checks.
package validator

import (
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validCurrencies contains ISO 4217 currency codes.
var validCurrencies = map[string]bool{
	"AED": true, "AFN": true, "ALL": true, "AMD": true, "ANG": true,
	"AOA": true, "ARS": true, "AUD": true, "AWG": true, "AZN": true,
	"BAM": true, "BBD": true, "BDT": true, "BGN": true, "BHD": true,
	"BIF": true, "BMD": true, "BND": true, "BOB": true, "BRL": true,
	"BSD": true, "BTN": true, "BWP": true, "BYN": true, "BZD": true,
	"CAD": true, "CDF": true, "CHF": true, "CLP": true, "CNY": true,
	"COP": true, "CRC": true, "CUP": true, "CVE": true, "CZK": true,
	"DJF": true, "DKK": true, "DOP": true, "DZD": true, "EGP": true,
	"ERN": true, "ETB": true, "EUR": true, "FJD": true, "FKP": true,
	"GBP": true, "GEL": true, "GHS": true, "GIP": true, "GMD": true,
	"GNF": true, "GTQ": true, "GYD": true, "HKD": true, "HNL": true,
	"HRK": true, "HTG": true, "HUF": true, "IDR": true, "ILS": true,
	"INR": true, "IQD": true, "IRR": true, "ISK": true, "JMD": true,
	"JOD": true, "JPY": true, "KES": true, "KGS": true, "KHR": true,
	"KMF": true, "KPW": true, "KRW": true, "KWD": true, "KYD": true,
	"KZT": true, "LAK": true, "LBP": true, "LKR": true, "LRD": true,
	"LSL": true, "LYD": true, "MAD": true, "MDL": true, "MGA": true,
	"MKD": true, "MMK": true, "MNT": true, "MOP": true, "MRU": true,
	"MUR": true, "MVR": true, "MWK": true, "MXN": true, "MYR": true,
	"MZN": true, "NAD": true, "NGN": true, "NIO": true, "NOK": true,
	"NPR": true, "NZD": true, "OMR": true, "PAB": true, "PEN": true,
	"PGK": true, "PHP": true, "PKR": true, "PLN": true, "PYG": true,
	"QAR": true, "RON": true, "RSD": true, "RUB": true, "RWF": true,
	"SAR": true, "SBD": true, "SCR": true, "SDG": true, "SEK": true,
	"SGD": true, "SHP": true, "SLE": true, "SOS": true, "SRD": true,
	"SSP": true, "STN": true, "SVC": true, "SYP": true, "SZL": true,
	"THB": true, "TJS": true, "TMT": true, "TND": true, "TOP": true,
	"TRY": true, "TTD": true, "TWD": true, "TZS": true, "UAH": true,
	"UGX": true, "USD": true, "UYU": true, "UZS": true, "VES": true,
	"VND": true, "VUV": true, "WST": true, "XAF": true, "XCD": true,
	"XOF": true, "XPF": true, "YER": true, "ZAR": true, "ZMW": true,
	"ZWL": true,
}

// customValidations maps tag names to their validation funcs.
var customValidations = map[string]validator.Func{
	"iso4217":          validateISO4217,
	"transaction_type": validateTransactionType,
	"reference_type":   validateReferenceType,
	"category_type":    validateCategoryType,
	"closing_date":     validateClosingDate,
	"chart_mode":       validateChartMode,
	"amount_digits":    validateAmountDigits,
}

var (
	standalone     *validator.Validate
	standaloneOnce sync.Once
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerAll(v)
	}
}

// Struct validates s outside of a Gin request using the same "binding" tags
// and custom validators.
func Struct(s interface{}) error {
	standaloneOnce.Do(initStandalone)
	return standalone.Struct(s)
}

// Var validates a single value against tag with the same custom validators.
func Var(field interface{}, tag string) error {
	standaloneOnce.Do(initStandalone)
	return standalone.Var(field, tag)
}

func initStandalone() {
	standalone = validator.New()
	standalone.SetTagName("binding")
	registerAll(standalone)
}

func registerAll(v *validator.Validate) {
	for tag, fn := range customValidations {
		_ = v.RegisterValidation(tag, fn)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

// validateTransactionType accepts the types a client may create. ADJUSTMENT
// is produced by the backend only.
func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INCOME", "EXPENSES", "TRANSFER", "SAVING", "LOAN":
		return true
	}
	return false
}

func validateReferenceType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "IN", "OUT":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INCOME", "EXPENSES":
		return true
	}
	return false
}

func validateClosingDate(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= 1 && n <= 31
}

func validateChartMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "MONTHLY", "YEARLY":
		return true
	}
	return false
}

// validateAmountDigits requires a display amount to contain at least one digit.
func validateAmountDigits(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
}
