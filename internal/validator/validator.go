// Package validator provides custom validation functions shared by the sync
// core's local order validation and the fake ledger's request binding.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Tickers are 1-10 letters, optionally with a dot-separated class suffix
// (e.g. BRK.B). Case-insensitive; normalization to uppercase happens later.
var tickerRegex = regexp.MustCompile(`^[A-Za-z]{1,10}(\.[A-Za-z]{1,4})?$`)

// New returns a standalone validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	registerAll(v)
	return v
}

// RegisterBinding registers the custom rules with Gin's binding engine.
func RegisterBinding() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerAll(v)
	}
}

func registerAll(v *validator.Validate) {
	_ = v.RegisterValidation("ticker", validateTicker)
	_ = v.RegisterValidation("trade_action", validateTradeAction)
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}

func validateTradeAction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "buy", "sell":
		return true
	}
	return false
}
