package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterCustomValidations installs the decimal validators used by the
// binding tags in this package into gin's validator engine. Called once
// from main before routes are registered.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// nonzero_decimal rejects zero quantities; sign is deliberately not
	// checked, negative lines are legal and flow into the aggregates.
	return v.RegisterValidation("nonzero_decimal", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		return !value.IsZero()
	})
}
