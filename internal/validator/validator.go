// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"divscout/internal/dividend"
	"divscout/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cadence", validateCadence)
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("month", validateMonth)
	}
}

func validateCadence(fl validator.FieldLevel) bool {
	return dividend.Cadence(fl.Field().String()).Valid()
}

func validateTicker(fl validator.FieldLevel) bool {
	return models.ValidTicker(models.NormalizeTicker(fl.Field().String()))
}

func validateMonth(fl validator.FieldLevel) bool {
	m := fl.Field().Int()
	return m >= 1 && m <= 12
}
