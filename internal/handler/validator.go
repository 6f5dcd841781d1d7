package handler

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts validator/v10 to echo.Validator.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
