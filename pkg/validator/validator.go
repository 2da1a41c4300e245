package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground struct validation behind a small surface.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{
		v: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks the struct's `validate` tags.
func (x *Validator) Validate(obj interface{}) error {
	return x.v.Struct(obj)
}

// Var validates a single value against a rule string.
func (x *Validator) Var(value interface{}, rules string) error {
	return x.v.Var(value, rules)
}
