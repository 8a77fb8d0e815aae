package handler

import "github.com/go-playground/validator/v10"

// Validator plugs go-playground/validator into echo's Bind/Validate
// cycle.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
