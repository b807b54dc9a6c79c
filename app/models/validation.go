package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// enumTags maps validation tags to the enum they check.
var enumTags = map[string]func(string) bool{
	"level":     IsValidLevel,
	"kind":      IsValidKind,
	"mode":      IsValidMode,
	"flag":      IsValidFlag,
	"platform":  IsValidPlatform,
	"status":    IsValidStatus,
	"itemfield": IsValidField,
}

// RegisterValidations teaches v the enum tags used on the model structs.
func RegisterValidations(v *validator.Validate) error {
	for tag, valid := range enumTags {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// NewValidator returns a validator with the enum tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
