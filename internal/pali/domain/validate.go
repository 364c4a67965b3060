package domain

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// RegisterWithValidator adds the domain's custom validation tags to v.
func RegisterWithValidator(v *validator.Validate) error {
	return v.RegisterValidation("key_role", validateKeyRole)
}

func validateKeyRole(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.String:
		return Role(fl.Field().String()).Valid()
	default:
		return false
	}
}
