// Package dto contains the create, update and return shapes of the domain entities, the mapping
// functions between them, and the validation rules for incoming requests.
package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prior-it/crud/core"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their label if they have one, e.g. "Person Name"
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); len(label) > 0 {
			return label
		}
		return field.Name
	})
	if err := v.RegisterValidation("password", validatePassword); err != nil {
		panic(err)
	}
	return v
}

// Validate checks all validation rules of the specified request and returns a *core.ValidationError
// that lists every violated rule, or nil if the request is valid.
func Validate(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("cannot validate %T: %w", request, err)
	}
	fields := make([]core.FieldError, 0, len(fieldErrors))
	for _, e := range fieldErrors {
		fields = append(fields, core.FieldError{
			Field:   e.StructField(),
			Rule:    e.Tag(),
			Message: message(e),
		})
	}
	return &core.ValidationError{Fields: fields}
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s can't be blank", e.Field())
	case "email":
		return fmt.Sprintf("%s should be a valid email", e.Field())
	case "max":
		return fmt.Sprintf("%s can't be longer than %s characters", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf(
			"%s should be one of %s",
			e.Field(),
			strings.Join(strings.Fields(e.Param()), ", "),
		)
	case "min":
		return fmt.Sprintf("%s should be at least %s characters", e.Field(), e.Param())
	case "password":
		return fmt.Sprintf(
			"%s needs a lowercase letter, an uppercase letter, a digit and a symbol",
			e.Field(),
		)
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
