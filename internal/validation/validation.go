// Package validation wraps go-playground/validator with field errors keyed by JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// Error carries per-field validation messages.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return newError(verrs)
		}
		return err
	}
	return nil
}

// Var validates a single value against a tag expression, reporting it under field.
func Var(field string, v any, tag string) error {
	if err := validate.Var(v, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &Error{
				Message: "validation failed",
				Fields:  map[string]string{field: message(field, verrs[0].Tag(), verrs[0].Param())},
			}
		}
		return err
	}
	return nil
}

// Fields returns the field messages of a validation error, or nil.
func Fields(err error) map[string]string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

func newError(errs validator.ValidationErrors) *Error {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = message(e.Field(), e.Tag(), e.Param())
	}
	return &Error{Message: "validation failed", Fields: fields}
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	default:
		return fmt.Sprintf("%s failed on '%s'", field, tag)
	}
}
