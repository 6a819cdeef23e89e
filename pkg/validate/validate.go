package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
	"github.com/go-playground/validator/v10"
)

var structValidator = newValidator()

// newValidator reports fields by their json (or form) name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

func IsLuhn(s string) bool {
	return goluhn.Validate(s) == nil
}

// LuhnDigit returns the check digit that makes s+digit pass IsLuhn.
func LuhnDigit(s string) (string, error) {
	digit, _, err := goluhn.Calculate(s)
	return digit, err
}

// Struct checks the `validate` tags of v and returns one readable message
// per failed field.
func Struct(v any) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return field + " must contain digits only"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
