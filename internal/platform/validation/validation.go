// Package validation checks request payloads with go-playground/validator and
// reports the first failing field as a *Error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every *Error produced from struct tags.
var ErrInvalid = errors.New("invalid input")

// Error is a field-level validation failure. Code is a stable machine-readable
// identifier for the rule; Err lets callers use errors.Is.
type Error struct {
	Field   string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a field error for a rule sentinel.
func NewError(field, code string, rule error, message string) *Error {
	return &Error{Field: field, Code: code, Message: message, Err: rule}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", notBlank)
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates s against its `validate` tags.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	fe := verrs[0]
	return &Error{Field: fieldPath(fe), Code: fe.Tag(), Message: message(fe), Err: ErrInvalid}
}

// fieldPath drops the top-level struct name from the namespace,
// e.g. "createInput.consultation_modes[0]" -> "consultation_modes[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "unique":
		return "must not contain duplicates"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
