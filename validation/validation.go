// Package validation checks field constraints declared with `validate` struct
// tags, reporting violations by their JSON member path.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Violation is a single failed constraint.
type Violation struct {
	Field   string // JSON member path, e.g. "phones[1].phone"
	Message string
}

// Error carries every violated constraint of a value.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Validator wraps a [validator.Validate] configured with JSON member names and
// the notblank constraint.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator. It is safe for concurrent use.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Validator{validate: validate}
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// Validate checks value, which must be a struct or a pointer to one. Constraint
// violations are returned as an [*Error].
func (v *Validator) Validate(value any) error {
	err := v.validate.Struct(value)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return &Error{Violations: violations}
}

// fieldPath drops the root type name validator prefixes namespaces with.
func fieldPath(namespace string) string {
	_, path, ok := strings.Cut(namespace, ".")
	if !ok {
		return namespace
	}
	return path
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " long"
	default:
		return fmt.Sprintf("failed the %q constraint", fe.Tag())
	}
}
