// Package validate checks request payloads against the rules declared in
// their `validate` struct tags before anything reaches a store.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DateLayout is the only date form accepted on input.
const DateLayout = models.DateLayout

// Custom rules registered on top of the validator builtins.
const (
	// RuleUUID accepts the hyphenated 8-4-4-4-12 hex form in either letter
	// case. The builtin uuid rule only accepts lower case.
	RuleUUID = "uuid_any"
	// RuleTimestamp accepts the ISO-8601 forms understood by
	// models.ParseTimestamp.
	RuleTimestamp = "iso8601"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names instead of Go field names.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	mustRegister(val, RuleUUID, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
	mustRegister(val, RuleTimestamp, func(fl validator.FieldLevel) bool {
		_, err := models.ParseTimestamp(fl.Field().String())
		return err == nil
	})
	return val
}

func mustRegister(val *validator.Validate, tag string, fn validator.Func) {
	if err := val.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %s: %v", tag, err))
	}
}

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned for malformed or missing input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates s against its struct tags.
func Struct(s any) error {
	return convert(v.Struct(s), "")
}

// Var validates a single value, such as a path parameter, under field name.
func Var(field string, value any, rules string) error {
	return convert(v.Var(value, rules), field)
}

// ID checks that value is a hyphenated UUID in either letter case. The value
// itself is never normalized.
func ID(field, value string) error {
	return Var(field, value, "required,"+RuleUUID)
}

func convert(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = fieldPath(fe.Namespace())
		}
		out.Fields = append(out.Fields, FieldError{
			Field:   name,
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name from a namespace like
// "CreateTweetRequest.by.user_id".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "value is not a valid email address"
	case "uuid", RuleUUID:
		return "value is not a valid uuid"
	case "datetime":
		if fe.Param() == DateLayout {
			return "invalid date format, expected YYYY-MM-DD"
		}
		return "invalid datetime format"
	case RuleTimestamp:
		return "invalid datetime format, expected ISO-8601"
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}
