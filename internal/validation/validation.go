// Package validation wraps go-playground/validator behind a tagged parse
// result: either a typed value or a field-level error list. All external
// inputs (webhook bodies, form bodies) go through it so malformed input is
// reported uniformly.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	upiPattern  = regexp.MustCompile(`^\w+@[\w.]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// payout destination formats carried over from the bank details schema
	_ = v.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
		return ifscPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("upi", func(fl validator.FieldLevel) bool {
		return upiPattern.MatchString(fl.Field().String())
	})
	return v
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a validation failure with per-field detail. It satisfies the
// error interface so services can return it directly.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Struct validates v against its struct tags. Returns nil when valid.
func Struct(v interface{}) *Error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Error{Fields: []FieldError{{Field: "_", Message: err.Error()}}}
	}
	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// ParseJSON unmarshals raw into T and validates it. Exactly one of the
// results is non-nil.
func ParseJSON[T any](raw []byte) (*T, *Error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &Error{Fields: []FieldError{{Field: "_", Message: "malformed JSON: " + err.Error()}}}
	}
	if verr := Struct(&v); verr != nil {
		return nil, verr
	}
	return &v, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "ifsc":
		return "must be in format AAAA0XXXXXX"
	case "upi":
		return "must be in format name@bank"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
