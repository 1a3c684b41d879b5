package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/audiovault/errors"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors for input that has no struct tags,
// such as a path taken from a request body or command line.
type Validator struct {
	errs []FieldError
}

// New returns an empty Validator.
func New() *Validator { return &Validator{} }

// Add records a failure for field.
func (v *Validator) Add(field, message string) *Validator {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
	return v
}

// Check records message for field unless ok.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.Add(field, message)
	}
	return v
}

// Required fails on an empty or blank value.
func (v *Validator) Required(field, value string) *Validator {
	return v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// MaxLen fails when value is longer than n bytes.
func (v *Validator) MaxLen(field, value string, n int) *Validator {
	return v.Check(len(value) <= n, field, fmt.Sprintf("must be at most %d bytes", n))
}

// Errors returns the failures recorded so far.
func (v *Validator) Errors() []FieldError { return v.errs }

// Err returns nil when nothing failed, otherwise an INVALID_INPUT error
// listing every failure.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return invalid(v.errs)
}

func invalid(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, f := range fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fields)
}

// MaxPathLen bounds paths accepted from API callers.
const MaxPathLen = 4096

// Path checks the shape of a path supplied by a caller. Whether it exists
// is left to the audio inspector.
func Path(field, value string) error {
	return New().Required(field, value).MaxLen(field, value, MaxPathLen).Err()
}
