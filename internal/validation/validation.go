// Package validation collects per-field failures from entity validators into a
// single error value.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is an ordered list of field failures. The zero value holds none.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

func (e *Errors) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field already failed, so later rules for it can be skipped.
func (e *Errors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when nothing failed.
func (e *Errors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Check runs a single validator tag against v and records message on failure.
func (e *Errors) Check(field string, v any, tag, message string) {
	if e.Has(field) {
		return
	}
	if err := validate.Var(v, tag); err != nil {
		e.Add(field, message)
	}
}

// Required records message when s is blank.
func (e *Errors) Required(field, s, message string) {
	if strings.TrimSpace(s) == "" {
		e.Add(field, message)
	}
}

// MaxLen records message when s is longer than n characters.
func (e *Errors) MaxLen(field, s string, n int, message string) {
	if e.Has(field) {
		return
	}
	if len([]rune(s)) > n {
		e.Add(field, message)
	}
}
