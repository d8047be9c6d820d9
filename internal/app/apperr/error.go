// Package apperr holds the application-layer error shape shared by the
// workflow and the families service. Errors carry an HTTP-like status so
// adapters can map them without knowing each use case.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	CodeValidation = "VALIDATION_ERROR"
)

// Error is an application-layer error that can be mapped to an HTTP response
// or rendered next to form fields.
type Error struct {
	Status  int
	Code    string
	Message string
	// Details maps a field path (e.g. "members[0].name") to a message.
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Validation builds a 422 error. fields maps field path to message.
func Validation(message string, fields map[string]string) *Error {
	details := make(map[string]any, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

// Field is shorthand for a validation error on a single field.
func Field(field, message string) *Error {
	return Validation(fmt.Sprintf("invalid %s", field), map[string]string{field: message})
}

// OneOf is the message for a value outside a closed set.
func OneOf[T ~string](allowed []T) string {
	parts := make([]string, 0, len(allowed))
	for _, a := range allowed {
		parts = append(parts, string(a))
	}
	return "must be one of " + strings.Join(parts, ", ")
}

func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	ae := (*Error)(nil)
	return errors.As(err, &ae) && ae.Code == code
}

// FieldErrors returns the field-level messages carried by err, or nil when
// err is not a validation error.
func FieldErrors(err error) map[string]string {
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != CodeValidation {
		return nil
	}
	out := make(map[string]string, len(ae.Details))
	for k, v := range ae.Details {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// SortedFields returns the field paths of a validation error in stable order.
func SortedFields(err error) []string {
	fe := FieldErrors(err)
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
