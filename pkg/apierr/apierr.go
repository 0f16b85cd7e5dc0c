// Package apierr defines the error kinds that cross the service/handler
// boundary and the HTTP status each one maps to.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindUpstream   Kind = "upstream"
	KindStore      Kind = "store"
	KindTransport  Kind = "transport"
)

// Error is a classified failure. Message is safe to return to clients;
// Err holds the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Fields names the offending input fields of a validation error.
	Fields []string
	// Index is the position of the offending item, or -1.
	Index  int
	Detail any
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input.
func Validation(message string, fields ...string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: message,
		Fields:  fields,
		Index:   -1,
	}
}

// MissingFields reports the fields absent from the item at index.
func MissingFields(index int, missing []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Missing fields in item[%d]: %s", index, strings.Join(missing, ", ")),
		Fields:  missing,
		Index:   index,
	}
}

// Upstream reports a non-success answer from an external dependency.
// A status outside the 4xx/5xx range becomes 502.
func Upstream(status int, message string, detail any, err error) *Error {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	return &Error{
		Kind:    KindUpstream,
		Status:  status,
		Message: message,
		Index:   -1,
		Detail:  detail,
		Err:     err,
	}
}

// Store reports a persistence failure.
func Store(message string, err error) *Error {
	return &Error{
		Kind:    KindStore,
		Status:  http.StatusInternalServerError,
		Message: message,
		Index:   -1,
		Err:     err,
	}
}

// Transport reports a network failure reaching an external dependency.
func Transport(message string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: message,
		Index:   -1,
		Err:     err,
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
