// Package apperr defines the failures raised by services. Every failure that
// reaches the HTTP boundary either carries a Kind or is treated as unexpected.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the closed set of failure categories.
type Kind uint8

const (
	Unexpected Kind = iota
	MissingParameter
	MissingBody
	EmptyUpdate
	InvalidAction
	Unauthorized
	Forbidden
	NotFound
	Conflict
	Unprocessable
	UnknownError
)

var kindNames = map[Kind]string{
	Unexpected:       "unexpected",
	MissingParameter: "missing_parameter",
	MissingBody:      "missing_body",
	EmptyUpdate:      "empty_update",
	InvalidAction:    "invalid_action",
	Unauthorized:     "unauthorized",
	Forbidden:        "forbidden",
	NotFound:         "not_found",
	Conflict:         "conflict",
	Unprocessable:    "unprocessable",
	UnknownError:     "unknown_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unexpected"
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case MissingParameter, MissingBody, EmptyUpdate, InvalidAction:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unprocessable, UnknownError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a target of the same kind. A target without a message matches
// every error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e.Kind != t.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

func (e *Error) Status() int {
	return e.Kind.Status()
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NewMissingParameter() *Error { return New(MissingParameter, "Missing parameter/s") }

func NewMissingBody() *Error { return New(MissingBody, "Missing request body") }

func NewEmptyUpdate() *Error { return New(EmptyUpdate, "Updates can't be null") }

func NewInvalidAction() *Error { return New(InvalidAction, "Invalid action") }

func NewUnauthorized(message string) *Error { return New(Unauthorized, message) }

func NewForbidden(message string) *Error { return New(Forbidden, message) }

func NewNotFound(message string) *Error { return New(NotFound, message) }

func NewConflict(message string) *Error { return New(Conflict, message) }

func NewUnprocessable(message string) *Error { return New(Unprocessable, message) }

func NewUnknown() *Error { return New(UnknownError, "Unknown error occured") }

// KindOf returns the kind of the first *Error in err's chain, or Unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// StatusOf returns the HTTP status for err. Untagged errors are 500.
func StatusOf(err error) int {
	return KindOf(err).Status()
}

// MessageOf returns the user-facing message for err. Untagged errors never
// expose their text.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
