// Package apperr defines the error taxonomy shared by the API client,
// the relationship resolver and reconciler, and the CLI.
//
// Every network operation returns (T, error). Callers inspect the error
// kind with KindOf or Is and decide themselves whether to retry; nothing
// in the data-access layer retries implicitly.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for programmatic handling.
type Kind int

const (
	// KindUnknown is returned by KindOf for nil or foreign errors.
	KindUnknown Kind = iota
	// KindNetwork covers transport failures and non-2xx answers.
	KindNetwork
	// KindAuth means the bearer token is missing, expired or rejected.
	KindAuth
	// KindNotFound means the referenced profile or connection is absent.
	KindNotFound
	// KindValidation is a client-side input error; no request was sent.
	KindValidation
	// KindConflict means the backend refused a duplicate (source, target) pair.
	KindConflict
)

// String returns the kind as an upper-case token for logs.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "NETWORK"
	case KindAuth:
		return "AUTH"
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION"
	case KindConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// Error is the concrete error type carried through the client stack.
type Error struct {
	// Kind categorizes the error.
	Kind Kind
	// Op names the failed operation, e.g. "list connections".
	Op string
	// Status is the HTTP status when the backend answered, 0 otherwise.
	Status int
	// Message is the backend's error text or a client-side description.
	Message string
	// Fields holds per-field violations for KindValidation.
	Fields map[string]string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Network wraps a transport failure.
func Network(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// Status builds an error from a non-2xx HTTP answer, picking the kind
// from the status code.
func Status(op string, status int, message string) *Error {
	kind := KindNetwork
	switch status {
	case 401:
		kind = KindAuth
	case 404:
		kind = KindNotFound
	case 409:
		kind = KindConflict
	}
	return &Error{Kind: kind, Op: op, Status: status, Message: message}
}

// Auth reports a missing or unusable credential.
func Auth(op, message string) *Error {
	return &Error{Kind: KindAuth, Op: op, Message: message}
}

// Validation reports client-side violations keyed by field name.
func Validation(op string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: "invalid input", Fields: fields}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
