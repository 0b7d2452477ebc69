// Package payment holds the error taxonomy shared by the intent service and
// the callback handler.
package payment

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation          Kind = "validation"
	KindConfiguration       Kind = "configuration"
	KindUpstream            Kind = "upstream"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindSignature           Kind = "signature"
	KindUnhandled           Kind = "unhandled"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrMissingEmail     = errors.New("email is required")
	ErrAmountMismatch   = errors.New("amount does not match offering")
	ErrUnknownOffering  = errors.New("unknown offering")
	ErrNotConfigured    = errors.New("payment system not configured")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Error carries a public message safe for clients next to the detail that
// only goes to the logs.
type Error struct {
	Kind          Kind
	StatusCode    int
	PublicError   string
	InternalError string
	Err           error
}

func (e *Error) Error() string {
	if e.InternalError != "" {
		return e.InternalError
	}
	return e.PublicError
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(public string, err error) *Error {
	return &Error{
		Kind:          KindValidation,
		StatusCode:    http.StatusBadRequest,
		PublicError:   public,
		InternalError: fmt.Sprintf("validation: %v", err),
		Err:           err,
	}
}

func Configuration(public, internal string) *Error {
	return &Error{
		Kind:          KindConfiguration,
		StatusCode:    http.StatusInternalServerError,
		PublicError:   public,
		InternalError: internal,
		Err:           ErrNotConfigured,
	}
}

// Upstream is a processor rejection; its message is already buyer-facing.
func Upstream(message string, err error) *Error {
	return &Error{
		Kind:          KindUpstream,
		StatusCode:    http.StatusBadRequest,
		PublicError:   message,
		InternalError: fmt.Sprintf("processor rejected request: %v", err),
		Err:           err,
	}
}

func UpstreamUnavailable(err error) *Error {
	return &Error{
		Kind:          KindUpstreamUnavailable,
		StatusCode:    http.StatusInternalServerError,
		PublicError:   "Payment processor unavailable. Please try again.",
		InternalError: fmt.Sprintf("processor call failed: %v", err),
		Err:           err,
	}
}

func Signature(internal string) *Error {
	return &Error{
		Kind:          KindSignature,
		StatusCode:    http.StatusBadRequest,
		PublicError:   "Invalid signature",
		InternalError: internal,
		Err:           ErrInvalidSignature,
	}
}

func Unhandled(err error) *Error {
	return &Error{
		Kind:          KindUnhandled,
		StatusCode:    http.StatusInternalServerError,
		PublicError:   "Internal error",
		InternalError: fmt.Sprintf("unhandled: %v", err),
		Err:           err,
	}
}

// AsError maps any error onto the taxonomy; unknown errors are unhandled.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return Unhandled(err)
}
