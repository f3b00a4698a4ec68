package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so transport layers can map it to a consistent
// HTTP status without inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidInput
	KindExternalService
	KindSignatureInvalid
)

// Error carries a kind plus an operator-facing message. Forbidden errors also
// name the permission the caller was missing so the UI can explain the denial.
type Error struct {
	Kind       Kind
	Message    string
	Permission string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(permission, message string) *Error {
	return &Error{Kind: KindForbidden, Message: message, Permission: permission}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

func ExternalService(message string, err error) *Error {
	return &Error{Kind: KindExternalService, Message: message, Err: err}
}

func SignatureInvalid(message string) *Error {
	return &Error{Kind: KindSignatureInvalid, Message: message}
}

// KindOf extracts the kind from an error chain, KindUnknown if none applies.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error kind to the status the API surface returns.
// Signature failures are a 400 by contract with the payment provider.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput, KindSignatureInvalid:
		return http.StatusBadRequest
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
