package common

import (
	"errors"
	"net/http"
)

// ErrorKind classifies every failure a service operation can surface. Each
// kind is produced at exactly one boundary.
type ErrorKind string

const (
	ErrInvalidToken         ErrorKind = "invalid_token"
	ErrTokenExpiredCrypto   ErrorKind = "token_expired"
	ErrTokenExpiredInStore  ErrorKind = "token_expired_in_store"
	ErrTokenThrottled       ErrorKind = "token_creation_throttled"
	ErrUserAlreadyActivated ErrorKind = "user_already_activated"
	ErrNotAMember           ErrorKind = "not_a_member"
	ErrForbidden            ErrorKind = "forbidden"
	ErrIllegalTransition    ErrorKind = "illegal_transition"
	ErrLastSupervisor       ErrorKind = "last_supervisor"
	ErrInsufficientFunds    ErrorKind = "insufficient_funds"
	ErrNotDonatable         ErrorKind = "fundraise_not_donatable"
	ErrConflict             ErrorKind = "conflict"
	ErrCancelled            ErrorKind = "cancelled"
	ErrNotFound             ErrorKind = "not_found"
	ErrInvalidInput         ErrorKind = "invalid_input"
	ErrUnauthorized         ErrorKind = "unauthorized"
	ErrInternal             ErrorKind = "internal"
)

// ServiceError is the typed failure every service returns. The HTTP adapter
// maps it onto the response envelope without inspecting the message.
type ServiceError struct {
	Kind   ErrorKind
	Detail string
	cause  error
}

func (e *ServiceError) Error() string { return e.Detail }

func (e *ServiceError) Unwrap() error { return e.cause }

// NewServiceError builds a ServiceError of the given kind.
func NewServiceError(kind ErrorKind, detail string) *ServiceError {
	return &ServiceError{Kind: kind, Detail: detail}
}

// WrapServiceError keeps the underlying error reachable via errors.Unwrap.
func WrapServiceError(kind ErrorKind, detail string, cause error) *ServiceError {
	return &ServiceError{Kind: kind, Detail: detail, cause: cause}
}

// KindOf extracts the kind from any error in the chain; unknown errors are
// classed as internal.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrInternal
}

var kindStatus = map[ErrorKind]int{
	ErrInvalidToken:         http.StatusBadRequest,
	ErrTokenExpiredCrypto:   http.StatusBadRequest,
	ErrTokenExpiredInStore:  http.StatusBadRequest,
	ErrTokenThrottled:       http.StatusBadRequest,
	ErrUserAlreadyActivated: http.StatusBadRequest,
	ErrNotAMember:           http.StatusUnauthorized,
	ErrForbidden:            http.StatusUnauthorized,
	ErrIllegalTransition:    http.StatusBadRequest,
	ErrLastSupervisor:       http.StatusBadRequest,
	ErrInsufficientFunds:    http.StatusForbidden,
	ErrNotDonatable:         http.StatusForbidden,
	ErrConflict:             http.StatusConflict,
	ErrCancelled:            499,
	ErrNotFound:             http.StatusNotFound,
	ErrInvalidInput:         http.StatusBadRequest,
	ErrUnauthorized:         http.StatusUnauthorized,
	ErrInternal:             http.StatusInternalServerError,
}

// HTTPStatus maps an error kind to the wire status code.
func HTTPStatus(kind ErrorKind) int {
	if code, ok := kindStatus[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}
