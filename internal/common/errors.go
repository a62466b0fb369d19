package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")

	// Registration errors
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrDependencyRequired = errors.New("consultation requires gathering")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrNothingSelected    = errors.New("no offering selected")
	ErrModeNotAllowed     = errors.New("participation mode not allowed")
	ErrCheckoutFailed     = errors.New("checkout session failed")

	// Upload errors
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrTooManyFiles        = errors.New("too many files")

	// Content errors
	ErrInvalidPublishWindow = errors.New("publish start must be before publish end")
	ErrInvalidEventRange    = errors.New("event start must be before end")

	// Downstream errors
	ErrDownstream = errors.New("downstream service failed")
)

type errorMapping struct {
	err    error
	status int
	key    string
}

// order matters: the first match wins
var errorMappings = []errorMapping{
	{ErrNotFound, http.StatusNotFound, "error.not_found"},
	{ErrForbidden, http.StatusForbidden, "error.forbidden"},
	{ErrUnauthorized, http.StatusUnauthorized, "error.unauthorized"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "auth.login_failed"},
	{ErrExpiredToken, http.StatusUnauthorized, "auth.token_expired"},
	{ErrInvalidToken, http.StatusUnauthorized, "auth.token_invalid"},
	{ErrCapacityExceeded, http.StatusConflict, "registration.capacity_exceeded"},
	{ErrAlreadyRegistered, http.StatusConflict, "registration.already_registered"},
	{ErrDependencyRequired, http.StatusUnprocessableEntity, "registration.dependency_required"},
	{ErrNothingSelected, http.StatusUnprocessableEntity, "registration.nothing_selected"},
	{ErrModeNotAllowed, http.StatusUnprocessableEntity, "registration.mode_not_allowed"},
	{ErrCheckoutFailed, http.StatusBadGateway, "registration.checkout_failed"},
	{ErrFileTooLarge, http.StatusRequestEntityTooLarge, "upload.too_large"},
	{ErrUnsupportedFileType, http.StatusUnsupportedMediaType, "upload.unsupported_type"},
	{ErrTooManyFiles, http.StatusBadRequest, "upload.too_many_files"},
	{ErrInvalidPublishWindow, http.StatusBadRequest, "notice.invalid_window"},
	{ErrInvalidEventRange, http.StatusBadRequest, "event.invalid_range"},
	{ErrInvalidInput, http.StatusBadRequest, "error.validation"},
	{ErrDownstream, http.StatusBadGateway, "error.downstream"},
}

// StatusFor maps an error chain to its HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// MessageKey returns the i18n key describing err
func MessageKey(err error) string {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.key
		}
	}
	return "error.internal"
}

// ArgsError carries format arguments for the translated message of its wrapped error
type ArgsError struct {
	Err  error
	Args []interface{}
}

func (e *ArgsError) Error() string { return e.Err.Error() }
func (e *ArgsError) Unwrap() error { return e.Err }

// WithArgs wraps err with message arguments
func WithArgs(err error, args ...interface{}) error {
	return &ArgsError{Err: err, Args: args}
}
