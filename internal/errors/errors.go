// Package errors provides the classified error types shared by the ledger
// client, the sync core, and the fake ledger service. Every failure that
// crosses a component boundary is an *AppError so callers can branch on the
// error code instead of matching message strings.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Client-side failure taxonomy.
var (
	ErrUnauthenticated   = &AppError{Code: "UNAUTHENTICATED", Message: "No active session", StatusCode: http.StatusUnauthorized}
	ErrInvalidOrder      = &AppError{Code: "INVALID_ORDER", Message: "Invalid trade order", StatusCode: http.StatusBadRequest}
	ErrQuoteNotFound     = &AppError{Code: "QUOTE_NOT_FOUND", Message: "No data found for ticker", StatusCode: http.StatusNotFound}
	ErrRemoteUnavailable = &AppError{Code: "REMOTE_UNAVAILABLE", Message: "Ledger service unavailable", StatusCode: http.StatusServiceUnavailable}
	ErrMalformedResponse = &AppError{Code: "MALFORMED_RESPONSE", Message: "Unexpected response from ledger service", StatusCode: http.StatusBadGateway}
)

// Ledger service errors.
var (
	ErrUnknownTicker        = &AppError{Code: "UNKNOWN_TICKER", Message: "No data found for ticker", StatusCode: http.StatusNotFound}
	ErrInsufficientHoldings = &AppError{Code: "INSUFFICIENT_HOLDINGS", Message: "Insufficient stocks to sell", StatusCode: http.StatusBadRequest}
)

// Is reports whether err carries the same error code as the sentinel.
// AppErrors compare by code, not by pointer, because Wrap and WithMessage
// return new instances.
func Is(err error, sentinel *AppError) bool {
	appErr := From(err)
	return appErr != nil && appErr.Code == sentinel.Code
}

// From extracts the *AppError from err's chain, or nil if there is none.
func From(err error) *AppError {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = u.Unwrap()
	}
	return nil
}
