// Package testutil provides shared test assertions.
package testutil

import (
	"testing"

	apperrors "github.com/Nike682631/robinhood/internal/errors"
)

// AssertAppError checks that err carries the sentinel's error code.
func AssertAppError(t *testing.T, err error, want *apperrors.AppError) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", want.Code)
	}
	if apperrors.Is(err, want) {
		return
	}
	if appErr := apperrors.From(err); appErr != nil {
		t.Errorf("expected error code %q, got %q (message: %s)", want.Code, appErr.Code, appErr.Message)
		return
	}
	t.Fatalf("expected *AppError with code %q, got %T: %v", want.Code, err, err)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
