package services

import (
	"errors"
	"testing"
)

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("db down")
	appErr := newAppError(500, "failed to save approved frames", cause)

	if appErr.Error() == "" {
		t.Fatalf("expected non-empty message")
	}
	if !errors.Is(appErr, cause) {
		t.Fatalf("expected wrapped cause")
	}

	bare := newAppError(404, "job not found", nil)
	if bare.Error() != "job not found" {
		t.Fatalf("unexpected message: %q", bare.Error())
	}
	if errors.Unwrap(bare) != nil {
		t.Fatalf("expected no cause")
	}
}

func TestAppErrorWithData(t *testing.T) {
	appErr := newAppErrorWithData(400, "job not ready for approval", map[string]string{"status": "processing"}, nil)
	if appErr.Data == nil {
		t.Fatalf("expected data payload")
	}
	if appErr.HTTPCode != 400 {
		t.Fatalf("expected 400, got %d", appErr.HTTPCode)
	}
}
