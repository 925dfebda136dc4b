package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidManifest, cause, "failed to decode")

	if err.Code != ErrCodeInvalidManifest {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidManifest)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "INVALID_MANIFEST: failed to decode: underlying error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidRect, "test"), ErrCodeInvalidRect, true},
		{"different code", New(ErrCodeInvalidRect, "test"), ErrCodeNotFound, false},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := Wrap(ErrCodeSessionNotFound, errors.New("gone"), "session %s", "abc")
	if GetCode(err) != ErrCodeSessionNotFound {
		t.Errorf("GetCode() = %v", GetCode(err))
	}
	if UserMessage(err) != "session abc" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
	if UserMessage(errors.New("plain")) != "plain" {
		t.Error("UserMessage should pass plain errors through")
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode should be empty for plain errors")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(ErrCodeItemNotFound, "x")) {
		t.Error("item not found should be a not-found error")
	}
	if IsNotFound(New(ErrCodeInvalidInput, "x")) {
		t.Error("invalid input should not be a not-found error")
	}
}
