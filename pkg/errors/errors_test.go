package errors

import (
	"errors"
	"fmt"
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

func TestWith(t *testing.T) {
	err := New(ErrCodeLayoutImpossible, "contest does not fit").
		With("ballot_style", "1_en").
		With("page", 3)

	expected := "LAYOUT_IMPOSSIBLE: contest does not fit (ballot_style=1_en page=3)"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	v, ok := err.Field("page")
	if !ok || v != 3 {
		t.Errorf("Field(page) = %v, %v; want 3, true", v, ok)
	}
	if _, ok := err.Field("contest"); ok {
		t.Error("Field(contest) found, want missing")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodePreconditionFailed, cause, "failed to read base pdf")

	if err.Code != ErrCodePreconditionFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePreconditionFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "PRECONDITION_FAILED: failed to read base pdf: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestCodeLookup(t *testing.T) {
	fitErr := New(ErrCodeLayoutImpossible, "contest too tall").With("contest", "council")
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", fitErr, ErrCodeLayoutImpossible, "contest too tall"},
		{"outermost code wins", Wrap(ErrCodeGeometryMismatch, fitErr, "variant differs"), ErrCodeGeometryMismatch, "variant differs"},
		{"fmt wrapped", fmt.Errorf("build 1_en: %w", fitErr), ErrCodeLayoutImpossible, "contest too tall"},
		{"plain", errors.New("disk full"), "", "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeNotFound) {
				t.Error("Is(NOT_FOUND) = true")
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
			if e, ok := As(tt.err); ok != (tt.code != "") || (ok && e.Code != tt.code) {
				t.Errorf("As() = %v, %v", e, ok)
			}
		})
	}
	if GetCode(nil) != "" || Is(nil, ErrCodeInvalidInput) {
		t.Error("nil error has a code")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeLayoutImpossible, true},
		{ErrCodeGeometryMismatch, true},
		{ErrCodePreconditionFailed, true},
		{ErrCodeUnsupported, true},
		{ErrCodeInvalidInput, false},
		{ErrCodeNotFound, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsFatal(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsFatal(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
	if IsFatal(errors.New("plain")) {
		t.Error("IsFatal(plain) = true, want false")
	}
}
