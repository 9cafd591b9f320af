package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "mayor", false},
		{"valid with dash", "city-council", false},
		{"valid with underscore", "1_en", false},
		{"valid with dot", "prop.1", false},
		{"valid numeric", "42", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"leading dash", "-mayor", true},
		{"space", "city council", true},
		{"slash", "a/b", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("contest", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidElection) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidElection)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid file", "ballot-1_en.pdf", false},
		{"valid nested", "out/precinct/ballot.pdf", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "out/../../etc", true},
		{"backslash", "out\\ballot.pdf", true},
		{"control char", "out\x01.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
