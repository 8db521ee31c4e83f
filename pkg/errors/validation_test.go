package errors

import (
	"strings"
	"testing"
)

func TestValidateLogN(t *testing.T) {
	tests := []struct {
		name    string
		logN    int
		limit   int
		wantErr bool
	}{
		{"zero", 0, 10, false},
		{"typical", 3, 10, false},
		{"at limit", 10, 10, false},
		{"negative", -1, 10, true},
		{"above limit", 11, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogN(tt.logN, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLogN(%d, %d) error = %v, wantErr %v", tt.logN, tt.limit, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidArgument) {
				t.Errorf("ValidateLogN(%d, %d) code = %v, want %v", tt.logN, tt.limit, GetCode(err), ErrCodeInvalidArgument)
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
		{"relative", "out/butterfly.svg", false},
		{"absolute", "/tmp/butterfly.svg", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
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

func TestValidateRedisAddr(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"localhost:6379", false},
		{"10.0.0.1:6380", false},
		{"", true},
		{"localhost", true},
		{":6379", true},
		{"localhost:", true},
		{"localhost:abc", true},
	}

	for _, tt := range tests {
		err := ValidateRedisAddr(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRedisAddr(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
