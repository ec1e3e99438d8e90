package errors

import (
	"testing"
)

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "exports/1/report.pdf", false},
		{"nested", "exports/42/2025/tree.png", false},
		{"uuid", "exports/7/6f1c1f2e-1b7a-4c4e-9f0e-4f4c1a0b9d11.pdf", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "exports/../secrets", true},
		{"backslash", "exports\\1", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateObjectKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateObjectKey(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateSerNo(t *testing.T) {
	tests := []struct {
		serNo   int
		wantErr bool
	}{
		{1, false},
		{9999, false},
		{0, true},
		{-3, true},
	}

	for _, tt := range tests {
		err := ValidateSerNo(tt.serNo)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSerNo(%d) error = %v, wantErr %v", tt.serNo, err, tt.wantErr)
		}
	}
}
