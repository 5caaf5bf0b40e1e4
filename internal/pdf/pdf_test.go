// ABOUTME: Tests for PDF signature validation on byte slices and files.
// ABOUTME: Exercises valid headers, truncated input, and non-PDF content.
package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"pdf header", []byte("%PDF-1.7\n..."), true},
		{"exact signature", []byte("%PDF-"), true},
		{"html body", []byte("<html>not found</html>"), false},
		{"truncated", []byte("%PD"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.data); got != tt.want {
				t.Errorf("Valid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.pdf")
	if err := os.WriteFile(good, []byte("%PDF-1.4 content"), 0644); err != nil {
		t.Fatal(err)
	}
	if !ValidFile(good) {
		t.Error("expected valid file to pass")
	}

	bad := filepath.Join(dir, "bad.pdf")
	if err := os.WriteFile(bad, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}
	if ValidFile(bad) {
		t.Error("expected non-PDF file to fail")
	}

	if ValidFile(filepath.Join(dir, "missing.pdf")) {
		t.Error("expected missing file to fail")
	}
}
