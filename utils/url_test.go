package utils

import (
	"strings"
	"testing"
)

func TestValidateDownloadURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		// Allowed
		{"http://example.com/files/spec.pdf", false},
		{"https://storage.example.com/signed/spec.pdf?sig=abc", false},
		{"HTTPS://STORAGE.EXAMPLE.COM/FILE", false},

		// Blocked
		{"", true},
		{"file:///etc/passwd", true},
		{"ftp://evil.com/payload", true},
		{"data:text/plain,hello", true},
		{"javascript:alert(1)", true},
	}

	for _, tt := range tests {
		err := ValidateDownloadURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDownloadURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestEncodeURLWithSpaces(t *testing.T) {
	result, err := EncodeURLWithSpaces("http://storage.example.com/tender 42/technical spec.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, "tender%2042/technical%20spec.pdf") {
		t.Errorf("expected encoded spaces in path, got %q", result)
	}
}

func TestEncodeURLWithSpaces_Query(t *testing.T) {
	result, err := EncodeURLWithSpaces("https://storage.example.com/doc.pdf?name=my file")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, "name=my%20file") {
		t.Errorf("expected encoded query spaces, got %q", result)
	}
}
