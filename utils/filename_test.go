package utils

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "spec.pdf", "spec.pdf"},
		{"path separators", "../../etc/passwd", "_.._etc_passwd"},
		{"windows separators", `reports\q1:final.xlsx`, "reports_q1_final.xlsx"},
		{"unicode transliterated", "приложение 3.docx", "prilozhenie 3.docx"},
		{"control characters dropped", "spec\x00\x1f.pdf", "spec.pdf"},
		{"leading dots stripped", "...hidden.pdf", "hidden.pdf"},
		{"whitespace trimmed", "  offer.pdf  ", "offer.pdf"},
		{"empty falls back", "", "download"},
		{"only dots falls back", "...", "download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
