package utils

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// SanitizeFilename turns a backend-suggested filename into a safe local
// one: unicode is normalized and transliterated to ASCII, path separators
// and control characters are stripped, and leading dots are dropped so the
// result can never escape the download directory or hide itself.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(name)
	name = unidecode.Unidecode(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':':
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f:
			// drop control characters
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return "download"
	}
	return cleaned
}
