package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateDownloadURL rejects signed URLs with schemes other than
// http/https. The backend only ever issues http(s) links, so anything else
// points at a tampered or corrupted response.
func ValidateDownloadURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty download url")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse download url: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	return nil
}

// EncodeURLWithSpaces properly encodes a URL that may contain unencoded spaces.
// Some storage backends sign URLs with raw spaces in the object path, which
// need to be %20 encoded before the HTTP fetch.
func EncodeURLWithSpaces(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	// Build URL with properly encoded path and query
	encoded := parsedURL.Scheme + "://" + parsedURL.Host + parsedURL.EscapedPath()
	if parsedURL.RawQuery != "" {
		// Encode spaces in query string as %20
		encodedQuery := strings.ReplaceAll(parsedURL.RawQuery, " ", "%20")
		encoded += "?" + encodedQuery
	}
	return encoded, nil
}
