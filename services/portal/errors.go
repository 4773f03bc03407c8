package portal

import (
	"errors"
	"fmt"
)

// ErrMissingDownloadURL is returned when a secure-link response parses as
// JSON but carries no download_url field.
var ErrMissingDownloadURL = errors.New("link response missing download_url")

// APIError carries the HTTP status and the backend's own message for a
// failed call. The message is surfaced verbatim to callers.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("portal api error: status %d: %s", e.StatusCode, e.Message)
}

// HTMLResponseError indicates the backend answered with an HTML page where
// JSON was expected. This is the signature of an auth middleware serving a
// login page, so callers treat it as an expired session.
type HTMLResponseError struct {
	PageTitle string
}

func (e *HTMLResponseError) Error() string {
	if e.PageTitle != "" {
		return fmt.Sprintf("received HTML page %q instead of JSON", e.PageTitle)
	}
	return "received HTML page instead of JSON"
}

// IsHTMLResponse reports whether err wraps an HTMLResponseError.
func IsHTMLResponse(err error) bool {
	var htmlErr *HTMLResponseError
	return errors.As(err, &htmlErr)
}
