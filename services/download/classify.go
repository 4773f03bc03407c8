package download

import (
	"errors"
	"net/http"

	"tenderdesk/services/portal"
)

// classifyLinkError maps a failed secure-link request onto the user-facing
// taxonomy. The mapping is pure: the same error always classifies the same
// way.
func classifyLinkError(err error) *Error {
	var htmlErr *portal.HTMLResponseError
	if errors.As(err, &htmlErr) {
		return &Error{Kind: KindSessionExpired, Err: err}
	}

	var apiErr *portal.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuthenticationFailed, StatusCode: apiErr.StatusCode, Err: err}
		case http.StatusForbidden:
			return &Error{Kind: KindPermissionDenied, StatusCode: apiErr.StatusCode, Err: err}
		case http.StatusNotFound:
			return &Error{Kind: KindNotFound, StatusCode: apiErr.StatusCode, Err: err}
		default:
			return &Error{Kind: KindLinkRequestFailed, StatusCode: apiErr.StatusCode, Err: err}
		}
	}

	if errors.Is(err, portal.ErrMissingDownloadURL) {
		return &Error{Kind: KindInvalidServerResponse, Err: err}
	}

	return &Error{Kind: KindUnknown, Err: err}
}
