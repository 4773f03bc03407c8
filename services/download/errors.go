package download

import "fmt"

// Kind buckets a failed download into one user-facing category. The
// classification only selects the message shown to the user; it never
// changes control flow.
type Kind string

const (
	KindAuthenticationRequired Kind = "authentication_required"
	KindSessionExpired         Kind = "session_expired"
	KindAuthenticationFailed   Kind = "authentication_failed"
	KindPermissionDenied       Kind = "permission_denied"
	KindNotFound               Kind = "not_found"
	KindInvalidServerResponse  Kind = "invalid_server_response"
	KindLinkRequestFailed      Kind = "link_request_failed"
	KindDownloadFailed         Kind = "download_failed"
	KindUnknown                Kind = "unknown"
)

// Error is a classified download failure. StatusCode is zero when no HTTP
// status applies. The underlying error is preserved for support diagnosis.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message()
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the actionable, human-readable message for this failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindAuthenticationRequired:
		return "you must be logged in to download documents"
	case KindSessionExpired:
		return "your session has expired, please log in again"
	case KindAuthenticationFailed:
		return "authentication failed, please log in again"
	case KindPermissionDenied:
		return "you do not have permission to download this document"
	case KindNotFound:
		return "the document was not found; it may have been removed"
	case KindInvalidServerResponse:
		return "the server returned an unexpected response"
	case KindLinkRequestFailed:
		if e.StatusCode != 0 {
			return fmt.Sprintf("could not obtain a download link (status %d)", e.StatusCode)
		}
		return "could not obtain a download link"
	case KindDownloadFailed:
		if e.StatusCode != 0 {
			return fmt.Sprintf("the download failed (status %d)", e.StatusCode)
		}
		return "the download failed"
	default:
		return "the download failed for an unknown reason"
	}
}
