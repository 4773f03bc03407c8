package download

import (
	"errors"
	"net/http"
	"testing"

	"tenderdesk/services/portal"
)

func TestClassifyLinkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"html login page", &portal.HTMLResponseError{}, KindSessionExpired},
		{"401", &portal.APIError{StatusCode: http.StatusUnauthorized}, KindAuthenticationFailed},
		{"403", &portal.APIError{StatusCode: http.StatusForbidden}, KindPermissionDenied},
		{"404", &portal.APIError{StatusCode: http.StatusNotFound}, KindNotFound},
		{"500", &portal.APIError{StatusCode: http.StatusInternalServerError}, KindLinkRequestFailed},
		{"missing url", portal.ErrMissingDownloadURL, KindInvalidServerResponse},
		{"plain network error", errors.New("dial tcp: timeout"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLinkError(tt.err)
			if got.Kind != tt.want {
				t.Errorf("classifyLinkError(%v).Kind = %v, want %v", tt.err, got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) && got.Err == nil {
				t.Error("expected original error preserved")
			}
			if got.Message() == "" {
				t.Error("expected a human-readable message")
			}
		})
	}
}

func TestErrorMessage_CarriesStatusForDiagnostics(t *testing.T) {
	err := &Error{Kind: KindDownloadFailed, StatusCode: 502}
	if msg := err.Message(); msg != "the download failed (status 502)" {
		t.Errorf("unexpected message %q", msg)
	}
}
