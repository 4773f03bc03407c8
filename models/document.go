package models

import (
	"fmt"
	"time"
)

// DocumentType identifies which entity a downloadable document belongs to.
type DocumentType string

const (
	DocumentReport DocumentType = "report"
	DocumentTender DocumentType = "tender"
	DocumentOffer  DocumentType = "offer"
)

// ParseDocumentType converts a string into a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocumentReport, DocumentTender, DocumentOffer:
		return DocumentType(s), nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// DownloadLink is a short-lived signed URL for one document.
// Links are requested fresh for every download attempt and must never be
// reused after ExpiresAt.
type DownloadLink struct {
	URL       string    `json:"download_url"`
	ExpiresAt time.Time `json:"expires_at"`
	Filename  string    `json:"filename,omitempty"`
}

// SuggestedFilename returns the backend-provided filename, or a
// document-<id> fallback when the backend did not send one.
func (l DownloadLink) SuggestedFilename(id int64) string {
	if l.Filename != "" {
		return l.Filename
	}
	return fmt.Sprintf("document-%d", id)
}
