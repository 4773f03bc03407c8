package models

import "testing"

func TestParseDocumentType(t *testing.T) {
	for _, s := range []string{"report", "tender", "offer"} {
		dt, err := ParseDocumentType(s)
		if err != nil {
			t.Errorf("ParseDocumentType(%q) failed: %v", s, err)
		}
		if string(dt) != s {
			t.Errorf("ParseDocumentType(%q) = %q", s, dt)
		}
	}

	if _, err := ParseDocumentType("invoice"); err == nil {
		t.Error("expected error for unknown document type")
	}
}

func TestSuggestedFilename(t *testing.T) {
	link := DownloadLink{Filename: "spec.pdf"}
	if got := link.SuggestedFilename(42); got != "spec.pdf" {
		t.Errorf("expected backend filename, got %q", got)
	}

	link = DownloadLink{}
	if got := link.SuggestedFilename(42); got != "document-42" {
		t.Errorf("expected fallback filename, got %q", got)
	}
}
