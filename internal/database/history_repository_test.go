package database

import (
	"context"
	"path/filepath"
	"testing"

	"tenderdesk/models"
)

// setupTestDB creates a throwaway database for repository tests.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	db, err := NewDB(Config{DatabasePath: filepath.Join(tmpDir, "test.db")})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAttempt_AndListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepository(db.Connection())
	ctx := context.Background()

	if err := repo.RecordAttempt(ctx, models.DocumentTender, 42, "spec.pdf", "completed", ""); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if err := repo.RecordAttempt(ctx, models.DocumentOffer, 7, "", "failed", "status 404"); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	attempts, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}

	// Newest first.
	if attempts[0].DocumentType != models.DocumentOffer || attempts[0].Outcome != "failed" {
		t.Errorf("unexpected first attempt %+v", attempts[0])
	}
	if attempts[1].Filename != "spec.pdf" {
		t.Errorf("unexpected second attempt %+v", attempts[1])
	}
	if attempts[0].CreatedAt.IsZero() {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestListRecent_RespectsLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepository(db.Connection())
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		if err := repo.RecordAttempt(ctx, models.DocumentReport, i, "", "completed", ""); err != nil {
			t.Fatalf("RecordAttempt failed: %v", err)
		}
	}

	attempts, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(attempts))
	}
	if attempts[0].DocumentID != 5 {
		t.Errorf("expected newest attempt first, got id %d", attempts[0].DocumentID)
	}
}
