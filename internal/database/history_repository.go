package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tenderdesk/models"
)

// DownloadAttempt is one recorded download invocation, successful or not.
type DownloadAttempt struct {
	ID           int64
	DocumentType models.DocumentType
	DocumentID   int64
	Filename     string
	Outcome      string
	Detail       string
	CreatedAt    time.Time
}

// HistoryRepository records download attempts.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a repository on the given connection.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// RecordAttempt inserts one attempt row. It satisfies the downloader's
// History interface.
func (r *HistoryRepository) RecordAttempt(ctx context.Context, docType models.DocumentType, id int64, filename, outcome, detail string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO download_attempts (document_type, document_id, filename, outcome, detail)
		 VALUES (?, ?, ?, ?, ?)`,
		string(docType), id, filename, outcome, detail)
	if err != nil {
		return fmt.Errorf("insert download attempt: %w", err)
	}
	return nil
}

// ListRecent returns the most recent attempts, newest first.
func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]DownloadAttempt, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, document_type, document_id, filename, outcome, detail, created_at
		 FROM download_attempts
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query download attempts: %w", err)
	}
	defer rows.Close()

	var attempts []DownloadAttempt
	for rows.Next() {
		var a DownloadAttempt
		var docType string
		if err := rows.Scan(&a.ID, &docType, &a.DocumentID, &a.Filename, &a.Outcome, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan download attempt: %w", err)
		}
		a.DocumentType = models.DocumentType(docType)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
