package database

import (
	"context"
	"database/sql"
	"fmt"

	"tenderdesk/models"
)

// NotificationRepository caches the user's notifications locally so the
// read-state can be flipped optimistically before the backend confirms.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a repository on the given connection.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ReplaceAll reconciles the cache with a fresh backend fetch. The backend
// list wins completely, including read-state.
func (r *NotificationRepository) ReplaceAll(ctx context.Context, notifications []models.Notification) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notification reconcile: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notification_cache`); err != nil {
		return fmt.Errorf("clear notification cache: %w", err)
	}

	for _, n := range notifications {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notification_cache (id, message, read, created_at) VALUES (?, ?, ?, ?)`,
			n.ID, n.Message, boolToInt(n.Read), n.CreatedAt)
		if err != nil {
			return fmt.Errorf("cache notification %d: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// MarkAllRead flips every cached notification to read. This is the local
// half of the optimistic mark-all-read flow.
func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notification_cache SET read = 1`); err != nil {
		return fmt.Errorf("mark cached notifications read: %w", err)
	}
	return nil
}

// List returns the cached notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, message, read, created_at FROM notification_cache ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query notification cache: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var read int
		if err := rows.Scan(&n.ID, &n.Message, &read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cached notification: %w", err)
		}
		n.Read = read != 0
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// UnreadCount returns how many cached notifications are unread.
func (r *NotificationRepository) UnreadCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notification_cache WHERE read = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
