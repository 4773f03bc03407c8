// Package notifications wraps the portal's notification feed with a local
// cache so the read-state can be flipped optimistically.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/avast/retry-go/v4"

	"tenderdesk/models"
)

// ErrNotAuthenticated is returned when a notification operation runs
// without a live session.
var ErrNotAuthenticated = errors.New("not authenticated")

// API is the portal client subset the service depends on.
type API interface {
	ListNotifications(ctx context.Context, token string) ([]models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, token string) error
}

// Session exposes the current auth state.
type Session interface {
	IsAuthenticated() bool
	Token() string
}

// Cache is the local notification store.
type Cache interface {
	ReplaceAll(ctx context.Context, notifications []models.Notification) error
	MarkAllRead(ctx context.Context) error
	List(ctx context.Context) ([]models.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
}

// Service keeps the local notification cache in step with the backend.
type Service struct {
	api     API
	session Session
	cache   Cache
}

// NewService creates a notification service.
func NewService(api API, session Session, cache Cache) *Service {
	return &Service{api: api, session: session, cache: cache}
}

// Refresh fetches the feed from the backend and reconciles the cache with
// it. The backend list wins completely, which also settles any earlier
// optimistic flip.
func (s *Service) Refresh(ctx context.Context) ([]models.Notification, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	notifications, err := s.api.ListNotifications(ctx, s.session.Token())
	if err != nil {
		return nil, err
	}

	if err := s.cache.ReplaceAll(ctx, notifications); err != nil {
		log.Printf("[notifications] cache reconcile failed (ignored): %v", err)
	}
	return notifications, nil
}

// Cached returns the locally cached feed without touching the network.
func (s *Service) Cached(ctx context.Context) ([]models.Notification, error) {
	return s.cache.List(ctx)
}

// UnreadCount returns the number of unread cached notifications.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	return s.cache.UnreadCount(ctx)
}

// MarkAllRead flips the cache to read first, then tells the backend. A
// failed backend call is returned to the caller but the local flip is not
// rolled back; the next Refresh reconciles. Known limitation, kept on
// purpose to match how the portal behaves.
func (s *Service) MarkAllRead(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if err := s.cache.MarkAllRead(ctx); err != nil {
		log.Printf("[notifications] local mark-read failed (ignored): %v", err)
	}

	if err := s.api.MarkAllNotificationsRead(ctx, s.session.Token()); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// Watch polls the feed at the given interval and invokes fn with each
// fresh list. Transient fetch errors are retried a few times per poll;
// a poll that still fails is logged and skipped. Watch returns when the
// context is done.
func (s *Service) Watch(ctx context.Context, interval time.Duration, fn func([]models.Notification)) error {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var notifications []models.Notification
		err := retry.Do(
			func() error {
				var rerr error
				notifications, rerr = s.Refresh(ctx)
				return rerr
			},
			retry.Context(ctx),
			retry.Attempts(3),
			retry.Delay(2*time.Second),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				// Losing the session is not transient.
				return !errors.Is(err, ErrNotAuthenticated)
			}),
		)
		if err != nil {
			if errors.Is(err, ErrNotAuthenticated) {
				return err
			}
			log.Printf("[notifications] poll failed, will retry next tick: %v", err)
		} else {
			fn(notifications)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
