package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"tenderdesk/models"
)

type fakeAPI struct {
	feed        []models.Notification
	listErr     error
	markErr     error
	markCalls   int
	listCalls   int
}

func (f *fakeAPI) ListNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	f.listCalls++
	return f.feed, f.listErr
}

func (f *fakeAPI) MarkAllNotificationsRead(ctx context.Context, token string) error {
	f.markCalls++
	return f.markErr
}

type fakeSession struct {
	authed bool
}

func (f *fakeSession) IsAuthenticated() bool { return f.authed }
func (f *fakeSession) Token() string         { return "tok" }

type fakeCache struct {
	items      []models.Notification
	replaceErr error
}

func (f *fakeCache) ReplaceAll(ctx context.Context, notifications []models.Notification) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.items = append([]models.Notification(nil), notifications...)
	return nil
}

func (f *fakeCache) MarkAllRead(ctx context.Context) error {
	for i := range f.items {
		f.items[i].Read = true
	}
	return nil
}

func (f *fakeCache) List(ctx context.Context) ([]models.Notification, error) {
	return f.items, nil
}

func (f *fakeCache) UnreadCount(ctx context.Context) (int, error) {
	count := 0
	for _, n := range f.items {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func feed() []models.Notification {
	return []models.Notification{
		{ID: 1, Message: "Tender 42 updated", CreatedAt: time.Now()},
		{ID: 2, Message: "Offer accepted", Read: true, CreatedAt: time.Now()},
	}
}

func TestRefresh_ReconcilesCache(t *testing.T) {
	api := &fakeAPI{feed: feed()}
	cache := &fakeCache{}
	svc := NewService(api, &fakeSession{authed: true}, cache)

	items, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(items) != 2 || len(cache.items) != 2 {
		t.Errorf("expected feed cached, got %d/%d", len(items), len(cache.items))
	}
}

func TestRefresh_RequiresSession(t *testing.T) {
	svc := NewService(&fakeAPI{}, &fakeSession{}, &fakeCache{})

	if _, err := svc.Refresh(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestMarkAllRead_OptimisticFlipSurvivesBackendFailure(t *testing.T) {
	api := &fakeAPI{markErr: errors.New("backend down")}
	cache := &fakeCache{items: feed()}
	svc := NewService(api, &fakeSession{authed: true}, cache)

	err := svc.MarkAllRead(context.Background())
	if err == nil {
		t.Fatal("expected backend failure to surface")
	}

	// The local flip is not rolled back; the next Refresh reconciles.
	unread, _ := cache.UnreadCount(context.Background())
	if unread != 0 {
		t.Errorf("expected optimistic flip to persist, %d unread", unread)
	}
	if api.markCalls != 1 {
		t.Errorf("expected one backend call, got %d", api.markCalls)
	}
}

func TestMarkAllRead_Success(t *testing.T) {
	api := &fakeAPI{}
	cache := &fakeCache{items: feed()}
	svc := NewService(api, &fakeSession{authed: true}, cache)

	if err := svc.MarkAllRead(context.Background()); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	unread, _ := cache.UnreadCount(context.Background())
	if unread != 0 {
		t.Errorf("expected no unread left, got %d", unread)
	}
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	api := &fakeAPI{feed: feed()}
	svc := NewService(api, &fakeSession{authed: true}, &fakeCache{})

	ctx, cancel := context.WithCancel(context.Background())

	polls := 0
	go func() {
		// Let the first poll land, then stop the watcher.
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := svc.Watch(ctx, 10*time.Millisecond, func(items []models.Notification) {
		polls++
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if polls == 0 {
		t.Error("expected at least one poll before cancellation")
	}
}

func TestWatch_ReturnsWhenSessionLost(t *testing.T) {
	svc := NewService(&fakeAPI{}, &fakeSession{}, &fakeCache{})

	err := svc.Watch(context.Background(), 10*time.Millisecond, func([]models.Notification) {})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
