package main

import (
	"context"
	"errors"
	"fmt"

	"tenderdesk/internal/config"
	"tenderdesk/internal/credstore"
	"tenderdesk/internal/database"
	"tenderdesk/internal/logging"
	"tenderdesk/services/download"
	"tenderdesk/services/notifications"
	"tenderdesk/services/portal"
	"tenderdesk/services/session"
)

// errNotLoggedIn is returned by commands that need a session when the
// stored token could not be resolved into one.
var errNotLoggedIn = errors.New("not logged in, run 'tenderdesk login' first")

// app wires configuration, the portal client, the session manager and the
// local cache together for the CLI commands.
type app struct {
	cfg      *config.Config
	client   *portal.Client
	manager  *session.Manager
	db       *database.DB
	closeLog func() error
}

// newApp loads config and builds everything except the database, which is
// opened on demand.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	closeLog := logging.Setup(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)

	client := portal.NewClient(cfg.APIBaseURL)
	store := credstore.New(cfg.StateDir)

	return &app{
		cfg:      cfg,
		client:   client,
		manager:  session.NewManager(client, store),
		closeLog: closeLog,
	}, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// openDB opens the local cache database once.
func (a *app) openDB() (*database.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.NewDB(database.Config{DatabasePath: a.cfg.DatabasePath()})
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}
	a.db = db
	return db, nil
}

// requireSession resolves the stored token and fails when the app comes up
// anonymous.
func (a *app) requireSession(ctx context.Context) error {
	a.manager.Bootstrap(ctx)
	if !a.manager.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

// downloader builds the secure download client, recording attempts into
// the local cache when it is available.
func (a *app) downloader() *download.Downloader {
	opts := []download.Option{}
	if db, err := a.openDB(); err == nil {
		opts = append(opts, download.WithHistory(database.NewHistoryRepository(db.Connection())))
	}
	return download.New(a.manager, a.client, a.cfg.DownloadDir, opts...)
}

// notificationsService builds the notification service over the local cache.
func (a *app) notificationsService() (*notifications.Service, error) {
	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	cache := database.NewNotificationRepository(db.Connection())
	return notifications.NewService(a.client, a.manager, cache), nil
}
