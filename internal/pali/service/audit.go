package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/pali/internal/pali/store"
)

// AuditService periodically inspects the credential table and warns when the
// server is initialized but no admin key can still be used. It never writes.
type AuditService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewAuditService creates a new audit worker with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewAuditService(store store.Store, logger *slog.Logger, interval time.Duration) *AuditService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &AuditService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop() to shut it down.
func (s *AuditService) Start() {
	go s.run()
	s.Logger.Info("credential audit started", "interval", s.Interval)
}

// Stop blocks until any in-progress audit has finished.
func (s *AuditService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("credential audit stopped")
}

func (s *AuditService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Audit immediately on startup
	s.Audit(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Audit(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Audit runs one pass and returns the counts it observed.
func (s *AuditService) Audit(ctx context.Context) (store.CredentialCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	counts, err := s.Store.Credentials().CountCredentials(ctx)
	if err != nil {
		s.Logger.Error("credential audit failed", "error", err)
		return store.CredentialCounts{}, err
	}

	switch {
	case counts.Admins == 0:
		s.Logger.Info("credential audit: server not initialized, POST /initialize to mint the first admin key")
	case counts.ActiveAdmins == 0:
		s.Logger.Warn("credential audit: no active admin key, use POST /reinitialize or `pali reinitialize` to recover",
			"admins", counts.Admins,
		)
	default:
		s.Logger.Debug("credential audit completed",
			"total", counts.Total,
			"active", counts.Active,
			"active_admins", counts.ActiveAdmins,
		)
	}
	return counts, nil
}
