package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TokenStore covers the cleanup operations the sweeper needs
type TokenStore interface {
	DeleteExpiredTokens(ctx context.Context) error
	CleanupRevokedTokens(ctx context.Context) error
}

// TokenSweeper periodically removes expired and stale revoked refresh
// tokens so the token table does not grow without bound.
type TokenSweeper struct {
	store    TokenStore
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewTokenSweeper creates a new token sweeper job
func NewTokenSweeper(store TokenStore, interval time.Duration) *TokenSweeper {
	if interval == 0 {
		interval = 1 * time.Hour
	}
	return &TokenSweeper{
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the token sweeper job
func (s *TokenSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	slog.Info("token sweeper started", "interval", s.interval)
}

// Stop gracefully stops the token sweeper job
func (s *TokenSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	slog.Info("token sweeper stopped")
}

// run is the main loop
func (s *TokenSweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *TokenSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		slog.Error("token sweep failed", "error", err)
	}
}

// RunOnce runs a single sweep (for testing or manual trigger)
func (s *TokenSweeper) RunOnce(ctx context.Context) error {
	if err := s.store.DeleteExpiredTokens(ctx); err != nil {
		return err
	}
	return s.store.CleanupRevokedTokens(ctx)
}

// IsRunning returns whether the sweeper is running
func (s *TokenSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
