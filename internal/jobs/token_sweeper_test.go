package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockTokenStore struct {
	expiredCalls int32
	revokedCalls int32
	expiredErr   error
	revokedErr   error
}

func (m *mockTokenStore) DeleteExpiredTokens(ctx context.Context) error {
	atomic.AddInt32(&m.expiredCalls, 1)
	return m.expiredErr
}

func (m *mockTokenStore) CleanupRevokedTokens(ctx context.Context) error {
	atomic.AddInt32(&m.revokedCalls, 1)
	return m.revokedErr
}

func TestTokenSweeper_RunOnce(t *testing.T) {
	t.Parallel()

	store := &mockTokenStore{}
	sweeper := NewTokenSweeper(store, time.Hour)

	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.expiredCalls != 1 || store.revokedCalls != 1 {
		t.Errorf("expected both cleanups to run, got expired=%d revoked=%d", store.expiredCalls, store.revokedCalls)
	}
}

func TestTokenSweeper_RunOnce_StopsOnError(t *testing.T) {
	t.Parallel()

	store := &mockTokenStore{expiredErr: errors.New("db down")}
	sweeper := NewTokenSweeper(store, time.Hour)

	if err := sweeper.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if store.revokedCalls != 0 {
		t.Error("revoked cleanup should not run after expired cleanup fails")
	}
}

func TestTokenSweeper_StartStop(t *testing.T) {
	t.Parallel()

	store := &mockTokenStore{}
	sweeper := NewTokenSweeper(store, 10*time.Millisecond)

	sweeper.Start()
	if !sweeper.IsRunning() {
		t.Fatal("sweeper should be running after Start")
	}

	// Let at least one tick fire
	time.Sleep(50 * time.Millisecond)
	sweeper.Stop()

	if sweeper.IsRunning() {
		t.Error("sweeper should not be running after Stop")
	}
	if atomic.LoadInt32(&store.expiredCalls) == 0 {
		t.Error("expected at least one sweep")
	}
}

func TestTokenSweeper_StartTwiceIsNoop(t *testing.T) {
	t.Parallel()

	store := &mockTokenStore{}
	sweeper := NewTokenSweeper(store, time.Hour)

	sweeper.Start()
	sweeper.Start()
	sweeper.Stop()
}

func TestTokenSweeper_DefaultInterval(t *testing.T) {
	t.Parallel()

	sweeper := NewTokenSweeper(&mockTokenStore{}, 0)
	if sweeper.interval != time.Hour {
		t.Errorf("expected 1h default interval, got %v", sweeper.interval)
	}
}
