package auth

import (
	"context"
	"sync"
	"time"
)

// Revoker records refresh-token IDs that were logged out. Entries only need
// to live until the token would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevoker keeps revoked JTIs in process memory. It is used when no
// Redis is configured, so revocations do not survive a restart.
type MemoryRevoker struct {
	mu      sync.RWMutex
	entries map[string]time.Time // JTI -> expiry
	now     func() time.Time
	done    chan struct{}
}

// NewMemoryRevoker creates a revoker and starts a background goroutine that
// drops expired entries every interval. Call Close to stop it.
func NewMemoryRevoker(interval time.Duration) *MemoryRevoker {
	r := &MemoryRevoker{
		entries: make(map[string]time.Time),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go r.cleanupLoop(interval)
	return r
}

func (r *MemoryRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[jti] = expiresAt
	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[jti]
	return ok, nil
}

// Count returns the number of tracked revocations.
func (r *MemoryRevoker) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close stops the cleanup goroutine. Only the first call has effect.
func (r *MemoryRevoker) Close() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

func (r *MemoryRevoker) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *MemoryRevoker) cleanup() {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for jti, exp := range r.entries {
		if now.After(exp) {
			delete(r.entries, jti)
		}
	}
}
