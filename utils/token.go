package utils

import (
	"sync"
	"time"
)

type Blacklist struct {
	tokens map[string]time.Time
	mu     sync.RWMutex
	now    func() time.Time
}

func NewBlacklist() *Blacklist {
	return &Blacklist{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (b *Blacklist) Add(token string, expiry time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiry
}

func (b *Blacklist) Contains(token string) bool {
	b.mu.RLock()
	expiry, exists := b.tokens[token]
	b.mu.RUnlock()

	if !exists {
		return false
	}
	if b.now().Before(expiry) {
		return true
	}

	// expired tokens fail signature validation anyway
	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
	return false
}

// Cleanup drops expired entries and reports how many remain.
func (b *Blacklist) Cleanup() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for token, expiry := range b.tokens {
		if now.After(expiry) {
			delete(b.tokens, token)
		}
	}
	return len(b.tokens)
}

// StartCleanup runs Cleanup on every tick until stop is closed.
func (b *Blacklist) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if remaining := b.Cleanup(); remaining > 0 {
					InfoLogger.Debugf("token blacklist holds %d entries", remaining)
				}
			case <-stop:
				return
			}
		}
	}()
}
