// AngelaMos | 2026
// memory.go

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carterperez-dev/eightspots/internal/core"
)

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryStore is a single-process Store. Expired entries are dropped on read
// and by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (s *MemoryStore) Put(_ context.Context, token string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[core.HashToken(token)] = memoryEntry{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (int64, error) {
	h := core.HashToken(token)

	s.mu.RLock()
	entry, ok := s.entries[h]
	s.mu.RUnlock()

	if !ok {
		return 0, fmt.Errorf("get session: %w", core.ErrNotFound)
	}

	if !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		if cur, still := s.entries[h]; still && cur == entry {
			delete(s.entries, h)
		}
		s.mu.Unlock()
		return 0, fmt.Errorf("get session: expired: %w", core.ErrNotFound)
	}

	return entry.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, core.HashToken(token))
	s.mu.Unlock()
	return nil
}

// Sweep removes every expired entry and reports how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for h, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, h)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
