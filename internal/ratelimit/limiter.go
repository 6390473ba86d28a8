package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store answers whether one more request under key fits into the window.
// Implementations must be safe for concurrent use and must reclaim entries
// for keys that have gone quiet, so memory stays bounded.
type Store interface {
	Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error)
}

// MemoryStore keeps a sliding window of request timestamps per key. It is
// the default backend when no Redis address is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, max int, window time.Duration) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(now, window)

	hits := s.entries[key]
	if len(hits) >= max {
		return false, nil
	}

	s.entries[key] = append(hits, now)

	return true, nil
}

// prune drops timestamps that slid out of the window and deletes keys left
// empty, so idle clients do not accumulate.
func (s *MemoryStore) prune(now time.Time, window time.Duration) {
	for key, hits := range s.entries {
		var valid []time.Time
		for _, t := range hits {
			if now.Sub(t) <= window {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			s.entries[key] = valid
		} else {
			delete(s.entries, key)
		}
	}
}
