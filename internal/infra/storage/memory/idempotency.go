package memory

import (
	"context"
	"sync"
	"time"

	"vacationrental/internal/app/middleware"
)

// IdempotencyStore remembers command outcomes for TTL. Zero TTL keeps them forever.
type IdempotencyStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]middleware.IdempotencyRecord
	now   func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		ttl:   ttl,
		items: make(map[string]middleware.IdempotencyRecord),
		now:   time.Now,
	}
}

// Reserve claims rec.Key under mu, so concurrent callers for one key see
// exactly one winner. Expired records count as absent.
func (s *IdempotencyStore) Reserve(ctx context.Context, rec middleware.IdempotencyRecord) (middleware.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[rec.Key]; ok && !s.expired(existing) {
		return existing, true, nil
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = s.now().UTC()
	}
	s.items[rec.Key] = rec
	s.sweep()
	return rec, false, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = s.now().UTC()
	}
	s.items[rec.Key] = rec
	s.sweep()
	return nil
}

// Release forgets a pending reservation. Settled records are kept.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.items[key]; ok && rec.Pending {
		delete(s.items, key)
	}
	return nil
}

func (s *IdempotencyStore) expired(rec middleware.IdempotencyRecord) bool {
	return s.ttl > 0 && s.now().Sub(rec.OccurredAt) > s.ttl
}

// sweep drops expired records; called with mu held.
func (s *IdempotencyStore) sweep() {
	if s.ttl <= 0 {
		return
	}
	for key, rec := range s.items {
		if s.expired(rec) {
			delete(s.items, key)
		}
	}
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
