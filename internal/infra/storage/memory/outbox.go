package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "vacationrental/internal/app/outbox"
	infraoutbox "vacationrental/internal/infra/outbox"
)

const (
	stateNew     = "NEW"
	stateClaimed = "CLAIMED"
	stateSent    = "SENT"
	stateFailed  = "FAILED"
)

type outboxEntry struct {
	record      appoutbox.EventRecord
	state       string
	attempts    int
	nextAttempt time.Time
	claimedBy   string
	lastError   string
}

// OutboxStore holds committed event records until a worker publishes them.
type OutboxStore struct {
	mu      sync.Mutex
	entries []*outboxEntry
	now     func() time.Time
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{now: time.Now}
}

func (s *OutboxStore) append(records []appoutbox.EventRecord) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now().UTC()
	for _, rec := range records {
		s.entries = append(s.entries, &outboxEntry{record: rec, state: stateNew, nextAttempt: at})
	}
}

// Claim hands out the oldest record that is due.
func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	for _, e := range s.entries {
		if e.state != stateNew && e.state != stateFailed {
			continue
		}
		if e.nextAttempt.After(now) {
			continue
		}
		e.state = stateClaimed
		e.claimedBy = workerID
		return &infraoutbox.Message{
			ID:         e.record.ID,
			Name:       e.record.Name,
			Payload:    e.record.Payload,
			OccurredAt: e.record.OccurredAt,
			Aggregate:  e.record.Aggregate,
			Headers:    e.record.Headers,
			Attempts:   e.attempts,
		}, nil
	}
	return nil, nil
}

// MarkSent drops the record; sent records are not kept in memory.
func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.record.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, next time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.record.ID == id {
			e.state = stateFailed
			e.attempts++
			e.nextAttempt = next
			e.lastError = reason
			return nil
		}
	}
	return nil
}

// Pending returns the names of records not yet published, oldest first.
func (s *OutboxStore) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		names = append(names, e.record.Name)
	}
	return names
}

var _ infraoutbox.Store = (*OutboxStore)(nil)
