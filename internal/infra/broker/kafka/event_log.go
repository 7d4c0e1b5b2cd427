package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IBM/sarama"
)

// Inbox deduplicates deliveries by event id.
type Inbox interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
}

// MemoryInbox is an Inbox for a single process.
type MemoryInbox struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryInbox() *MemoryInbox {
	return &MemoryInbox{seen: make(map[string]struct{})}
}

func (i *MemoryInbox) FirstSeen(_ context.Context, eventID string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, dup := i.seen[eventID]; dup {
		return false, nil
	}
	i.seen[eventID] = struct{}{}
	return true, nil
}

// cloudEvent is the subset of the CloudEvents envelope the log reads.
type cloudEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
}

// EventLog records every rental and booking event it consumes once,
// skipping redeliveries the inbox has already seen.
type EventLog struct {
	Inbox  Inbox
	Logger *slog.Logger
}

func NewEventLog(inbox Inbox, logger *slog.Logger) *EventLog {
	if inbox == nil {
		inbox = NewMemoryInbox()
	}
	return &EventLog{Inbox: inbox, Logger: logger}
}

func (l *EventLog) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		// a payload that cannot be decoded now never will be
		l.logger().WarnContext(ctx, "event log: undecodable message", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}
	if evt.ID == "" {
		l.logger().WarnContext(ctx, "event log: message without id", "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}
	first, err := l.Inbox.FirstSeen(ctx, evt.ID)
	if err != nil {
		return fmt.Errorf("event log: inbox: %w", err)
	}
	if !first {
		l.logger().DebugContext(ctx, "event log: duplicate skipped", "id", evt.ID)
		return nil
	}
	l.logger().InfoContext(ctx, "event consumed",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"type", evt.Type,
		"subject", evt.Subject,
		"id", evt.ID,
	)
	return nil
}

func (l *EventLog) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}
