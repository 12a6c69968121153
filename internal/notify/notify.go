package notify

import (
	"context"
	"sync"
	"time"
)

type EventType string

const (
	EventBidSubmitted     EventType = "bid.submitted"
	EventBidAccepted      EventType = "bid.accepted"
	EventBidRejected      EventType = "bid.rejected"
	EventBidWithdrawn     EventType = "bid.withdrawn"
	EventProjectModerated EventType = "project.moderated"
	EventChatMessage      EventType = "chat.message"
	EventChatReaction     EventType = "chat.reaction"
	EventChatRead         EventType = "chat.read"
)

// Event - уведомление для получателей. Доставка best-effort
type Event struct {
	Type       EventType `json:"type"`
	Recipients []string  `json:"recipients"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(t EventType, payload any, recipients ...string) Event {
	return Event{
		Type:       t,
		Recipients: dedupe(recipients),
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Notifier доставляет события после коммита транзакции.
// Ошибка доставки не откатывает бизнес-операцию
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }

// Multi рассылает событие во все каналы и возвращает первую ошибку
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var first error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Recorder запоминает события в памяти
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) ByType(t EventType) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
