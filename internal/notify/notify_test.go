package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, Event) error { return f.err }

func TestNewEvent_DedupesRecipients(t *testing.T) {
	e := NewEvent(EventBidAccepted, nil, "a", "b", "a", "")
	assert.Equal(t, []string{"a", "b"}, e.Recipients)
	assert.False(t, e.OccurredAt.IsZero())
}

func TestMulti_DeliversToAllAndReturnsFirstError(t *testing.T) {
	rec1, rec2 := &Recorder{}, &Recorder{}
	boom := errors.New("boom")

	m := Multi{rec1, failingNotifier{err: boom}, nil, rec2}
	err := m.Notify(context.Background(), NewEvent(EventChatMessage, "hi", "u1"))

	require.ErrorIs(t, err, boom)
	assert.Len(t, rec1.Events(), 1)
	assert.Len(t, rec2.Events(), 1)
}

func TestRecorder_ByType(t *testing.T) {
	rec := &Recorder{}
	_ = rec.Notify(context.Background(), NewEvent(EventBidRejected, nil, "u1"))
	_ = rec.Notify(context.Background(), NewEvent(EventBidAccepted, nil, "u2"))
	_ = rec.Notify(context.Background(), NewEvent(EventBidRejected, nil, "u3"))

	assert.Len(t, rec.ByType(EventBidRejected), 2)
	assert.Empty(t, rec.ByType(EventChatRead))
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Notify(context.Background(), Event{}))
}
