package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramcandoit/mlsecops-application/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherSyncMode(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink, discardLogger())
	defer pub.Close()

	pub.Emit(context.Background(), Event{
		Action:   ActionRecordRegistered,
		RecordID: "rec-1",
		Actor:    "system",
	})

	events := sink.ByRecord("rec-1")
	require.Len(t, events, 1)
	assert.Equal(t, ActionRecordRegistered, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "timestamp should be stamped on emit")
}

func TestPublisherEnrichesFromContext(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink, discardLogger())
	defer pub.Close()

	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.9", "Mozilla/5.0", "Linux")

	pub.Emit(ctx, Event{Action: ActionVerdictOverridden, RecordID: "rec-2", FraudBool: 1, Actor: "admin"})

	events := sink.ByRecord("rec-2")
	require.Len(t, events, 1)
	assert.Equal(t, "req-42", events[0].RequestID)
	assert.Equal(t, "10.0.0.9", events[0].ClientIP)
	assert.Equal(t, "Linux", events[0].DeviceOS)
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink, discardLogger(), WithAsyncBuffer(64))

	for range 10 {
		pub.Emit(context.Background(), Event{Action: ActionRecordRegistered, RecordID: "rec-3"})
	}

	pub.Close()
	assert.Len(t, sink.ByRecord("rec-3"), 10, "close should drain all buffered events")
}

func TestPublisherAsyncEventuallyDelivers(t *testing.T) {
	sink := NewInMemorySink()
	pub := NewPublisher(sink, discardLogger(), WithAsyncBuffer(8))
	defer pub.Close()

	pub.Emit(context.Background(), Event{Action: ActionScoringFailed, Reason: "exit status 1"})

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 1
	}, time.Second, 10*time.Millisecond)
}
