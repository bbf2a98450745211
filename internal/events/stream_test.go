package events

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.helix.debate/internal/models"
)

func TestStreamPreservesOrder(t *testing.T) {
	stream := NewStream(16)

	go func() {
		for i := 0; i < 100; i++ {
			stream.Publish(Text(fmt.Sprintf("f%d", i)))
		}
		stream.Close()
	}()

	i := 0
	for event := range stream.Events() {
		assert.Equal(t, fmt.Sprintf("f%d", i), event.Text)
		i++
	}
	assert.Equal(t, 100, i)
}

func TestStreamAbortUnblocksPublisher(t *testing.T) {
	stream := NewStream(1)
	stream.Publish(Text("fills the buffer"))

	unblocked := make(chan struct{})
	go func() {
		stream.Publish(Text("would block forever"))
		close(unblocked)
	}()

	stream.Abort()

	select {
	case <-unblocked:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher still blocked after abort")
	}

	// Further publishes are discarded rather than blocking.
	stream.Publish(Text("dropped"))
	assert.NotPanics(t, stream.Abort)
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	stream := NewStream(1)
	stream.Close()
	assert.NotPanics(t, stream.Close)
}

func TestEventConstructors(t *testing.T) {
	text := Text("fragment")
	assert.Equal(t, KindText, text.Kind)
	assert.Equal(t, "fragment", text.Text)
	assert.NotEmpty(t, text.ID)
	assert.False(t, text.Timestamp.IsZero())

	progress := Progress(42)
	assert.Equal(t, KindProgress, progress.Kind)
	assert.Equal(t, 42, progress.Percent)

	turn := TurnComplete(models.Turn{Speaker: "AI 1", Content: "hello"})
	assert.Equal(t, KindTurnComplete, turn.Kind)
	require.NotNil(t, turn.Turn)
	assert.Equal(t, "AI 1", turn.Turn.Speaker)

	complete := SessionComplete()
	assert.Equal(t, KindSessionComplete, complete.Kind)

	failure := Failure(errors.New("boom"))
	assert.Equal(t, KindError, failure.Kind)
	assert.Equal(t, "boom", failure.Error)
}

func TestSinkFunc(t *testing.T) {
	var got []Event
	sink := SinkFunc(func(e Event) { got = append(got, e) })
	sink.Publish(Text("a"))
	sink.Publish(Progress(10))
	require.Len(t, got, 2)
	assert.Equal(t, KindText, got[0].Kind)
	assert.Equal(t, KindProgress, got[1].Kind)
}

func TestNopSink(t *testing.T) {
	assert.NotPanics(t, func() { NopSink.Publish(Text("ignored")) })
}
