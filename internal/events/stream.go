// Package events carries engine progress to observers: one event per
// streamed content fragment, one per completed turn, one for terminal
// completion or failure.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"dev.helix.debate/internal/models"
)

// Kind identifies an event variant.
type Kind string

const (
	KindText            Kind = "text"
	KindProgress        Kind = "progress"
	KindTurnComplete    Kind = "turn_complete"
	KindSessionComplete Kind = "session_complete"
	KindError           Kind = "error"
)

// Event is one engine progress notification.
type Event struct {
	ID        string       `json:"id"`
	Kind      Kind         `json:"kind"`
	Text      string       `json:"text,omitempty"`    // KindText fragment
	Percent   int          `json:"percent,omitempty"` // KindProgress
	Turn      *models.Turn `json:"turn,omitempty"`    // KindTurnComplete
	Error     string       `json:"error,omitempty"`   // KindError
	Timestamp time.Time    `json:"timestamp"`
}

func newEvent(kind Kind) Event {
	return Event{ID: uuid.New().String(), Kind: kind, Timestamp: time.Now()}
}

// Sink accepts engine events. Implementations must preserve publish order.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Publish(e Event) { f(e) }

// NopSink discards all events.
var NopSink Sink = SinkFunc(func(Event) {})

// Stream is a buffered, ordered event channel decoupling the sequential
// engine from a responsive observer. Publishing blocks when the buffer is
// full rather than dropping, so delivery order always matches production
// order. Abort releases blocked publishers when the session is cancelled
// with nobody draining the buffer.
type Stream struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
	abortOnce sync.Once
}

// NewStream creates a stream with the given buffer size.
func NewStream(buffer int) *Stream {
	if buffer <= 0 {
		buffer = 256
	}
	return &Stream{
		ch:   make(chan Event, buffer),
		done: make(chan struct{}),
	}
}

// Publish enqueues an event in production order. After Abort it returns
// immediately, discarding the event, so a cancelled session's engine can
// never wedge on a full, unconsumed buffer.
func (s *Stream) Publish(e Event) {
	select {
	case s.ch <- e:
	case <-s.done:
	}
}

// Events returns the consumer side of the stream.
func (s *Stream) Events() <-chan Event {
	return s.ch
}

// Close marks the stream complete. The producer must not publish after
// closing.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// Abort unblocks all current and future publishers without closing the
// consumer channel. Callers tie it to the session's cancellation so the
// engine observes ctx.Done instead of blocking in Publish.
func (s *Stream) Abort() {
	s.abortOnce.Do(func() { close(s.done) })
}

// Text builds a content-fragment event.
func Text(fragment string) Event {
	e := newEvent(KindText)
	e.Text = fragment
	return e
}

// Progress builds a percent-complete event.
func Progress(percent int) Event {
	e := newEvent(KindProgress)
	e.Percent = percent
	return e
}

// TurnComplete builds a completed-turn event.
func TurnComplete(turn models.Turn) Event {
	e := newEvent(KindTurnComplete)
	e.Turn = &turn
	return e
}

// SessionComplete builds the terminal success event.
func SessionComplete() Event {
	return newEvent(KindSessionComplete)
}

// Failure builds the terminal error event.
func Failure(err error) Event {
	e := newEvent(KindError)
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
