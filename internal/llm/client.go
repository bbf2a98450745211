// Package llm provides the chat-completion client capability consumed by
// the debate engine, plus the typed error taxonomy for failed attempts.
package llm

import (
	"context"

	"dev.helix.debate/internal/models"
)

// Request is one chat-completion request to a backend.
type Request struct {
	Model       string
	Messages    []models.ChatMessage
	Temperature float64
}

// Response is a complete, non-streaming chat-completion result.
type Response struct {
	Content string
}

// StreamChunk is one element of a streaming response. A chunk carries
// either a content fragment or a terminal error; the channel is closed
// after the last chunk.
type StreamChunk struct {
	Content string
	Err     error
}

// ChatClient is the capability a model backend exposes: send a chat request
// and return either a complete text or an incremental fragment sequence.
// Implementations must support API-key authentication and custom base-URL
// overrides, and surface HTTP failures as *AcquisitionError.
type ChatClient interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
	CompleteStream(ctx context.Context, req *Request) (<-chan StreamChunk, error)
}
