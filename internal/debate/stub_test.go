package debate

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/llm"
	"dev.helix.debate/internal/models"
)

// scriptedClient replays fixed responses per call index and records every
// request it sees.
type scriptedClient struct {
	mu        sync.Mutex
	responses []string
	failAt    int // call index that fails; -1 never
	failWith  error
	calls     []llm.Request
}

func newScriptedClient(responses ...string) *scriptedClient {
	return &scriptedClient{responses: responses, failAt: -1}
}

func (s *scriptedClient) next(req *llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := len(s.calls)
	s.calls = append(s.calls, *req)

	if s.failAt == index {
		return "", s.failWith
	}
	if index >= len(s.responses) {
		return "", &llm.AcquisitionError{
			Category: llm.CategoryUnclassified,
			Hint:     "script exhausted",
			Err:      io.EOF,
		}
	}
	return s.responses[index], nil
}

func (s *scriptedClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedClient) call(i int) llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

func (s *scriptedClient) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	content, err := s.next(req)
	if err != nil {
		return nil, err
	}
	return &llm.Response{Content: content}, nil
}

// CompleteStream serves the scripted response split into two fragments so
// streaming assembly is exercised.
func (s *scriptedClient) CompleteStream(ctx context.Context, req *llm.Request) (<-chan llm.StreamChunk, error) {
	content, err := s.next(req)
	if err != nil {
		return nil, err
	}

	ch := make(chan llm.StreamChunk, 2)
	half := len(content) / 2
	if content[:half] != "" {
		ch <- llm.StreamChunk{Content: content[:half]}
	}
	if content[half:] != "" {
		ch <- llm.StreamChunk{Content: content[half:]}
	}
	close(ch)
	return ch, nil
}

// cancelOnCall cancels the session once its Nth completed call returns,
// for exercising cancellation between turns.
type cancelOnCall struct {
	*scriptedClient
	after  int
	cancel context.CancelFunc
}

func (c *cancelOnCall) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	resp, err := c.scriptedClient.Complete(ctx, req)
	if c.callCount() == c.after {
		c.cancel()
	}
	return resp, err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(model1, model2 string) Config {
	return Config{
		Participant1: models.BackendConfig{Model: model1, APIKey: "sk-1", Temperature: 0.7},
		Participant2: models.BackendConfig{Model: model2, APIKey: "sk-2", Temperature: 0.8},
		Pacing:       -1, // no pacing delays in tests
	}
}
