// Package acquire wraps a single request/response cycle against one model
// backend, in streaming or non-streaming mode.
package acquire

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/llm"
	"dev.helix.debate/internal/models"
)

// FragmentSink receives streaming content fragments in arrival order,
// before each fragment is appended to the accumulator.
type FragmentSink func(fragment string)

const previewRunes = 50

// Acquirer performs one acquisition attempt per call. It never retries:
// a failed attempt is reported upward as a terminal *llm.AcquisitionError
// for that turn.
type Acquirer struct {
	logger *logrus.Logger
}

func NewAcquirer(logger *logrus.Logger) *Acquirer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Acquirer{logger: logger}
}

// Acquire issues one chat-completion cycle against the given backend and
// returns the whitespace-trimmed response text. In streaming mode each
// fragment is forwarded to sink before accumulation; a stream that yields
// zero fragments returns an empty string, not an error. Every failure is
// surfaced as *llm.AcquisitionError.
func (a *Acquirer) Acquire(ctx context.Context, client llm.ChatClient, backend models.BackendConfig, messages []models.ChatMessage, streaming bool, sink FragmentSink) (string, error) {
	method := "complete"
	if streaming {
		method = "complete_stream"
	}

	a.logger.WithFields(logrus.Fields{
		"method":      method,
		"model":       backend.Model,
		"temperature": backend.Temperature,
		"preview":     preview(messages),
	}).Info("issuing chat completion")
	a.logger.WithField("messages", messages).Debug("full request payload")

	req := &llm.Request{
		Model:       backend.Model,
		Messages:    messages,
		Temperature: backend.Temperature,
	}

	var content string
	var err error
	if streaming {
		content, err = a.acquireStream(ctx, client, req, sink)
	} else {
		content, err = a.acquireBlocking(ctx, client, req)
	}
	if err != nil {
		if ae, ok := llm.AsAcquisitionError(err); ok {
			a.logger.WithFields(logrus.Fields{
				"model":    backend.Model,
				"category": ae.Category,
			}).Errorf("chat completion failed: %v", ae.Err)
			return "", ae
		}
		a.logger.WithField("model", backend.Model).Errorf("chat completion failed: %v", err)
		return "", llm.Unclassified(err)
	}

	a.logger.WithFields(logrus.Fields{
		"model":  backend.Model,
		"length": len(content),
	}).Info("chat completion succeeded")
	a.logger.WithField("content", content).Debug("full response body")

	return content, nil
}

func (a *Acquirer) acquireBlocking(ctx context.Context, client llm.ChatClient, req *llm.Request) (string, error) {
	resp, err := client.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

func (a *Acquirer) acquireStream(ctx context.Context, client llm.ChatClient, req *llm.Request, sink FragmentSink) (string, error) {
	stream, err := client.CompleteStream(ctx, req)
	if err != nil {
		return "", err
	}

	var collected strings.Builder
	for chunk := range stream {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		if chunk.Content == "" {
			continue
		}
		// Forward before appending so observers see fragments in
		// arrival order, never ahead of accumulation.
		if sink != nil {
			sink(chunk.Content)
		}
		collected.WriteString(chunk.Content)
	}

	return strings.TrimSpace(collected.String()), nil
}

// preview returns the leading runes of the final user-turn content, for
// request logging below the most verbose threshold.
func preview(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != models.RoleUser {
			continue
		}
		content := messages[i].Content
		if utf8.RuneCountInString(content) <= previewRunes {
			return content
		}
		runes := []rune(content)
		return string(runes[:previewRunes]) + "..."
	}
	return ""
}
