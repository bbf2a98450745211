package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dev.helix.debate/internal/models"
)

// OpenAIBaseURL is the default endpoint used when a backend carries no
// explicit base URL.
const OpenAIBaseURL = "https://api.openai.com/v1"

const defaultRequestTimeout = 120 * time.Second

// Client is a chat-completion client for any backend speaking the
// OpenAI-compatible wire protocol. All supported provider families
// (OpenAI, DeepSeek, Anthropic gateway, Moonshot, ChatGLM, Qwen, ERNIE,
// custom) are reached through this one codepath.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for one backend. The backend's BaseURL, when
// set, overrides the OpenAI default.
func NewClient(backend models.BackendConfig) *Client {
	baseURL := backend.BaseURL
	if baseURL == "" {
		baseURL = OpenAIBaseURL
	}

	return &Client{
		apiKey:  backend.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
}

type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	Stream      bool                 `json:"stream,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message      models.ChatMessage `json:"message"`
		FinishReason string             `json:"finish_reason"`
	} `json:"choices"`
}

type chatStreamResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Delta        models.ChatMessage `json:"delta"`
		FinishReason *string            `json:"finish_reason"`
	} `json:"choices"`
}

// Complete issues one blocking chat-completion call.
func (c *Client) Complete(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.post(ctx, chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Unclassified(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, Unclassified(fmt.Errorf("failed to parse response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return nil, Unclassified(fmt.Errorf("response contained no choices"))
	}

	return &Response{Content: parsed.Choices[0].Message.Content}, nil
}

// CompleteStream issues a chat-completion call requesting incremental
// delivery and returns the fragment sequence. The channel is closed when
// the stream is exhausted; a terminal failure arrives as the last chunk.
func (c *Client) CompleteStream(ctx context.Context, req *Request) (<-chan StreamChunk, error) {
	resp, err := c.post(ctx, chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, classifyStatus(resp.StatusCode, string(body))
	}

	ch := make(chan StreamChunk)

	go func() {
		defer resp.Body.Close()
		defer close(ch)

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				if err != io.EOF {
					ch <- StreamChunk{Err: Unclassified(fmt.Errorf("stream read failed: %w", err))}
				}
				return
			}

			line = bytes.TrimSpace(line)
			if !bytes.HasPrefix(line, []byte("data: ")) {
				continue
			}
			line = bytes.TrimPrefix(line, []byte("data: "))

			if bytes.Equal(line, []byte("[DONE]")) {
				return
			}

			var parsed chatStreamResponse
			if err := json.Unmarshal(line, &parsed); err != nil {
				// Skip malformed keep-alive or partial lines.
				continue
			}
			if len(parsed.Choices) == 0 {
				continue
			}

			if delta := parsed.Choices[0].Delta.Content; delta != "" {
				select {
				case ch <- StreamChunk{Content: delta}:
				case <-ctx.Done():
					return
				}
			}
			if parsed.Choices[0].FinishReason != nil {
				return
			}
		}
	}()

	return ch, nil
}

func (c *Client) post(ctx context.Context, req chatRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, Unclassified(fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, Unclassified(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("User-Agent", "HelixDebate/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, Unclassified(fmt.Errorf("HTTP request failed: %w", err))
	}
	return resp, nil
}
