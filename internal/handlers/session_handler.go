// Package handlers exposes the debate engine over REST: session creation,
// live event streaming via SSE, and result retrieval.
package handlers

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/config"
	"dev.helix.debate/internal/debate"
	"dev.helix.debate/internal/events"
	"dev.helix.debate/internal/llm"
	"dev.helix.debate/internal/models"
	"dev.helix.debate/internal/providers"
	"dev.helix.debate/internal/utils"
)

// SessionRequest is the session-creation payload.
type SessionRequest struct {
	Mode         string             `json:"mode" binding:"required"`
	Question     string             `json:"question" binding:"required"`
	Rounds       int                `json:"rounds"`
	Iterations   int                `json:"iterations"`
	Stream       bool               `json:"stream"`
	Participant1 ParticipantRequest `json:"participant1" binding:"required"`
	Participant2 ParticipantRequest `json:"participant2" binding:"required"`
}

// ParticipantRequest configures one backend in a session request.
type ParticipantRequest struct {
	Model       string  `json:"model" binding:"required"`
	APIKey      string  `json:"api_key" binding:"required"`
	BaseURL     string  `json:"base_url"`
	Temperature float64 `json:"temperature"`
}

// SessionStatus values exposed by the API.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// defaultRetention is how long a finished session stays queryable before
// it is evicted from the registry.
const defaultRetention = time.Hour

type session struct {
	id     string
	stream *events.Stream
	cancel context.CancelFunc

	mu     sync.RWMutex
	status string
	result *models.SessionResult
	err    error
}

func (s *session) finish(result *models.SessionResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusFailed
		s.err = err
		return
	}
	s.status = StatusCompleted
	s.result = result
}

func (s *session) snapshot() (string, *models.SessionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.result, s.err
}

// runner executes one session; replaced in tests with a stub.
type runner func(ctx context.Context, req *SessionRequest, sink events.Sink) (*models.SessionResult, error)

// SessionHandler owns the in-memory session registry. Finished sessions
// are evicted after the retention period so the registry stays bounded.
type SessionHandler struct {
	logger    *logrus.Logger
	run       runner
	retention time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewSessionHandler(logger *logrus.Logger) *SessionHandler {
	if logger == nil {
		logger = logrus.New()
	}
	h := &SessionHandler{
		logger:    logger,
		retention: defaultRetention,
		sessions:  make(map[string]*session),
	}
	h.run = h.runSession
	return h
}

// runSession builds the orchestrator from the request and executes the
// selected workflow.
func (h *SessionHandler) runSession(ctx context.Context, req *SessionRequest, sink events.Sink) (*models.SessionResult, error) {
	backend1, res1 := providers.Backend(req.Participant1.Model, req.Participant1.APIKey, req.Participant1.BaseURL, req.Participant1.Temperature)
	if !res1.Recognized {
		h.logger.WithField("model", backend1.Model).Warn("provider unrecognized, assuming OpenAI-compatible")
	}
	backend2, res2 := providers.Backend(req.Participant2.Model, req.Participant2.APIKey, req.Participant2.BaseURL, req.Participant2.Temperature)
	if !res2.Recognized {
		h.logger.WithField("model", backend2.Model).Warn("provider unrecognized, assuming OpenAI-compatible")
	}

	orch := debate.NewOrchestrator(debate.Config{
		Participant1: backend1,
		Participant2: backend2,
		Streaming:    req.Stream,
	}, llm.NewClient(backend1), llm.NewClient(backend2), sink, h.logger)

	if req.Mode == config.ModeOptimize {
		return orch.RunOptimization(ctx, req.Question, req.Iterations)
	}
	return orch.RunDebate(ctx, req.Question, req.Rounds)
}

// Create starts a session on a worker goroutine and returns its id.
func (h *SessionHandler) Create(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewAppError("INVALID_REQUEST", "Invalid request format", http.StatusBadRequest, err))
		return
	}
	if req.Mode != config.ModeDebate && req.Mode != config.ModeOptimize {
		utils.HandleError(c, utils.NewAppError("INVALID_MODE", "mode must be 'debate' or 'optimize'", http.StatusBadRequest, nil))
		return
	}
	if req.Rounds == 0 {
		req.Rounds = 3
	}
	if req.Iterations == 0 {
		req.Iterations = 3
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:     uuid.New().String(),
		stream: events.NewStream(4096),
		cancel: cancel,
		status: StatusRunning,
	}
	// Cancellation must also release an engine blocked on a full,
	// unconsumed event buffer, or Cancel could never stop the session.
	context.AfterFunc(ctx, s.stream.Abort)

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()

	go func() {
		defer cancel()
		defer s.stream.Close()
		result, err := h.run(ctx, &req, s.stream)
		s.finish(result, err)
		time.AfterFunc(h.retention, func() { h.evict(s.id) })
	}()

	c.JSON(http.StatusAccepted, gin.H{"id": s.id, "status": StatusRunning})
}

// Get returns the session status and, once completed, its result. A
// finished session remains queryable for the retention period and then
// answers 404.
func (h *SessionHandler) Get(c *gin.Context) {
	s := h.lookup(c)
	if s == nil {
		return
	}

	status, result, err := s.snapshot()
	resp := gin.H{"id": s.id, "status": status}
	if result != nil {
		resp["result"] = result
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// Events streams session events to the client as server-sent events until
// the session's stream is exhausted or the client disconnects.
func (h *SessionHandler) Events(c *gin.Context) {
	s := h.lookup(c)
	if s == nil {
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-s.stream.Events():
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Cancel requests cooperative cancellation of a running session.
func (h *SessionHandler) Cancel(c *gin.Context) {
	s := h.lookup(c)
	if s == nil {
		return
	}
	s.cancel()
	c.JSON(http.StatusOK, gin.H{"id": s.id, "status": "cancelling"})
}

func (h *SessionHandler) evict(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

func (h *SessionHandler) lookup(c *gin.Context) *session {
	h.mu.RLock()
	s, ok := h.sessions[c.Param("id")]
	h.mu.RUnlock()
	if !ok {
		utils.HandleError(c, utils.NewAppError("SESSION_NOT_FOUND", "No such session", http.StatusNotFound, nil))
		return nil
	}
	return s
}
