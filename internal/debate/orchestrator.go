// Package debate implements the turn-taking orchestration engine: the
// phase/round state machines for the adversarial debate and iterative
// optimization workflows.
package debate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/acquire"
	"dev.helix.debate/internal/events"
	"dev.helix.debate/internal/llm"
	"dev.helix.debate/internal/models"
	"dev.helix.debate/internal/providers"
)

// ErrConfig marks orchestration-level configuration errors, detected
// before any model call is issued and distinct from acquisition errors.
var ErrConfig = errors.New("invalid session configuration")

// synthesisTemperature is the fixed temperature for the synthesis call,
// independent of either participant's configured temperature.
const synthesisTemperature = 0.6

// defaultPacing is the inter-call delay between rebuttal productions,
// kept to avoid provider rate limits.
const defaultPacing = time.Second

// Config describes one orchestration session.
type Config struct {
	Participant1 models.BackendConfig
	Participant2 models.BackendConfig
	// Streaming selects incremental acquisition with live fragment
	// forwarding to the event sink.
	Streaming bool
	// Pacing overrides the inter-call delay. Negative disables it;
	// zero selects the default.
	Pacing time.Duration
}

func (c Config) pacing() time.Duration {
	switch {
	case c.Pacing < 0:
		return 0
	case c.Pacing == 0:
		return defaultPacing
	default:
		return c.Pacing
	}
}

// Orchestrator drives a session turn by turn: it builds each prompt from
// accumulated transcript state, invokes the acquirer for the correct
// backend and maintains the transcript and phase/round counters. It never
// writes to any global output; progress is emitted only to the configured
// sink.
type Orchestrator struct {
	cfg      Config
	client1  llm.ChatClient
	client2  llm.ChatClient
	acquirer *acquire.Acquirer
	sink     events.Sink
	logger   *logrus.Logger
}

// NewOrchestrator wires an orchestrator from its collaborators. GUI, CLI
// and server front-ends differ only in the sink and clients they supply.
func NewOrchestrator(cfg Config, client1, client2 llm.ChatClient, sink events.Sink, logger *logrus.Logger) *Orchestrator {
	if sink == nil {
		sink = events.NopSink
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Orchestrator{
		cfg:      cfg,
		client1:  client1,
		client2:  client2,
		acquirer: acquire.NewAcquirer(logger),
		sink:     sink,
		logger:   logger,
	}
}

func (o *Orchestrator) validate(question string) error {
	if question == "" {
		return fmt.Errorf("%w: question must not be empty", ErrConfig)
	}
	if o.cfg.Participant1.APIKey == "" {
		return fmt.Errorf("%w: participant 1 API key is required", ErrConfig)
	}
	if o.cfg.Participant2.APIKey == "" {
		return fmt.Errorf("%w: participant 2 API key is required", ErrConfig)
	}
	if o.cfg.Participant1.Model == "" || o.cfg.Participant2.Model == "" {
		return fmt.Errorf("%w: both participant models are required", ErrConfig)
	}
	return nil
}

// selectSynthesisBackend picks the model for the synthesis call: prefer
// participant 1 when its identifier is flagship tier, otherwise use
// participant 2. Both workflows share this rule.
func (o *Orchestrator) selectSynthesisBackend() (models.BackendConfig, llm.ChatClient) {
	if providers.IsFlagship(o.cfg.Participant1.Model) {
		return o.cfg.Participant1.WithTemperature(synthesisTemperature), o.client1
	}
	return o.cfg.Participant2.WithTemperature(synthesisTemperature), o.client2
}

// produce runs one turn: cancellation check, acquisition, transcript
// append and event emission. The turn index inputs are only bookkeeping;
// the produced turn is returned for prompt chaining.
func (o *Orchestrator) produce(ctx context.Context, client llm.ChatClient, backend models.BackendConfig, system, user, speaker string, phase models.Phase, round int, state *sessionState) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	messages := []models.ChatMessage{
		{Role: models.RoleSystem, Content: system},
		{Role: models.RoleUser, Content: user},
	}

	var sink acquire.FragmentSink
	if o.cfg.Streaming {
		sink = func(fragment string) {
			o.sink.Publish(events.Text(fragment))
		}
	}

	content, err := o.acquirer.Acquire(ctx, client, backend, messages, o.cfg.Streaming, sink)
	if err != nil {
		return "", err
	}

	turn := models.Turn{Speaker: speaker, Content: content, Phase: phase, Round: round}
	state.transcript = append(state.transcript, turn)
	o.sink.Publish(events.TurnComplete(turn))
	o.sink.Publish(events.Progress(len(state.transcript) * 100 / state.totalTurns))

	return content, nil
}

// pace waits the configured inter-call delay, honouring cancellation.
func (o *Orchestrator) pace(ctx context.Context) error {
	d := o.cfg.pacing()
	if d == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// finish emits the terminal event and assembles the session result.
func (o *Orchestrator) finish(question string, state *sessionState) *models.SessionResult {
	final, _ := state.transcript.Final()
	o.sink.Publish(events.SessionComplete())
	return &models.SessionResult{
		ID:           uuid.New().String(),
		Question:     question,
		Conversation: state.transcript,
		FinalAnswer:  final.Content,
	}
}

// fail emits the terminal failure event and wraps the turn error with its
// phase position. No partial transcript survives a failed turn.
func (o *Orchestrator) fail(phase models.Phase, round int, speaker string, err error) error {
	var wrapped error
	if round > 0 {
		wrapped = fmt.Errorf("%s round %d (%s) failed: %w", phase, round, speaker, err)
	} else {
		wrapped = fmt.Errorf("%s (%s) failed: %w", phase, speaker, err)
	}
	o.sink.Publish(events.Failure(wrapped))
	return wrapped
}

// sessionState is the per-run mutable state, owned exclusively by the
// running session.
type sessionState struct {
	transcript models.Transcript
	totalTurns int
}
