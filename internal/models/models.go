// Package models defines the shared data types of the debate engine:
// backend configuration, chat messages, turns and session results.
package models

// ProviderType identifies the provider family a backend belongs to.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderDeepSeek  ProviderType = "deepseek"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderMoonshot  ProviderType = "moonshot"
	ProviderChatGLM   ProviderType = "chatglm"
	ProviderQwen      ProviderType = "qwen"
	ProviderErnie     ProviderType = "ernie"
	ProviderCustom    ProviderType = "custom"
)

// Chat message roles as used on the wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BackendConfig describes one configured model backend. It is immutable
// once constructed and safe to pass by value across goroutines.
type BackendConfig struct {
	Model       string       `json:"model"`
	APIKey      string       `json:"-"`
	Provider    ProviderType `json:"provider"`
	BaseURL     string       `json:"base_url,omitempty"`
	Temperature float64      `json:"temperature"`
}

// WithTemperature returns a copy of the config with the temperature replaced.
// Used by the orchestrator for the fixed synthesis temperature.
func (b BackendConfig) WithTemperature(t float64) BackendConfig {
	b.Temperature = t
	return b
}

// Phase names one stage of a workflow state machine.
type Phase string

const (
	// Debate workflow.
	PhaseOpening   Phase = "opening"
	PhaseRebuttal  Phase = "rebuttal"
	PhaseSynthesis Phase = "synthesis"

	// Optimization workflow.
	PhaseInitialAnalysis Phase = "initial_analysis"
	PhaseOptimize        Phase = "optimize"
	PhaseCritique        Phase = "critique"
	PhaseFinalSynthesis  Phase = "final_synthesis"
)

// Turn is one produced utterance. Turns are immutable once appended to a
// transcript; insertion order is the canonical conversation order.
type Turn struct {
	Speaker string `json:"role"`
	Content string `json:"content"`
	Phase   Phase  `json:"phase"`
	Round   int    `json:"round,omitempty"` // 1-based, zero when not applicable
}

// Transcript is the ordered, append-only sequence of turns of one session.
type Transcript []Turn

// Final returns the last turn, which for a completed session is the
// synthesis conclusion.
func (t Transcript) Final() (Turn, bool) {
	if len(t) == 0 {
		return Turn{}, false
	}
	return t[len(t)-1], true
}

// SessionResult is the outcome of a completed session.
type SessionResult struct {
	ID           string     `json:"id"`
	Question     string     `json:"initial_question"`
	Conversation Transcript `json:"conversation"`
	FinalAnswer  string     `json:"final_answer"`
}
