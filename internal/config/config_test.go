package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
question: "Will AI surpass human intelligence?"
mode: debate
rounds: 2
participant1:
  model: gpt-4o
  api_key: sk-first
  temperature: 0.7
participant2:
  model: deepseek-chat
  api_key: sk-second
  temperature: 0.9
`

func TestLoadFromString(t *testing.T) {
	cfg, err := NewLoader("").LoadFromString(validYAML)
	require.NoError(t, err)

	assert.Equal(t, "Will AI surpass human intelligence?", cfg.Question)
	assert.Equal(t, ModeDebate, cfg.Mode)
	assert.Equal(t, 2, cfg.Rounds)
	assert.Equal(t, "gpt-4o", cfg.Participant1.Model)
	assert.Equal(t, "sk-first", cfg.Participant1.APIKey)
	assert.Equal(t, 0.9, cfg.Participant2.TemperatureValue())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0644))

	loader := NewLoader(path)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loader.GetConfig())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := NewLoader("").Load()
	assert.Error(t, err)
}

func TestEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DEBATE_KEY", "sk-from-env")
	t.Setenv("TEST_DEBATE_BASE", "http://local:8000/v1")

	cfg, err := NewLoader("").LoadFromString(`
question: "Q"
participant1:
  model: gpt-4o
  api_key: ${TEST_DEBATE_KEY}
participant2:
  model: deepseek-chat
  api_key: sk-plain
  base_url: ${TEST_DEBATE_BASE}
`)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Participant1.APIKey)
	assert.Equal(t, "http://local:8000/v1", cfg.Participant2.BaseURL)
}

func TestApplyDefaults(t *testing.T) {
	cfg, err := NewLoader("").LoadFromString(`
question: "Q"
participant1:
  api_key: sk-1
participant2:
  api_key: sk-2
`)
	require.NoError(t, err)

	assert.Equal(t, ModeDebate, cfg.Mode)
	assert.Equal(t, 3, cfg.Rounds)
	assert.Equal(t, 3, cfg.Iterations)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "ai_debate_result.txt", cfg.Output)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Participant1.Model)
	assert.Equal(t, 0.7, cfg.Participant1.TemperatureValue())
	assert.Equal(t, 0.7, cfg.Participant2.TemperatureValue())
}

func TestExplicitZeroTemperatureSurvivesDefaults(t *testing.T) {
	cfg, err := NewLoader("").LoadFromString(`
question: "Q"
participant1:
  model: gpt-4o
  api_key: sk-1
  temperature: 0
participant2:
  model: deepseek-chat
  api_key: sk-2
`)
	require.NoError(t, err)

	// A deterministic participant keeps its configured zero; only the
	// absent field falls back to the default.
	assert.Equal(t, 0.0, cfg.Participant1.TemperatureValue())
	assert.Equal(t, 0.7, cfg.Participant2.TemperatureValue())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing question",
			yaml: "participant1: {api_key: a}\nparticipant2: {api_key: b}\n",
			want: "question is required",
		},
		{
			name: "bad mode",
			yaml: "question: Q\nmode: duel\nparticipant1: {api_key: a}\nparticipant2: {api_key: b}\n",
			want: "mode must be",
		},
		{
			name: "negative rounds",
			yaml: "question: Q\nrounds: -1\nparticipant1: {api_key: a}\nparticipant2: {api_key: b}\n",
			want: "rounds must be at least 1",
		},
		{
			name: "negative iterations",
			yaml: "question: Q\nmode: optimize\niterations: -2\nparticipant1: {api_key: a}\nparticipant2: {api_key: b}\n",
			want: "iterations must be at least 1",
		},
		{
			name: "missing key",
			yaml: "question: Q\nparticipant1: {model: gpt-4o}\nparticipant2: {api_key: b}\n",
			want: "participant1 api_key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader("").LoadFromString(tt.yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := NewLoader("").LoadFromString("question: [unclosed")
	assert.Error(t, err)
}
