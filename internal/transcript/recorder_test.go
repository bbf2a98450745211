package transcript

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.helix.debate/internal/models"
)

func sampleResult() *models.SessionResult {
	return &models.SessionResult{
		ID:       "session-1",
		Question: "Is the glass half full?",
		Conversation: models.Transcript{
			{Speaker: "AI 1 (gpt-4o)", Content: "Half full.", Phase: models.PhaseOpening},
			{Speaker: "AI 2 (deepseek-chat)", Content: "Half empty.", Phase: models.PhaseOpening},
			{Speaker: "Final Conclusion", Content: "It depends on the pour.", Phase: models.PhaseSynthesis},
		},
		FinalAnswer: "It depends on the pour.",
	}
}

func quietRecorder() *Recorder {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRecorder(logger)
}

func TestMarshalJSONLayout(t *testing.T) {
	data, err := MarshalJSON(sampleResult())
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "Is the glass half full?", parsed["initial_question"])
	assert.Equal(t, "It depends on the pour.", parsed["final_answer"])

	conversation, ok := parsed["conversation"].([]interface{})
	require.True(t, ok)
	require.Len(t, conversation, 3)

	first, ok := conversation[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "AI 1 (gpt-4o)", first["role"])
	assert.Equal(t, "Half full.", first["content"])
}

func TestPersistIsIdempotent(t *testing.T) {
	// The structured form embeds no timestamps, so writing the same
	// session to two destinations produces byte-identical files.
	dir := t.TempDir()
	recorder := quietRecorder()
	result := sampleResult()

	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	require.NoError(t, recorder.SaveJSON(result, pathA))
	require.NoError(t, recorder.SaveJSON(result, pathB))

	a, err := os.ReadFile(pathA)
	require.NoError(t, err)
	b, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleResult())

	assert.True(t, strings.HasPrefix(text, "Debate topic: Is the glass half full?\n"))
	assert.Contains(t, text, "【AI 1 (gpt-4o)】\nHalf full.")
	assert.Contains(t, text, "【AI 2 (deepseek-chat)】\nHalf empty.")
	assert.Contains(t, text, strings.Repeat("-", 40))

	// The final turn appears only in the dedicated section, not in the body.
	assert.NotContains(t, text, "【Final Conclusion】")
	final := strings.Index(text, "===== Final Conclusion =====")
	require.GreaterOrEqual(t, final, 0)
	assert.Contains(t, text[final:], "It depends on the pour.")
}

func TestSaveTextCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "nested", "conversation.txt")

	require.NoError(t, quietRecorder().SaveText(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Debate topic:")
}

func TestSaveJSONReportsWriteFailure(t *testing.T) {
	// Writing into a path whose parent is a file must fail, not panic.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := quietRecorder().SaveJSON(sampleResult(), filepath.Join(blocker, "out.json"))
	assert.Error(t, err)
}
