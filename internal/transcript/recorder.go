// Package transcript persists completed sessions as a structured JSON
// artifact and a human-readable text artifact.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/models"
)

// Recorder renders and writes session artifacts. Write failures are
// reported to the caller but never invalidate the in-memory result.
type Recorder struct {
	logger *logrus.Logger
}

func NewRecorder(logger *logrus.Logger) *Recorder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Recorder{logger: logger}
}

// document is the structured on-disk form. It carries no timestamps, so
// persisting the same session twice produces byte-identical output.
type document struct {
	InitialQuestion string   `json:"initial_question"`
	Conversation    []record `json:"conversation"`
	FinalAnswer     string   `json:"final_answer"`
}

type record struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MarshalJSON renders the deterministic structured form of a session.
func MarshalJSON(result *models.SessionResult) ([]byte, error) {
	doc := document{
		InitialQuestion: result.Question,
		Conversation:    make([]record, 0, len(result.Conversation)),
		FinalAnswer:     result.FinalAnswer,
	}
	for _, turn := range result.Conversation {
		doc.Conversation = append(doc.Conversation, record{Role: turn.Speaker, Content: turn.Content})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderText renders the human-readable form: question header, each
// non-final turn as a delimited block, and a dedicated final-answer
// section. The final turn appears only in that section.
func RenderText(result *models.SessionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Debate topic: %s\n\n", result.Question)
	b.WriteString("===== Conversation =====\n\n")

	body := result.Conversation
	if len(body) > 0 {
		body = body[:len(body)-1]
	}
	for _, turn := range body {
		fmt.Fprintf(&b, "【%s】\n%s\n\n", turn.Speaker, turn.Content)
		b.WriteString(strings.Repeat("-", 40) + "\n\n")
	}

	b.WriteString("===== Final Conclusion =====\n\n")
	b.WriteString(result.FinalAnswer)
	b.WriteString("\n")

	return b.String()
}

// SaveJSON writes the structured form to path.
func (r *Recorder) SaveJSON(result *models.SessionResult, path string) error {
	data, err := MarshalJSON(result)
	if err != nil {
		return err
	}
	if err := r.write(path, data); err != nil {
		return err
	}
	r.logger.WithField("path", path).Info("session saved")
	return nil
}

// SaveText writes the human-readable form to path.
func (r *Recorder) SaveText(result *models.SessionResult, path string) error {
	if err := r.write(path, []byte(RenderText(result))); err != nil {
		return err
	}
	r.logger.WithField("path", path).Info("conversation log saved")
	return nil
}

func (r *Recorder) write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
