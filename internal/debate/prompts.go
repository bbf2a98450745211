package debate

import (
	"fmt"
	"strings"

	"dev.helix.debate/internal/models"
)

// FinalSpeaker labels the synthesis turn in both workflows.
const FinalSpeaker = "Final Conclusion"

// System roles for the debate workflow. Participant 1 argues the
// conventional framing, participant 2 the unconventional one.
const (
	debateRole1 = "You are a critical-thinking AI assistant named 'AI 1'. " +
		"You are skilled at examining a question from multiple angles, but you lean toward mainstream, conventional positions. " +
		"Defend your own position while pointing out logical flaws the other AI's argument may contain."

	debateRole2 = "You are an innovative-thinking AI assistant named 'AI 2'. " +
		"You are skilled at proposing novel ideas and perspectives, and you lean toward unconventional, frontier positions. " +
		"Defend your own position while pointing out limitations the other AI's argument may contain."

	synthesizerRole = "You are an impartial, comprehensive summarizer. " +
		"Your task is to analyze a debate between two AIs, surface the key insights, and provide a balanced, integrated conclusion."
)

func openingPrompt(question string, unconventional bool) string {
	if unconventional {
		return fmt.Sprintf("State your position and supporting arguments on the following question: %s. "+
			"Try to offer a perspective that differs from the mainstream view. Stay logical and well organized, within 300 words.", question)
	}
	return fmt.Sprintf("State your position and supporting arguments on the following question: %s. "+
		"Stay logical and well organized, within 300 words.", question)
}

func rebuttalPrompt(question, ownPosition, opponentPosition string) string {
	return fmt.Sprintf("Original question: %s\n\nYour position:\n%s\n\nOpponent's position:\n%s\n\n"+
		"Rebut the weaknesses in the opponent's position while reinforcing your own argument. "+
		"Stay logical and well organized, within 250 words.", question, ownPosition, opponentPosition)
}

func synthesisPrompt(question, history string) string {
	return fmt.Sprintf("The following is a debate between two AIs on the question \"%s\". "+
		"Analyze both sides' positions and arguments, then provide a balanced conclusion that highlights the most valuable insights. "+
		"Do not simply restate both positions; genuinely integrate the best parts of each.\n\n%s", question, history)
}

// buildDebateHistory renders the full debate transcript for the synthesis
// prompt: question, both opening statements, then every rebuttal round.
func buildDebateHistory(question string, transcript models.Transcript, rounds int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "AI 1 opening statement: %s\n\n", transcript[0].Content)
	fmt.Fprintf(&b, "AI 2 opening statement: %s", transcript[1].Content)

	for i := 0; i < rounds; i++ {
		fmt.Fprintf(&b, "\n\nDebate round %d:", i+1)
		fmt.Fprintf(&b, "\nAI 1 rebuttal: %s", transcript[2*i+2].Content)
		fmt.Fprintf(&b, "\nAI 2 rebuttal: %s", transcript[2*i+3].Content)
	}

	return b.String()
}

// System roles for the optimization workflow.
const (
	analystRole = "You are a rigorous analyst. You break questions down, give candid preliminary answers, " +
		"and honestly identify the weaknesses of your own reasoning."

	optimizerRole = "You are an optimizer. You take a question together with the latest analysis of it " +
		"and produce a concretely improved answer that addresses the identified weaknesses."

	finalizerRole = "You are an impartial finalizer. You review an iterative optimization history and " +
		"produce the strongest possible final answer."
)

func analysisPrompt(question string) string {
	return fmt.Sprintf("Analyze the following question, give a preliminary answer, and explicitly name the weaknesses of your own answer: %s", question)
}

func optimizePrompt(question, analysis string) string {
	return fmt.Sprintf("Original question: %s\n\nLatest analysis:\n%s\n\n"+
		"Produce an improved answer that addresses the weaknesses identified above.", question, analysis)
}

func critiquePrompt(question, answer string) string {
	return fmt.Sprintf("Original question: %s\n\nCurrent best answer:\n%s\n\n"+
		"Critique this answer: identify remaining gaps, errors or missed considerations.", question, answer)
}

func finalSynthesisPrompt(question, history string) string {
	return fmt.Sprintf("The following is the iterative optimization history for the question \"%s\". "+
		"Produce a final answer that is at least as good as any intermediate answer, incorporating the strongest elements of each.\n\n%s", question, history)
}

// buildOptimizationHistory renders the analysis/optimize/critique history
// for the final synthesis prompt.
func buildOptimizationHistory(question string, transcript models.Transcript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s", question)
	for _, turn := range transcript {
		fmt.Fprintf(&b, "\n\n%s: %s", turn.Speaker, turn.Content)
	}
	return b.String()
}
