package debate

import (
	"context"
	"fmt"

	"dev.helix.debate/internal/models"
)

// RunDebate executes the adversarial debate workflow: both participants
// state opening positions, exchange rebuttals for the configured number of
// rounds, then a deterministically selected synthesis model reconciles the
// transcript. Phases are strictly ordered; a completed session always has
// 2 + 2*rounds + 1 turns.
func (o *Orchestrator) RunDebate(ctx context.Context, question string, rounds int) (*models.SessionResult, error) {
	if err := o.validate(question); err != nil {
		return nil, err
	}
	if rounds < 1 {
		return nil, fmt.Errorf("%w: rounds must be at least 1, got %d", ErrConfig, rounds)
	}

	speaker1 := fmt.Sprintf("AI 1 (%s)", o.cfg.Participant1.Model)
	speaker2 := fmt.Sprintf("AI 2 (%s)", o.cfg.Participant2.Model)

	o.logger.WithFields(map[string]interface{}{
		"question": question,
		"rounds":   rounds,
		"model1":   o.cfg.Participant1.Model,
		"model2":   o.cfg.Participant2.Model,
	}).Info("starting debate session")

	state := &sessionState{totalTurns: 2 + 2*rounds + 1}

	// Phase 1: opening statements.
	ai1Current, err := o.produce(ctx, o.client1, o.cfg.Participant1,
		debateRole1, openingPrompt(question, false),
		speaker1, models.PhaseOpening, 0, state)
	if err != nil {
		return nil, o.fail(models.PhaseOpening, 0, speaker1, err)
	}

	ai2Current, err := o.produce(ctx, o.client2, o.cfg.Participant2,
		debateRole2, openingPrompt(question, true),
		speaker2, models.PhaseOpening, 0, state)
	if err != nil {
		return nil, o.fail(models.PhaseOpening, 0, speaker2, err)
	}

	// Phase 2: rebuttal rounds. Each rebuttal sees the opponent's most
	// recent position, so participant 2 always answers the rebuttal just
	// produced in the same round.
	for round := 1; round <= rounds; round++ {
		o.logger.WithField("round", round).Info("debate round started")

		response, err := o.produce(ctx, o.client1, o.cfg.Participant1,
			debateRole1, rebuttalPrompt(question, ai1Current, ai2Current),
			speaker1, models.PhaseRebuttal, round, state)
		if err != nil {
			return nil, o.fail(models.PhaseRebuttal, round, speaker1, err)
		}
		ai1Current = response

		if err := o.pace(ctx); err != nil {
			return nil, o.fail(models.PhaseRebuttal, round, speaker1, err)
		}

		response, err = o.produce(ctx, o.client2, o.cfg.Participant2,
			debateRole2, rebuttalPrompt(question, ai2Current, ai1Current),
			speaker2, models.PhaseRebuttal, round, state)
		if err != nil {
			return nil, o.fail(models.PhaseRebuttal, round, speaker2, err)
		}
		ai2Current = response

		if err := o.pace(ctx); err != nil {
			return nil, o.fail(models.PhaseRebuttal, round, speaker2, err)
		}
	}

	// Phase 3: synthesis with the flagship-tier preferred model at the
	// fixed lower temperature.
	backend, client := o.selectSynthesisBackend()
	o.logger.WithField("model", backend.Model).Info("generating final conclusion")

	history := buildDebateHistory(question, state.transcript, rounds)
	if _, err := o.produce(ctx, client, backend,
		synthesizerRole, synthesisPrompt(question, history),
		FinalSpeaker, models.PhaseSynthesis, 0, state); err != nil {
		return nil, o.fail(models.PhaseSynthesis, 0, FinalSpeaker, err)
	}

	o.logger.Info("debate session completed")
	return o.finish(question, state), nil
}
