package debate

import (
	"context"
	"fmt"

	"dev.helix.debate/internal/models"
)

// RunOptimization executes the iterative optimization workflow: the
// analyst (participant 1) produces an initial analysis, then the optimizer
// (participant 2) and the analyst alternate improve/critique steps. No
// critique follows the final optimize step, so a completed session always
// has 1 + iterations + (iterations-1) + 1 turns.
func (o *Orchestrator) RunOptimization(ctx context.Context, question string, iterations int) (*models.SessionResult, error) {
	if err := o.validate(question); err != nil {
		return nil, err
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be at least 1, got %d", ErrConfig, iterations)
	}

	analyst := fmt.Sprintf("Analyst (%s)", o.cfg.Participant1.Model)
	optimizer := fmt.Sprintf("Optimizer (%s)", o.cfg.Participant2.Model)

	o.logger.WithFields(map[string]interface{}{
		"question":   question,
		"iterations": iterations,
		"model1":     o.cfg.Participant1.Model,
		"model2":     o.cfg.Participant2.Model,
	}).Info("starting optimization session")

	state := &sessionState{totalTurns: 1 + iterations + (iterations - 1) + 1}

	// Phase 1: initial analysis, which seeds the running context.
	analysisCurrent, err := o.produce(ctx, o.client1, o.cfg.Participant1,
		analystRole, analysisPrompt(question),
		analyst, models.PhaseInitialAnalysis, 0, state)
	if err != nil {
		return nil, o.fail(models.PhaseInitialAnalysis, 0, analyst, err)
	}

	// Phase 2: optimize/critique iterations. runningAnswer always holds
	// the optimizer's latest output.
	var runningAnswer string
	for iteration := 1; iteration <= iterations; iteration++ {
		o.logger.WithField("iteration", iteration).Info("optimization iteration started")

		runningAnswer, err = o.produce(ctx, o.client2, o.cfg.Participant2,
			optimizerRole, optimizePrompt(question, analysisCurrent),
			optimizer, models.PhaseOptimize, iteration, state)
		if err != nil {
			return nil, o.fail(models.PhaseOptimize, iteration, optimizer, err)
		}

		if iteration == iterations {
			break
		}

		if err := o.pace(ctx); err != nil {
			return nil, o.fail(models.PhaseCritique, iteration, analyst, err)
		}

		analysisCurrent, err = o.produce(ctx, o.client1, o.cfg.Participant1,
			analystRole, critiquePrompt(question, runningAnswer),
			analyst, models.PhaseCritique, iteration, state)
		if err != nil {
			return nil, o.fail(models.PhaseCritique, iteration, analyst, err)
		}

		if err := o.pace(ctx); err != nil {
			return nil, o.fail(models.PhaseCritique, iteration, analyst, err)
		}
	}

	// Phase 3: final synthesis over the whole optimize/critique history,
	// same tier rule and fixed temperature as the debate workflow.
	backend, client := o.selectSynthesisBackend()
	o.logger.WithField("model", backend.Model).Info("generating final answer")

	history := buildOptimizationHistory(question, state.transcript)
	if _, err := o.produce(ctx, client, backend,
		finalizerRole, finalSynthesisPrompt(question, history),
		FinalSpeaker, models.PhaseFinalSynthesis, 0, state); err != nil {
		return nil, o.fail(models.PhaseFinalSynthesis, 0, FinalSpeaker, err)
	}

	o.logger.Info("optimization session completed")
	return o.finish(question, state), nil
}
