package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/coolestowl/slack-ai-council/internal/council"
	"github.com/coolestowl/slack-ai-council/internal/participant"
)

// RunDebate runs a sequential debate over the given participants.
//
// Speaking order and roles come from the debate plan: participants are
// shuffled, capped at five, and assigned pro, con, and judge roles by
// count. The thread is refetched before every turn so each speaker's
// filtered view includes responses delivered earlier in the run that
// it is allowed to see. A failed turn publishes a failure notice and
// the debate moves on.
func (o *Orchestrator) RunDebate(ctx context.Context, threadID string, parts []participant.Participant) ([]DebateTurnResult, error) {
	ctx, span := o.tracer.Start(ctx, "council.debate")
	defer span.End()
	span.SetAttributes(
		attribute.String("thread.id", threadID),
		attribute.Int("participants", len(parts)),
	)

	o.metrics.RecordRun(ctx, "debate")

	if len(parts) < 2 {
		if err := o.publishNotice(ctx, threadID, "A debate needs at least two configured AI participants."); err != nil {
			o.logger.Error("failed to publish notice", zap.String("thread", threadID), zap.Error(err))
		}
		return nil, council.ErrNotEnoughParticipants
	}

	byKey := make(map[string]participant.Participant, len(parts))
	keys := make([]string, len(parts))
	for i, p := range parts {
		keys[i] = p.Key()
		byKey[p.Key()] = p
	}

	o.randMu.Lock()
	plan, err := council.PlanDebate(keys, o.rng)
	o.randMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("planning debate: %w", err)
	}

	results := make([]DebateTurnResult, 0, len(plan))
	for _, turn := range plan {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		results = append(results, o.debateTurn(ctx, threadID, byKey[turn.Key], turn.Role))
	}

	return results, nil
}

func (o *Orchestrator) debateTurn(ctx context.Context, threadID string, p participant.Participant, role council.DebateRole) DebateTurnResult {
	ctx, span := o.tracer.Start(ctx, "council.debate_turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("participant", p.Key()),
		attribute.String("role", string(role)),
	)

	done := o.metrics.GenerationStarted(ctx)
	defer done()

	result := DebateTurnResult{Key: p.Key(), DisplayName: p.DisplayName(), Role: role}

	snap, err := o.store.Fetch(ctx, threadID)
	if err != nil {
		result.Err = err
		result.Text = failureText(p.DisplayName(), err)
	} else {
		view := withSystemPrompt(council.DebateSystemPrompt(p.DisplayName(), role), o.filter.ForParticipant(snap, p.Key()))

		start := time.Now()
		text, genErr := o.generate(ctx, p, view)
		o.metrics.RecordGeneration(ctx, p.Key(), time.Since(start), genErr)

		result.Text = text
		result.Err = genErr
		if genErr != nil {
			o.logger.Warn("debate turn failed",
				zap.String("thread", threadID),
				zap.String("participant", p.Key()),
				zap.String("role", string(role)),
				zap.Error(genErr))
			result.Text = failureText(p.DisplayName(), genErr)
		}
	}

	if pubErr := o.publishResponse(ctx, threadID, p, result.Text); pubErr != nil {
		o.logger.Error("failed to publish debate turn",
			zap.String("thread", threadID),
			zap.String("participant", p.Key()),
			zap.Error(pubErr))
		if result.Err == nil {
			result.Err = pubErr
		}
	}

	return result
}
