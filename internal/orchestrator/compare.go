package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/coolestowl/slack-ai-council/internal/council"
	"github.com/coolestowl/slack-ai-council/internal/participant"
)

// RunCompare runs every given participant concurrently against its own
// filtered view of the thread and publishes each response as it
// completes. A participant failure is published as a failure notice
// and never affects the other participants.
//
// Results are returned in the order the participants were given, not
// completion order. With no participants a notice is published and
// council.ErrNoParticipants returned.
func (o *Orchestrator) RunCompare(ctx context.Context, threadID string, parts []participant.Participant) ([]Result, error) {
	ctx, span := o.tracer.Start(ctx, "council.compare")
	defer span.End()
	span.SetAttributes(
		attribute.String("thread.id", threadID),
		attribute.Int("participants", len(parts)),
	)

	o.metrics.RecordRun(ctx, "compare")

	if len(parts) == 0 {
		if err := o.publishNotice(ctx, threadID, "No AI participants are configured. Set at least one provider API key."); err != nil {
			o.logger.Error("failed to publish notice", zap.String("thread", threadID), zap.Error(err))
		}
		return nil, council.ErrNoParticipants
	}

	snap, err := o.store.Fetch(ctx, threadID)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(parts))
	var wg sync.WaitGroup

	for i, p := range parts {
		wg.Add(1)
		go func(i int, p participant.Participant) {
			defer wg.Done()
			results[i] = o.compareOne(ctx, threadID, snap, p)
		}(i, p)
	}
	wg.Wait()

	return results, nil
}

func (o *Orchestrator) compareOne(ctx context.Context, threadID string, snap council.Snapshot, p participant.Participant) Result {
	ctx, span := o.tracer.Start(ctx, "council.generate")
	defer span.End()
	span.SetAttributes(attribute.String("participant", p.Key()))

	done := o.metrics.GenerationStarted(ctx)
	defer done()

	view := withSystemPrompt(council.CompareSystemPrompt(p.DisplayName()), o.filter.ForParticipant(snap, p.Key()))

	start := time.Now()
	text, err := o.generate(ctx, p, view)
	o.metrics.RecordGeneration(ctx, p.Key(), time.Since(start), err)

	result := Result{Key: p.Key(), DisplayName: p.DisplayName(), Text: text, Err: err}
	if err != nil {
		o.logger.Warn("participant generation failed",
			zap.String("thread", threadID),
			zap.String("participant", p.Key()),
			zap.Error(err))
		result.Text = failureText(p.DisplayName(), err)
	}

	if pubErr := o.publishResponse(ctx, threadID, p, result.Text); pubErr != nil {
		o.logger.Error("failed to publish response",
			zap.String("thread", threadID),
			zap.String("participant", p.Key()),
			zap.Error(pubErr))
		if result.Err == nil {
			result.Err = pubErr
		}
	}

	return result
}
