package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/coolestowl/slack-ai-council/internal/council"
)

// RunTargeted asks one participant a follow-up question.
//
// The question is stored tagged with the target's key, so only that
// participant ever sees it in a filtered view, then a single
// generation runs against the updated thread. The model name is
// matched against display names, exact first, then unique substring.
func (o *Orchestrator) RunTargeted(ctx context.Context, threadID, modelName, question string) (Result, error) {
	ctx, span := o.tracer.Start(ctx, "council.targeted")
	defer span.End()
	span.SetAttributes(
		attribute.String("thread.id", threadID),
		attribute.String("model", modelName),
	)

	o.metrics.RecordRun(ctx, "targeted")

	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, council.ErrEmptyQuestion
	}

	p, err := o.registry.ResolveModel(modelName)
	if err != nil {
		names := o.registry.DisplayNames()
		if len(names) == 0 {
			return Result{}, fmt.Errorf("resolving %q: %w", modelName, council.ErrNoParticipants)
		}
		return Result{}, fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
	}

	if err := o.sink.Publish(ctx, threadID, council.Message{
		Origin:           council.OriginUser,
		Content:          question,
		VisibilityTarget: p.Key(),
	}); err != nil {
		return Result{}, fmt.Errorf("storing targeted question: %w", err)
	}

	snap, err := o.store.Fetch(ctx, threadID)
	if err != nil {
		return Result{}, err
	}

	done := o.metrics.GenerationStarted(ctx)
	defer done()

	view := withSystemPrompt(council.CompareSystemPrompt(p.DisplayName()), o.filter.ForParticipant(snap, p.Key()))

	start := time.Now()
	text, genErr := o.generate(ctx, p, view)
	o.metrics.RecordGeneration(ctx, p.Key(), time.Since(start), genErr)

	result := Result{Key: p.Key(), DisplayName: p.DisplayName(), Text: text, Err: genErr}
	if genErr != nil {
		o.logger.Warn("targeted generation failed",
			zap.String("thread", threadID),
			zap.String("participant", p.Key()),
			zap.Error(genErr))
		result.Text = failureText(p.DisplayName(), genErr)
	}

	if pubErr := o.publishResponse(ctx, threadID, p, result.Text); pubErr != nil {
		o.logger.Error("failed to publish targeted response",
			zap.String("thread", threadID),
			zap.String("participant", p.Key()),
			zap.Error(pubErr))
		if result.Err == nil {
			result.Err = pubErr
		}
	}

	return result, nil
}
