// Package orchestrator coordinates council request execution.
//
// The orchestrator owns the two execution strategies, compare and
// debate, plus targeted single-participant follow-ups. It never lets
// one participant's failure abort a run: generation errors are turned
// into delivered text so the conversation keeps its shape.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/coolestowl/slack-ai-council/internal/council"
	"github.com/coolestowl/slack-ai-council/internal/participant"
)

const instrumentationName = "github.com/coolestowl/slack-ai-council/internal/orchestrator"

// ThreadStore supplies conversation snapshots. Debate turns refetch
// between generations so each speaker sees deliveries made during the
// run.
type ThreadStore interface {
	Fetch(ctx context.Context, threadID string) (council.Snapshot, error)
}

// ResponseSink receives every message produced during a run, both
// participant responses and failure notices.
type ResponseSink interface {
	Publish(ctx context.Context, threadID string, msg council.Message) error
}

// Result is the outcome of one compare or targeted generation. Text is
// always deliverable; when Err is set, Text carries the failure notice
// that was published in the participant's place.
type Result struct {
	Key         string
	DisplayName string
	Text        string
	Err         error
}

// DebateTurnResult is the outcome of one debate turn.
type DebateTurnResult struct {
	Key         string
	DisplayName string
	Role        council.DebateRole
	Text        string
	Err         error
}

// Options tune orchestrator behavior.
type Options struct {
	// GenerationTimeout bounds each individual participant call. Zero
	// uses a default suited to reasoning models.
	GenerationTimeout time.Duration

	// RandSeed fixes the debate shuffle for reproducible runs. Zero
	// seeds from the clock.
	RandSeed int64
}

const defaultGenerationTimeout = 5 * time.Minute

// Orchestrator runs council requests against a participant registry.
type Orchestrator struct {
	registry *participant.Registry
	store    ThreadStore
	sink     ResponseSink
	filter   *council.Filter
	logger   *zap.Logger
	metrics  *Metrics
	tracer   trace.Tracer

	genTimeout time.Duration

	// rng backs the debate shuffle and is not safe for concurrent
	// use on its own.
	randMu sync.Mutex
	rng    *rand.Rand
}

// New creates an orchestrator.
func New(registry *participant.Registry, store ThreadStore, sink ResponseSink, filter *council.Filter, logger *zap.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := opts.GenerationTimeout
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}

	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Orchestrator{
		registry:   registry,
		store:      store,
		sink:       sink,
		filter:     filter,
		logger:     logger,
		metrics:    NewMetrics(logger),
		tracer:     otel.Tracer(instrumentationName),
		genTimeout: timeout,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// generate runs one bounded participant call.
func (o *Orchestrator) generate(ctx context.Context, p participant.Participant, messages []council.ChatMessage) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()
	return p.Generate(genCtx, messages)
}

// failureText renders a generation error as deliverable text. The
// wording matches what users of the council already see, so it stays
// stable.
func failureText(displayName string, err error) string {
	return fmt.Sprintf("Error generating response from %s: %v", displayName, err)
}

// publishResponse delivers one participant-authored message.
func (o *Orchestrator) publishResponse(ctx context.Context, threadID string, p participant.Participant, text string) error {
	return o.sink.Publish(ctx, threadID, council.Message{
		Origin:     council.OriginParticipant,
		AuthorKey:  p.Key(),
		AuthorName: p.DisplayName(),
		Content:    text,
	})
}

// publishNotice delivers operational text that belongs to no
// participant. The empty author key keeps it out of every filtered
// view.
func (o *Orchestrator) publishNotice(ctx context.Context, threadID, text string) error {
	return o.sink.Publish(ctx, threadID, council.Message{
		Origin:  council.OriginParticipant,
		Content: text,
	})
}

// withSystemPrompt prepends the system message to a filtered view.
func withSystemPrompt(system string, view []council.ChatMessage) []council.ChatMessage {
	out := make([]council.ChatMessage, 0, len(view)+1)
	out = append(out, council.ChatMessage{Role: council.RoleSystem, Content: system})
	return append(out, view...)
}
