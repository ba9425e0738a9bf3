package participant

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"golang.org/x/time/rate"

	"github.com/coolestowl/slack-ai-council/internal/council"
)

// googleAIParticipant backs a participant with the Gemini API.
type googleAIParticipant struct {
	key         string
	displayName string
	llm         *googleai.GoogleAI
	limiter     *rate.Limiter
	maxTokens   int
	temperature float64
}

func newGoogleAIParticipant(ctx context.Context, spec Spec) (Participant, error) {
	if spec.APIKey == "" {
		return nil, fmt.Errorf("participant %s: API key required", spec.Key)
	}
	if spec.Model == "" {
		return nil, fmt.Errorf("participant %s: model required", spec.Key)
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(spec.APIKey),
		googleai.WithDefaultModel(spec.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client for %s: %w", spec.Key, err)
	}

	return &googleAIParticipant{
		key:         spec.Key,
		displayName: spec.DisplayName,
		llm:         llm,
		limiter:     rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxTokens:   orDefaultTokens(spec.MaxTokens),
		temperature: orDefaultTemperature(spec.Temperature),
	}, nil
}

func (p *googleAIParticipant) Key() string         { return p.key }
func (p *googleAIParticipant) DisplayName() string { return p.displayName }

func (p *googleAIParticipant) Generate(ctx context.Context, messages []council.ChatMessage) (string, error) {
	content := toMessageContent(messages)
	return generateWithRetry(ctx, p.limiter, func(ctx context.Context) (string, error) {
		resp, err := p.llm.GenerateContent(ctx, content,
			llms.WithMaxTokens(p.maxTokens),
			llms.WithTemperature(p.temperature),
		)
		if err != nil {
			return "", err
		}
		return firstChoice(resp)
	})
}
