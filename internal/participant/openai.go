package participant

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/coolestowl/slack-ai-council/internal/council"
)

var errEmptyResponse = errors.New("provider returned no choices")

// openAIParticipant backs a participant with any OpenAI-compatible
// chat completion endpoint. Grok and Doubao expose OpenAI-compatible
// APIs, so they use this adapter with a custom base URL.
type openAIParticipant struct {
	key         string
	displayName string
	llm         *openai.LLM
	limiter     *rate.Limiter
	maxTokens   int
	temperature float64
}

// newOpenAIParticipant creates an adapter for an OpenAI-compatible
// provider. The Spec must carry a non-empty API key and model.
func newOpenAIParticipant(spec Spec) (Participant, error) {
	if spec.APIKey == "" {
		return nil, fmt.Errorf("participant %s: API key required", spec.Key)
	}
	if spec.Model == "" {
		return nil, fmt.Errorf("participant %s: model required", spec.Key)
	}

	opts := []openai.Option{
		openai.WithToken(spec.APIKey),
		openai.WithModel(spec.Model),
	}
	if spec.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(spec.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client for %s: %w", spec.Key, err)
	}

	return &openAIParticipant{
		key:         spec.Key,
		displayName: spec.DisplayName,
		llm:         llm,
		limiter:     rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxTokens:   orDefaultTokens(spec.MaxTokens),
		temperature: orDefaultTemperature(spec.Temperature),
	}, nil
}

func (p *openAIParticipant) Key() string         { return p.key }
func (p *openAIParticipant) DisplayName() string { return p.displayName }

func (p *openAIParticipant) Generate(ctx context.Context, messages []council.ChatMessage) (string, error) {
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

func orDefaultTokens(n int) int {
	if n > 0 {
		return n
	}
	return defaultMaxTokens
}

func orDefaultTemperature(t float64) float64 {
	if t > 0 {
		return t
	}
	return defaultTemperature
}
