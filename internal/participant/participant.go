// Package participant defines the council participant contract and the
// LLM-backed adapters that satisfy it.
//
// A participant is one configured model in the council. Adapters wrap
// provider clients behind a uniform Generate call so the orchestrator
// never deals with provider-specific APIs. All adapters apply rate
// limiting and bounded retries with exponential backoff for transient
// provider failures.
package participant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/coolestowl/slack-ai-council/internal/council"
)

// Participant is one configured council member.
//
// Key is the stable configuration identifier used for context
// attribution. DisplayName is the human-facing name shown in responses
// and matched by model= directives. Generate produces one response for
// the given conversation view; the view already contains only what this
// participant is allowed to see.
type Participant interface {
	Key() string
	DisplayName() string
	Generate(ctx context.Context, messages []council.ChatMessage) (string, error)
}

// Spec describes one participant to construct. APIKey empty means the
// participant is configured but has no credential and must be skipped,
// not failed.
type Spec struct {
	Key         string
	DisplayName string
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// Supported provider identifiers.
const (
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// ErrUnknownProvider is returned for a Spec naming a provider no
// adapter implements.
var ErrUnknownProvider = errors.New("unknown provider")

const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.7
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond

	// Per-participant request rate. Council traffic is human-paced.
	defaultRateLimit = 2.0
	defaultBurst     = 4
)

// generateWithRetry runs fn under the rate limiter with bounded retries
// and exponential backoff for transient errors.
func generateWithRetry(ctx context.Context, limiter *rate.Limiter, fn func(context.Context) (string, error)) (string, error) {
	if err := limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= defaultMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := fn(ctx)
		if err == nil {
			return text, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryableError reports whether a provider error is worth retrying.
// Context cancellation is never retryable; beyond that the provider
// clients surface transient failures only as error text, so this
// matches on the usual markers.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429",
		"rate limit",
		"502",
		"503",
		"504",
		"timeout",
		"temporarily",
		"connection reset",
		"unexpected eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
