package participant

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BuildRegistry constructs a registry from participant specs.
//
// A spec without an API key is skipped with a warning rather than
// failing startup, so a deployment can configure the full council and
// run with whichever credentials are present. An unknown provider is a
// configuration error and fails.
func BuildRegistry(ctx context.Context, logger *zap.Logger, specs []Spec) (*Registry, error) {
	registry := NewRegistry()

	for _, spec := range specs {
		if spec.APIKey == "" {
			logger.Warn("skipping participant without API key",
				zap.String("participant", spec.Key),
				zap.String("display_name", spec.DisplayName))
			continue
		}

		p, err := newFromSpec(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("building participant %s: %w", spec.Key, err)
		}
		if err := registry.Register(p); err != nil {
			return nil, err
		}

		logger.Info("registered participant",
			zap.String("participant", spec.Key),
			zap.String("display_name", spec.DisplayName),
			zap.String("provider", spec.Provider),
			zap.String("model", spec.Model))
	}

	return registry, nil
}

func newFromSpec(ctx context.Context, spec Spec) (Participant, error) {
	switch spec.Provider {
	case ProviderOpenAI:
		return newOpenAIParticipant(spec)
	case ProviderGoogleAI:
		return newGoogleAIParticipant(ctx, spec)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, spec.Provider)
	}
}
