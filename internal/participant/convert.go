package participant

import (
	"github.com/tmc/langchaingo/llms"

	"github.com/coolestowl/slack-ai-council/internal/council"
)

// toMessageContent converts a filtered conversation view to the
// provider client's message format.
func toMessageContent(messages []council.ChatMessage) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case council.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case council.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(role, msg.Content))
	}
	return out
}

// firstChoice extracts the response text from a provider result.
func firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
