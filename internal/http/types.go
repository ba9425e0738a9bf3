// Package http provides the HTTP API for councild.
package http

import "github.com/coolestowl/slack-ai-council/internal/council"

// MessageRequest is the request body for POST /api/v1/threads/:id/messages.
type MessageRequest struct {
	// EventID identifies one delivery for deduplication. Optional;
	// requests without it are always processed.
	EventID string `json:"event_id"`

	// Text is the user's message, possibly carrying inline mode= and
	// model= directives.
	Text string `json:"text"`
}

// ParticipantResponse is one participant's contribution to a run.
type ParticipantResponse struct {
	Participant string `json:"participant"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role,omitempty"`
	Text        string `json:"text"`
	Failed      bool   `json:"failed,omitempty"`
}

// MessageResponse is the response body for POST /api/v1/threads/:id/messages.
type MessageResponse struct {
	Mode      string                `json:"mode,omitempty"`
	Duplicate bool                  `json:"duplicate,omitempty"`
	Responses []ParticipantResponse `json:"responses,omitempty"`
}

// AskRequest is the request body for POST /api/v1/threads/:id/ask.
type AskRequest struct {
	Model    string `json:"model"`
	Question string `json:"question"`
}

// AskResponse is the response body for POST /api/v1/threads/:id/ask.
type AskResponse struct {
	Participant string `json:"participant"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
	Failed      bool   `json:"failed,omitempty"`
}

// ThreadResponse is the response body for GET /api/v1/threads/:id.
type ThreadResponse struct {
	ThreadID string            `json:"thread_id"`
	Messages []council.Message `json:"messages"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
