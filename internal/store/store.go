// Package store provides thread message storage for the council.
//
// The in-memory implementation is the system of record for a running
// instance. Delivery is at-least-once from the caller's perspective;
// durable persistence is out of scope and handled by whatever chat
// platform fronts the service.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/coolestowl/slack-ai-council/internal/council"
)

// ErrThreadNotFound is returned when fetching a thread with no
// messages.
var ErrThreadNotFound = errors.New("thread not found")

// MemStore is an in-memory, thread-safe message store. It satisfies
// both the orchestrator's ThreadStore and ResponseSink.
type MemStore struct {
	mu      sync.RWMutex
	threads map[string][]council.Message
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{threads: make(map[string][]council.Message)}
}

// Append stores a message at the end of a thread, creating the thread
// on first use. A missing message ID is assigned a UUID. The stored
// message is returned.
func (s *MemStore) Append(ctx context.Context, threadID string, msg council.Message) (council.Message, error) {
	if err := ctx.Err(); err != nil {
		return council.Message{}, err
	}
	if threadID == "" {
		return council.Message{}, errors.New("thread ID must not be empty")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.threads[threadID]; !exists {
		ThreadsActive.Inc()
	}
	s.threads[threadID] = append(s.threads[threadID], msg)
	MessagesTotal.WithLabelValues(string(msg.Origin)).Inc()
	return msg, nil
}

// Publish appends a message to a thread, satisfying the orchestrator's
// response sink.
func (s *MemStore) Publish(ctx context.Context, threadID string, msg council.Message) error {
	_, err := s.Append(ctx, threadID, msg)
	return err
}

// Fetch returns a snapshot of a thread's messages in append order. The
// returned slice is a copy.
func (s *MemStore) Fetch(ctx context.Context, threadID string) (council.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return council.Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.threads[threadID]
	if !ok {
		return council.Snapshot{}, ErrThreadNotFound
	}

	out := make([]council.Message, len(msgs))
	copy(out, msgs)
	return council.Snapshot{ThreadID: threadID, Messages: out}, nil
}

// Len returns the number of messages in a thread, zero when the thread
// does not exist.
func (s *MemStore) Len(threadID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads[threadID])
}
