package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolestowl/slack-ai-council/internal/council"
)

func TestMemStore_AppendAndFetch(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	first, err := s.Append(ctx, "t1", council.Message{Origin: council.OriginUser, Content: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID, "store assigns an ID")

	second, err := s.Append(ctx, "t1", council.Message{
		ID:      "fixed-id",
		Origin:  council.OriginParticipant,
		Content: "reply",
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", second.ID, "caller IDs are preserved")

	snap, err := s.Fetch(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", snap.ThreadID)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "hello", snap.Messages[0].Content)
	assert.Equal(t, "reply", snap.Messages[1].Content)
}

func TestMemStore_FetchUnknownThread(t *testing.T) {
	s := NewMemStore()

	_, err := s.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestMemStore_AppendValidation(t *testing.T) {
	s := NewMemStore()

	_, err := s.Append(context.Background(), "", council.Message{Content: "x"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Append(ctx, "t1", council.Message{Content: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemStore_FetchReturnsCopy(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.Append(ctx, "t1", council.Message{Origin: council.OriginUser, Content: "original"})
	require.NoError(t, err)

	snap, err := s.Fetch(ctx, "t1")
	require.NoError(t, err)
	snap.Messages[0].Content = "mutated"

	again, err := s.Fetch(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Messages[0].Content)
}

func TestMemStore_Publish(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Publish(ctx, "t1", council.Message{
		Origin:     council.OriginParticipant,
		AuthorKey:  "openai",
		AuthorName: "GPT-5.2",
		Content:    "answer",
	}))

	assert.Equal(t, 1, s.Len("t1"))
	assert.Equal(t, 0, s.Len("other"))
}
