package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/narama3535-tech/fazancloud/internal/domain"
)

func TestChatRepository_SaveAndHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	history, err := repo.History(ctx, "kolya")
	require.NoError(t, err)
	require.Empty(t, history)

	now := time.Now().UnixMilli()
	transcript := []domain.ChatMessage{
		{ID: "m1", Role: domain.ChatRoleUser, Text: "что взять на лето?", Timestamp: now},
		{ID: "m2", Role: domain.ChatRoleAI, Text: "Бери Husky Лесные ягоды", Timestamp: now + 1},
	}
	require.NoError(t, repo.Save(ctx, "kolya", transcript))

	history, err = repo.History(ctx, "kolya")
	require.NoError(t, err)
	require.Equal(t, transcript, history)

	// Save replaces the whole transcript.
	require.NoError(t, repo.Save(ctx, "kolya", transcript[:1]))
	history, err = repo.History(ctx, "kolya")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "m1", history[0].ID)

	// Saving empty wipes it.
	require.NoError(t, repo.Save(ctx, "kolya", nil))
	history, err = repo.History(ctx, "kolya")
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestChatRepository_TranscriptsAreIsolated(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	now := time.Now().UnixMilli()
	require.NoError(t, repo.Save(ctx, "kolya", []domain.ChatMessage{
		{ID: "m1", Role: domain.ChatRoleUser, Text: "привет", Timestamp: now},
	}))
	require.NoError(t, repo.Save(ctx, "petya", []domain.ChatMessage{
		{ID: "m2", Role: domain.ChatRoleUser, Text: "здарова", Timestamp: now},
	}))

	history, err := repo.History(ctx, "kolya")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "m1", history[0].ID)
}
