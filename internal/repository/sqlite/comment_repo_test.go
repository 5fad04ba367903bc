package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/narama3535-tech/fazancloud/internal/domain"
)

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &domain.Comment{
		ID:        "c1",
		ProductID: "1",
		Username:  "kolya",
		Text:      "Отличная жижа",
		Timestamp: time.Now().UnixMilli(),
		Likes:     2,
		LikedBy:   []string{"petya", "masha"},
	}
	require.NoError(t, repo.Create(ctx, comment))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, comment.Text, got.Text)
	require.Equal(t, comment.Likes, got.Likes)
	require.Equal(t, comment.LikedBy, got.LikedBy)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrCommentNotFound)
}

func TestCommentRepository_ListByProduct_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	base := time.Now().UnixMilli()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Comment{
			ID:        fmt.Sprintf("c%d", i),
			ProductID: "1",
			Username:  "kolya",
			Text:      fmt.Sprintf("комментарий %d", i),
			Timestamp: base + int64(i),
		}))
	}
	// A comment on another product must not leak in.
	require.NoError(t, repo.Create(ctx, &domain.Comment{
		ID: "other", ProductID: "2", Username: "petya", Text: "не тот товар", Timestamp: base,
	}))

	comments, err := repo.ListByProduct(ctx, "1")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	require.Equal(t, "c2", comments[0].ID)
	require.Equal(t, "c0", comments[2].ID)
}

func TestCommentRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &domain.Comment{
		ID: "c1", ProductID: "1", Username: "kolya", Text: "норм", Timestamp: time.Now().UnixMilli(),
	}
	require.NoError(t, repo.Create(ctx, comment))

	comment.Likes = 1
	comment.LikedBy = []string{"petya"}
	require.NoError(t, repo.Update(ctx, comment))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, 1, got.Likes)
	require.Equal(t, []string{"petya"}, got.LikedBy)

	require.NoError(t, repo.Delete(ctx, "c1"))
	require.ErrorIs(t, repo.Delete(ctx, "c1"), domain.ErrCommentNotFound)
	require.ErrorIs(t, repo.Update(ctx, comment), domain.ErrCommentNotFound)
}
