package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/sanitize"
)

func newCommentService(commentRepo *MockCommentRepository) *CommentService {
	audit := NewAuditService(NewMockLogRepository(), zerolog.Nop())
	return NewCommentService(commentRepo, audit, zerolog.Nop())
}

func TestCommentService_Add(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantText string
		wantErr  error
	}{
		{
			name:     "plain text",
			text:     "Отличная жидкость, беру вторую",
			wantText: "Отличная жидкость, беру вторую",
		},
		{
			name:     "profanity masked",
			text:     "сука как же вкусно",
			wantText: sanitize.Mask + " как же вкусно",
		},
		{
			name:     "html stripped",
			text:     "крутой <script>alert(1)</script>девайс",
			wantText: "крутой девайс",
		},
		{
			name:    "empty",
			text:    "   ",
			wantErr: ErrEmptyComment,
		},
		{
			name:    "html only",
			text:    "<b></b>",
			wantErr: ErrEmptyComment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCommentService(NewMockCommentRepository())

			comment, err := svc.Add(context.Background(), "1", "kolya", tt.text)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if comment.Text != tt.wantText {
				t.Errorf("expected text %q, got %q", tt.wantText, comment.Text)
			}
			if comment.Username != "kolya" || comment.ProductID != "1" {
				t.Errorf("unexpected attribution: %+v", comment)
			}
			if comment.Likes != 0 || len(comment.LikedBy) != 0 {
				t.Error("new comment must start without likes")
			}
			if comment.ID == "" || comment.Timestamp == 0 {
				t.Error("comment must carry ID and timestamp")
			}
			if strings.Contains(comment.Text, "<") {
				t.Errorf("markup leaked into stored text: %q", comment.Text)
			}
		})
	}
}

func TestCommentService_ToggleLike(t *testing.T) {
	commentRepo := NewMockCommentRepository()
	svc := newCommentService(commentRepo)

	comment, err := svc.Add(context.Background(), "1", "kolya", "топ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	liked, err := svc.ToggleLike(context.Background(), comment.ID, "masha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if liked.Likes != 1 || !liked.LikedByUser("masha") {
		t.Fatalf("like not recorded: %+v", liked)
	}

	unliked, err := svc.ToggleLike(context.Background(), comment.ID, "masha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unliked.Likes != 0 || unliked.LikedByUser("masha") {
		t.Fatalf("second toggle must remove the like: %+v", unliked)
	}

	if _, err := svc.ToggleLike(context.Background(), "missing", "masha"); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestCommentService_ToggleLike_CountTracksSet(t *testing.T) {
	commentRepo := NewMockCommentRepository()
	svc := newCommentService(commentRepo)

	comment, _ := svc.Add(context.Background(), "1", "kolya", "топ")
	for _, user := range []string{"a", "b", "c"} {
		if _, err := svc.ToggleLike(context.Background(), comment.ID, user); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stored, _ := commentRepo.GetByID(context.Background(), comment.ID)
	if stored.Likes != len(stored.LikedBy) {
		t.Fatalf("likes (%d) must equal len(likedBy) (%d)", stored.Likes, len(stored.LikedBy))
	}
	if stored.Likes != 3 {
		t.Fatalf("expected 3 likes, got %d", stored.Likes)
	}
}

func TestCommentService_Delete(t *testing.T) {
	commentRepo := NewMockCommentRepository()
	svc := newCommentService(commentRepo)

	comment, _ := svc.Add(context.Background(), "1", "kolya", "топ")

	if err := svc.Delete(context.Background(), comment.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := commentRepo.GetByID(context.Background(), comment.ID); err == nil {
		t.Fatal("comment still present after delete")
	}

	if err := svc.Delete(context.Background(), comment.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}
