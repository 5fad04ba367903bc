package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/ai"
	"github.com/narama3535-tech/fazancloud/internal/config"
	"github.com/narama3535-tech/fazancloud/internal/domain"
)

// offlineGateway has no API key, so every generation degrades to the
// fixed fallback text without touching the network.
func offlineGateway() *ai.Gateway {
	return ai.NewGateway(config.AIConfig{Timeout: time.Second}, zerolog.Nop())
}

func newChatService(chatRepo *MockChatRepository) *ChatService {
	return NewChatService(chatRepo, NewMockProductRepository(), offlineGateway(), zerolog.Nop())
}

func TestChatService_Ask(t *testing.T) {
	chatRepo := NewMockChatRepository()
	svc := newChatService(chatRepo)
	ctx := context.Background()

	messages, err := svc.Ask(ctx, "kolya", "что взять на лето?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected a user message and a reply, got %d messages", len(messages))
	}
	if messages[0].Role != domain.ChatRoleUser || messages[0].Text != "что взять на лето?" {
		t.Errorf("unexpected user message: %+v", messages[0])
	}
	if messages[1].Role != domain.ChatRoleAI || messages[1].Text == "" {
		t.Errorf("assistant must always answer, got %+v", messages[1])
	}
	if messages[0].ID == "" || messages[0].Timestamp == 0 {
		t.Error("messages must carry an ID and a timestamp")
	}

	// A second exchange extends the same transcript.
	messages, err = svc.Ask(ctx, "kolya", "а покрепче?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages after two exchanges, got %d", len(messages))
	}

	saved, _ := chatRepo.History(ctx, "kolya")
	if len(saved) != 4 {
		t.Fatalf("transcript not persisted, got %d messages", len(saved))
	}
}

func TestChatService_Ask_SanitizesText(t *testing.T) {
	svc := newChatService(NewMockChatRepository())

	messages, err := svc.Ask(context.Background(), "kolya", "привет <script>alert(1)</script>бро")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(messages[0].Text, "<") {
		t.Errorf("markup survived sanitization: %q", messages[0].Text)
	}
}

func TestChatService_Ask_RejectsEmpty(t *testing.T) {
	svc := newChatService(NewMockChatRepository())

	for _, text := range []string{"", "   ", "<script>alert(1)</script>"} {
		if _, err := svc.Ask(context.Background(), "kolya", text); !errors.Is(err, ErrEmptyComment) {
			t.Errorf("text %q: expected ErrEmptyComment, got %v", text, err)
		}
	}
}

func TestChatService_Clear(t *testing.T) {
	chatRepo := NewMockChatRepository()
	svc := newChatService(chatRepo)
	ctx := context.Background()

	if _, err := svc.Ask(ctx, "kolya", "привет"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Clear(ctx, "kolya"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages, err := svc.History(ctx, "kolya")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected empty transcript after clear, got %d messages", len(messages))
	}
}
