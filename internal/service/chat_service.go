package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/ai"
	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
	"github.com/narama3535-tech/fazancloud/internal/sanitize"
)

// ChatService runs the storefront sales assistant. Each user has one
// transcript, replaced wholesale on every exchange.
type ChatService struct {
	chatRepo    repository.ChatRepository
	productRepo repository.ProductRepository
	gateway     *ai.Gateway
	logger      zerolog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(chatRepo repository.ChatRepository, productRepo repository.ProductRepository, gateway *ai.Gateway, logger zerolog.Logger) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		productRepo: productRepo,
		gateway:     gateway,
		logger:      logger.With().Str("service", "chat").Logger(),
	}
}

// History returns the user's transcript, oldest first.
func (s *ChatService) History(ctx context.Context, username string) ([]domain.ChatMessage, error) {
	messages, err := s.chatRepo.History(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to load chat history")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return messages, nil
}

// Ask sends one message to the assistant and returns the updated
// transcript. The assistant answers against the current catalog; a
// gateway failure still yields a reply (the gateway's fallback text),
// so the transcript always advances by two messages.
func (s *ChatService) Ask(ctx context.Context, username, text string) ([]domain.ChatMessage, error) {
	cleanText := sanitize.Input(text)
	if strings.TrimSpace(cleanText) == "" {
		return nil, ErrEmptyComment
	}

	messages, err := s.chatRepo.History(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	now := time.Now().UnixMilli()
	messages = append(messages, domain.ChatMessage{
		ID:        uuid.New().String(),
		Role:      domain.ChatRoleUser,
		Text:      cleanText,
		Timestamp: now,
	})

	reply := s.gateway.Advice(ctx, cleanText, products)

	messages = append(messages, domain.ChatMessage{
		ID:        uuid.New().String(),
		Role:      domain.ChatRoleAI,
		Text:      reply,
		Timestamp: time.Now().UnixMilli(),
	})

	if err := s.chatRepo.Save(ctx, username, messages); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to save chat history")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return messages, nil
}

// Clear wipes the user's transcript.
func (s *ChatService) Clear(ctx context.Context, username string) error {
	if err := s.chatRepo.Save(ctx, username, []domain.ChatMessage{}); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return nil
}
