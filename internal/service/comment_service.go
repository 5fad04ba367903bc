package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/metrics"
	"github.com/narama3535-tech/fazancloud/internal/repository"
	"github.com/narama3535-tech/fazancloud/internal/sanitize"
)

// CommentService handles product comments and likes.
type CommentService struct {
	commentRepo repository.CommentRepository
	audit       *AuditService
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, audit *AuditService, logger zerolog.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		audit:       audit,
		logger:      logger.With().Str("service", "comment").Logger(),
	}
}

// ListByProduct returns the comments for a product, newest first.
func (s *CommentService) ListByProduct(ctx context.Context, productID string) ([]*domain.Comment, error) {
	comments, err := s.commentRepo.ListByProduct(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to list comments")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return comments, nil
}

// Add posts a comment. The text is HTML-stripped and profanity-masked
// before it is stored; the raw submission never reaches the repository.
func (s *CommentService) Add(ctx context.Context, productID, username, text string) (*domain.Comment, error) {
	cleanText := sanitize.Profanity(text)
	if strings.TrimSpace(cleanText) == "" {
		metrics.CommentsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrEmptyComment
	}

	comment := &domain.Comment{
		ID:        uuid.New().String(),
		ProductID: productID,
		Username:  username,
		Text:      cleanText,
		Timestamp: time.Now().UnixMilli(),
		Likes:     0,
		LikedBy:   []string{},
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to create comment")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAction, "Комментарий добавлен", username, "Product ID: "+productID)
	metrics.CommentsTotal.WithLabelValues("posted").Inc()
	return comment, nil
}

// Delete removes a comment. Used by moderation.
func (s *CommentService) Delete(ctx context.Context, commentID string) error {
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		s.logger.Error().Err(err).Str("comment_id", commentID).Msg("failed to delete comment")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAction, "Комментарий удален", "Admin", "Comment ID: "+commentID)
	return nil
}

// ToggleLike flips the caller's like on a comment and returns the
// updated comment. Likes stays equal to len(LikedBy).
func (s *CommentService) ToggleLike(ctx context.Context, commentID, username string) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if comment.LikedByUser(username) {
		kept := make([]string, 0, len(comment.LikedBy))
		for _, u := range comment.LikedBy {
			if u != username {
				kept = append(kept, u)
			}
		}
		comment.LikedBy = kept
	} else {
		comment.LikedBy = append(comment.LikedBy, username)
	}
	comment.Likes = len(comment.LikedBy)

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		s.logger.Error().Err(err).Str("comment_id", commentID).Msg("failed to update comment likes")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return comment, nil
}
