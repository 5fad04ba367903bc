package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// AuditService records system events into the bounded log. Writes are
// best effort: a failed append is logged and swallowed so auditing can
// never break the operation being audited.
type AuditService struct {
	logRepo repository.LogRepository
	logger  zerolog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(logRepo repository.LogRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{
		logRepo: logRepo,
		logger:  logger.With().Str("service", "audit").Logger(),
	}
}

// Record appends an event to the system log. An empty username is
// attributed to the system.
func (s *AuditService) Record(ctx context.Context, logType domain.LogType, message, username, details string) {
	if username == "" {
		username = domain.SystemUsername
	}

	entry := &domain.LogEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Type:      logType,
		Username:  username,
		Message:   message,
		Details:   details,
	}

	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("message", message).Msg("failed to append audit log entry")
	}
}

// List returns stored entries, newest first, up to limit.
// A non-positive limit returns all entries.
func (s *AuditService) List(ctx context.Context, limit int) ([]*domain.LogEntry, error) {
	entries, err := s.logRepo.List(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list audit log")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *AuditService) Count(ctx context.Context) (int64, error) {
	count, err := s.logRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return count, nil
}
