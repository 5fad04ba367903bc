package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// searchDebounce is how long a search term must sit unchanged before it
// is recorded. Keystroke-by-keystroke queries collapse into one entry.
const searchDebounce = time.Second

// TrackingService appends behavior entries to user records.
// Tracking is best effort and anonymous-safe: unknown or empty
// usernames are silently ignored.
type TrackingService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger

	mu       sync.Mutex
	pending  map[string]*time.Timer
	stopped  bool
	debounce time.Duration
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(userRepo repository.UserRepository, logger zerolog.Logger) *TrackingService {
	return &TrackingService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "tracking").Logger(),
		pending:  map[string]*time.Timer{},
		debounce: searchDebounce,
	}
}

// Track records one interaction on the user's behavior log, keeping
// only the most recent domain.MaxBehaviorEntries.
func (s *TrackingService) Track(ctx context.Context, username string, action domain.BehaviorAction, target string) {
	if username == "" {
		return
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("username", username).Msg("failed to load user for tracking")
		}
		return
	}

	user.BehaviorLog = append(user.BehaviorLog, domain.BehaviorEntry{
		Action:    action,
		Target:    target,
		Timestamp: time.Now().UnixMilli(),
	})
	if len(user.BehaviorLog) > domain.MaxBehaviorEntries {
		user.BehaviorLog = user.BehaviorLog[len(user.BehaviorLog)-domain.MaxBehaviorEntries:]
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to store behavior entry")
	}
}

// TrackSearch records a search term after the debounce window. A newer
// term from the same user resets the window and replaces the old one,
// so only the settled query lands in the behavior log.
func (s *TrackingService) TrackSearch(username, term string) {
	if username == "" || term == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if timer, ok := s.pending[username]; ok {
		timer.Stop()
	}

	s.pending[username] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		// A timer that fired while Stop was waiting on the lock must
		// not record after shutdown.
		if s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.pending, username)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Track(ctx, username, domain.ActionSearch, term)
	})
}

// ClearLog wipes a user's behavior log.
func (s *TrackingService) ClearLog(ctx context.Context, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.BehaviorLog = []domain.BehaviorEntry{}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	return nil
}

// Stop cancels pending debounced searches.
func (s *TrackingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for username, timer := range s.pending {
		timer.Stop()
		delete(s.pending, username)
	}
}
