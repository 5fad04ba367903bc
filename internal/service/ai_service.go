package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/ai"
	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/metrics"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// AIService fronts the Gemini gateway with the data each operation
// needs: the system log for reports, user records for dossiers and the
// catalog for visual search.
type AIService struct {
	gateway  *ai.Gateway
	visual   *ai.VisualSearcher
	userRepo repository.UserRepository
	logRepo  repository.LogRepository
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewAIService creates a new AIService.
func NewAIService(gateway *ai.Gateway, visual *ai.VisualSearcher, userRepo repository.UserRepository, logRepo repository.LogRepository, products repository.ProductRepository, logger zerolog.Logger) *AIService {
	return &AIService{
		gateway:  gateway,
		visual:   visual,
		userRepo: userRepo,
		logRepo:  logRepo,
		products: products,
		logger:   logger.With().Str("service", "ai").Logger(),
	}
}

// AdminReport answers an owner question over recent logs and the user
// directory. The answer is always text: generation failures come back
// as the gateway's fixed error strings.
func (s *AIService) AdminReport(ctx context.Context, query string) (string, error) {
	logs, err := s.logRepo.List(ctx, 50)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	metrics.AIRequestsTotal.WithLabelValues("admin_report", "requested").Inc()
	return s.gateway.AdminReport(ctx, query, logs, users), nil
}

// UserDossier profiles one user from their behavior log.
func (s *AIService) UserDossier(ctx context.Context, username string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	metrics.AIRequestsTotal.WithLabelValues("user_dossier", "requested").Inc()
	return s.gateway.UserDossier(ctx, user), nil
}

// VisualSearch matches an uploaded photo against the catalog. If the
// model finishes inside the timeout the job comes back done, with the
// matched product resolved; otherwise the pending job is returned and
// the client polls VisualSearchResult.
func (s *AIService) VisualSearch(ctx context.Context, imageBase64 string) (*ai.VisualJob, *domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	metrics.AIRequestsTotal.WithLabelValues("visual_search", "requested").Inc()
	job, err := s.visual.Search(ctx, imageBase64, products)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	product := s.resolveMatch(ctx, job)
	return job, product, nil
}

// VisualSearchResult polls a previously started job.
func (s *AIService) VisualSearchResult(ctx context.Context, jobID string) (*ai.VisualJob, *domain.Product, error) {
	job, err := s.visual.Poll(ctx, jobID)
	if err != nil {
		if errors.Is(err, ai.ErrJobNotFound) {
			return nil, nil, ai.ErrJobNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	product := s.resolveMatch(ctx, job)
	return job, product, nil
}

// PendingMessage is the user-facing text for an unfinished job.
func (s *AIService) PendingMessage() string {
	return s.visual.PendingMessage()
}

// resolveMatch loads the matched product of a done job, tolerating a
// model answer that names a product that no longer exists.
func (s *AIService) resolveMatch(ctx context.Context, job *ai.VisualJob) *domain.Product {
	if !job.Matched() {
		return nil
	}

	product, err := s.products.GetByID(ctx, job.ProductID)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Error().Err(err).Str("product_id", job.ProductID).Msg("failed to resolve visual match")
		}
		return nil
	}
	return product
}
