package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// stillProcessingText is returned when the model takes longer than the
// visual search timeout. The job keeps running; the client polls.
const stillProcessingText = "Все еще думаю над фото... Спроси результат чуть позже."

// ErrJobNotFound is returned when polling an unknown or expired job.
var ErrJobNotFound = errors.New("visual search job not found")

// JobStatus is the lifecycle state of a visual search job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
)

// VisualJob is the cached state of one visual search.
type VisualJob struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	ProductID string    `json:"product_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Done reports whether the job finished, matched or not.
func (j *VisualJob) Done() bool {
	return j.Status == JobDone
}

// Matched reports whether the finished job found a product.
func (j *VisualJob) Matched() bool {
	return j.Status == JobDone && j.ProductID != ""
}

// VisualSearcher runs visual matches asynchronously on top of the
// cache, so a slow model answer does not hold the HTTP request open
// past the configured timeout.
type VisualSearcher struct {
	gateway *Gateway
	cache   repository.Cache
	timeout time.Duration
	jobTTL  time.Duration
	logger  zerolog.Logger
}

// NewVisualSearcher creates a visual searcher.
func NewVisualSearcher(gateway *Gateway, cache repository.Cache, timeout, jobTTL time.Duration, logger zerolog.Logger) *VisualSearcher {
	return &VisualSearcher{
		gateway: gateway,
		cache:   cache,
		timeout: timeout,
		jobTTL:  jobTTL,
		logger:  logger.With().Str("service", "visual_search").Logger(),
	}
}

func jobKey(id string) string {
	return "visual_job:" + id
}

// Search starts a match against the catalog and waits up to the
// configured timeout. If the model answers in time, the finished job
// is returned directly. Otherwise the pending job is returned and the
// caller polls Poll with the job ID.
func (s *VisualSearcher) Search(ctx context.Context, imageBase64 string, products []*domain.Product) (*VisualJob, error) {
	job := &VisualJob{
		ID:        uuid.New().String(),
		Status:    JobPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.putJob(ctx, job); err != nil {
		return nil, err
	}

	done := make(chan string, 1)
	go func() {
		// Detached from the request context: the match keeps running
		// after the HTTP request times out so a later poll can find it.
		matchCtx, cancel := context.WithTimeout(context.Background(), s.gateway.cfg.Timeout)
		defer cancel()

		productID := s.gateway.VisualMatch(matchCtx, imageBase64, products)

		finished := &VisualJob{
			ID:        job.ID,
			Status:    JobDone,
			ProductID: productID,
			CreatedAt: job.CreatedAt,
		}
		if err := s.putJob(matchCtx, finished); err != nil {
			s.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to store visual search result")
		}
		done <- productID
	}()

	select {
	case productID := <-done:
		job.Status = JobDone
		job.ProductID = productID
		return job, nil
	case <-time.After(s.timeout):
		s.logger.Info().Str("job_id", job.ID).Msg("visual search still running, answering with pending job")
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Poll returns the current state of a job.
func (s *VisualSearcher) Poll(ctx context.Context, jobID string) (*VisualJob, error) {
	data, err := s.cache.Get(ctx, jobKey(jobID))
	if err != nil {
		if errors.Is(err, repository.ErrCacheMiss) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load visual search job: %w", err)
	}

	var job VisualJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode visual search job: %w", err)
	}
	return &job, nil
}

// PendingMessage is the user-facing text for a job that has not finished.
func (s *VisualSearcher) PendingMessage() string {
	return stillProcessingText
}

func (s *VisualSearcher) putJob(ctx context.Context, job *VisualJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode visual search job: %w", err)
	}
	if err := s.cache.Set(ctx, jobKey(job.ID), data, s.jobTTL); err != nil {
		return fmt.Errorf("failed to store visual search job: %w", err)
	}
	return nil
}
