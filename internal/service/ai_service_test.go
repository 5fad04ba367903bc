package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/ai"
	"github.com/narama3535-tech/fazancloud/internal/cache/memory"
	"github.com/narama3535-tech/fazancloud/internal/domain"
)

func newAIService(t *testing.T, userRepo *MockUserRepository) *AIService {
	t.Helper()
	cache := memory.NewCache()
	t.Cleanup(cache.Stop)

	gateway := offlineGateway()
	visual := ai.NewVisualSearcher(gateway, cache, 2*time.Second, time.Minute, zerolog.Nop())
	return NewAIService(gateway, visual, userRepo, NewMockLogRepository(), NewMockProductRepository(), zerolog.Nop())
}

func TestAIService_AdminReport(t *testing.T) {
	svc := newAIService(t, NewMockUserRepository())

	// With the gateway offline the report degrades to its fixed failure
	// text instead of erroring out.
	report, err := svc.AdminReport(context.Background(), "кто пытался взломать?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == "" {
		t.Fatal("report must never be empty")
	}
}

func TestAIService_UserDossier(t *testing.T) {
	userRepo := NewMockUserRepository()
	user := &domain.User{Username: "kolya", Role: domain.RoleUser}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	svc := newAIService(t, userRepo)

	dossier, err := svc.UserDossier(context.Background(), "kolya")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dossier == "" {
		t.Fatal("dossier must never be empty")
	}

	if _, err := svc.UserDossier(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAIService_VisualSearch(t *testing.T) {
	svc := newAIService(t, NewMockUserRepository())
	ctx := context.Background()

	// The offline gateway answers immediately with no match, so the job
	// completes inside the wait window.
	job, product, err := svc.VisualSearch(ctx, "aGVsbG8=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !job.Done() {
		t.Fatalf("expected a finished job, got status %q", job.Status)
	}
	if job.Matched() || product != nil {
		t.Errorf("offline gateway must not match anything, got product %+v", product)
	}

	// The finished job stays pollable.
	polled, product, err := svc.VisualSearchResult(ctx, job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !polled.Done() || product != nil {
		t.Errorf("unexpected poll result: job=%+v product=%+v", polled, product)
	}

	if _, _, err := svc.VisualSearchResult(ctx, "missing"); !errors.Is(err, ai.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
