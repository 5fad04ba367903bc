package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
)

func TestTrackingService_Track(t *testing.T) {
	userRepo := NewMockUserRepository()
	userRepo.users["kolya"] = domain.NewUser("kolya", "hash")
	svc := NewTrackingService(userRepo, zerolog.Nop())
	defer svc.Stop()

	svc.Track(context.Background(), "kolya", domain.ActionViewProduct, "XROS 3 Mini")

	log := userRepo.users["kolya"].BehaviorLog
	if len(log) != 1 {
		t.Fatalf("expected 1 behavior entry, got %d", len(log))
	}
	if log[0].Action != domain.ActionViewProduct || log[0].Target != "XROS 3 Mini" {
		t.Errorf("unexpected entry: %+v", log[0])
	}
	if log[0].Timestamp == 0 {
		t.Error("entry must carry a timestamp")
	}
}

func TestTrackingService_Track_IgnoresUnknown(t *testing.T) {
	userRepo := NewMockUserRepository()
	svc := NewTrackingService(userRepo, zerolog.Nop())
	defer svc.Stop()

	// Neither empty nor unknown usernames produce errors or writes.
	svc.Track(context.Background(), "", domain.ActionClick, "x")
	svc.Track(context.Background(), "ghost", domain.ActionClick, "x")

	if n, _ := userRepo.Count(context.Background()); n != 0 {
		t.Fatalf("expected no users touched, got %d", n)
	}
}

func TestTrackingService_Track_CapsLog(t *testing.T) {
	userRepo := NewMockUserRepository()
	u := domain.NewUser("kolya", "hash")
	for i := 0; i < domain.MaxBehaviorEntries; i++ {
		u.BehaviorLog = append(u.BehaviorLog, domain.BehaviorEntry{
			Action:    domain.ActionClick,
			Timestamp: int64(i),
		})
	}
	userRepo.users["kolya"] = u
	svc := NewTrackingService(userRepo, zerolog.Nop())
	defer svc.Stop()

	svc.Track(context.Background(), "kolya", domain.ActionLogin, "")

	log := userRepo.users["kolya"].BehaviorLog
	if len(log) != domain.MaxBehaviorEntries {
		t.Fatalf("expected log capped at %d, got %d", domain.MaxBehaviorEntries, len(log))
	}
	if log[len(log)-1].Action != domain.ActionLogin {
		t.Error("newest entry must survive the cap")
	}
	if log[0].Timestamp != 1 {
		t.Errorf("oldest entry must be dropped, log starts at timestamp %d", log[0].Timestamp)
	}
}

func TestTrackingService_TrackSearch_Debounce(t *testing.T) {
	userRepo := NewMockUserRepository()
	userRepo.users["kolya"] = domain.NewUser("kolya", "hash")
	svc := NewTrackingService(userRepo, zerolog.Nop())
	svc.debounce = 20 * time.Millisecond
	defer svc.Stop()

	// A typing burst; only the settled term should land.
	svc.TrackSearch("kolya", "h")
	svc.TrackSearch("kolya", "hu")
	svc.TrackSearch("kolya", "hus")
	svc.TrackSearch("kolya", "husky")

	deadline := time.After(time.Second)
	for {
		u, err := userRepo.GetByUsername(context.Background(), "kolya")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if log := u.BehaviorLog; len(log) > 0 {
			if len(log) != 1 {
				t.Fatalf("expected 1 debounced entry, got %d", len(log))
			}
			if log[0].Target != "husky" {
				t.Fatalf("expected settled term 'husky', got %q", log[0].Target)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("debounced search never recorded")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestTrackingService_TrackSearch_StopBeatsFiredTimer(t *testing.T) {
	userRepo := NewMockUserRepository()
	userRepo.users["kolya"] = domain.NewUser("kolya", "hash")
	svc := NewTrackingService(userRepo, zerolog.Nop())
	svc.debounce = 10 * time.Millisecond

	svc.TrackSearch("kolya", "husky")

	// Hold the lock across the debounce window so the fired timer
	// parks on it, and shut down before letting it through.
	svc.mu.Lock()
	time.Sleep(30 * time.Millisecond)
	svc.stopped = true
	svc.mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	u, _ := userRepo.GetByUsername(context.Background(), "kolya")
	if len(u.BehaviorLog) != 0 {
		t.Fatalf("search recorded after shutdown, got %d entries", len(u.BehaviorLog))
	}
}

func TestTrackingService_Stop_CancelsPending(t *testing.T) {
	userRepo := NewMockUserRepository()
	userRepo.users["kolya"] = domain.NewUser("kolya", "hash")
	svc := NewTrackingService(userRepo, zerolog.Nop())
	svc.debounce = 20 * time.Millisecond

	svc.TrackSearch("kolya", "husky")
	svc.Stop()

	time.Sleep(50 * time.Millisecond)
	u, _ := userRepo.GetByUsername(context.Background(), "kolya")
	if len(u.BehaviorLog) != 0 {
		t.Fatalf("stopped service must not record pending searches, got %d entries", len(u.BehaviorLog))
	}

	// After Stop, new searches are ignored.
	svc.TrackSearch("kolya", "pasito")
	time.Sleep(50 * time.Millisecond)
	u, _ = userRepo.GetByUsername(context.Background(), "kolya")
	if len(u.BehaviorLog) != 0 {
		t.Fatal("stopped service accepted a new search")
	}
}
