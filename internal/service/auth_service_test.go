package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/pkg/crypto"
)

// ownerPassword is the preimage of the embedded owner digest.
const ownerPassword = "123"

func newAuthService(userRepo *MockUserRepository) (*AuthService, *MockLogRepository) {
	logRepo := NewMockLogRepository()
	audit := NewAuditService(logRepo, zerolog.Nop())
	tracking := NewTrackingService(userRepo, zerolog.Nop())
	return NewAuthService(userRepo, audit, tracking, zerolog.Nop()), logRepo
}

func testClient() domain.ClientInfo {
	return domain.ClientInfo{
		IP:       "203.0.113.7",
		Location: "Moscow, Moscow, Russia",
		Device:   "Mozilla/5.0 (Linux; Android 13) Chrome/120.0",
		OS:       "Android",
		Browser:  "Chrome",
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		setup    func(*MockUserRepository)
		wantErr  error
	}{
		{
			name:     "success",
			username: "kolya",
			password: "secret",
		},
		{
			name:     "html stripped from username",
			username: "<b>kolya</b>",
			password: "secret",
		},
		{
			name:     "empty username",
			username: "   ",
			password: "secret",
			wantErr:  ErrInvalidUsername,
		},
		{
			name:     "script-only username",
			username: "<script>alert(1)</script>",
			password: "secret",
			wantErr:  ErrInvalidUsername,
		},
		{
			name:     "duplicate",
			username: "kolya",
			password: "secret",
			setup: func(m *MockUserRepository) {
				m.users["kolya"] = domain.NewUser("kolya", crypto.HashPassword("other"))
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name:     "duplicate different case",
			username: "KOLYA",
			password: "secret",
			setup: func(m *MockUserRepository) {
				m.users["kolya"] = domain.NewUser("kolya", crypto.HashPassword("other"))
			},
			wantErr: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := NewMockUserRepository()
			if tt.setup != nil {
				tt.setup(userRepo)
			}
			svc, _ := newAuthService(userRepo)

			user, err := svc.Register(context.Background(), tt.username, tt.password, testClient())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Username != "kolya" {
				t.Errorf("expected sanitized username 'kolya', got %q", user.Username)
			}
			if user.Role != domain.RoleUser {
				t.Errorf("expected role user, got %q", user.Role)
			}
			if user.PasswordHash != crypto.HashPassword(tt.password) {
				t.Error("stored hash does not match password digest")
			}
			if user.IP != "203.0.113.7" {
				t.Errorf("client info not applied, ip = %q", user.IP)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash := crypto.HashPassword("secret")

	tests := []struct {
		name     string
		username string
		password string
		setup    func(*MockUserRepository)
		wantErr  error
	}{
		{
			name:     "success",
			username: "kolya",
			password: "secret",
			setup: func(m *MockUserRepository) {
				m.users["kolya"] = domain.NewUser("kolya", hash)
			},
		},
		{
			name:     "case-insensitive username",
			username: "KoLyA",
			password: "secret",
			setup: func(m *MockUserRepository) {
				m.users["kolya"] = domain.NewUser("kolya", hash)
			},
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "secret",
			wantErr:  ErrUserNotFound,
		},
		{
			name:     "reserved name does not reveal absence",
			username: "vladeles",
			password: "wrong",
			wantErr:  ErrPrivilegedMismatch,
		},
		{
			name:     "reserved name administrator",
			username: "Administrator",
			password: "wrong",
			wantErr:  ErrPrivilegedMismatch,
		},
		{
			name:     "wrong password",
			username: "kolya",
			password: "wrong",
			setup: func(m *MockUserRepository) {
				m.users["kolya"] = domain.NewUser("kolya", hash)
			},
			wantErr: ErrInvalidPassword,
		},
		{
			name:     "banned account",
			username: "kolya",
			password: "secret",
			setup: func(m *MockUserRepository) {
				u := domain.NewUser("kolya", hash)
				u.IsBanned = true
				m.users["kolya"] = u
			},
			wantErr: ErrUserBanned,
		},
		{
			name:     "banned device",
			username: "kolya",
			password: "secret",
			setup: func(m *MockUserRepository) {
				u := domain.NewUser("kolya", hash)
				u.BannedDevice = testClient().Device
				m.users["kolya"] = u
			},
			wantErr: ErrDeviceBanned,
		},
		{
			name:     "ban checked before password",
			username: "kolya",
			password: "wrong",
			setup: func(m *MockUserRepository) {
				u := domain.NewUser("kolya", hash)
				u.IsBanned = true
				m.users["kolya"] = u
			},
			wantErr: ErrUserBanned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := NewMockUserRepository()
			if tt.setup != nil {
				tt.setup(userRepo)
			}
			svc, _ := newAuthService(userRepo)

			user, err := svc.Login(context.Background(), tt.username, tt.password, testClient())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Username != "kolya" {
				t.Errorf("expected username 'kolya', got %q", user.Username)
			}
			if user.IP != "203.0.113.7" {
				t.Errorf("client info not refreshed, ip = %q", user.IP)
			}
		})
	}
}

func TestAuthService_Login_WrongPasswordKeepsLastLogin(t *testing.T) {
	const seededLogin = int64(1700000000000)

	userRepo := NewMockUserRepository()
	u := domain.NewUser("kolya", crypto.HashPassword("secret"))
	u.LastLogin = seededLogin
	userRepo.users["kolya"] = u
	svc, _ := newAuthService(userRepo)

	_, err := svc.Login(context.Background(), "kolya", "wrong", testClient())
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if got := userRepo.users["kolya"].LastLogin; got != seededLogin {
		t.Errorf("failed login must not touch last login, got %d", got)
	}

	user, err := svc.Login(context.Background(), "kolya", "secret", testClient())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.LastLogin == seededLogin {
		t.Error("successful login must refresh last login")
	}
}

func TestAuthService_Login_OwnerPassword(t *testing.T) {
	t.Run("creates owner account", func(t *testing.T) {
		userRepo := NewMockUserRepository()
		svc, logRepo := newAuthService(userRepo)

		user, err := svc.Login(context.Background(), "vladeles", ownerPassword, testClient())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Username != domain.OwnerUsername {
			t.Errorf("expected username %q, got %q", domain.OwnerUsername, user.Username)
		}
		if user.Role != domain.RoleOwner {
			t.Errorf("expected role owner, got %q", user.Role)
		}
		if !user.IsVip {
			t.Error("owner account must be VIP")
		}
		if user.PasswordHash != privilegedPlaceholderHash {
			t.Errorf("expected placeholder hash, got %q", user.PasswordHash)
		}
		if !logRepo.hasLogMessage(domain.OwnerUsername + " вошел в систему") {
			t.Error("privileged login not audited")
		}
	})

	t.Run("refreshes existing owner account", func(t *testing.T) {
		userRepo := NewMockUserRepository()
		existing := domain.NewUser(domain.OwnerUsername, "stale")
		existing.Favorites = []string{"1", "2"}
		userRepo.users[userRepo.key(domain.OwnerUsername)] = existing
		svc, _ := newAuthService(userRepo)

		user, err := svc.Login(context.Background(), "Vladeles", ownerPassword, testClient())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(user.Favorites) != 2 {
			t.Errorf("favorites must survive a privileged refresh, got %v", user.Favorites)
		}
		if user.Role != domain.RoleOwner {
			t.Errorf("expected role owner, got %q", user.Role)
		}
	})

	t.Run("wrong username for owner password", func(t *testing.T) {
		userRepo := NewMockUserRepository()
		svc, _ := newAuthService(userRepo)

		_, err := svc.Login(context.Background(), "kolya", ownerPassword, testClient())
		if !errors.Is(err, ErrPrivilegedNameNeeded) {
			t.Fatalf("expected ErrPrivilegedNameNeeded, got %v", err)
		}
	})

	t.Run("the owner password never reaches regular auth", func(t *testing.T) {
		// A customer whose stored hash equals the owner digest must not
		// be reachable with that password through the normal ladder.
		userRepo := NewMockUserRepository()
		userRepo.users["kolya"] = domain.NewUser("kolya", crypto.HashPassword(ownerPassword))
		svc, _ := newAuthService(userRepo)

		_, err := svc.Login(context.Background(), "kolya", ownerPassword, testClient())
		if !errors.Is(err, ErrPrivilegedNameNeeded) {
			t.Fatalf("expected ErrPrivilegedNameNeeded, got %v", err)
		}
	})
}

func TestAuthService_ToggleFavorite(t *testing.T) {
	userRepo := NewMockUserRepository()
	userRepo.users["kolya"] = domain.NewUser("kolya", crypto.HashPassword("secret"))
	svc, _ := newAuthService(userRepo)

	user, err := svc.ToggleFavorite(context.Background(), "kolya", "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.HasFavorite("42") {
		t.Fatal("product not added to favorites")
	}

	user, err = svc.ToggleFavorite(context.Background(), "kolya", "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.HasFavorite("42") {
		t.Fatal("second toggle must remove the favorite")
	}

	if _, err := svc.ToggleFavorite(context.Background(), "ghost", "42"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_GetUser(t *testing.T) {
	userRepo := NewMockUserRepository()
	userRepo.users["kolya"] = domain.NewUser("kolya", crypto.HashPassword("secret"))
	svc, _ := newAuthService(userRepo)

	user, err := svc.GetUser(context.Background(), "KOLYA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "kolya" {
		t.Errorf("expected 'kolya', got %q", user.Username)
	}

	if _, err := svc.GetUser(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
