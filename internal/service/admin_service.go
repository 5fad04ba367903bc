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
	"github.com/narama3535-tech/fazancloud/internal/kv"
	"github.com/narama3535-tech/fazancloud/internal/pkg/crypto"
	"github.com/narama3535-tech/fazancloud/internal/repository"
	"github.com/narama3535-tech/fazancloud/internal/sanitize"
)

// resetPassword is the known value accounts are reset to.
const resetPassword = "12345"

// Site state keys in the key-value store.
const (
	lockdownKey     = "lockdown"
	announcementKey = "announcement"
)

// AdminService covers the owner console: user management, site
// lockdown and the global announcement banner.
type AdminService struct {
	userRepo repository.UserRepository
	siteKV   kv.Store
	audit    *AuditService
	tracking *TrackingService
	logger   zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repository.UserRepository, siteKV kv.Store, audit *AuditService, tracking *TrackingService, logger zerolog.Logger) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		siteKV:   siteKV,
		audit:    audit,
		tracking: tracking,
		logger:   logger.With().Str("service", "admin").Logger(),
	}
}

// ListUsers returns all accounts, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return users, nil
}

// SetBanned bans or unbans an account.
func (s *AdminService) SetBanned(ctx context.Context, username string, banned bool) error {
	if err := s.updateUser(ctx, username, func(u *domain.User) { u.IsBanned = banned }); err != nil {
		return err
	}

	verdict := "РАЗБАНЕН"
	if banned {
		verdict = "ЗАБАНЕН"
	}
	s.audit.Record(ctx, domain.LogSecurity, fmt.Sprintf("Пользователь %s %s", username, verdict), "Owner", "")
	return nil
}

// SetShadowBanned flips the shadow-ban flag. Only the flag is stored;
// the storefront decides what to hide.
func (s *AdminService) SetShadowBanned(ctx context.Context, username string, shadowBanned bool) error {
	if err := s.updateUser(ctx, username, func(u *domain.User) { u.IsShadowBanned = shadowBanned }); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.LogSecurity, fmt.Sprintf("User %s updated field [isShadowBanned]", username), "", "")
	return nil
}

// SetVip flips the VIP flag.
func (s *AdminService) SetVip(ctx context.Context, username string, vip bool) error {
	if err := s.updateUser(ctx, username, func(u *domain.User) { u.IsVip = vip }); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.LogSecurity, fmt.Sprintf("User %s updated field [isVip]", username), "", "")
	return nil
}

// SetBalance sets the store credit of an account.
func (s *AdminService) SetBalance(ctx context.Context, username string, balance float64) error {
	if err := s.updateUser(ctx, username, func(u *domain.User) { u.Balance = balance }); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.LogSecurity, fmt.Sprintf("User %s updated field [balance]", username), "", "")
	return nil
}

// BanDevice blocks logins from the device last seen on the account.
// An empty device string lifts the block.
func (s *AdminService) BanDevice(ctx context.Context, username, device string) error {
	if err := s.updateUser(ctx, username, func(u *domain.User) { u.BannedDevice = device }); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.LogSecurity, fmt.Sprintf("User %s updated field [bannedDevice]", username), "", "")
	return nil
}

// ResetPassword resets an account password to the known value "12345".
func (s *AdminService) ResetPassword(ctx context.Context, username string) error {
	if err := s.updateUser(ctx, username, func(u *domain.User) {
		u.PasswordHash = crypto.HashPassword(resetPassword)
	}); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.LogSecurity, "Password reset for "+username, "Admin", "")
	return nil
}

// Notify delivers a notification to one user.
func (s *AdminService) Notify(ctx context.Context, username, text string) error {
	clean := sanitize.Input(text)
	return s.updateUser(ctx, username, func(u *domain.User) {
		u.Notifications = append(u.Notifications, domain.Notification{
			ID:        uuid.New().String(),
			Text:      clean,
			IsRead:    false,
			Timestamp: time.Now().UnixMilli(),
		})
	})
}

// ClearUserLog wipes a user's behavior log.
func (s *AdminService) ClearUserLog(ctx context.Context, username string) error {
	if err := s.tracking.ClearLog(ctx, username); err != nil {
		return err
	}
	s.audit.Record(ctx, domain.LogSecurity, "Logs cleared for "+username, "Admin", "")
	return nil
}

// UpdateProfileInput carries the owner-level profile override. Empty
// fields are left unchanged.
type UpdateProfileInput struct {
	Role     domain.Role
	Password string
	Username string
}

// UpdateProfile applies the owner override to an account: role change,
// password change and rename in one call.
func (s *AdminService) UpdateProfile(ctx context.Context, targetUsername string, input UpdateProfileInput) error {
	if input.Role != "" && !input.Role.Valid() {
		return fmt.Errorf("%w: unknown role '%s'", ErrInvalidUsername, input.Role)
	}

	err := s.updateUser(ctx, targetUsername, func(u *domain.User) {
		if input.Role != "" {
			u.Role = input.Role
		}
		if input.Password != "" {
			u.PasswordHash = crypto.HashPassword(input.Password)
		}
	})
	if err != nil {
		return err
	}

	var changes []string
	if input.Role != "" {
		changes = append(changes, "role="+string(input.Role))
	}
	if input.Password != "" {
		changes = append(changes, "password=***")
	}

	if input.Username != "" && input.Username != targetUsername {
		newName := sanitize.Input(input.Username)
		if strings.TrimSpace(newName) == "" {
			return ErrInvalidUsername
		}
		if err := s.userRepo.Rename(ctx, targetUsername, newName); err != nil {
			if errors.Is(err, domain.ErrUserAlreadyExists) {
				return fmt.Errorf("%w: '%s'", ErrUserAlreadyExists, newName)
			}
			if errors.Is(err, domain.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		changes = append(changes, "username="+newName)
	}

	s.audit.Record(ctx, domain.LogSecurity, "Изменены данные пользователя "+targetUsername, "Owner",
		"Changes: "+strings.Join(changes, ", "))
	return nil
}

// SetLockdown toggles lockdown mode. While active, non-owner traffic
// is rejected at the router.
func (s *AdminService) SetLockdown(ctx context.Context, enabled bool) error {
	value := "false"
	state := "DISABLED"
	if enabled {
		value = "true"
		state = "ENABLED"
	}

	if err := s.siteKV.Set(ctx, lockdownKey, []byte(value)); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogSecurity, "LOCKDOWN MODE "+state, "Owner", "")
	return nil
}

// IsLockdown reports whether lockdown mode is active.
func (s *AdminService) IsLockdown(ctx context.Context) (bool, error) {
	value, err := s.siteKV.Get(ctx, lockdownKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return string(value) == "true", nil
}

// SetAnnouncement sets the global banner text. Empty text removes it.
func (s *AdminService) SetAnnouncement(ctx context.Context, text string) error {
	clean := sanitize.Input(text)

	if strings.TrimSpace(clean) == "" {
		if err := s.siteKV.Remove(ctx, announcementKey); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	} else {
		if err := s.siteKV.Set(ctx, announcementKey, []byte(clean)); err != nil {
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}

	s.audit.Record(ctx, domain.LogAction, "Обновлено глобальное объявление", "Owner", clean)
	return nil
}

// Announcement returns the banner text, or "" when unset.
func (s *AdminService) Announcement(ctx context.Context) (string, error) {
	value, err := s.siteKV.Get(ctx, announcementKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return string(value), nil
}

// updateUser loads, mutates and stores one account.
func (s *AdminService) updateUser(ctx context.Context, username string, mutate func(*domain.User)) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	mutate(user)

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to update user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return nil
}
