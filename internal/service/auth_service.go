package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/metrics"
	"github.com/narama3535-tech/fazancloud/internal/pkg/crypto"
	"github.com/narama3535-tech/fazancloud/internal/repository"
	"github.com/narama3535-tech/fazancloud/internal/sanitize"
)

// privilegedPlaceholderHash is stored on the fixed privileged accounts.
// They never authenticate through the password hash; the role digest
// check in Login is the only way in.
const privilegedPlaceholderHash = "SECURE_HASH"

// AuthService handles registration, the login ladder and favorites.
type AuthService struct {
	userRepo repository.UserRepository
	audit    *AuditService
	tracking *TrackingService
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, audit *AuditService, tracking *TrackingService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		audit:    audit,
		tracking: tracking,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a regular customer account.
func (s *AuthService) Register(ctx context.Context, username, password string, client domain.ClientInfo) (*domain.User, error) {
	cleanUsername := strings.TrimSpace(sanitize.Input(username))
	if cleanUsername == "" {
		return nil, ErrInvalidUsername
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, cleanUsername)
	if err != nil {
		s.logger.Error().Err(err).Str("username", cleanUsername).Msg("failed to check username existence")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: '%s'", ErrUserAlreadyExists, cleanUsername)
	}

	user := domain.NewUser(cleanUsername, crypto.HashPassword(password))
	applyClientInfo(user, client)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, fmt.Errorf("%w: '%s'", ErrUserAlreadyExists, cleanUsername)
		}
		s.logger.Error().Err(err).Str("username", cleanUsername).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAuth, "Новый пользователь: "+cleanUsername, cleanUsername, "Location: "+client.Location)
	metrics.RegistrationsTotal.Inc()

	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login runs the authentication ladder. A password matching one of the
// embedded role digests routes to the privileged path and requires the
// matching reserved username; everything else authenticates against the
// stored hash.
func (s *AuthService) Login(ctx context.Context, username, password string, client domain.ClientInfo) (*domain.User, error) {
	if role := crypto.ClassifyPassword(password); role != crypto.PrivilegedNone {
		return s.privilegedLogin(ctx, username, role, client)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Reserved names never leak whether the account exists.
			switch strings.ToLower(username) {
			case "vladeles", "admin", "administrator":
				metrics.LoginsTotal.WithLabelValues("failed").Inc()
				return nil, ErrPrivilegedMismatch
			}
			s.audit.Record(ctx, domain.LogError, "Неудачная попытка входа: "+username, "", "")
			metrics.LoginsTotal.WithLabelValues("failed").Inc()
			return nil, ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to load user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if user.IsBanned {
		s.audit.Record(ctx, domain.LogSecurity, "Попытка входа забаненного: "+username, "", "")
		metrics.LoginsTotal.WithLabelValues("banned").Inc()
		return nil, ErrUserBanned
	}

	if user.BannedDevice != "" && user.BannedDevice == client.Device {
		s.audit.Record(ctx, domain.LogSecurity, "Попытка входа с забаненного устройства: "+username, "", "")
		metrics.LoginsTotal.WithLabelValues("banned").Inc()
		return nil, ErrDeviceBanned
	}

	if !crypto.DigestEqual(user.PasswordHash, crypto.HashPassword(password)) {
		s.audit.Record(ctx, domain.LogError, "Неверный пароль: "+username, "", "")
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, ErrInvalidPassword
	}

	user.LastLogin = time.Now().UnixMilli()
	applyClientInfo(user, client)

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to update user on login")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAuth, "Вход выполнен", user.Username, "")
	s.tracking.Track(ctx, user.Username, domain.ActionLogin, "")
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	s.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user logged in")
	return user, nil
}

// privilegedLogin upserts the reserved account for the matched role.
// The entered username must be the reserved short name; the stored
// record always carries the canonical one.
func (s *AuthService) privilegedLogin(ctx context.Context, username string, role crypto.PrivilegedRole, client domain.ClientInfo) (*domain.User, error) {
	var requiredName, targetUsername string
	var targetRole domain.Role
	if role == crypto.PrivilegedOwner {
		requiredName, targetUsername, targetRole = "vladeles", domain.OwnerUsername, domain.RoleOwner
	} else {
		requiredName, targetUsername, targetRole = "admin", domain.AdminUsername, domain.RoleAdmin
	}

	if strings.ToLower(username) != requiredName {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, ErrPrivilegedNameNeeded
	}

	now := time.Now().UnixMilli()

	user, err := s.userRepo.GetByUsername(ctx, targetUsername)
	switch {
	case err == nil:
		user.Role = targetRole
		user.LastLogin = now
		user.IsVip = true
		user.PasswordHash = privilegedPlaceholderHash
		applyClientInfo(user, client)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error().Err(err).Str("username", targetUsername).Msg("failed to refresh privileged account")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	case errors.Is(err, domain.ErrUserNotFound):
		user = domain.NewUser(targetUsername, privilegedPlaceholderHash)
		user.Role = targetRole
		user.LastLogin = now
		user.IsVip = true
		applyClientInfo(user, client)
		if err := s.userRepo.Create(ctx, user); err != nil {
			s.logger.Error().Err(err).Str("username", targetUsername).Msg("failed to create privileged account")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	default:
		s.logger.Error().Err(err).Str("username", targetUsername).Msg("failed to load privileged account")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAuth, targetUsername+" вошел в систему", targetUsername, "IP: "+client.IP)
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	s.logger.Info().Str("username", targetUsername).Str("role", string(targetRole)).Msg("privileged login")
	return user, nil
}

// GetUser loads a user by username.
func (s *AuthService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

// ToggleFavorite flips a product in the user's favorites and returns
// the updated user.
func (s *AuthService) ToggleFavorite(ctx context.Context, username, productID string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	action := "removed"
	if user.HasFavorite(productID) {
		kept := make([]string, 0, len(user.Favorites))
		for _, id := range user.Favorites {
			if id != productID {
				kept = append(kept, id)
			}
		}
		user.Favorites = kept
	} else {
		user.Favorites = append(user.Favorites, productID)
		action = "added"
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to update favorites")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.audit.Record(ctx, domain.LogAction, fmt.Sprintf("Избранное: %s товар %s", action, productID), user.Username, "")
	s.tracking.Track(ctx, user.Username, domain.ActionClick, "Favorite: "+productID)

	return user, nil
}

// applyClientInfo copies the observed client onto the user record.
func applyClientInfo(user *domain.User, client domain.ClientInfo) {
	user.IP = client.IP
	user.Location = client.Location
	user.Device = client.Device
	user.OS = client.OS
	user.Browser = client.Browser
}
