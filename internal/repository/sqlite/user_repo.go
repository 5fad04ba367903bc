package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// userRepository implements repository.UserRepository for SQLite.
// The username column is declared COLLATE NOCASE, so equality lookups
// are case-insensitive at the schema level.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `username, role, password_hash, last_login, avatar, ip, location,
	device, os, browser, favorites, behavior_log, notifications,
	is_banned, is_shadow_banned, is_vip, balance, banned_device, created_at, updated_at`

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	favorites, behavior, notifications, err := marshalUserLists(user)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		user.Username,
		string(user.Role),
		user.PasswordHash,
		user.LastLogin,
		user.Avatar,
		user.IP,
		user.Location,
		user.Device,
		user.OS,
		user.Browser,
		favorites,
		behavior,
		notifications,
		boolToInt(user.IsBanned),
		boolToInt(user.IsShadowBanned),
		boolToInt(user.IsVip),
		user.Balance,
		user.BannedDevice,
		user.CreatedAt.Format(time.RFC3339),
		user.UpdatedAt.Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username '%s'", domain.ErrUserAlreadyExists, user.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	row := r.db.QueryRowContext(ctx, query, username)
	user, err := scanUser(row.Scan)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// Update updates an existing user, matched by username.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET role = ?, password_hash = ?, last_login = ?, avatar = ?, ip = ?,
			location = ?, device = ?, os = ?, browser = ?, favorites = ?,
			behavior_log = ?, notifications = ?, is_banned = ?, is_shadow_banned = ?,
			is_vip = ?, balance = ?, banned_device = ?, updated_at = ?
		WHERE username = ?
	`

	favorites, behavior, notifications, err := marshalUserLists(user)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query,
		string(user.Role),
		user.PasswordHash,
		user.LastLogin,
		user.Avatar,
		user.IP,
		user.Location,
		user.Device,
		user.OS,
		user.Browser,
		favorites,
		behavior,
		notifications,
		boolToInt(user.IsBanned),
		boolToInt(user.IsShadowBanned),
		boolToInt(user.IsVip),
		user.Balance,
		user.BannedDevice,
		user.UpdatedAt.Format(time.RFC3339),
		user.Username,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// Rename changes a user's username, preserving the rest of the record.
func (r *userRepository) Rename(ctx context.Context, oldUsername, newUsername string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, updated_at = ? WHERE username = ?`,
		newUsername,
		time.Now().UTC().Format(time.RFC3339),
		oldUsername,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username '%s'", domain.ErrUserAlreadyExists, newUsername)
		}
		return fmt.Errorf("failed to rename user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// List returns all users ordered by creation time (newest first).
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// ExistsByUsername checks if a user with the given username exists.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of stored users.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// scanUser scans one user row using the provided scan function.
func scanUser(scan func(dest ...any) error) (*domain.User, error) {
	user := &domain.User{}
	var (
		role                        string
		favorites                   string
		behavior                    string
		notifications               string
		isBanned, isShadow, isVip   int
		createdAt, updatedAt        string
	)

	err := scan(
		&user.Username,
		&role,
		&user.PasswordHash,
		&user.LastLogin,
		&user.Avatar,
		&user.IP,
		&user.Location,
		&user.Device,
		&user.OS,
		&user.Browser,
		&favorites,
		&behavior,
		&notifications,
		&isBanned,
		&isShadow,
		&isVip,
		&user.Balance,
		&user.BannedDevice,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = domain.Role(role)
	user.IsBanned = isBanned != 0
	user.IsShadowBanned = isShadow != 0
	user.IsVip = isVip != 0
	if user.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	if err := json.Unmarshal([]byte(favorites), &user.Favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	if err := json.Unmarshal([]byte(behavior), &user.BehaviorLog); err != nil {
		return nil, fmt.Errorf("failed to decode behavior log: %w", err)
	}
	if err := json.Unmarshal([]byte(notifications), &user.Notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return user, nil
}

// marshalUserLists encodes the JSON list columns of a user record.
func marshalUserLists(user *domain.User) (favorites, behavior, notifications string, err error) {
	f, err := json.Marshal(emptyIfNil(user.Favorites))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode favorites: %w", err)
	}
	b, err := json.Marshal(emptyBehaviorIfNil(user.BehaviorLog))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode behavior log: %w", err)
	}
	n, err := json.Marshal(emptyNotificationsIfNil(user.Notifications))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode notifications: %w", err)
	}
	return string(f), string(b), string(n), nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyBehaviorIfNil(s []domain.BehaviorEntry) []domain.BehaviorEntry {
	if s == nil {
		return []domain.BehaviorEntry{}
	}
	return s
}

func emptyNotificationsIfNil(s []domain.Notification) []domain.Notification {
	if s == nil {
		return []domain.Notification{}
	}
	return s
}

// boolToInt converts a boolean to an integer (SQLite doesn't have native boolean).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure userRepository implements repository.UserRepository.
var _ repository.UserRepository = (*userRepository)(nil)
