package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// userRepository implements repository.UserRepository for PostgreSQL.
// Case-insensitive username matching uses LOWER() comparisons; the
// schema carries a unique index on LOWER(username).
//
// The PostgreSQL backend currently covers the user directory only;
// catalog, comments, chat and logs remain on the embedded store.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository.
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	favorites, _ := json.Marshal(user.Favorites)
	behavior, _ := json.Marshal(user.BehaviorLog)
	notifications, _ := json.Marshal(user.Notifications)

	_, err := r.db.Pool.Exec(ctx, query,
		user.Username, string(user.Role), user.PasswordHash, user.LastLogin,
		user.Avatar, user.IP, user.Location, user.Device, user.OS, user.Browser,
		string(favorites), string(behavior), string(notifications),
		user.IsBanned, user.IsShadowBanned, user.IsVip, user.Balance,
		user.BannedDevice, user.CreatedAt, user.UpdatedAt,
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
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		SET role = $1, password_hash = $2, last_login = $3, avatar = $4, ip = $5,
			location = $6, device = $7, os = $8, browser = $9, favorites = $10,
			behavior_log = $11, notifications = $12, is_banned = $13,
			is_shadow_banned = $14, is_vip = $15, balance = $16,
			banned_device = $17, updated_at = $18
		WHERE LOWER(username) = LOWER($19)
	`

	favorites, _ := json.Marshal(user.Favorites)
	behavior, _ := json.Marshal(user.BehaviorLog)
	notifications, _ := json.Marshal(user.Notifications)

	tag, err := r.db.Pool.Exec(ctx, query,
		string(user.Role), user.PasswordHash, user.LastLogin, user.Avatar, user.IP,
		user.Location, user.Device, user.OS, user.Browser, string(favorites),
		string(behavior), string(notifications), user.IsBanned,
		user.IsShadowBanned, user.IsVip, user.Balance,
		user.BannedDevice, user.UpdatedAt, user.Username,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// Rename changes a user's username, preserving the rest of the record.
func (r *userRepository) Rename(ctx context.Context, oldUsername, newUsername string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET username = $1, updated_at = $2 WHERE LOWER(username) = LOWER($3)`,
		newUsername, time.Now().UTC(), oldUsername,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username '%s'", domain.ErrUserAlreadyExists, newUsername)
		}
		return fmt.Errorf("failed to rename user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// List returns all users ordered by creation time (newest first).
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
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
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(username) = LOWER($1)`, username,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of stored users.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// scanUser scans one user row.
func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var role, favorites, behavior, notifications string

	err := row.Scan(
		&user.Username, &role, &user.PasswordHash, &user.LastLogin,
		&user.Avatar, &user.IP, &user.Location, &user.Device, &user.OS, &user.Browser,
		&favorites, &behavior, &notifications,
		&user.IsBanned, &user.IsShadowBanned, &user.IsVip, &user.Balance,
		&user.BannedDevice, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = domain.Role(role)
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

// isUniqueViolation checks if an error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

// Ensure userRepository implements repository.UserRepository.
var _ repository.UserRepository = (*userRepository)(nil)
