package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/narama3535-tech/fazancloud/internal/domain"
)

func testUser(username string) *domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.User{
		Username:     username,
		Role:         domain.RoleUser,
		PasswordHash: "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3",
		LastLogin:    now.UnixMilli(),
		IP:           "203.0.113.7",
		Location:     "Тула, Тульская область, Россия",
		Device:       "Mozilla/5.0 (Linux; Android 13)",
		OS:           "Android",
		Browser:      "Chrome",
		Favorites:    []string{"1", "3"},
		BehaviorLog: []domain.BehaviorEntry{
			{Action: domain.ActionViewProduct, Target: "Husky Premium", Timestamp: now.UnixMilli()},
		},
		Notifications: []domain.Notification{
			{ID: "n1", Text: "Добро пожаловать!", Timestamp: now.UnixMilli()},
		},
		Balance:   150,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := testUser("kolya")
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByUsername(ctx, "kolya")
	require.NoError(t, err)
	require.Equal(t, user.Username, got.Username)
	require.Equal(t, user.PasswordHash, got.PasswordHash)
	require.Equal(t, user.LastLogin, got.LastLogin)
	require.Equal(t, user.Location, got.Location)
	require.Equal(t, user.Favorites, got.Favorites)
	require.Len(t, got.BehaviorLog, 1)
	require.Equal(t, domain.ActionViewProduct, got.BehaviorLog[0].Action)
	require.Len(t, got.Notifications, 1)
	require.Equal(t, user.Balance, got.Balance)

	_, err = repo.GetByUsername(ctx, "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_CorruptTimestampFails(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("kolya")))
	_, err := db.ExecContext(ctx, `UPDATE users SET created_at = 'not-a-time' WHERE username = 'kolya'`)
	require.NoError(t, err)

	_, err = repo.GetByUsername(ctx, "kolya")
	require.Error(t, err)
	require.Contains(t, err.Error(), "created_at")
}

func TestUserRepository_CaseInsensitiveUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("Kolya")))

	// Lookups ignore case.
	got, err := repo.GetByUsername(ctx, "KOLYA")
	require.NoError(t, err)
	require.Equal(t, "Kolya", got.Username)

	exists, err := repo.ExistsByUsername(ctx, "kolya")
	require.NoError(t, err)
	require.True(t, exists)

	// So does the uniqueness constraint.
	err = repo.Create(ctx, testUser("kolya"))
	require.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := testUser("kolya")
	require.NoError(t, repo.Create(ctx, user))

	user.IsBanned = true
	user.IsVip = true
	user.Balance = 500
	user.Favorites = append(user.Favorites, "7")
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByUsername(ctx, "kolya")
	require.NoError(t, err)
	require.True(t, got.IsBanned)
	require.True(t, got.IsVip)
	require.Equal(t, float64(500), got.Balance)
	require.Equal(t, []string{"1", "3", "7"}, got.Favorites)

	require.ErrorIs(t, repo.Update(ctx, testUser("ghost")), domain.ErrUserNotFound)
}

func TestUserRepository_Rename(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("kolya")))
	require.NoError(t, repo.Create(ctx, testUser("petya")))

	require.NoError(t, repo.Rename(ctx, "kolya", "nikolay"))

	got, err := repo.GetByUsername(ctx, "nikolay")
	require.NoError(t, err)
	require.Equal(t, "nikolay", got.Username)
	require.Equal(t, "203.0.113.7", got.IP)

	_, err = repo.GetByUsername(ctx, "kolya")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	require.ErrorIs(t, repo.Rename(ctx, "nikolay", "petya"), domain.ErrUserAlreadyExists)
	require.ErrorIs(t, repo.Rename(ctx, "ghost", "anyone"), domain.ErrUserNotFound)
}

func TestUserRepository_ListAndCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, name := range []string{"kolya", "petya", "masha"} {
		require.NoError(t, repo.Create(ctx, testUser(name)))
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestUserRepository_EmptyListsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := testUser("kolya")
	user.Favorites = nil
	user.BehaviorLog = nil
	user.Notifications = nil
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByUsername(ctx, "kolya")
	require.NoError(t, err)
	require.Empty(t, got.Favorites)
	require.Empty(t, got.BehaviorLog)
	require.Empty(t, got.Notifications)
}
