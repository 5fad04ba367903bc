package sqlite

import (
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// NewRepositories builds the full repository set on one SQLite database.
func NewRepositories(db *DB) *repository.Repositories {
	return &repository.Repositories{
		User:    NewUserRepository(db),
		Product: NewProductRepository(db),
		Comment: NewCommentRepository(db),
		Chat:    NewChatRepository(db),
		Log:     NewLogRepository(db),
		KV:      NewKVStore(db),
	}
}
