package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// chatRepository implements repository.ChatRepository for SQLite.
// Save is a full replace: the stored transcript for a username is
// deleted and rewritten in one transaction, matching the storefront's
// overwrite-on-save contract.
type chatRepository struct {
	db *DB
}

// NewChatRepository creates a new SQLite chat repository.
func NewChatRepository(db *DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

// Save replaces the transcript stored for a username.
func (r *chatRepository) Save(ctx context.Context, username string, messages []domain.ChatMessage) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE username = ?`, username); err != nil {
			return fmt.Errorf("failed to clear transcript: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chat_messages (username, position, id, role, text, timestamp)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare transcript insert: %w", err)
		}
		defer stmt.Close()

		for i, msg := range messages {
			if _, err := stmt.ExecContext(ctx, username, i, msg.ID, string(msg.Role), msg.Text, msg.Timestamp); err != nil {
				return fmt.Errorf("failed to insert transcript message: %w", err)
			}
		}

		return nil
	})
}

// History returns the transcript stored for a username, oldest first.
func (r *chatRepository) History(ctx context.Context, username string) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, role, text, timestamp
		FROM chat_messages
		WHERE username = ?
		ORDER BY position
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var msg domain.ChatMessage
		var role string
		if err := rows.Scan(&msg.ID, &role, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transcript message: %w", err)
		}
		msg.Role = domain.ChatRole(role)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transcript: %w", err)
	}

	return messages, nil
}

// Ensure chatRepository implements repository.ChatRepository.
var _ repository.ChatRepository = (*chatRepository)(nil)
