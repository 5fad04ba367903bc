package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// logRepository implements repository.LogRepository for SQLite.
// The log is a bounded ring: every insert trims the table back to the
// newest domain.MaxLogEntries rows by insertion order.
type logRepository struct {
	db *DB
}

// NewLogRepository creates a new SQLite log repository.
func NewLogRepository(db *DB) repository.LogRepository {
	return &logRepository{db: db}
}

// Append inserts a log entry and truncates the collection.
func (r *logRepository) Append(ctx context.Context, entry *domain.LogEntry) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO system_logs (id, timestamp, type, username, message, details)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			entry.ID,
			entry.Timestamp,
			string(entry.Type),
			entry.Username,
			entry.Message,
			entry.Details,
		)
		if err != nil {
			return fmt.Errorf("failed to insert log entry: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM system_logs
			WHERE seq NOT IN (
				SELECT seq FROM system_logs ORDER BY seq DESC LIMIT ?
			)
		`, domain.MaxLogEntries)
		if err != nil {
			return fmt.Errorf("failed to trim log ring: %w", err)
		}

		return nil
	})
}

// List returns stored entries, newest first, up to limit.
func (r *logRepository) List(ctx context.Context, limit int) ([]*domain.LogEntry, error) {
	if limit <= 0 || limit > domain.MaxLogEntries {
		limit = domain.MaxLogEntries
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, type, username, message, details
		FROM system_logs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LogEntry
	for rows.Next() {
		entry := &domain.LogEntry{}
		var logType string
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &logType, &entry.Username, &entry.Message, &entry.Details); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry.Type = domain.LogType(logType)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}

	return entries, nil
}

// Count returns the number of stored entries.
func (r *logRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM system_logs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return count, nil
}

// Ensure logRepository implements repository.LogRepository.
var _ repository.LogRepository = (*logRepository)(nil)
