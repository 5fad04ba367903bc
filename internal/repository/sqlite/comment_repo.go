package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/repository"
)

// commentRepository implements repository.CommentRepository for SQLite.
type commentRepository struct {
	db *DB
}

// NewCommentRepository creates a new SQLite comment repository.
func NewCommentRepository(db *DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `id, product_id, username, text, timestamp, likes, liked_by`

// Create creates a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	likedBy, err := json.Marshal(emptyIfNil(comment.LikedBy))
	if err != nil {
		return fmt.Errorf("failed to encode liked-by set: %w", err)
	}

	query := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		comment.ID,
		comment.ProductID,
		comment.Username,
		comment.Text,
		comment.Timestamp,
		comment.Likes,
		string(likedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID.
func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	comment, err := scanComment(row.Scan)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment by ID: %w", err)
	}

	return comment, nil
}

// ListByProduct returns the comments for a product, newest first.
func (r *commentRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE product_id = ? ORDER BY timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

// Update updates an existing comment.
func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	likedBy, err := json.Marshal(emptyIfNil(comment.LikedBy))
	if err != nil {
		return fmt.Errorf("failed to encode liked-by set: %w", err)
	}

	query := `
		UPDATE comments
		SET text = ?, likes = ?, liked_by = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		comment.Text,
		comment.Likes,
		string(likedBy),
		comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}

// Delete hard-deletes a comment by ID.
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}

// scanComment scans one comment row using the provided scan function.
func scanComment(scan func(dest ...any) error) (*domain.Comment, error) {
	comment := &domain.Comment{}
	var likedBy string

	err := scan(
		&comment.ID,
		&comment.ProductID,
		&comment.Username,
		&comment.Text,
		&comment.Timestamp,
		&comment.Likes,
		&likedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(likedBy), &comment.LikedBy); err != nil {
		return nil, fmt.Errorf("failed to decode liked-by set: %w", err)
	}

	return comment, nil
}

// Ensure commentRepository implements repository.CommentRepository.
var _ repository.CommentRepository = (*commentRepository)(nil)
