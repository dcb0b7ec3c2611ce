package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Comment represents a row in the comments table. Comments are append-only.
type Comment struct {
	ID         int64     `db:"id"`
	ResourceID string    `db:"resource_id"`
	UserName   string    `db:"user_name"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}

type CommentStore struct {
	db *sqlx.DB
}

func NewCommentStore(db *sqlx.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Append inserts one comment. Returns ErrNotFound for an unknown resource.
func (s *CommentStore) Append(ctx context.Context, resourceID, userName, text string) error {
	ok, err := resourceExists(ctx, s.db, resourceID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO comments (resource_id, user_name, comment, created_at) VALUES (?, ?, ?, ?)
	`), resourceID, userName, text, time.Now().UTC())
	return err
}

// ListByResource returns the comments on a resource in insertion order.
func (s *CommentStore) ListByResource(ctx context.Context, resourceID string) ([]*Comment, error) {
	var comments []*Comment
	err := s.db.SelectContext(ctx, &comments, s.db.Rebind(`
		SELECT * FROM comments WHERE resource_id = ? ORDER BY id ASC
	`), resourceID)
	if err != nil {
		return nil, err
	}
	return comments, nil
}
