package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// LikeStore keeps user_likes membership and the resources.likes counter in
// lockstep. Every mutation runs in one transaction and the counter is only
// changed with an in-place increment or decrement.
type LikeStore struct {
	db *sqlx.DB
}

func NewLikeStore(db *sqlx.DB) *LikeStore {
	return &LikeStore{db: db}
}

func (s *LikeStore) q(query string) string { return s.db.Rebind(query) }

// Like records that userName likes resourceID and increments the counter.
// Returns ErrNotFound for an unknown resource and ErrAlreadyLiked if the pair
// is already present; in both cases nothing changes. On success the new
// like count is returned.
func (s *LikeStore) Like(ctx context.Context, userName, resourceID string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`UPDATE resources SET likes = likes + 1 WHERE id = ?`), resourceID)
	if err != nil {
		return 0, fmt.Errorf("increment likes: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		return 0, ErrNotFound
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO user_likes (user_name, resource_id, created_at) VALUES (?, ?, ?)
	`), userName, resourceID, time.Now().UTC())
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, ErrAlreadyLiked
		}
		return 0, fmt.Errorf("insert like: %w", err)
	}

	count, err := s.countTx(ctx, tx, resourceID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// Unlike removes the membership row and decrements the counter. Unliking a
// pair that is not liked is a no-op, so the counter never drops below the
// number of membership rows. Returns ErrNotFound for an unknown resource.
func (s *LikeStore) Unlike(ctx context.Context, userName, resourceID string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	ok, err := resourceExists(ctx, tx, resourceID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound
	}

	res, err := tx.ExecContext(ctx, s.q(`
		DELETE FROM user_likes WHERE user_name = ? AND resource_id = ?
	`), userName, resourceID)
	if err != nil {
		return 0, fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		_, err = tx.ExecContext(ctx, s.q(`UPDATE resources SET likes = likes - 1 WHERE id = ?`), resourceID)
		if err != nil {
			return 0, fmt.Errorf("decrement likes: %w", err)
		}
	}

	count, err := s.countTx(ctx, tx, resourceID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// HasLiked reports whether at least one user_likes row exists for the pair.
func (s *LikeStore) HasLiked(ctx context.Context, userName, resourceID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.q(`
		SELECT COUNT(*) FROM user_likes WHERE user_name = ? AND resource_id = ?
	`), userName, resourceID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *LikeStore) countTx(ctx context.Context, tx *sqlx.Tx, resourceID string) (int64, error) {
	var likes int64
	err := tx.GetContext(ctx, &likes, s.q(`SELECT likes FROM resources WHERE id = ?`), resourceID)
	if err != nil {
		return 0, fmt.Errorf("read likes: %w", err)
	}
	return likes, nil
}
