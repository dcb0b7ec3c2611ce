package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// FavouriteStore manages favourites as a set keyed by (user_name, resource_id).
type FavouriteStore struct {
	db *sqlx.DB
}

func NewFavouriteStore(db *sqlx.DB) *FavouriteStore {
	return &FavouriteStore{db: db}
}

func (s *FavouriteStore) q(query string) string { return s.db.Rebind(query) }

// insertIgnore returns the driver's insert-or-do-nothing statement.
func (s *FavouriteStore) insertIgnore() string {
	if s.db.DriverName() == "mysql" {
		return `INSERT IGNORE INTO favourites (user_name, resource_id, created_at) VALUES (?, ?, ?)`
	}
	return `INSERT INTO favourites (user_name, resource_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (user_name, resource_id) DO NOTHING`
}

// Add marks resourceID as a favourite of userName. Adding a pair that is
// already present is a silent no-op. Returns ErrNotFound for an unknown resource.
func (s *FavouriteStore) Add(ctx context.Context, userName, resourceID string) error {
	ok, err := resourceExists(ctx, s.db, resourceID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	_, err = s.db.ExecContext(ctx, s.q(s.insertIgnore()), userName, resourceID, time.Now().UTC())
	return err
}

// Remove deletes the pair. Removing an absent pair is not an error.
func (s *FavouriteStore) Remove(ctx context.Context, userName, resourceID string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM favourites WHERE user_name = ? AND resource_id = ?
	`), userName, resourceID)
	return err
}

// IsFavourite reports whether the pair is present.
func (s *FavouriteStore) IsFavourite(ctx context.Context, userName, resourceID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.q(`
		SELECT COUNT(*) FROM favourites WHERE user_name = ? AND resource_id = ?
	`), userName, resourceID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListResourceIDs returns the resources favourited by userName, oldest first.
func (s *FavouriteStore) ListResourceIDs(ctx context.Context, userName string) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, s.q(`
		SELECT resource_id FROM favourites WHERE user_name = ? ORDER BY created_at ASC
	`), userName)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
