package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// TagStore reads the tags written alongside resources. Tags are only
// created by ResourceStore.Create and are never updated or deleted.
type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// ListByResource returns the tags of a resource ordered by tag text.
// Duplicate tags are returned as stored.
func (s *TagStore) ListByResource(ctx context.Context, resourceID string) ([]string, error) {
	tags := []string{}
	err := s.db.SelectContext(ctx, &tags, s.db.Rebind(`
		SELECT tag FROM tags WHERE resource_id = ? ORDER BY tag ASC
	`), resourceID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListResourceIDs returns the ids of resources carrying tag.
func (s *TagStore) ListResourceIDs(ctx context.Context, tag string) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, s.db.Rebind(`
		SELECT DISTINCT resource_id FROM tags WHERE tag = ? ORDER BY resource_id ASC
	`), tag)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
