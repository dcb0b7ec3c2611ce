package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Resource represents a row in the resources table.
type Resource struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Author        string    `db:"author"`
	URL           string    `db:"url"`
	ContentType   string    `db:"content_type"`
	Stage         string    `db:"stage"`
	SubmitterName string    `db:"submitter_name"`
	Review        string    `db:"review"`
	ThumbnailURL  string    `db:"thumbnail_url"`
	Likes         int64     `db:"likes"`
	CreatedAt     time.Time `db:"created_at"`
}

// NewResource holds the fields written by ResourceStore.Create.
type NewResource struct {
	Name          string
	Author        string
	URL           string
	ContentType   string
	Stage         string
	SubmitterName string
	Review        string
	ThumbnailURL  string
	Tags          []string
}

// ResourceStore is the sqlx-backed store for resources and their tags.
type ResourceStore struct {
	db *sqlx.DB
}

func NewResourceStore(db *sqlx.DB) *ResourceStore {
	return &ResourceStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *ResourceStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts the resource and one tag row per entry of in.Tags in a
// single transaction. The generated identifier is re-read inside the
// transaction before any tag is written; if it cannot be resolved the
// transaction is rolled back and ErrSubmissionIncomplete is returned.
func (s *ResourceStore) Create(ctx context.Context, in NewResource) (*Resource, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO resources (id, name, author, url, content_type, stage, submitter_name, review, thumbnail_url, likes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`), id, in.Name, in.Author, in.URL, in.ContentType, in.Stage, in.SubmitterName, in.Review, in.ThumbnailURL, now)
	if err != nil {
		return nil, fmt.Errorf("insert resource: %w", err)
	}

	var r Resource
	err = tx.GetContext(ctx, &r, s.q(`SELECT * FROM resources WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionIncomplete
	}
	if err != nil {
		return nil, fmt.Errorf("resolve resource %s: %w", id, err)
	}

	for _, tag := range in.Tags {
		_, err = tx.ExecContext(ctx, s.q(`INSERT INTO tags (resource_id, tag) VALUES (?, ?)`), r.ID, tag)
		if err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByID returns the resource matching id, or ErrNotFound.
func (s *ResourceStore) GetByID(ctx context.Context, id string) (*Resource, error) {
	var r Resource
	err := s.db.GetContext(ctx, &r, s.q(`SELECT * FROM resources WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListAll returns all resources, newest first.
func (s *ResourceStore) ListAll(ctx context.Context) ([]*Resource, error) {
	var resources []*Resource
	err := s.db.SelectContext(ctx, &resources, `SELECT * FROM resources ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

// ListIDsBySubmitter returns the ids of every resource submitted under name.
func (s *ResourceStore) ListIDsBySubmitter(ctx context.Context, name string) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, s.q(`
		SELECT id FROM resources WHERE submitter_name = ? ORDER BY created_at DESC
	`), name)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
