package migrations

// The comments table is a Go migration because its auto-increment key differs
// by database driver. Listing comments orders by this key, so it must
// increase with insertion order on every backend.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateComments, downCreateComments)
}

func upCreateComments(ctx context.Context, tx *sql.Tx) error {
	var idColumn string
	switch dialect {
	case "postgres":
		idColumn = "id BIGSERIAL PRIMARY KEY"
	case "mysql":
		idColumn = "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	default: // sqlite3
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	ddl := `CREATE TABLE IF NOT EXISTS comments (
    ` + idColumn + `,
    resource_id VARCHAR(36)  NOT NULL REFERENCES resources (id),
    user_name   VARCHAR(255) NOT NULL,
    comment     TEXT         NOT NULL,
    created_at  TIMESTAMP    NOT NULL
)`
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX comments_resource_idx ON comments (resource_id)`)
	return err
}

func downCreateComments(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS comments`)
	return err
}
