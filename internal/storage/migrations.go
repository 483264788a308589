package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SchemaVersion is the current snapshot schema. Loading a snapshot with
// a different version fails rather than guessing at the layout.
const SchemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	file_path TEXT NOT NULL,
	language TEXT NOT NULL,
	node_type TEXT NOT NULL,
	name TEXT NOT NULL,
	code TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line INTEGER NOT NULL,
	embedding BLOB NOT NULL,
	position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_position ON chunks(position);
CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path);

CREATE TABLE IF NOT EXISTS graph_files (
	file_path TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS graph_imports (
	file_path TEXT NOT NULL REFERENCES graph_files(file_path) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	specifier TEXT NOT NULL,
	PRIMARY KEY (file_path, position)
);

CREATE TABLE IF NOT EXISTS graph_definitions (
	file_path TEXT NOT NULL REFERENCES graph_files(file_path) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (file_path, position)
);
`

// ApplyMigrations creates the snapshot schema and records its version.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != SchemaVersion:
		return fmt.Errorf("snapshot schema version %d is not supported (want %d)", version, SchemaVersion)
	}

	return nil
}
