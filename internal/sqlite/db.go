package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema.
func (db *DB) RunMigrations() error {
	migration := `
-- Taxonomy groups (forest: parent_id NULL for roots)
CREATE TABLE groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    parent_id TEXT,
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (parent_id) REFERENCES groups(id)
);
CREATE INDEX idx_group_parent ON groups(parent_id);

-- Authors
CREATE TABLE authors (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL
);

-- Content items
CREATE TABLE items (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    author_id TEXT,
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    FOREIGN KEY (author_id) REFERENCES authors(id)
);
CREATE INDEX idx_item_status ON items(status);
CREATE INDEX idx_item_author ON items(author_id);
CREATE INDEX idx_item_created ON items(created_at);

-- Item group membership (many-to-many)
CREATE TABLE item_groups (
    item_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    PRIMARY KEY (item_id, group_id),
    FOREIGN KEY (item_id) REFERENCES items(id),
    FOREIGN KEY (group_id) REFERENCES groups(id)
);
CREATE INDEX idx_item_groups_group ON item_groups(group_id);

-- Per-user preferences
CREATE TABLE user_preferences (
    user_id TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, key)
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
