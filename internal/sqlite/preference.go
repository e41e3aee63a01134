package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressdeck/overview/internal/repository"
)

// PreferenceRepository implements repository.PreferenceRepository for SQLite
type PreferenceRepository struct {
	db *DB
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get retrieves a preference value for a user
func (r *PreferenceRepository) Get(ctx context.Context, userID, key string) (string, error) {
	query := `SELECT value FROM user_preferences WHERE user_id = ? AND key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, query, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference: %w", err)
	}
	return value, nil
}

// Set stores a preference value for a user, last write wins.
func (r *PreferenceRepository) Set(ctx context.Context, userID, key, value string) error {
	query := `
		INSERT INTO user_preferences (user_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, userID, key, value)
	if err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}
	return nil
}
