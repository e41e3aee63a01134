package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/repository"
)

// AuthorRepository implements repository.AuthorRepository for SQLite
type AuthorRepository struct {
	db *DB
}

// NewAuthorRepository creates a new AuthorRepository
func NewAuthorRepository(db *DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// Create inserts an author. Used by seeding and tests.
func (r *AuthorRepository) Create(ctx context.Context, author *content.Author) error {
	if author.ID == "" {
		author.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO authors (id, display_name) VALUES (?, ?)`,
		author.ID, author.DisplayName)
	if err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

// Get retrieves an author by ID
func (r *AuthorRepository) Get(ctx context.Context, id string) (*content.Author, error) {
	query := `SELECT id, display_name FROM authors WHERE id = ?`

	var author content.Author
	err := r.db.QueryRowContext(ctx, query, id).Scan(&author.ID, &author.DisplayName)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return &author, nil
}
