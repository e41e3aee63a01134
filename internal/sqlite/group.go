package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pressdeck/overview/internal/domain/taxonomy"
	"github.com/pressdeck/overview/internal/repository"
)

// GroupRepository implements repository.GroupRepository for SQLite
type GroupRepository struct {
	db *DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a group. An empty ID gets a generated one. Used by
// seeding and tests; the engine itself only reads.
func (r *GroupRepository) Create(ctx context.Context, group *taxonomy.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}

	query := `
		INSERT INTO groups (id, name, parent_id, position)
		VALUES (?, ?, ?, (SELECT COUNT(*) FROM groups g WHERE g.parent_id IS ?))
	`
	_, err := r.db.ExecContext(ctx, query, group.ID, group.Name, group.ParentID, group.ParentID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// ListRoots returns the top-level groups in display order.
func (r *GroupRepository) ListRoots(ctx context.Context) ([]taxonomy.Group, error) {
	query := `
		SELECT id, name, parent_id
		FROM groups
		WHERE parent_id IS NULL
		ORDER BY position ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list root groups: %w", err)
	}
	defer rows.Close()

	var groups []taxonomy.Group
	for rows.Next() {
		var group taxonomy.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		children, err := r.childIDs(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Children = children
		groups = append(groups, group)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	return groups, nil
}

// Get retrieves a group by ID
func (r *GroupRepository) Get(ctx context.Context, id string) (*taxonomy.Group, error) {
	query := `SELECT id, name, parent_id FROM groups WHERE id = ?`

	var group taxonomy.Group
	err := r.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.Name, &group.ParentID)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	children, err := r.childIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Children = children

	return &group, nil
}

// Descendants returns the transitive children of a group, excluding the
// group itself.
func (r *GroupRepository) Descendants(ctx context.Context, id string) ([]string, error) {
	query := `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM groups WHERE parent_id = ?
			UNION ALL
			SELECT g.id FROM groups g JOIN subtree s ON g.parent_id = s.id
		)
		SELECT id FROM subtree
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list descendants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var descendantID string
		if err := rows.Scan(&descendantID); err != nil {
			return nil, fmt.Errorf("failed to scan descendant ID: %w", err)
		}
		ids = append(ids, descendantID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating descendant rows: %w", err)
	}

	return ids, nil
}

func (r *GroupRepository) childIDs(ctx context.Context, id string) ([]string, error) {
	query := `SELECT id FROM groups WHERE parent_id = ? ORDER BY position ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var childID string
		if err := rows.Scan(&childID); err != nil {
			return nil, fmt.Errorf("failed to scan child ID: %w", err)
		}
		ids = append(ids, childID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating child rows: %w", err)
	}

	return ids, nil
}
