package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/repository"
)

// ItemRepository implements repository.ItemRepository for SQLite
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts an item and its group memberships. An empty ID gets a
// generated one. Used by seeding and tests; the engine only reads.
func (r *ItemRepository) Create(ctx context.Context, item *content.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	query := `
		INSERT INTO items (id, title, status, author_id, created_at, modified_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Status,
		item.AuthorID,
		item.CreatedAt,
		item.ModifiedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create item: %w", err)
	}

	for _, groupID := range item.GroupIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO item_groups (item_id, group_id) VALUES (?, ?)`,
			item.ID, groupID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to add item group: %w", err)
		}
	}

	return nil
}

// List returns items matching the given options, newest first. Items in
// several target groups appear once.
func (r *ItemRepository) List(ctx context.Context, opts repository.ListItemsOptions) ([]content.Item, error) {
	query := `
		SELECT DISTINCT i.id, i.title, i.status, COALESCE(i.author_id, ''), i.created_at, i.modified_at
		FROM items i
	`

	var args []any
	var conditions []string

	if len(opts.GroupIDs) > 0 {
		placeholders := make([]string, len(opts.GroupIDs))
		for idx, groupID := range opts.GroupIDs {
			placeholders[idx] = "?"
			args = append(args, groupID)
		}
		query += " JOIN item_groups ig ON ig.item_id = i.id"
		conditions = append(conditions, fmt.Sprintf("ig.group_id IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for idx, status := range opts.Statuses {
			placeholders[idx] = "?"
			args = append(args, status)
		}
		conditions = append(conditions, fmt.Sprintf("i.status IN (%s)", strings.Join(placeholders, ",")))
	}

	if opts.AuthorID != "" {
		conditions = append(conditions, "i.author_id = ?")
		args = append(args, opts.AuthorID)
	}

	if !opts.CreatedFrom.IsZero() {
		conditions = append(conditions, "i.created_at >= ?")
		args = append(args, opts.CreatedFrom)
	}
	if !opts.CreatedUntil.IsZero() {
		conditions = append(conditions, "i.created_at < ?")
		args = append(args, opts.CreatedUntil)
	}

	// Raw predicate injection for backend-specific clauses.
	for _, pred := range opts.Extra {
		conditions = append(conditions, pred.Expr)
		args = append(args, pred.Args...)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY i.created_at DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		var item content.Item
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Status,
			&item.AuthorID,
			&item.CreatedAt,
			&item.ModifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}
