package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"propmgmt/database"
	"propmgmt/domain/contracts"
	"propmgmt/logging"
)

// SqliteListStore implements contracts.ListStore on a local sqlite database.
// Each item keeps its columns as a JSON object so every list shares one table.
type SqliteListStore struct {
	db     *database.Database
	logger *logging.Logger
}

// NewSqliteListStore creates a list store on an open database
func NewSqliteListStore(db *database.Database) *SqliteListStore {
	return &SqliteListStore{
		db:     db,
		logger: logging.Default().WithComponent("sqlite_list_store"),
	}
}

// CreateListItem inserts a new item with a generated id
func (s *SqliteListStore) CreateListItem(ctx context.Context, list string, fields map[string]any) (*contracts.ListItem, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s item: %w", list, err)
	}
	id := uuid.NewString()
	if _, err := s.db.WriteDB().ExecContext(ctx,
		`INSERT INTO list_items (list_name, id, fields) VALUES (?, ?, ?)`,
		list, id, string(body)); err != nil {
		return nil, fmt.Errorf("failed to insert %s item: %w", list, err)
	}
	s.logger.Database("List item created", "list", list, "id", id)
	return &contracts.ListItem{ID: id, Fields: cloneFields(fields)}, nil
}

// UpdateListItem merges fields into the stored item, like a SharePoint MERGE
func (s *SqliteListStore) UpdateListItem(ctx context.Context, list, id string, fields map[string]any) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx,
			`SELECT fields FROM list_items WHERE list_name = ? AND id = ?`, list, id).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s item %s: %w", list, id, contracts.ErrNoItemsFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load %s item %s: %w", list, id, err)
		}

		merged := map[string]any{}
		if err := json.Unmarshal([]byte(raw), &merged); err != nil {
			return fmt.Errorf("failed to decode %s item %s: %w", list, id, err)
		}
		for k, v := range fields {
			merged[k] = v
		}
		body, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to marshal %s item %s: %w", list, id, err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE list_items SET fields = ?, modified_at = CURRENT_TIMESTAMP WHERE list_name = ? AND id = ?`,
			string(body), list, id); err != nil {
			return fmt.Errorf("failed to update %s item %s: %w", list, id, err)
		}
		return nil
	})
}

// DeleteListItem removes an item. Deleting a missing item returns ErrNoItemsFound.
func (s *SqliteListStore) DeleteListItem(ctx context.Context, list, id string) error {
	res, err := s.db.WriteDB().ExecContext(ctx,
		`DELETE FROM list_items WHERE list_name = ? AND id = ?`, list, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s item %s: %w", list, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s item %s: %w", list, id, contracts.ErrNoItemsFound)
	}
	return nil
}

// GetListItem loads one item
func (s *SqliteListStore) GetListItem(ctx context.Context, list, id string) (*contracts.ListItem, error) {
	var raw string
	err := s.db.ReadDB().QueryRowContext(ctx,
		`SELECT fields FROM list_items WHERE list_name = ? AND id = ?`, list, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s item %s: %w", list, id, contracts.ErrNoItemsFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s item %s: %w", list, id, err)
	}
	item, err := decodeItem(id, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s item %s: %w", list, id, err)
	}
	return item, nil
}

// GetListItems loads the items of a list in insertion order, optionally filtered on one column
func (s *SqliteListStore) GetListItems(ctx context.Context, list string, filter *contracts.Filter) ([]contracts.ListItem, error) {
	query := `SELECT id, fields FROM list_items WHERE list_name = ?`
	args := []any{list}
	if filter != nil {
		query += ` AND json_extract(fields, ?) = ?`
		args = append(args, "$."+filter.Field, filter.Value)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.ReadDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s items: %w", list, err)
	}
	defer rows.Close()

	var items []contracts.ListItem
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan %s item: %w", list, err)
		}
		item, err := decodeItem(id, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s item %s: %w", list, id, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s items: %w", list, err)
	}
	return items, nil
}

func decodeItem(id, raw string) (*contracts.ListItem, error) {
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	return &contracts.ListItem{ID: id, Fields: fields}, nil
}

func cloneFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
