package repositories

import (
	"fmt"
	"strconv"
	"time"

	"propmgmt/domain/contracts"
	"propmgmt/logging"
)

// BaseRepository provides list access and column conversion helpers that can be embedded in all repositories.
type BaseRepository struct {
	store  contracts.ListStore
	list   string
	logger *logging.Logger
}

// NewBaseRepository creates a new BaseRepository bound to one list
func NewBaseRepository(store contracts.ListStore, list, component string) *BaseRepository {
	return &BaseRepository{
		store:  store,
		list:   list,
		logger: logging.Default().WithComponent(component),
	}
}

// List returns the list title this repository reads and writes
func (b *BaseRepository) List() string {
	return b.list
}

// Store returns the underlying list store
func (b *BaseRepository) Store() contracts.ListStore {
	return b.store
}

// FormatTime converts a time to the stored column value.
// The zero time becomes an empty string.
func (b *BaseRepository) FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ParseTime converts a stored column value to time.Time.
// Empty or malformed values become the zero time.
func (b *BaseRepository) ParseTime(item contracts.ListItem, field string) time.Time {
	raw := item.String(field)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		b.logger.Warn("Ignoring malformed date column", "list", b.list, "field", field, "value", raw)
		return time.Time{}
	}
	return t
}

// Int reads a numeric column. Numbers arrive as float64 from JSON payloads.
func (b *BaseRepository) Int(item contracts.ListItem, field string) int {
	switch v := item.Fields[field].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return 0
}

// RequireID returns ErrInvalidArgument when id is empty
func (b *BaseRepository) RequireID(id string) error {
	if id == "" {
		return fmt.Errorf("%s item id: %w", b.list, contracts.ErrInvalidArgument)
	}
	return nil
}
