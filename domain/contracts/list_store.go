package contracts

import (
	"context"
	"fmt"
)

// Site lists backing the application.
const (
	ListOpportunities = "Opportunities"
	ListDashboard     = "Dashboard"
	ListRoles         = "Roles"
	ListPermissions   = "Permissions"
	ListTemplates     = "Templates"
	ListNotifications = "Notifications"
)

// ListItem is a single list item with its column values.
type ListItem struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// String returns a text column, or "" when absent.
func (i ListItem) String(field string) string {
	v, ok := i.Fields[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns a yes/no column. Numeric 0/1 and "true"/"false" are accepted.
func (i ListItem) Bool(field string) bool {
	switch v := i.Fields[field].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v == "true" || v == "1"
	}
	return false
}

// Filter narrows GetListItems to items whose Field equals Value.
type Filter struct {
	Field string
	Value string
}

// ListStore defines CRUD access to site lists.
type ListStore interface {
	CreateListItem(ctx context.Context, list string, fields map[string]any) (*ListItem, error)
	UpdateListItem(ctx context.Context, list, id string, fields map[string]any) error
	DeleteListItem(ctx context.Context, list, id string) error

	// GetListItem returns ErrNoItemsFound when the item does not exist.
	GetListItem(ctx context.Context, list, id string) (*ListItem, error)
	// GetListItems returns every item of list, or those matching filter when it is not nil.
	GetListItems(ctx context.Context, list string, filter *Filter) ([]ListItem, error)
}
