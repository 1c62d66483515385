package repositories

import (
	"context"
	"fmt"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
)

// ListPermissionRepository stores permission names
type ListPermissionRepository struct {
	*BaseRepository
}

// NewPermissionRepository creates a permission repository on the given list
func NewPermissionRepository(store contracts.ListStore, list string) *ListPermissionRepository {
	return &ListPermissionRepository{BaseRepository: NewBaseRepository(store, list, "permission_repository")}
}

// Create persists a new permission
func (r *ListPermissionRepository) Create(ctx context.Context, p *opportunity.Permission) (*opportunity.Permission, error) {
	if p == nil || p.Name == "" {
		return nil, fmt.Errorf("permission name: %w", contracts.ErrInvalidArgument)
	}
	item, err := r.store.CreateListItem(ctx, r.list, PermissionRecord{Name: p.Name}.Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to create permission %q: %w", p.Name, err)
	}
	return &opportunity.Permission{ID: item.ID, Name: p.Name}, nil
}

// GetAll loads every permission
func (r *ListPermissionRepository) GetAll(ctx context.Context) ([]opportunity.Permission, error) {
	items, err := r.store.GetListItems(ctx, r.list, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	out := make([]opportunity.Permission, 0, len(items))
	for _, item := range items {
		out = append(out, opportunity.Permission{ID: item.ID, Name: item.String("Name")})
	}
	return out, nil
}
