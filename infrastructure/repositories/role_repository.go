package repositories

import (
	"context"
	"fmt"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/infrastructure/serialization"
)

// ListRoleRepository stores roles with their permissions serialized into one column
type ListRoleRepository struct {
	*BaseRepository
}

// NewRoleRepository creates a role repository on the given list
func NewRoleRepository(store contracts.ListStore, list string) *ListRoleRepository {
	return &ListRoleRepository{BaseRepository: NewBaseRepository(store, list, "role_repository")}
}

func (r *ListRoleRepository) record(role *opportunity.Role) (RoleRecord, error) {
	perms, err := serialization.SerializeValue(role.Permissions)
	if err != nil {
		return RoleRecord{}, err
	}
	return RoleRecord{
		AdGroupName:     role.AdGroupName,
		Role:            role.DisplayName,
		TeamsMembership: role.TeamsMembership,
		Permissions:     perms,
	}, nil
}

func (r *ListRoleRepository) fromItem(item contracts.ListItem) opportunity.Role {
	role := opportunity.Role{
		ID:              item.ID,
		AdGroupName:     item.String("AdGroupName"),
		DisplayName:     item.String("Role"),
		TeamsMembership: item.String("TeamsMembership"),
	}
	if err := serialization.DeserializeValue(item.String("Permissions"), &role.Permissions); err != nil {
		r.logger.Warn("Ignoring malformed role permissions", "role_id", item.ID, "error", err)
	}
	return role
}

// Create persists a new role
func (r *ListRoleRepository) Create(ctx context.Context, role *opportunity.Role) (*opportunity.Role, error) {
	if role == nil || role.AdGroupName == "" {
		return nil, fmt.Errorf("role ad group name: %w", contracts.ErrInvalidArgument)
	}
	rec, err := r.record(role)
	if err != nil {
		return nil, err
	}
	item, err := r.store.CreateListItem(ctx, r.list, rec.Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to create role %q: %w", role.DisplayName, err)
	}
	created := *role
	created.ID = item.ID
	return &created, nil
}

// Update replaces the stored role
func (r *ListRoleRepository) Update(ctx context.Context, role *opportunity.Role) error {
	if role == nil {
		return fmt.Errorf("role: %w", contracts.ErrInvalidArgument)
	}
	if err := r.RequireID(role.ID); err != nil {
		return err
	}
	rec, err := r.record(role)
	if err != nil {
		return err
	}
	if err := r.store.UpdateListItem(ctx, r.list, role.ID, rec.Fields()); err != nil {
		return fmt.Errorf("failed to update role %s: %w", role.ID, err)
	}
	return nil
}

// Delete removes a role
func (r *ListRoleRepository) Delete(ctx context.Context, id string) error {
	if err := r.RequireID(id); err != nil {
		return err
	}
	if err := r.store.DeleteListItem(ctx, r.list, id); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", id, err)
	}
	return nil
}

// GetAll loads every role
func (r *ListRoleRepository) GetAll(ctx context.Context) ([]opportunity.Role, error) {
	items, err := r.store.GetListItems(ctx, r.list, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	out := make([]opportunity.Role, 0, len(items))
	for _, item := range items {
		out = append(out, r.fromItem(item))
	}
	return out, nil
}
