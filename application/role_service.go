package application

import (
	"context"
	"fmt"
	"strings"

	"propmgmt/domain/access"
	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/infrastructure/cache"
	"propmgmt/logging"
)

// RoleService manages role definitions. Reads go through the role cache and
// every write invalidates it.
type RoleService struct {
	repo   contracts.RoleRepository
	cache  *cache.Cache
	logger *logging.Logger
}

// NewRoleService creates a role service.
func NewRoleService(repo contracts.RoleRepository, c *cache.Cache) *RoleService {
	return &RoleService{
		repo:   repo,
		cache:  c,
		logger: logging.Default().WithComponent("role_service"),
	}
}

// GetAll returns every role.
func (s *RoleService) GetAll(ctx context.Context) ([]opportunity.Role, error) {
	roles, err := cache.GetOrLoad(ctx, s.cache, contracts.CacheKeyRoles, s.repo.GetAll)
	if err != nil {
		return nil, contracts.WrapResponse("list roles", err)
	}
	return roles, nil
}

// Create adds a role.
func (s *RoleService) Create(ctx context.Context, caller access.Caller, role *opportunity.Role) (*opportunity.Role, error) {
	if err := requireAdministrator(caller, "create role"); err != nil {
		return nil, err
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, role)
	if err != nil {
		return nil, contracts.WrapResponse("create role", err)
	}
	s.invalidate(ctx)
	s.logger.Info("Role created", "role_id", created.ID, "ad_group", created.AdGroupName)
	return created, nil
}

// Update replaces a role.
func (s *RoleService) Update(ctx context.Context, caller access.Caller, role *opportunity.Role) error {
	if err := requireAdministrator(caller, "update role"); err != nil {
		return err
	}
	if err := validateRole(role); err != nil {
		return err
	}
	if role.ID == "" {
		return fmt.Errorf("role id: %w", contracts.ErrInvalidArgument)
	}
	if err := s.repo.Update(ctx, role); err != nil {
		return contracts.WrapResponse("update role", err)
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a role.
func (s *RoleService) Delete(ctx context.Context, caller access.Caller, id string) error {
	if err := requireAdministrator(caller, "delete role"); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("role id: %w", contracts.ErrInvalidArgument)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return contracts.WrapResponse("delete role", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *RoleService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, contracts.CacheKeyRoles); err != nil {
		s.logger.Warn("Failed to invalidate role cache", "error", err)
	}
}

func validateRole(role *opportunity.Role) error {
	if role == nil || strings.TrimSpace(role.DisplayName) == "" || strings.TrimSpace(role.AdGroupName) == "" {
		return fmt.Errorf("role display name and ad group name: %w", contracts.ErrInvalidArgument)
	}
	return nil
}

// requireAdministrator rejects callers without the Administrator permission.
func requireAdministrator(caller access.Caller, op string) error {
	if !caller.Has(access.PermissionAdministrator) {
		return fmt.Errorf("%s: %w", op, contracts.ErrAccessDenied)
	}
	return nil
}
