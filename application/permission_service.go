package application

import (
	"context"
	"fmt"
	"strings"

	"propmgmt/domain/access"
	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
)

// PermissionService manages the permission catalogue.
type PermissionService struct {
	repo contracts.PermissionRepository
}

// NewPermissionService creates a permission service.
func NewPermissionService(repo contracts.PermissionRepository) *PermissionService {
	return &PermissionService{repo: repo}
}

// GetAll returns every permission.
func (s *PermissionService) GetAll(ctx context.Context) ([]opportunity.Permission, error) {
	perms, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, contracts.WrapResponse("list permissions", err)
	}
	return perms, nil
}

// Create adds a permission.
func (s *PermissionService) Create(ctx context.Context, caller access.Caller, p *opportunity.Permission) (*opportunity.Permission, error) {
	if err := requireAdministrator(caller, "create permission"); err != nil {
		return nil, err
	}
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("permission name: %w", contracts.ErrInvalidArgument)
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, contracts.WrapResponse("create permission", err)
	}
	return created, nil
}
