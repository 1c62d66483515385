package application

import (
	"context"
	"strings"

	"propmgmt/domain/access"
	"propmgmt/domain/opportunity"
	"propmgmt/logging"
)

// RoleSource lists the configured roles.
type RoleSource interface {
	GetAll(ctx context.Context) ([]opportunity.Role, error)
}

// AuthorizationService expands a caller's claims into effective permissions.
type AuthorizationService struct {
	roles  RoleSource
	logger *logging.Logger
}

// NewAuthorizationService creates an authorization service.
func NewAuthorizationService(roles RoleSource) *AuthorizationService {
	return &AuthorizationService{
		roles:  roles,
		logger: logging.Default().WithComponent("authorization_service"),
	}
}

// Resolve returns caller with the permissions of every role whose AD group the
// caller belongs to added to its explicit permissions.
func (s *AuthorizationService) Resolve(ctx context.Context, caller access.Caller) (access.Caller, error) {
	roles, err := s.roles.GetAll(ctx)
	if err != nil {
		return caller, err
	}

	seen := make(map[string]bool, len(caller.Permissions))
	permissions := make([]string, 0, len(caller.Permissions))
	add := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		permissions = append(permissions, name)
	}

	for _, p := range caller.Permissions {
		add(p)
	}
	for _, role := range roles {
		if !caller.InGroup(role.AdGroupName) {
			continue
		}
		for _, p := range role.Permissions {
			add(p.Name)
		}
	}

	resolved := caller
	resolved.Permissions = permissions
	s.logger.Debug("Caller permissions resolved", "upn", caller.UserPrincipalName, "permissions", len(permissions))
	return resolved, nil
}
