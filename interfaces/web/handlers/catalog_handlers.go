package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"propmgmt/domain/access"
	"propmgmt/domain/opportunity"
	"propmgmt/logging"
)

// RoleService manages the role catalogue.
type RoleService interface {
	GetAll(ctx context.Context) ([]opportunity.Role, error)
	Create(ctx context.Context, caller access.Caller, role *opportunity.Role) (*opportunity.Role, error)
	Update(ctx context.Context, caller access.Caller, role *opportunity.Role) error
	Delete(ctx context.Context, caller access.Caller, id string) error
}

// PermissionService manages the permission catalogue.
type PermissionService interface {
	GetAll(ctx context.Context) ([]opportunity.Permission, error)
	Create(ctx context.Context, caller access.Caller, p *opportunity.Permission) (*opportunity.Permission, error)
}

// TemplateService manages the deal type catalogue.
type TemplateService interface {
	GetAll(ctx context.Context) ([]opportunity.Template, error)
	Create(ctx context.Context, caller access.Caller, t *opportunity.Template) (*opportunity.Template, error)
	Update(ctx context.Context, caller access.Caller, t *opportunity.Template) error
}

// CatalogHandlers serves roles, permissions and templates.
type CatalogHandlers struct {
	roles       RoleService
	permissions PermissionService
	templates   TemplateService
	logger      *logging.Logger
}

// NewCatalogHandlers creates catalog handlers.
func NewCatalogHandlers(roles RoleService, permissions PermissionService, templates TemplateService) *CatalogHandlers {
	return &CatalogHandlers{
		roles:       roles,
		permissions: permissions,
		templates:   templates,
		logger:      logging.Default().WithComponent("catalog_handler"),
	}
}

// ListRoles returns every role.
func (h *CatalogHandlers) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.GetAll(r.Context())
	if err != nil {
		h.fail(w, r, "list roles", err)
		return
	}
	WriteJSON(w, http.StatusOK, roles)
}

// CreateRole adds a role.
func (h *CatalogHandlers) CreateRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var role opportunity.Role
	if err := decodeJSON(w, r, &role); err != nil {
		WriteError(w, err)
		return
	}
	created, err := h.roles.Create(r.Context(), caller, &role)
	if err != nil {
		h.fail(w, r, "create role", err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// UpdateRole replaces the role at {id}.
func (h *CatalogHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var role opportunity.Role
	if err := decodeJSON(w, r, &role); err != nil {
		WriteError(w, err)
		return
	}
	role.ID = chi.URLParam(r, "id")
	if err := h.roles.Update(r.Context(), caller, &role); err != nil {
		h.fail(w, r, "update role", err)
		return
	}
	WriteJSON(w, http.StatusOK, role)
}

// DeleteRole removes the role at {id}.
func (h *CatalogHandlers) DeleteRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if err := h.roles.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete role", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPermissions returns every permission.
func (h *CatalogHandlers) ListPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.permissions.GetAll(r.Context())
	if err != nil {
		h.fail(w, r, "list permissions", err)
		return
	}
	WriteJSON(w, http.StatusOK, permissions)
}

// CreatePermission adds a permission.
func (h *CatalogHandlers) CreatePermission(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var p opportunity.Permission
	if err := decodeJSON(w, r, &p); err != nil {
		WriteError(w, err)
		return
	}
	created, err := h.permissions.Create(r.Context(), caller, &p)
	if err != nil {
		h.fail(w, r, "create permission", err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// ListTemplates returns every deal type.
func (h *CatalogHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.GetAll(r.Context())
	if err != nil {
		h.fail(w, r, "list templates", err)
		return
	}
	WriteJSON(w, http.StatusOK, templates)
}

// CreateTemplate adds a deal type.
func (h *CatalogHandlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var t opportunity.Template
	if err := decodeJSON(w, r, &t); err != nil {
		WriteError(w, err)
		return
	}
	created, err := h.templates.Create(r.Context(), caller, &t)
	if err != nil {
		h.fail(w, r, "create template", err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// UpdateTemplate replaces the deal type at {id}.
func (h *CatalogHandlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var t opportunity.Template
	if err := decodeJSON(w, r, &t); err != nil {
		WriteError(w, err)
		return
	}
	t.ID = chi.URLParam(r, "id")
	if err := h.templates.Update(r.Context(), caller, &t); err != nil {
		h.fail(w, r, "update template", err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

func (h *CatalogHandlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if status, _ := StatusFor(err); status >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).Error("Failed to "+op, "error", err.Error())
	}
	WriteError(w, err)
}
