package contracts

import (
	"context"

	"propmgmt/domain/opportunity"
)

// OpportunityRepository defines persistence of the opportunity aggregate.
type OpportunityRepository interface {
	Create(ctx context.Context, opp *opportunity.Opportunity) (*opportunity.Opportunity, error)
	Update(ctx context.Context, opp *opportunity.Opportunity) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*opportunity.Opportunity, error)
	GetByName(ctx context.Context, name string) (*opportunity.Opportunity, error)
	GetAll(ctx context.Context) ([]*opportunity.Opportunity, error)
}

// DashboardRepository defines persistence of the dashboard read model.
type DashboardRepository interface {
	Create(ctx context.Context, d *opportunity.Dashboard) (*opportunity.Dashboard, error)
	Update(ctx context.Context, d *opportunity.Dashboard) error
	GetByOpportunityID(ctx context.Context, opportunityID string) (*opportunity.Dashboard, error)
	DeleteByOpportunityID(ctx context.Context, opportunityID string) error
	GetAll(ctx context.Context) ([]opportunity.Dashboard, error)
}

// RoleRepository defines persistence of roles.
type RoleRepository interface {
	Create(ctx context.Context, r *opportunity.Role) (*opportunity.Role, error)
	Update(ctx context.Context, r *opportunity.Role) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]opportunity.Role, error)
}

// PermissionRepository defines persistence of permission names.
type PermissionRepository interface {
	Create(ctx context.Context, p *opportunity.Permission) (*opportunity.Permission, error)
	GetAll(ctx context.Context) ([]opportunity.Permission, error)
}

// TemplateRepository defines persistence of deal type templates.
type TemplateRepository interface {
	Create(ctx context.Context, t *opportunity.Template) (*opportunity.Template, error)
	Update(ctx context.Context, t *opportunity.Template) error
	GetAll(ctx context.Context) ([]opportunity.Template, error)
}

// Notification is a message shown to users about an opportunity.
type Notification struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	OpportunityID string `json:"opportunityId"`
	SentTo        string `json:"sentTo"`
	SentFrom      string `json:"sentFrom"`
	IsRead        bool   `json:"isRead"`
}

// NotificationRepository defines persistence of notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	GetForUser(ctx context.Context, userPrincipalName string) ([]Notification, error)
}
