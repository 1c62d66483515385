package factories

import (
	"fmt"

	"propmgmt/database"
	"propmgmt/domain/contracts"
	"propmgmt/infrastructure/config"
	"propmgmt/infrastructure/repositories"
	"propmgmt/infrastructure/spclient"
	"propmgmt/logging"
	"propmgmt/spauth"
)

// Repositories holds every list-backed repository.
type Repositories struct {
	Opportunities contracts.OpportunityRepository
	Dashboards    contracts.DashboardRepository
	Roles         contracts.RoleRepository
	Permissions   contracts.PermissionRepository
	Templates     contracts.TemplateRepository
	Notifications contracts.NotificationRepository
}

// RepositoryFactory creates repositories over one list store.
type RepositoryFactory struct {
	store contracts.ListStore
	lists *config.ListNames
}

// NewRepositoryFactory creates a factory for store using the configured list titles.
func NewRepositoryFactory(store contracts.ListStore, lists *config.ListNames) *RepositoryFactory {
	return &RepositoryFactory{store: store, lists: lists}
}

// Store returns the underlying list store.
func (f *RepositoryFactory) Store() contracts.ListStore {
	return f.store
}

// Build creates all repositories.
func (f *RepositoryFactory) Build() *Repositories {
	return &Repositories{
		Opportunities: repositories.NewOpportunityRepository(f.store, f.lists.Opportunities),
		Dashboards:    repositories.NewDashboardRepository(f.store, f.lists.Dashboard),
		Roles:         repositories.NewRoleRepository(f.store, f.lists.Roles),
		Permissions:   repositories.NewPermissionRepository(f.store, f.lists.Permissions),
		Templates:     repositories.NewTemplateRepository(f.store, f.lists.Templates),
		Notifications: repositories.NewNotificationRepository(f.store, f.lists.Notifications),
	}
}

// NewListStore opens the configured list store backend. db is only used by the
// sqlite backend and may be nil otherwise.
func NewListStore(cfg *config.AppConfig, db *database.Database) (contracts.ListStore, error) {
	logger := logging.Default().WithComponent("repository_factory")

	switch cfg.ListStoreBackend {
	case config.ListStoreSqlite:
		if db == nil {
			return nil, fmt.Errorf("sqlite list store requires a database")
		}
		logger.Database("Using sqlite list store", "path", cfg.Database.Path)
		return repositories.NewSqliteListStore(db), nil
	case config.ListStoreSharePoint, "":
		client, err := spauth.NewClient(cfg.SharePoint)
		if err != nil {
			return nil, fmt.Errorf("create SharePoint client: %w", err)
		}
		logger.SharePoint("Using SharePoint list store", "site_url", cfg.SharePoint.SiteURL)
		return spclient.NewListClient(client), nil
	default:
		return nil, fmt.Errorf("unknown list store backend %q", cfg.ListStoreBackend)
	}
}
