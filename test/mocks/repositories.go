package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
)

// MockOpportunityRepository implements OpportunityRepository for testing
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) Create(ctx context.Context, opp *opportunity.Opportunity) (*opportunity.Opportunity, error) {
	args := m.Called(ctx, opp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*opportunity.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) Update(ctx context.Context, opp *opportunity.Opportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}

func (m *MockOpportunityRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOpportunityRepository) GetByID(ctx context.Context, id string) (*opportunity.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*opportunity.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) GetByName(ctx context.Context, name string) (*opportunity.Opportunity, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*opportunity.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) GetAll(ctx context.Context) ([]*opportunity.Opportunity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*opportunity.Opportunity), args.Error(1)
}

// MockDashboardRepository implements DashboardRepository for testing
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) Create(ctx context.Context, d *opportunity.Dashboard) (*opportunity.Dashboard, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*opportunity.Dashboard), args.Error(1)
}

func (m *MockDashboardRepository) Update(ctx context.Context, d *opportunity.Dashboard) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDashboardRepository) GetByOpportunityID(ctx context.Context, opportunityID string) (*opportunity.Dashboard, error) {
	args := m.Called(ctx, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*opportunity.Dashboard), args.Error(1)
}

func (m *MockDashboardRepository) DeleteByOpportunityID(ctx context.Context, opportunityID string) error {
	args := m.Called(ctx, opportunityID)
	return args.Error(0)
}

func (m *MockDashboardRepository) GetAll(ctx context.Context) ([]opportunity.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]opportunity.Dashboard), args.Error(1)
}

// MockRoleRepository implements RoleRepository for testing
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, r *opportunity.Role) (*opportunity.Role, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*opportunity.Role), args.Error(1)
}

func (m *MockRoleRepository) Update(ctx context.Context, r *opportunity.Role) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoleRepository) GetAll(ctx context.Context) ([]opportunity.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]opportunity.Role), args.Error(1)
}

// MockPermissionRepository implements PermissionRepository for testing
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) Create(ctx context.Context, p *opportunity.Permission) (*opportunity.Permission, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*opportunity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) GetAll(ctx context.Context) ([]opportunity.Permission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]opportunity.Permission), args.Error(1)
}

// MockTemplateRepository implements TemplateRepository for testing
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, t *opportunity.Template) (*opportunity.Template, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*opportunity.Template), args.Error(1)
}

func (m *MockTemplateRepository) Update(ctx context.Context, t *opportunity.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepository) GetAll(ctx context.Context) ([]opportunity.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]opportunity.Template), args.Error(1)
}

// MockNotificationRepository implements NotificationRepository for testing
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *contracts.Notification) (*contracts.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetForUser(ctx context.Context, userPrincipalName string) ([]contracts.Notification, error) {
	args := m.Called(ctx, userPrincipalName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contracts.Notification), args.Error(1)
}
