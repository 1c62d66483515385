package helpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"propmgmt/domain/opportunity"
	"propmgmt/test/mocks"
)

// MockRepositories holds all repository mocks for easy injection
type MockRepositories struct {
	Opportunity  *mocks.MockOpportunityRepository
	Dashboard    *mocks.MockDashboardRepository
	Role         *mocks.MockRoleRepository
	Permission   *mocks.MockPermissionRepository
	Template     *mocks.MockTemplateRepository
	Notification *mocks.MockNotificationRepository
}

// NewMockRepositories creates a new set of repository mocks
func NewMockRepositories() *MockRepositories {
	return &MockRepositories{
		Opportunity:  &mocks.MockOpportunityRepository{},
		Dashboard:    &mocks.MockDashboardRepository{},
		Role:         &mocks.MockRoleRepository{},
		Permission:   &mocks.MockPermissionRepository{},
		Template:     &mocks.MockTemplateRepository{},
		Notification: &mocks.MockNotificationRepository{},
	}
}

// ExpectOpportunity sets up expectations for a successful opportunity lookup
func (m *MockRepositories) ExpectOpportunity(opp *opportunity.Opportunity) {
	m.Opportunity.On("GetByID", mock.Anything, opp.ID).Return(opp, nil)
}

// ExpectDashboard sets up expectations for a successful dashboard lookup
func (m *MockRepositories) ExpectDashboard(d *opportunity.Dashboard) {
	m.Dashboard.On("GetByOpportunityID", mock.Anything, d.OpportunityID).Return(d, nil)
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockRepositories) AssertAllExpectations(t mock.TestingT) {
	m.Opportunity.AssertExpectations(t)
	m.Dashboard.AssertExpectations(t)
	m.Role.AssertExpectations(t)
	m.Permission.AssertExpectations(t)
	m.Template.AssertExpectations(t)
	m.Notification.AssertExpectations(t)
}

// MockCollaborators holds the external service mocks used by workflows
type MockCollaborators struct {
	Teams     *mocks.MockTeamsClient
	Documents *mocks.MockDocumentClient
	Hooks     *mocks.MockProvisioningHooks
}

// NewMockCollaborators creates a new set of collaborator mocks
func NewMockCollaborators() *MockCollaborators {
	return &MockCollaborators{
		Teams:     &mocks.MockTeamsClient{},
		Documents: &mocks.MockDocumentClient{},
		Hooks:     &mocks.MockProvisioningHooks{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockCollaborators) AssertAllExpectations(t mock.TestingT) {
	m.Teams.AssertExpectations(t)
	m.Documents.AssertExpectations(t)
	m.Hooks.AssertExpectations(t)
}

// TestData provides simple builders for test data
type TestData struct{}

// NewTestData creates a test data builder
func NewTestData() *TestData {
	return &TestData{}
}

// SimpleOpportunity creates an opportunity in the given state
func (td *TestData) SimpleOpportunity(id, name string, state opportunity.State) *opportunity.Opportunity {
	return &opportunity.Opportunity{
		ID:          id,
		DisplayName: name,
		Metadata: opportunity.Metadata{
			OpportunityState: state,
			Customer:         opportunity.Customer{ID: "cust-1", DisplayName: "Contoso Bank"},
		},
	}
}

// Member creates a team member holding role
func (td *TestData) Member(upn, displayName, role string) opportunity.TeamMember {
	return opportunity.TeamMember{
		ID:          upn,
		DisplayName: displayName,
		AssignedRole: opportunity.Role{
			DisplayName:     role,
			AdGroupName:     role,
			TeamsMembership: opportunity.TeamsMembershipMember,
		},
		Fields: opportunity.TeamMemberFields{UserPrincipalName: upn, Mail: upn},
	}
}

// DealType creates a template from processes
func (td *TestData) DealType(name string, processes ...opportunity.Process) opportunity.Template {
	return opportunity.Template{
		ID:           name,
		TemplateName: name,
		ProcessList:  processes,
	}
}

// ChecklistProcess creates a checklist-tagged process bound to channel
func (td *TestData) ChecklistProcess(channel string, status opportunity.ActionStatus) opportunity.Process {
	return opportunity.Process{
		ProcessStep: channel,
		Channel:     channel,
		ProcessType: opportunity.ProcessTypeChecklist,
		Status:      status,
	}
}

// StepProcess creates a channel-less process of the given type
func (td *TestData) StepProcess(step, processType string) opportunity.Process {
	return opportunity.Process{
		ProcessStep: step,
		Channel:     opportunity.NoChannel,
		ProcessType: processType,
	}
}

// Helper for common test context
func TestContext() context.Context {
	return context.Background()
}

// FixedClock returns a clock that always reports the given date at noon UTC
func FixedClock(year int, month time.Month, day int) func() time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
