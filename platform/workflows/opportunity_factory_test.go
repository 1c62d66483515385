package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/platform/executors"
	"propmgmt/test/helpers"
	"propmgmt/test/mocks"
)

const adminUPN = "admin@contoso.com"

type factoryFixture struct {
	collab     *helpers.MockCollaborators
	dashboards *mocks.MockDashboardRepository
	factory    *OpportunityFactory
}

func newFactoryFixture(processes ProcessWorkflows) *factoryFixture {
	collab := helpers.NewMockCollaborators()
	dashboards := &mocks.MockDashboardRepository{}
	executor := executors.NewSideEffectExecutor(nil)
	provisioner := NewTeamProvisioner(collab.Teams, collab.Hooks, executor, adminUPN, "https://contoso.sharepoint.com/")
	factory := NewOpportunityFactory(
		provisioner,
		NewDocumentMover(collab.Documents, ""),
		NewDashboardAnalytics(dashboards, helpers.FixedClock(2024, 1, 15)),
		processes,
		nil,
	)
	return &factoryFixture{collab: collab, dashboards: dashboards, factory: factory}
}

func countingWorkflow(calls *int) ProcessWorkflow {
	return ProcessWorkflowFunc(func(_ context.Context, opp *opportunity.Opportunity, _ opportunity.Process) (*opportunity.Opportunity, error) {
		*calls++
		return opp, nil
	})
}

func TestUpdateWorkflow_ChecklistDelegateRunsOncePerUpdate(t *testing.T) {
	// Arrange
	td := helpers.NewTestData()
	checklistCalls, decisionCalls := 0, 0
	fx := newFactoryFixture(ProcessWorkflows{
		Checklist:        countingWorkflow(&checklistCalls),
		CustomerDecision: countingWorkflow(&decisionCalls),
	})
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	opp.Content.DealType = td.DealType("Commercial",
		td.ChecklistProcess(opportunity.ChannelRiskAssessment, opportunity.ActionNotStarted),
		td.ChecklistProcess(opportunity.ChannelCreditCheck, opportunity.ActionNotStarted),
		td.StepProcess("Customer Decision", opportunity.ProcessTypeCustomerDecision),
	)

	// Act
	result, err := fx.factory.UpdateWorkflow(context.Background(), opp)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, checklistCalls)
	assert.Equal(t, 1, decisionCalls)
	assert.Equal(t, opportunity.StateInProgress, result.Opportunity.State())
}

func TestUpdateWorkflow_DispatchesByTypeThenStep(t *testing.T) {
	td := helpers.NewTestData()
	var order []string
	record := func(name string) ProcessWorkflow {
		return ProcessWorkflowFunc(func(_ context.Context, opp *opportunity.Opportunity, _ opportunity.Process) (*opportunity.Opportunity, error) {
			order = append(order, name)
			return opp, nil
		})
	}
	fx := newFactoryFixture(ProcessWorkflows{
		Checklist:        record("checklist"),
		CustomerDecision: record("decision"),
		ProposalStatus:   record("proposal"),
		StartProcess:     record("start"),
		NewOpportunity:   record("new"),
	})
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	opp.Content.DealType = td.DealType("Commercial",
		td.StepProcess("New Opportunity", opportunity.ProcessTypeBase),
		td.StepProcess("Start Process", opportunity.ProcessTypeBase),
		td.ChecklistProcess(opportunity.ChannelRiskAssessment, ""),
		td.StepProcess("Formal Proposal", "ProposalStatusTab"),
		td.StepProcess("Customer Decision", "CUSTOMERDECISIONTAB"),
		td.StepProcess("Unknown", "custom"),
	)

	_, err := fx.factory.UpdateWorkflow(context.Background(), opp)

	require.NoError(t, err)
	assert.Equal(t, []string{"new", "start", "checklist", "proposal", "decision"}, order)
}

func TestUpdateWorkflow_DelegateErrorFailsUpdate(t *testing.T) {
	td := helpers.NewTestData()
	fx := newFactoryFixture(ProcessWorkflows{
		NewOpportunity: ProcessWorkflowFunc(func(context.Context, *opportunity.Opportunity, opportunity.Process) (*opportunity.Opportunity, error) {
			return nil, errors.New("boom")
		}),
	})
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	opp.Content.DealType = td.DealType("Commercial", td.StepProcess("New Opportunity", opportunity.ProcessTypeBase))

	_, err := fx.factory.UpdateWorkflow(context.Background(), opp)

	assert.ErrorContains(t, err, "boom")
}

func TestUpdateWorkflow_MovesTempAttachmentsToSanitizedSite(t *testing.T) {
	// Arrange
	td := helpers.NewTestData()
	fx := newFactoryFixture(DefaultProcessWorkflows(nil))
	opp := td.SimpleOpportunity("opp-1", "Acme & Co.", opportunity.StateInProgress)
	opp.DocumentAttachments = []opportunity.DocumentAttachment{
		{ID: "a1", FileName: "financials.xlsx", DocumentURI: "tempfolder"},
		{ID: "a2", FileName: "already-moved.docx", DocumentURI: "https://contoso.sharepoint.com/sites/AcmeCo/General/already-moved.docx"},
	}
	site := &contracts.Site{ID: "site-1", URL: "https://contoso.sharepoint.com/sites/AcmeCo"}
	fx.collab.Documents.On("ResolveSite", mock.Anything, "AcmeCo").Return(site, nil)
	fx.collab.Documents.On("MoveFile", mock.Anything, site, "TempFolder/AcmeCo/financials.xlsx", "General/financials.xlsx").Return(nil)
	fx.collab.Documents.On("DeleteFolder", mock.Anything, "TempFolder/AcmeCo").Return(nil)

	// Act
	result, err := fx.factory.UpdateWorkflow(context.Background(), opp)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Empty(t, result.Opportunity.DocumentAttachments[0].DocumentURI)
	assert.Equal(t, "tempfolder", opp.DocumentAttachments[0].DocumentURI, "input must not be mutated")
	fx.collab.AssertAllExpectations(t)
}

func TestUpdateWorkflow_MoveFailureContinuesAndKeepsFolder(t *testing.T) {
	td := helpers.NewTestData()
	fx := newFactoryFixture(DefaultProcessWorkflows(nil))
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	opp.DocumentAttachments = []opportunity.DocumentAttachment{
		{FileName: "a.docx", DocumentURI: opportunity.TempFolderURI},
		{FileName: "b.docx", DocumentURI: opportunity.TempFolderURI},
	}
	site := &contracts.Site{ID: "site-1"}
	fx.collab.Documents.On("ResolveSite", mock.Anything, "Acme").Return(site, nil)
	fx.collab.Documents.On("MoveFile", mock.Anything, site, "TempFolder/Acme/a.docx", "General/a.docx").Return(errors.New("locked"))
	fx.collab.Documents.On("MoveFile", mock.Anything, site, "TempFolder/Acme/b.docx", "General/b.docx").Return(nil)

	result, err := fx.factory.UpdateWorkflow(context.Background(), opp)

	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, StepMoveAttachment, result.Diagnostics[0].Step)
	assert.Equal(t, opportunity.TempFolderURI, result.Opportunity.DocumentAttachments[0].DocumentURI)
	assert.Empty(t, result.Opportunity.DocumentAttachments[1].DocumentURI)
	fx.collab.Documents.AssertNotCalled(t, "DeleteFolder", mock.Anything, mock.Anything)
}

func TestUpdateWorkflow_CreatingSkipsTempMove(t *testing.T) {
	td := helpers.NewTestData()
	fx := newFactoryFixture(DefaultProcessWorkflows(nil))
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateCreating)
	opp.DocumentAttachments = []opportunity.DocumentAttachment{{FileName: "a.docx", DocumentURI: opportunity.TempFolderURI}}

	result, err := fx.factory.UpdateWorkflow(context.Background(), opp)

	require.NoError(t, err)
	assert.Equal(t, opportunity.StateCreating, result.Opportunity.State())
	fx.collab.Documents.AssertNotCalled(t, "ResolveSite", mock.Anything, mock.Anything)
}

func TestCreateWorkflow_WithoutProcessListStaysCreating(t *testing.T) {
	td := helpers.NewTestData()
	fx := newFactoryFixture(DefaultProcessWorkflows(nil))
	opp := td.SimpleOpportunity("", "Acme", "")

	result, err := fx.factory.CreateWorkflow(context.Background(), opp)

	require.NoError(t, err)
	assert.Equal(t, opportunity.StateCreating, result.Opportunity.State())
	assert.Empty(t, result.Diagnostics)
	fx.collab.Teams.AssertNotCalled(t, "FindGroupByPrefix", mock.Anything, mock.Anything)
}

func TestCreateWorkflow_ProvisionsTeamAndActivates(t *testing.T) {
	// Arrange
	td := helpers.NewTestData()
	fx := newFactoryFixture(DefaultProcessWorkflows(nil))
	opp := td.SimpleOpportunity("", "Acme & Co.", "")
	opp.Reference = "REF-42"
	opp.Content.TeamMembers = []opportunity.TeamMember{
		td.Member("lee@contoso.com", "Lee", opportunity.RoleLoanOfficer),
		td.Member("sam@contoso.com", "Sam", opportunity.RoleRelationshipManager),
		td.Member("kim@contoso.com", "Kim", "Legal"),
	}
	opp.Content.DealType = td.DealType("Commercial",
		td.StepProcess("New Opportunity", opportunity.ProcessTypeBase),
		td.ChecklistProcess(opportunity.ChannelRiskAssessment, ""),
		td.ChecklistProcess(opportunity.ChannelCreditCheck, ""),
	)
	group := &contracts.Group{ID: "group-1", DisplayName: "AcmeCo"}
	teams := fx.collab.Teams
	teams.On("FindGroupByPrefix", mock.Anything, "AcmeCo").Return(nil, nil)
	teams.On("CreateTeam", mock.Anything, "AcmeCo", "AcmeCo", "Acme & Co.").Return(group, nil)
	teams.On("ListChannels", mock.Anything, "group-1").Return([]contracts.Channel{{ID: "general-1", DisplayName: "General"}}, nil)
	teams.On("CreateChannel", mock.Anything, "group-1", opportunity.ChannelRiskAssessment, opportunity.ChannelRiskAssessment).
		Return(&contracts.Channel{ID: "ch-risk", DisplayName: opportunity.ChannelRiskAssessment}, nil)
	teams.On("CreateChannel", mock.Anything, "group-1", opportunity.ChannelCreditCheck, opportunity.ChannelCreditCheck).
		Return(&contracts.Channel{ID: "ch-credit", DisplayName: opportunity.ChannelCreditCheck}, nil)
	teams.On("AddGroupOwner", mock.Anything, "group-1", adminUPN).Return(nil)
	teams.On("AddGroupMember", mock.Anything, "group-1", adminUPN).Return(nil)
	teams.On("AddGroupMember", mock.Anything, "group-1", "lee@contoso.com").Return(nil)
	teams.On("AddGroupMember", mock.Anything, "group-1", "sam@contoso.com").Return(nil)
	fx.collab.Hooks.On("NotifyAddIn", mock.Anything, "REF-42", "AcmeCo", "general-1").Return(nil)
	fx.collab.Hooks.On("ActivateDocumentID", mock.Anything, "https://contoso.sharepoint.com/sites/AcmeCo").Return(nil)

	// Act
	result, err := fx.factory.CreateWorkflow(context.Background(), opp)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, opportunity.StateInProgress, result.Opportunity.State())
	assert.Equal(t, "general-1", result.Opportunity.Metadata.OpportunityChannelID)
	assert.Equal(t, opportunity.StateNone, opp.State(), "input must not be mutated")
	fx.collab.AssertAllExpectations(t)
	teams.AssertNotCalled(t, "AddGroupMember", mock.Anything, "group-1", "kim@contoso.com")
}

func TestCreateWorkflow_SideEffectFailuresBecomeDiagnostics(t *testing.T) {
	td := helpers.NewTestData()
	fx := newFactoryFixture(DefaultProcessWorkflows(nil))
	opp := td.SimpleOpportunity("", "Acme", "")
	opp.Content.DealType = td.DealType("Commercial", td.StepProcess("New Opportunity", opportunity.ProcessTypeBase))
	group := &contracts.Group{ID: "group-1"}
	teams := fx.collab.Teams
	teams.On("FindGroupByPrefix", mock.Anything, "Acme").Return(nil, nil)
	teams.On("CreateTeam", mock.Anything, "Acme", "Acme", "Acme").Return(group, nil)
	teams.On("ListChannels", mock.Anything, "group-1").Return([]contracts.Channel{{ID: "general-1", DisplayName: "General"}}, nil)
	teams.On("AddGroupOwner", mock.Anything, "group-1", adminUPN).Return(errors.New("forbidden"))
	teams.On("AddGroupMember", mock.Anything, "group-1", adminUPN).Return(nil)
	fx.collab.Hooks.On("ActivateDocumentID", mock.Anything, mock.Anything).Return(errors.New("service down"))

	result, err := fx.factory.CreateWorkflow(context.Background(), opp)

	require.NoError(t, err)
	assert.Equal(t, opportunity.StateInProgress, result.Opportunity.State())
	assert.Equal(t, []Diagnostic{
		{Step: StepAdminOwner, Error: "forbidden"},
		{Step: StepDocumentID, Error: "service down"},
	}, result.Diagnostics)
	fx.collab.Hooks.AssertNotCalled(t, "NotifyAddIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateWorkflow_TeamCreationFailureIsFatal(t *testing.T) {
	td := helpers.NewTestData()
	fx := newFactoryFixture(DefaultProcessWorkflows(nil))
	opp := td.SimpleOpportunity("", "Acme", "")
	opp.Content.DealType = td.DealType("Commercial", td.ChecklistProcess(opportunity.ChannelCompliance, ""))
	fx.collab.Teams.On("FindGroupByPrefix", mock.Anything, "Acme").Return(nil, nil)
	fx.collab.Teams.On("CreateTeam", mock.Anything, "Acme", "Acme", "Acme").Return(nil, errors.New("quota exceeded"))

	result, err := fx.factory.CreateWorkflow(context.Background(), opp)

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestUpdateWorkflow_CreatingWithExistingTeamAddsMissingChannels(t *testing.T) {
	td := helpers.NewTestData()
	fx := newFactoryFixture(DefaultProcessWorkflows(nil))
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateCreating)
	opp.Content.DealType = td.DealType("Commercial",
		td.ChecklistProcess(opportunity.ChannelRiskAssessment, ""),
		td.ChecklistProcess(opportunity.ChannelCompliance, ""),
	)
	group := &contracts.Group{ID: "group-1"}
	teams := fx.collab.Teams
	teams.On("FindGroupByPrefix", mock.Anything, "Acme").Return(group, nil)
	teams.On("ListChannels", mock.Anything, "group-1").Return([]contracts.Channel{
		{ID: "general-1", DisplayName: "General"},
		{ID: "ch-risk", DisplayName: "risk assessment"},
	}, nil)
	teams.On("CreateChannel", mock.Anything, "group-1", opportunity.ChannelCompliance, opportunity.ChannelCompliance).
		Return(&contracts.Channel{ID: "ch-comp", DisplayName: opportunity.ChannelCompliance}, nil)

	result, err := fx.factory.UpdateWorkflow(context.Background(), opp)

	require.NoError(t, err)
	assert.Equal(t, opportunity.StateInProgress, result.Opportunity.State())
	assert.Empty(t, result.Diagnostics)
	teams.AssertNumberOfCalls(t, "CreateChannel", 1)
	teams.AssertNotCalled(t, "AddGroupOwner", mock.Anything, mock.Anything, mock.Anything)
	fx.collab.Hooks.AssertNotCalled(t, "ActivateDocumentID", mock.Anything, mock.Anything)
}

func TestAfterUpdate_ArchivedComputesTotalDays(t *testing.T) {
	td := helpers.NewTestData()
	tests := []struct {
		name  string
		today int
		want  int
	}{
		{"same day counts as one", 10, 1},
		{"five days later", 15, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			dashboards := &mocks.MockDashboardRepository{}
			analytics := NewDashboardAnalytics(dashboards, helpers.FixedClock(2024, 1, tt.today))
			factory := NewOpportunityFactory(nil, nil, analytics, ProcessWorkflows{}, nil)

			previous := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
			current := previous.Clone()
			current.Metadata.OpportunityState = opportunity.StateArchived
			dashboard := &opportunity.Dashboard{ID: "d-1", OpportunityID: "opp-1", StartDate: helpers.Date(2024, 1, 10)}
			dashboards.On("GetByOpportunityID", mock.Anything, "opp-1").Return(dashboard, nil)
			dashboards.On("Update", mock.Anything, mock.AnythingOfType("*opportunity.Dashboard")).Return(nil)

			// Act
			diagnostics := factory.AfterUpdate(context.Background(), previous, current)

			// Assert
			assert.Empty(t, diagnostics)
			assert.Equal(t, tt.want, dashboard.TotalNoOfDays)
			assert.Equal(t, "Archived", dashboard.Status)
			assert.False(t, dashboard.OpportunityEndDate.IsZero())
		})
	}
}

func TestAfterUpdate_RecordsChangedChecklistChannels(t *testing.T) {
	td := helpers.NewTestData()
	dashboards := &mocks.MockDashboardRepository{}
	analytics := NewDashboardAnalytics(dashboards, helpers.FixedClock(2024, 1, 15))
	factory := NewOpportunityFactory(nil, nil, analytics, ProcessWorkflows{}, nil)

	previous := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	previous.Content.TeamMembers = []opportunity.TeamMember{td.Member("lee@contoso.com", "Lee", opportunity.RoleLoanOfficer)}
	previous.Content.DealType = td.DealType("Commercial",
		td.ChecklistProcess(opportunity.ChannelRiskAssessment, opportunity.ActionInProgress),
		td.ChecklistProcess(opportunity.ChannelCreditCheck, opportunity.ActionNotStarted),
	)
	current := previous.Clone()
	current.Content.DealType.ProcessList[0].Status = opportunity.ActionCompleted

	dashboard := &opportunity.Dashboard{
		OpportunityID:  "opp-1",
		RiskAssessment: opportunity.ChannelProgress{StartDate: helpers.Date(2024, 1, 12)},
	}
	dashboards.On("GetByOpportunityID", mock.Anything, "opp-1").Return(dashboard, nil)
	dashboards.On("Update", mock.Anything, dashboard).Return(nil)

	diagnostics := factory.AfterUpdate(context.Background(), previous, current)

	assert.Empty(t, diagnostics)
	assert.Equal(t, 3, dashboard.RiskAssessment.NoOfDays)
	assert.True(t, dashboard.CreditCheck.StartDate.IsZero())
	assert.Equal(t, "Lee", dashboard.LoanOfficer)
	assert.Zero(t, dashboard.TotalNoOfDays)
}

func TestAfterUpdate_MissingDashboardIsSkipped(t *testing.T) {
	td := helpers.NewTestData()
	dashboards := &mocks.MockDashboardRepository{}
	factory := NewOpportunityFactory(nil, nil, NewDashboardAnalytics(dashboards, nil), ProcessWorkflows{}, nil)
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	dashboards.On("GetByOpportunityID", mock.Anything, "opp-1").Return(nil, contracts.ErrNoItemsFound)

	diagnostics := factory.AfterUpdate(context.Background(), opp, opp)

	assert.Empty(t, diagnostics)
	dashboards.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAfterUpdate_RepositoryFailureBecomesDiagnostic(t *testing.T) {
	td := helpers.NewTestData()
	dashboards := &mocks.MockDashboardRepository{}
	factory := NewOpportunityFactory(nil, nil, NewDashboardAnalytics(dashboards, nil), ProcessWorkflows{}, nil)
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	dashboards.On("GetByOpportunityID", mock.Anything, "opp-1").Return(nil, errors.New("list unavailable"))

	diagnostics := factory.AfterUpdate(context.Background(), opp, opp)

	require.Len(t, diagnostics, 1)
	assert.Equal(t, StepDashboard, diagnostics[0].Step)
}

func TestAfterCreate_StartsDashboardToday(t *testing.T) {
	td := helpers.NewTestData()
	dashboards := &mocks.MockDashboardRepository{}
	factory := NewOpportunityFactory(nil, nil, NewDashboardAnalytics(dashboards, helpers.FixedClock(2024, 1, 10)), ProcessWorkflows{}, nil)
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateCreating)
	opp.Content.TeamMembers = []opportunity.TeamMember{td.Member("sam@contoso.com", "Sam", opportunity.RoleRelationshipManager)}

	var created *opportunity.Dashboard
	dashboards.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*opportunity.Dashboard)
	}).Return(&opportunity.Dashboard{ID: "d-1"}, nil)

	diagnostics := factory.AfterCreate(context.Background(), opp)

	assert.Empty(t, diagnostics)
	require.NotNil(t, created)
	assert.Equal(t, "opp-1", created.OpportunityID)
	assert.Equal(t, "Creating", created.Status)
	assert.Equal(t, "Sam", created.RelationshipManager)
	assert.Equal(t, helpers.FixedClock(2024, 1, 10)(), created.StartDate)
}
