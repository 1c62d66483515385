package workflows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propmgmt/domain/opportunity"
	"propmgmt/test/helpers"
)

func TestChecklistWorkflow_CreatesAndDerivesStatus(t *testing.T) {
	// Arrange
	td := helpers.NewTestData()
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	opp.Content.DealType = td.DealType("Commercial",
		td.ChecklistProcess(opportunity.ChannelRiskAssessment, ""),
		td.ChecklistProcess(opportunity.ChannelCreditCheck, ""),
		td.ChecklistProcess(opportunity.ChannelCompliance, ""),
	)
	opp.Content.Checklists = []opportunity.Checklist{
		{ID: "c1", ChecklistChannel: "risk assessment", ChecklistTaskList: []opportunity.ChecklistTask{
			{ID: "t1", Completed: true}, {ID: "t2", Completed: true},
		}},
		{ID: "c2", ChecklistChannel: opportunity.ChannelCreditCheck, ChecklistTaskList: []opportunity.ChecklistTask{
			{ID: "t3", Completed: true}, {ID: "t4"},
		}},
	}
	workflows := DefaultProcessWorkflows(nil)

	// Act
	out, err := workflows.Checklist.Process(context.Background(), opp, opp.Content.DealType.ProcessList[0])

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Content.Checklists, 3)
	assert.Equal(t, opportunity.ActionCompleted, out.Content.Checklists[0].ChecklistStatus)
	assert.Equal(t, opportunity.ActionInProgress, out.Content.Checklists[1].ChecklistStatus)
	assert.Equal(t, opportunity.ChannelCompliance, out.Content.Checklists[2].ChecklistChannel)
	assert.NotEmpty(t, out.Content.Checklists[2].ID)
	assert.Equal(t, opportunity.ActionNotStarted, out.Content.Checklists[2].ChecklistStatus)

	statuses := []opportunity.ActionStatus{}
	for _, p := range out.Content.DealType.ProcessList {
		statuses = append(statuses, p.Status)
	}
	assert.Equal(t, []opportunity.ActionStatus{
		opportunity.ActionCompleted, opportunity.ActionInProgress, opportunity.ActionNotStarted,
	}, statuses)
}

func TestChecklistStatus_KeepsBlocked(t *testing.T) {
	c := opportunity.Checklist{ChecklistStatus: opportunity.ActionBlocked, ChecklistTaskList: []opportunity.ChecklistTask{{ID: "t1"}}}
	assert.Equal(t, opportunity.ActionBlocked, checklistStatus(c))

	c.ChecklistStatus = opportunity.ActionInProgress
	assert.Equal(t, opportunity.ActionNotStarted, checklistStatus(c))
}

func TestCustomerDecisionWorkflow_ApprovedAcceptsOpportunity(t *testing.T) {
	td := helpers.NewTestData()
	clock := helpers.FixedClock(2024, 3, 1)
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	decision := td.StepProcess("Customer Decision", opportunity.ProcessTypeCustomerDecision)
	opp.Content.DealType = td.DealType("Commercial", decision)
	opp.Content.CustomerDecision.Approved = true

	out, err := DefaultProcessWorkflows(clock).CustomerDecision.Process(context.Background(), opp, decision)

	require.NoError(t, err)
	assert.Equal(t, opportunity.StateAccepted, out.State())
	assert.Equal(t, clock(), out.Content.CustomerDecision.ApprovedDate)
	assert.Equal(t, opportunity.ActionCompleted, out.Content.DealType.ProcessList[0].Status)
}

func TestCustomerDecisionWorkflow_NotApprovedIsNoop(t *testing.T) {
	td := helpers.NewTestData()
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	decision := td.StepProcess("Customer Decision", opportunity.ProcessTypeCustomerDecision)
	opp.Content.DealType = td.DealType("Commercial", decision)

	out, err := DefaultProcessWorkflows(nil).CustomerDecision.Process(context.Background(), opp, decision)

	require.NoError(t, err)
	assert.Equal(t, opportunity.StateInProgress, out.State())
	assert.True(t, out.Content.CustomerDecision.ApprovedDate.IsZero())
}

func TestProposalStatusWorkflow(t *testing.T) {
	tests := []struct {
		name     string
		sections []opportunity.ActionStatus
		want     opportunity.ActionStatus
	}{
		{"all completed", []opportunity.ActionStatus{opportunity.ActionCompleted, opportunity.ActionCompleted}, opportunity.ActionCompleted},
		{"one blocked", []opportunity.ActionStatus{opportunity.ActionCompleted, opportunity.ActionBlocked}, opportunity.ActionBlocked},
		{"partly done", []opportunity.ActionStatus{opportunity.ActionCompleted, ""}, opportunity.ActionInProgress},
		{"untouched", []opportunity.ActionStatus{"", opportunity.ActionNotStarted}, opportunity.ActionNotStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := helpers.NewTestData()
			opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
			proposal := td.StepProcess("Formal Proposal", opportunity.ProcessTypeProposalStatus)
			opp.Content.DealType = td.DealType("Commercial", proposal)
			for _, s := range tt.sections {
				opp.Content.ProposalDocument.Sections = append(opp.Content.ProposalDocument.Sections, opportunity.DocumentSection{SectionStatus: s})
			}

			out, err := DefaultProcessWorkflows(nil).ProposalStatus.Process(context.Background(), opp, proposal)

			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Content.DealType.ProcessList[0].Status)
		})
	}
}

func TestStartProcessWorkflow_RequiresLoanOfficer(t *testing.T) {
	td := helpers.NewTestData()
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	start := td.StepProcess("Start Process", opportunity.ProcessTypeBase)
	opp.Content.DealType = td.DealType("Commercial", start)
	workflows := DefaultProcessWorkflows(nil)

	out, err := workflows.StartProcess.Process(context.Background(), opp, start)
	require.NoError(t, err)
	assert.Empty(t, out.Content.DealType.ProcessList[0].Status)

	opp.Content.TeamMembers = []opportunity.TeamMember{td.Member("lee@contoso.com", "Lee", opportunity.RoleLoanOfficer)}
	out, err = workflows.StartProcess.Process(context.Background(), opp, start)
	require.NoError(t, err)
	assert.Equal(t, opportunity.ActionCompleted, out.Content.DealType.ProcessList[0].Status)
}

func TestNewOpportunityWorkflow_CompletesStep(t *testing.T) {
	td := helpers.NewTestData()
	opp := td.SimpleOpportunity("opp-1", "Acme", opportunity.StateInProgress)
	step := td.StepProcess("New Opportunity", opportunity.ProcessTypeBase)
	opp.Content.DealType = td.DealType("Commercial", step)

	out, err := DefaultProcessWorkflows(nil).NewOpportunity.Process(context.Background(), opp, step)

	require.NoError(t, err)
	assert.Equal(t, opportunity.ActionCompleted, out.Content.DealType.ProcessList[0].Status)
}
