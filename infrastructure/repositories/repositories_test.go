package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/platform/workflows"
)

func TestOpportunityRepository_RoundTripThroughListItem(t *testing.T) {
	ctx := context.Background()
	repo := NewOpportunityRepository(newTestStore(t), contracts.ListOpportunities)

	opp := &opportunity.Opportunity{
		DisplayName:    "Acme & Co.",
		Reference:      "REF-9",
		Metadata:       opportunity.Metadata{OpportunityState: opportunity.StateCreating},
		TemplateLoaded: true,
	}
	created, err := repo.Create(ctx, opp)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Empty(t, opp.ID, "input is not mutated")

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byID.Metadata.OpportunityState = opportunity.StateInProgress
	require.NoError(t, repo.Update(ctx, byID))

	byName, err := repo.GetByName(ctx, "Acme & Co.")
	require.NoError(t, err)
	assert.Equal(t, opportunity.StateInProgress, byName.State())

	item, err := repo.Store().GetListItem(ctx, repo.List(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "InProgress", item.String("OpportunityState"))
	assert.Equal(t, "REF-9", item.String("Reference"))

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByName(ctx, "Acme & Co.")
	assert.ErrorIs(t, err, contracts.ErrNoItemsFound)
}

func TestOpportunityRepository_Validation(t *testing.T) {
	repo := NewOpportunityRepository(newTestStore(t), contracts.ListOpportunities)
	ctx := context.Background()

	_, err := repo.Create(ctx, &opportunity.Opportunity{})
	assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
	assert.ErrorIs(t, repo.Update(ctx, &opportunity.Opportunity{DisplayName: "x"}), contracts.ErrInvalidArgument)
	_, err = repo.GetByID(ctx, "")
	assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
}

func TestDashboardRepository_PersistsChannelProgress(t *testing.T) {
	ctx := context.Background()
	repo := NewDashboardRepository(newTestStore(t), contracts.ListDashboard)
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, &opportunity.Dashboard{
		OpportunityID:   "opp-1",
		OpportunityName: "Acme",
		Status:          "Creating",
		StartDate:       start,
		CreditCheck:     opportunity.ChannelProgress{StartDate: start, CompletionDate: start.AddDate(0, 0, 3), NoOfDays: 3},
	})
	require.NoError(t, err)

	got, err := repo.GetByOpportunityID(ctx, "opp-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.StartDate.Equal(start))
	assert.Equal(t, 3, got.CreditCheck.NoOfDays)
	assert.True(t, got.RiskAssessment.StartDate.IsZero())

	got.Close(opportunity.StateArchived, start.AddDate(0, 0, 5))
	require.NoError(t, repo.Update(ctx, got))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 5, all[0].TotalNoOfDays)
	assert.Equal(t, "Archived", all[0].Status)

	require.NoError(t, repo.DeleteByOpportunityID(ctx, "opp-1"))
	_, err = repo.GetByOpportunityID(ctx, "opp-1")
	assert.ErrorIs(t, err, contracts.ErrNoItemsFound)
}

func TestDashboardRepository_SameLocalDayCloseCountsOneDay(t *testing.T) {
	// Arrange: the stored start date comes back in UTC while the clock runs on local time
	ctx := context.Background()
	repo := NewDashboardRepository(newTestStore(t), contracts.ListDashboard)
	eastern := time.FixedZone("EST", -5*60*60)
	now := time.Date(2024, 1, 10, 22, 0, 0, 0, eastern)
	analytics := workflows.NewDashboardAnalytics(repo, func() time.Time { return now })

	opened := &opportunity.Opportunity{ID: "opp-tz", DisplayName: "Late Filing"}
	opened.Metadata.OpportunityState = opportunity.StateInProgress
	require.NoError(t, analytics.Created(ctx, opened))

	// Act: archive an hour later on the same local day
	now = now.Add(time.Hour)
	archived := opened.Clone()
	archived.Metadata.OpportunityState = opportunity.StateArchived
	require.NoError(t, analytics.Updated(ctx, opened, archived))

	// Assert
	got, err := repo.GetByOpportunityID(ctx, "opp-tz")
	require.NoError(t, err)
	assert.Equal(t, "Archived", got.Status)
	assert.Equal(t, 1, got.TotalNoOfDays)
}

func TestRoleAndPermissionRepositories(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	roles := NewRoleRepository(store, contracts.ListRoles)
	perms := NewPermissionRepository(store, contracts.ListPermissions)

	p, err := perms.Create(ctx, &opportunity.Permission{Name: "Opportunities_Read_All"})
	require.NoError(t, err)

	role, err := roles.Create(ctx, &opportunity.Role{
		AdGroupName:     "Loan Officers",
		DisplayName:     "LoanOfficer",
		TeamsMembership: "Owner",
		Permissions:     []opportunity.Permission{*p},
	})
	require.NoError(t, err)

	role.TeamsMembership = "Member"
	require.NoError(t, roles.Update(ctx, role))

	all, err := roles.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Member", all[0].TeamsMembership)
	assert.Equal(t, []opportunity.Permission{*p}, all[0].Permissions)

	require.NoError(t, roles.Delete(ctx, role.ID))
	all, err = roles.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	listed, err := perms.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []opportunity.Permission{*p}, listed)
}

func TestTemplateAndNotificationRepositories(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	templates := NewTemplateRepository(store, contracts.ListTemplates)
	notifications := NewNotificationRepository(store, contracts.ListNotifications)

	tpl, err := templates.Create(ctx, &opportunity.Template{
		TemplateName: "Standard",
		ProcessList: []opportunity.Process{
			{ProcessStep: "Risk Assessment", Channel: "Risk Assessment", ProcessType: opportunity.ProcessTypeChecklist},
		},
	})
	require.NoError(t, err)
	tpl.DefaultTemplate = true
	require.NoError(t, templates.Update(ctx, tpl))

	all, err := templates.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].DefaultTemplate)
	assert.Equal(t, tpl.ProcessList, all[0].ProcessList)

	_, err = notifications.Create(ctx, &contracts.Notification{Title: "t", SentTo: "lee@contoso.com", OpportunityID: "1"})
	require.NoError(t, err)
	_, err = notifications.Create(ctx, &contracts.Notification{Title: "t", SentTo: "sam@contoso.com"})
	require.NoError(t, err)

	mine, err := notifications.GetForUser(ctx, "lee@contoso.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "1", mine[0].OpportunityID)
	assert.False(t, mine[0].IsRead)
}
