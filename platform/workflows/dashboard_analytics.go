package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/logging"
)

// DashboardAnalytics keeps the dashboard read model in step with opportunity changes.
type DashboardAnalytics struct {
	dashboards contracts.DashboardRepository
	clock      func() time.Time
	logger     *logging.Logger
}

// NewDashboardAnalytics creates the analytics updater. A nil clock uses time.Now.
func NewDashboardAnalytics(dashboards contracts.DashboardRepository, clock func() time.Time) *DashboardAnalytics {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardAnalytics{
		dashboards: dashboards,
		clock:      clock,
		logger:     logging.Default().WithComponent("dashboard_analytics"),
	}
}

// Created adds the dashboard of a newly persisted opportunity.
func (a *DashboardAnalytics) Created(ctx context.Context, opp *opportunity.Opportunity) error {
	now := a.clock()
	d := &opportunity.Dashboard{
		CustomerName:     opp.Metadata.Customer.DisplayName,
		OpportunityID:    opp.ID,
		OpportunityName:  opp.DisplayName,
		Status:           opp.State().String(),
		StartDate:        now,
		TargetCompletion: opp.Metadata.TargetDate,
	}
	refreshOfficers(d, opp)
	a.recordChecklistProgress(d, nil, opp, now)

	if _, err := a.dashboards.Create(ctx, d); err != nil {
		return fmt.Errorf("create dashboard for %s: %w", opp.ID, err)
	}
	return nil
}

// Updated refreshes the dashboard of opp. Opportunities without a dashboard are skipped.
// Moving into a terminal state stamps the end date and total duration; checklist
// processes whose status changed since previous stamp their channel dates.
func (a *DashboardAnalytics) Updated(ctx context.Context, previous, current *opportunity.Opportunity) error {
	d, err := a.dashboards.GetByOpportunityID(ctx, current.ID)
	if errors.Is(err, contracts.ErrNoItemsFound) {
		a.logger.Debug("No dashboard for opportunity", "opportunity_id", current.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get dashboard for %s: %w", current.ID, err)
	}

	now := a.clock()
	refreshOfficers(d, current)
	d.CustomerName = current.Metadata.Customer.DisplayName
	d.OpportunityName = current.DisplayName
	d.Status = current.State().String()

	state := current.State()
	if state.IsTerminal() && (previous == nil || previous.State() != state) {
		d.Close(state, now)
		a.logger.Workflow("Opportunity closed on dashboard", current.ID, "state", state, "total_days", d.TotalNoOfDays)
	}
	a.recordChecklistProgress(d, previous, current, now)

	if err := a.dashboards.Update(ctx, d); err != nil {
		return fmt.Errorf("update dashboard for %s: %w", current.ID, err)
	}
	return nil
}

// Deleted removes the dashboard of a deleted opportunity.
func (a *DashboardAnalytics) Deleted(ctx context.Context, opportunityID string) error {
	err := a.dashboards.DeleteByOpportunityID(ctx, opportunityID)
	if err != nil && !errors.Is(err, contracts.ErrNoItemsFound) {
		return fmt.Errorf("delete dashboard for %s: %w", opportunityID, err)
	}
	return nil
}

func (a *DashboardAnalytics) recordChecklistProgress(d *opportunity.Dashboard, previous, current *opportunity.Opportunity, now time.Time) {
	for _, p := range current.Content.DealType.ProcessList {
		if !p.IsType(opportunity.ProcessTypeChecklist) {
			continue
		}
		progress := d.Progress(p.Channel)
		if progress == nil {
			continue
		}
		before := opportunity.ActionNotStarted
		if previous != nil {
			if prev, ok := previous.Content.DealType.ProcessForChannel(p.Channel); ok {
				before = prev.Status.Normalize()
			}
		}
		if p.Status.Normalize() == before {
			continue
		}
		progress.RecordStatus(p.Status, now)
	}
}

func refreshOfficers(d *opportunity.Dashboard, opp *opportunity.Opportunity) {
	d.LoanOfficer = memberNames(opp, opportunity.RoleLoanOfficer)
	d.RelationshipManager = memberNames(opp, opportunity.RoleRelationshipManager)
}

func memberNames(opp *opportunity.Opportunity, role string) string {
	var names []string
	for _, m := range opp.MembersInRole(role) {
		names = append(names, m.DisplayName)
	}
	return strings.Join(names, ", ")
}
