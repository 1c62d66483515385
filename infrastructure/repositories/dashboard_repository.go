package repositories

import (
	"context"
	"fmt"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
)

var dashboardChannelKeys = []string{"RiskAssessment", "CreditCheck", "Compliance", "FormalProposal"}

// ListDashboardRepository stores dashboards as flat list items
type ListDashboardRepository struct {
	*BaseRepository
}

// NewDashboardRepository creates a dashboard repository on the given list
func NewDashboardRepository(store contracts.ListStore, list string) *ListDashboardRepository {
	return &ListDashboardRepository{BaseRepository: NewBaseRepository(store, list, "dashboard_repository")}
}

func channelSlots(d *opportunity.Dashboard) map[string]*opportunity.ChannelProgress {
	return map[string]*opportunity.ChannelProgress{
		"RiskAssessment": &d.RiskAssessment,
		"CreditCheck":    &d.CreditCheck,
		"Compliance":     &d.Compliance,
		"FormalProposal": &d.FormalProposal,
	}
}

func (r *ListDashboardRepository) record(d *opportunity.Dashboard) DashboardRecord {
	rec := DashboardRecord{
		CustomerName:        d.CustomerName,
		OpportunityID:       d.OpportunityID,
		OpportunityName:     d.OpportunityName,
		Status:              d.Status,
		StartDate:           r.FormatTime(d.StartDate),
		OpportunityEndDate:  r.FormatTime(d.OpportunityEndDate),
		TargetCompletion:    r.FormatTime(d.TargetCompletion),
		LoanOfficer:         d.LoanOfficer,
		RelationshipManager: d.RelationshipManager,
		TotalNoOfDays:       d.TotalNoOfDays,
		Channels:            make(map[string]ChannelColumns, len(dashboardChannelKeys)),
	}
	for key, p := range channelSlots(d) {
		rec.Channels[key] = ChannelColumns{
			StartDate:      r.FormatTime(p.StartDate),
			CompletionDate: r.FormatTime(p.CompletionDate),
			NoOfDays:       p.NoOfDays,
		}
	}
	return rec
}

func (r *ListDashboardRepository) fromItem(item contracts.ListItem) opportunity.Dashboard {
	d := opportunity.Dashboard{
		ID:                  item.ID,
		CustomerName:        item.String("CustomerName"),
		OpportunityID:       item.String("OpportunityId"),
		OpportunityName:     item.String("OpportunityName"),
		Status:              item.String("Status"),
		StartDate:           r.ParseTime(item, "StartDate"),
		OpportunityEndDate:  r.ParseTime(item, "OpportunityEndDate"),
		TargetCompletion:    r.ParseTime(item, "TargetCompletionDate"),
		LoanOfficer:         item.String("LoanOfficer"),
		RelationshipManager: item.String("RelationshipManager"),
		TotalNoOfDays:       r.Int(item, "TotalNoOfDays"),
	}
	for key, p := range channelSlots(&d) {
		p.StartDate = r.ParseTime(item, key+"StartDate")
		p.CompletionDate = r.ParseTime(item, key+"CompletionDate")
		p.NoOfDays = r.Int(item, key+"NoOfDays")
	}
	return d
}

// Create persists a new dashboard
func (r *ListDashboardRepository) Create(ctx context.Context, d *opportunity.Dashboard) (*opportunity.Dashboard, error) {
	if d == nil || d.OpportunityID == "" {
		return nil, fmt.Errorf("dashboard opportunity id: %w", contracts.ErrInvalidArgument)
	}
	item, err := r.store.CreateListItem(ctx, r.list, r.record(d).Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard for %s: %w", d.OpportunityID, err)
	}
	created := *d
	created.ID = item.ID
	return &created, nil
}

// Update replaces the stored dashboard
func (r *ListDashboardRepository) Update(ctx context.Context, d *opportunity.Dashboard) error {
	if d == nil {
		return fmt.Errorf("dashboard: %w", contracts.ErrInvalidArgument)
	}
	if err := r.RequireID(d.ID); err != nil {
		return err
	}
	if err := r.store.UpdateListItem(ctx, r.list, d.ID, r.record(d).Fields()); err != nil {
		return fmt.Errorf("failed to update dashboard %s: %w", d.ID, err)
	}
	return nil
}

// GetByOpportunityID returns ErrNoItemsFound when the opportunity has no dashboard
func (r *ListDashboardRepository) GetByOpportunityID(ctx context.Context, opportunityID string) (*opportunity.Dashboard, error) {
	if opportunityID == "" {
		return nil, fmt.Errorf("dashboard opportunity id: %w", contracts.ErrInvalidArgument)
	}
	items, err := r.store.GetListItems(ctx, r.list, &contracts.Filter{Field: "OpportunityId", Value: opportunityID})
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard for %s: %w", opportunityID, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("dashboard for %s: %w", opportunityID, contracts.ErrNoItemsFound)
	}
	d := r.fromItem(items[0])
	return &d, nil
}

// DeleteByOpportunityID removes the dashboard of an opportunity if one exists
func (r *ListDashboardRepository) DeleteByOpportunityID(ctx context.Context, opportunityID string) error {
	d, err := r.GetByOpportunityID(ctx, opportunityID)
	if err != nil {
		return err
	}
	if err := r.store.DeleteListItem(ctx, r.list, d.ID); err != nil {
		return fmt.Errorf("failed to delete dashboard %s: %w", d.ID, err)
	}
	return nil
}

// GetAll loads every dashboard
func (r *ListDashboardRepository) GetAll(ctx context.Context) ([]opportunity.Dashboard, error) {
	items, err := r.store.GetListItems(ctx, r.list, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	out := make([]opportunity.Dashboard, 0, len(items))
	for _, item := range items {
		out = append(out, r.fromItem(item))
	}
	return out, nil
}
