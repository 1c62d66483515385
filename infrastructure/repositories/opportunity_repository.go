package repositories

import (
	"context"
	"fmt"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/infrastructure/serialization"
)

// ListOpportunityRepository stores each opportunity as one list item with the
// aggregate serialized into OpportunityObject.
type ListOpportunityRepository struct {
	*BaseRepository
	serializer *serialization.OpportunitySerializer
}

// NewOpportunityRepository creates an opportunity repository on the given list
func NewOpportunityRepository(store contracts.ListStore, list string) *ListOpportunityRepository {
	return &ListOpportunityRepository{
		BaseRepository: NewBaseRepository(store, list, "opportunity_repository"),
		serializer:     serialization.NewOpportunitySerializer(),
	}
}

func (r *ListOpportunityRepository) record(opp *opportunity.Opportunity) (OpportunityRecord, error) {
	body, err := r.serializer.Serialize(opp)
	if err != nil {
		return OpportunityRecord{}, err
	}
	return OpportunityRecord{
		Name:              opp.DisplayName,
		Reference:         opp.Reference,
		OpportunityState:  opp.State().String(),
		TemplateLoaded:    opp.TemplateLoaded,
		OpportunityObject: body,
	}, nil
}

func (r *ListOpportunityRepository) fromItem(item contracts.ListItem) (*opportunity.Opportunity, error) {
	return r.serializer.Deserialize(item.String("OpportunityObject"), item.ID, item.Bool("TemplateLoaded"))
}

// Create persists a new opportunity and returns it with the assigned id
func (r *ListOpportunityRepository) Create(ctx context.Context, opp *opportunity.Opportunity) (*opportunity.Opportunity, error) {
	if opp == nil || opp.DisplayName == "" {
		return nil, fmt.Errorf("opportunity display name: %w", contracts.ErrInvalidArgument)
	}
	rec, err := r.record(opp)
	if err != nil {
		return nil, err
	}
	item, err := r.store.CreateListItem(ctx, r.list, rec.Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to create opportunity %q: %w", opp.DisplayName, err)
	}
	created := opp.Clone()
	created.ID = item.ID
	r.logger.Workflow("Opportunity created", created.ID, "name", created.DisplayName)
	return created, nil
}

// Update replaces the stored opportunity
func (r *ListOpportunityRepository) Update(ctx context.Context, opp *opportunity.Opportunity) error {
	if opp == nil {
		return fmt.Errorf("opportunity: %w", contracts.ErrInvalidArgument)
	}
	if err := r.RequireID(opp.ID); err != nil {
		return err
	}
	rec, err := r.record(opp)
	if err != nil {
		return err
	}
	if err := r.store.UpdateListItem(ctx, r.list, opp.ID, rec.Fields()); err != nil {
		return fmt.Errorf("failed to update opportunity %s: %w", opp.ID, err)
	}
	return nil
}

// Delete removes the opportunity list item
func (r *ListOpportunityRepository) Delete(ctx context.Context, id string) error {
	if err := r.RequireID(id); err != nil {
		return err
	}
	if err := r.store.DeleteListItem(ctx, r.list, id); err != nil {
		return fmt.Errorf("failed to delete opportunity %s: %w", id, err)
	}
	return nil
}

// GetByID loads one opportunity
func (r *ListOpportunityRepository) GetByID(ctx context.Context, id string) (*opportunity.Opportunity, error) {
	if err := r.RequireID(id); err != nil {
		return nil, err
	}
	item, err := r.store.GetListItem(ctx, r.list, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get opportunity %s: %w", id, err)
	}
	return r.fromItem(*item)
}

// GetByName loads the opportunity whose Name column equals name
func (r *ListOpportunityRepository) GetByName(ctx context.Context, name string) (*opportunity.Opportunity, error) {
	if name == "" {
		return nil, fmt.Errorf("opportunity name: %w", contracts.ErrInvalidArgument)
	}
	items, err := r.store.GetListItems(ctx, r.list, &contracts.Filter{Field: "Name", Value: name})
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunity %q: %w", name, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("opportunity %q: %w", name, contracts.ErrNoItemsFound)
	}
	return r.fromItem(items[0])
}

// GetAll loads every opportunity. Items whose body cannot be decoded are skipped and logged.
func (r *ListOpportunityRepository) GetAll(ctx context.Context) ([]*opportunity.Opportunity, error) {
	items, err := r.store.GetListItems(ctx, r.list, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	out := make([]*opportunity.Opportunity, 0, len(items))
	for _, item := range items {
		opp, err := r.fromItem(item)
		if err != nil {
			r.logger.WorkflowError("Skipping undecodable opportunity", err, item.ID)
			continue
		}
		out = append(out, opp)
	}
	return out, nil
}
