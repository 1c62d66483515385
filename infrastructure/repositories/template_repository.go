package repositories

import (
	"context"
	"fmt"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/infrastructure/serialization"
)

// ListTemplateRepository stores deal type templates
type ListTemplateRepository struct {
	*BaseRepository
}

// NewTemplateRepository creates a template repository on the given list
func NewTemplateRepository(store contracts.ListStore, list string) *ListTemplateRepository {
	return &ListTemplateRepository{BaseRepository: NewBaseRepository(store, list, "template_repository")}
}

func (r *ListTemplateRepository) record(t *opportunity.Template) (TemplateRecord, error) {
	procs, err := serialization.SerializeValue(t.ProcessList)
	if err != nil {
		return TemplateRecord{}, err
	}
	return TemplateRecord{
		TemplateName:    t.TemplateName,
		Description:     t.Description,
		DefaultTemplate: t.DefaultTemplate,
		ProcessList:     procs,
	}, nil
}

// Create persists a new template
func (r *ListTemplateRepository) Create(ctx context.Context, t *opportunity.Template) (*opportunity.Template, error) {
	if t == nil || t.TemplateName == "" {
		return nil, fmt.Errorf("template name: %w", contracts.ErrInvalidArgument)
	}
	rec, err := r.record(t)
	if err != nil {
		return nil, err
	}
	item, err := r.store.CreateListItem(ctx, r.list, rec.Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to create template %q: %w", t.TemplateName, err)
	}
	created := *t
	created.ID = item.ID
	return &created, nil
}

// Update replaces the stored template
func (r *ListTemplateRepository) Update(ctx context.Context, t *opportunity.Template) error {
	if t == nil {
		return fmt.Errorf("template: %w", contracts.ErrInvalidArgument)
	}
	if err := r.RequireID(t.ID); err != nil {
		return err
	}
	rec, err := r.record(t)
	if err != nil {
		return err
	}
	if err := r.store.UpdateListItem(ctx, r.list, t.ID, rec.Fields()); err != nil {
		return fmt.Errorf("failed to update template %s: %w", t.ID, err)
	}
	return nil
}

// GetAll loads every template
func (r *ListTemplateRepository) GetAll(ctx context.Context) ([]opportunity.Template, error) {
	items, err := r.store.GetListItems(ctx, r.list, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	out := make([]opportunity.Template, 0, len(items))
	for _, item := range items {
		t := opportunity.Template{
			ID:              item.ID,
			TemplateName:    item.String("TemplateName"),
			Description:     item.String("Description"),
			DefaultTemplate: item.Bool("DefaultTemplate"),
		}
		if err := serialization.DeserializeValue(item.String("ProcessList"), &t.ProcessList); err != nil {
			r.logger.Warn("Ignoring malformed template process list", "template_id", item.ID, "error", err)
		}
		out = append(out, t)
	}
	return out, nil
}
