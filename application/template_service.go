package application

import (
	"context"
	"fmt"
	"strings"

	"propmgmt/domain/access"
	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/infrastructure/cache"
	"propmgmt/logging"
)

// TemplateService manages the deal type catalogue.
type TemplateService struct {
	repo   contracts.TemplateRepository
	cache  *cache.Cache
	logger *logging.Logger
}

// NewTemplateService creates a template service.
func NewTemplateService(repo contracts.TemplateRepository, c *cache.Cache) *TemplateService {
	return &TemplateService{
		repo:   repo,
		cache:  c,
		logger: logging.Default().WithComponent("template_service"),
	}
}

// GetAll returns every deal type.
func (s *TemplateService) GetAll(ctx context.Context) ([]opportunity.Template, error) {
	templates, err := cache.GetOrLoad(ctx, s.cache, contracts.CacheKeyTemplates, s.repo.GetAll)
	if err != nil {
		return nil, contracts.WrapResponse("list templates", err)
	}
	return templates, nil
}

// Create adds a deal type.
func (s *TemplateService) Create(ctx context.Context, caller access.Caller, t *opportunity.Template) (*opportunity.Template, error) {
	if err := requireAdministrator(caller, "create template"); err != nil {
		return nil, err
	}
	if err := validateTemplate(t); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, contracts.WrapResponse("create template", err)
	}
	s.invalidate(ctx)
	s.logger.Info("Template created", "template_id", created.ID, "name", created.TemplateName, "processes", len(created.ProcessList))
	return created, nil
}

// Update replaces a deal type.
func (s *TemplateService) Update(ctx context.Context, caller access.Caller, t *opportunity.Template) error {
	if err := requireAdministrator(caller, "update template"); err != nil {
		return err
	}
	if err := validateTemplate(t); err != nil {
		return err
	}
	if t.ID == "" {
		return fmt.Errorf("template id: %w", contracts.ErrInvalidArgument)
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return contracts.WrapResponse("update template", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *TemplateService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, contracts.CacheKeyTemplates); err != nil {
		s.logger.Warn("Failed to invalidate template cache", "error", err)
	}
}

func validateTemplate(t *opportunity.Template) error {
	if t == nil || strings.TrimSpace(t.TemplateName) == "" {
		return fmt.Errorf("template name: %w", contracts.ErrInvalidArgument)
	}
	return nil
}
