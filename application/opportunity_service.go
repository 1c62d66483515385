package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"propmgmt/domain/access"
	"propmgmt/domain/contracts"
	"propmgmt/domain/events"
	"propmgmt/domain/opportunity"
	"propmgmt/logging"
	"propmgmt/platform/workflows"
)

// OpportunityResult is an opportunity returned by a write use case together with
// the side effects that failed while it was processed.
type OpportunityResult struct {
	Opportunity *opportunity.Opportunity
	Diagnostics []workflows.Diagnostic
}

// OpportunityService implements the opportunity use cases behind the API.
type OpportunityService struct {
	repo      contracts.OpportunityRepository
	factory   *workflows.OpportunityFactory
	publisher events.OpportunityEventPublisher
	lifecycle opportunity.Lifecycle
	notes     *bluemonday.Policy
	clock     func() time.Time
	logger    *logging.Logger
}

// NewOpportunityService creates the service. A nil clock uses time.Now.
func NewOpportunityService(
	repo contracts.OpportunityRepository,
	factory *workflows.OpportunityFactory,
	publisher events.OpportunityEventPublisher,
	clock func() time.Time,
) *OpportunityService {
	if clock == nil {
		clock = time.Now
	}
	return &OpportunityService{
		repo:      repo,
		factory:   factory,
		publisher: publisher,
		notes:     bluemonday.UGCPolicy(),
		clock:     clock,
		logger:    logging.Default().WithComponent("opportunity_service"),
	}
}

// Create runs the create workflow, persists the opportunity and starts its dashboard.
func (s *OpportunityService) Create(ctx context.Context, caller access.Caller, opp *opportunity.Opportunity) (*OpportunityResult, error) {
	if opp == nil || strings.TrimSpace(opp.DisplayName) == "" {
		return nil, fmt.Errorf("opportunity display name: %w", contracts.ErrInvalidArgument)
	}
	if !caller.Has(access.PermissionOpportunityCreate) && !caller.Has(access.PermissionAdministrator) {
		s.logger.AccessDenied("create", caller.UserPrincipalName)
		return nil, fmt.Errorf("create opportunity: %w", contracts.ErrAccessDenied)
	}

	_, err := s.repo.GetByName(ctx, opp.DisplayName)
	switch {
	case err == nil:
		return nil, fmt.Errorf("opportunity %q already exists: %w", opp.DisplayName, contracts.ErrInvalidArgument)
	case !errors.Is(err, contracts.ErrNoItemsFound):
		return nil, contracts.WrapResponse("create opportunity", err)
	}

	draft := opp.Clone()
	draft.ID = ""
	draft.Metadata.OpportunityState = opportunity.StateNone
	if draft.Metadata.OpenedDate.IsZero() {
		draft.Metadata.OpenedDate = s.clock()
	}
	s.prepare(draft, caller)

	result, err := s.factory.CreateWorkflow(ctx, draft)
	if err != nil {
		return nil, contracts.WrapResponse("create opportunity", err)
	}
	created, err := s.repo.Create(ctx, result.Opportunity)
	if err != nil {
		return nil, contracts.WrapResponse("create opportunity", err)
	}
	diagnostics := append(result.Diagnostics, s.factory.AfterCreate(ctx, created)...)

	s.publisher.PublishOpportunityCreated(events.OpportunityCreatedEvent{
		Opportunity: created,
		CreatedBy:   caller.UserPrincipalName,
		Timestamp:   s.clock(),
	})
	s.logger.Workflow("Opportunity created", created.ID, "state", created.State(), "created_by", caller.UserPrincipalName)
	return &OpportunityResult{Opportunity: created, Diagnostics: diagnostics}, nil
}

// Update validates the requested state change, runs the update workflow and persists the result.
// An empty state keeps the stored one.
func (s *OpportunityService) Update(ctx context.Context, caller access.Caller, opp *opportunity.Opportunity) (*OpportunityResult, error) {
	if opp == nil || opp.ID == "" {
		return nil, fmt.Errorf("opportunity id: %w", contracts.ErrInvalidArgument)
	}
	existing, err := s.repo.GetByID(ctx, opp.ID)
	if err != nil {
		return nil, contracts.WrapResponse("update opportunity", err)
	}
	if !access.CanAccess(caller.WriteLevel(), caller, existing) {
		s.logger.AccessDenied("update", caller.UserPrincipalName, "opportunity_id", opp.ID)
		return nil, fmt.Errorf("update opportunity %s: %w", opp.ID, contracts.ErrAccessDenied)
	}

	draft := opp.Clone()
	draft.TemplateLoaded = draft.TemplateLoaded || existing.TemplateLoaded
	if draft.State() == opportunity.StateNone {
		draft.Metadata.OpportunityState = existing.State()
	}
	if from, to := existing.State(), draft.State(); !s.lifecycle.CanTransition(from, to) {
		return nil, fmt.Errorf("cannot move %s from %s to %s: %w", opp.ID, from, to, contracts.ErrInvalidTransition)
	}
	s.prepare(draft, caller)

	result, err := s.factory.UpdateWorkflow(ctx, draft)
	if err != nil {
		return nil, contracts.WrapResponse("update opportunity", err)
	}
	updated := result.Opportunity
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, contracts.WrapResponse("update opportunity", err)
	}
	diagnostics := append(result.Diagnostics, s.factory.AfterUpdate(ctx, existing, updated)...)

	if from, to := existing.State(), updated.State(); from != to {
		s.publisher.PublishStateChanged(events.OpportunityStateChangedEvent{
			Opportunity: updated,
			From:        from,
			To:          to,
			ChangedBy:   caller.UserPrincipalName,
			Timestamp:   s.clock(),
		})
	}
	s.logger.Workflow("Opportunity updated", updated.ID, "state", updated.State(), "diagnostics", len(diagnostics))
	return &OpportunityResult{Opportunity: updated, Diagnostics: diagnostics}, nil
}

// Delete removes an opportunity and its dashboard.
func (s *OpportunityService) Delete(ctx context.Context, caller access.Caller, id string) ([]workflows.Diagnostic, error) {
	if id == "" {
		return nil, fmt.Errorf("opportunity id: %w", contracts.ErrInvalidArgument)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, contracts.WrapResponse("delete opportunity", err)
	}
	if !access.CanAccess(caller.WriteLevel(), caller, existing) {
		s.logger.AccessDenied("delete", caller.UserPrincipalName, "opportunity_id", id)
		return nil, fmt.Errorf("delete opportunity %s: %w", id, contracts.ErrAccessDenied)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, contracts.WrapResponse("delete opportunity", err)
	}
	diagnostics := s.factory.AfterDelete(ctx, id)

	s.publisher.PublishOpportunityDeleted(events.OpportunityDeletedEvent{
		OpportunityID: id,
		DeletedBy:     caller.UserPrincipalName,
		Timestamp:     s.clock(),
	})
	s.logger.Workflow("Opportunity deleted", id, "deleted_by", caller.UserPrincipalName)
	return diagnostics, nil
}

// GetByID returns one opportunity the caller may read.
func (s *OpportunityService) GetByID(ctx context.Context, caller access.Caller, id string) (*opportunity.Opportunity, error) {
	if id == "" {
		return nil, fmt.Errorf("opportunity id: %w", contracts.ErrInvalidArgument)
	}
	opp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, contracts.WrapResponse("get opportunity", err)
	}
	return s.authorizeRead(caller, opp)
}

// GetByName returns the opportunity with the given display name if the caller may read it.
func (s *OpportunityService) GetByName(ctx context.Context, caller access.Caller, name string) (*opportunity.Opportunity, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("opportunity name: %w", contracts.ErrInvalidArgument)
	}
	opp, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, contracts.WrapResponse("get opportunity", err)
	}
	return s.authorizeRead(caller, opp)
}

// GetAll returns the opportunities visible to the caller.
func (s *OpportunityService) GetAll(ctx context.Context, caller access.Caller) ([]*opportunity.Opportunity, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, contracts.WrapResponse("list opportunities", err)
	}
	return access.Filter(caller.ReadLevel(), caller, all), nil
}

func (s *OpportunityService) authorizeRead(caller access.Caller, opp *opportunity.Opportunity) (*opportunity.Opportunity, error) {
	if !access.CanAccess(caller.ReadLevel(), caller, opp) {
		s.logger.AccessDenied("read", caller.UserPrincipalName, "opportunity_id", opp.ID)
		return nil, fmt.Errorf("read opportunity %s: %w", opp.ID, contracts.ErrAccessDenied)
	}
	return opp, nil
}

// prepare assigns ids to new child entities and sanitizes note bodies.
func (s *OpportunityService) prepare(opp *opportunity.Opportunity, caller access.Caller) {
	for i := range opp.Content.Notes {
		note := &opp.Content.Notes[i]
		note.NoteBody = s.notes.Sanitize(note.NoteBody)
		if note.ID == "" {
			note.ID = uuid.NewString()
		}
		if note.CreatedDateTime.IsZero() {
			note.CreatedDateTime = s.clock()
		}
		if note.CreatedBy.UserPrincipalName == "" {
			note.CreatedBy = opportunity.UserRef{
				DisplayName:       caller.DisplayName,
				UserPrincipalName: caller.UserPrincipalName,
			}
		}
	}
	for i := range opp.Content.Checklists {
		checklist := &opp.Content.Checklists[i]
		if checklist.ID == "" {
			checklist.ID = uuid.NewString()
		}
		for j := range checklist.ChecklistTaskList {
			if checklist.ChecklistTaskList[j].ID == "" {
				checklist.ChecklistTaskList[j].ID = uuid.NewString()
			}
		}
	}
	for i := range opp.DocumentAttachments {
		if opp.DocumentAttachments[i].ID == "" {
			opp.DocumentAttachments[i].ID = uuid.NewString()
		}
	}
}
