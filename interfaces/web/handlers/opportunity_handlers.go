package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"propmgmt/application"
	"propmgmt/domain/access"
	"propmgmt/domain/opportunity"
	"propmgmt/interfaces/web/presenters"
	"propmgmt/logging"
	"propmgmt/platform/workflows"
)

// OpportunityService is the set of opportunity use cases the API exposes.
type OpportunityService interface {
	Create(ctx context.Context, caller access.Caller, opp *opportunity.Opportunity) (*application.OpportunityResult, error)
	Update(ctx context.Context, caller access.Caller, opp *opportunity.Opportunity) (*application.OpportunityResult, error)
	Delete(ctx context.Context, caller access.Caller, id string) ([]workflows.Diagnostic, error)
	GetByID(ctx context.Context, caller access.Caller, id string) (*opportunity.Opportunity, error)
	GetByName(ctx context.Context, caller access.Caller, name string) (*opportunity.Opportunity, error)
	GetAll(ctx context.Context, caller access.Caller) ([]*opportunity.Opportunity, error)
}

// OpportunityHandlers serves the opportunity endpoints.
type OpportunityHandlers struct {
	service   OpportunityService
	presenter presenters.OpportunityPresenterInterface
	logger    *logging.Logger
}

// NewOpportunityHandlers creates opportunity handlers.
func NewOpportunityHandlers(service OpportunityService, presenter presenters.OpportunityPresenterInterface) *OpportunityHandlers {
	return &OpportunityHandlers{
		service:   service,
		presenter: presenter,
		logger:    logging.Default().WithComponent("opportunity_handler"),
	}
}

// List returns the opportunities the caller may read.
func (h *OpportunityHandlers) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	opps, err := h.service.GetAll(r.Context(), caller)
	if err != nil {
		h.fail(w, r, "list opportunities", "", err)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.ToSummaries(opps))
}

// Get returns one opportunity by id.
func (h *OpportunityHandlers) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	opp, err := h.service.GetByID(r.Context(), caller, id)
	if err != nil {
		h.fail(w, r, "get opportunity", id, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.ToViewModel(opp, nil))
}

// GetByName returns one opportunity by display name.
func (h *OpportunityHandlers) GetByName(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	opp, err := h.service.GetByName(r.Context(), caller, name)
	if err != nil {
		h.fail(w, r, "get opportunity by name", "", err)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.ToViewModel(opp, nil))
}

// Create runs the create workflow for the posted opportunity.
func (h *OpportunityHandlers) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	opp, err := h.presenter.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.service.Create(r.Context(), caller, opp)
	if err != nil {
		h.fail(w, r, "create opportunity", "", err)
		return
	}
	WriteJSON(w, http.StatusCreated, h.presenter.ToViewModel(result.Opportunity, result.Diagnostics))
}

// Update runs the update workflow for the opportunity at {id}.
func (h *OpportunityHandlers) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	opp, err := h.presenter.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, err)
		return
	}
	opp.ID = chi.URLParam(r, "id")

	result, err := h.service.Update(r.Context(), caller, opp)
	if err != nil {
		h.fail(w, r, "update opportunity", opp.ID, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.ToViewModel(result.Opportunity, result.Diagnostics))
}

// Delete removes the opportunity at {id}.
func (h *OpportunityHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	diagnostics, err := h.service.Delete(r.Context(), caller, id)
	if err != nil {
		h.fail(w, r, "delete opportunity", id, err)
		return
	}
	if len(diagnostics) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"warnings": h.presenter.ToWarnings(diagnostics)})
}

func (h *OpportunityHandlers) fail(w http.ResponseWriter, r *http.Request, op, id string, err error) {
	status, _ := StatusFor(err)
	logger := h.logger.WithContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.WorkflowError("Failed to "+op, err, id)
	} else {
		logger.Debug("Rejected "+op, "opportunity_id", id, "status", status, "error", err.Error())
	}
	WriteError(w, err)
}
