package handlers

import (
	"context"
	"net/http"

	"propmgmt/domain/opportunity"
	"propmgmt/interfaces/web/presenters"
	"propmgmt/logging"
)

// DashboardService reads the dashboard projection.
type DashboardService interface {
	GetAll(ctx context.Context) ([]opportunity.Dashboard, error)
	Analysis(ctx context.Context) (opportunity.DashboardAnalysis, error)
}

// DashboardHandlers serves the dashboard endpoints.
type DashboardHandlers struct {
	service   DashboardService
	presenter presenters.DashboardPresenterInterface
	logger    *logging.Logger
}

// NewDashboardHandlers creates dashboard handlers.
func NewDashboardHandlers(service DashboardService, presenter presenters.DashboardPresenterInterface) *DashboardHandlers {
	return &DashboardHandlers{
		service:   service,
		presenter: presenter,
		logger:    logging.Default().WithComponent("dashboard_handler"),
	}
}

// List returns every dashboard.
func (h *DashboardHandlers) List(w http.ResponseWriter, r *http.Request) {
	dashboards, err := h.service.GetAll(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to list dashboards", "error", err.Error())
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.ToViewModels(dashboards))
}

// Analysis returns the average day counts across dashboards.
func (h *DashboardHandlers) Analysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.Analysis(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("Failed to analyze dashboards", "error", err.Error())
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.ToAnalysis(analysis))
}
