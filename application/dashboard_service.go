package application

import (
	"context"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
)

// DashboardService exposes the dashboard read model and its summary.
type DashboardService struct {
	repo contracts.DashboardRepository
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(repo contracts.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetAll returns every dashboard.
func (s *DashboardService) GetAll(ctx context.Context) ([]opportunity.Dashboard, error) {
	dashboards, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, contracts.WrapResponse("list dashboards", err)
	}
	return dashboards, nil
}

// Analysis averages the recorded day counts across all dashboards.
func (s *DashboardService) Analysis(ctx context.Context) (opportunity.DashboardAnalysis, error) {
	dashboards, err := s.GetAll(ctx)
	if err != nil {
		return opportunity.DashboardAnalysis{}, err
	}
	return opportunity.Analyze(dashboards), nil
}
