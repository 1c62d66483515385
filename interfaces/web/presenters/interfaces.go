package presenters

import (
	"io"

	"propmgmt/domain/opportunity"
	"propmgmt/platform/workflows"
)

// OpportunityPresenterInterface defines the contract for opportunity presentation logic.
type OpportunityPresenterInterface interface {
	ToViewModel(opp *opportunity.Opportunity, diagnostics []workflows.Diagnostic) *OpportunityVM
	ToSummaries(opps []*opportunity.Opportunity) []OpportunitySummaryVM
	ToWarnings(diagnostics []workflows.Diagnostic) []DiagnosticVM
	Decode(body io.Reader) (*opportunity.Opportunity, error)
}

// DashboardPresenterInterface defines the contract for dashboard presentation logic.
type DashboardPresenterInterface interface {
	ToViewModels(dashboards []opportunity.Dashboard) []DashboardVM
	ToAnalysis(a opportunity.DashboardAnalysis) AnalysisVM
}

// Ensure presenters implement their interfaces.
var (
	_ OpportunityPresenterInterface = (*OpportunityPresenter)(nil)
	_ DashboardPresenterInterface   = (*DashboardPresenter)(nil)
)
