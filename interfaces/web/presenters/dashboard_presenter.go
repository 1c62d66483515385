package presenters

import (
	"math"

	"propmgmt/domain/opportunity"
)

// DashboardVM is one dashboard row.
type DashboardVM struct {
	ID                  string         `json:"id"`
	OpportunityID       string         `json:"opportunityId"`
	OpportunityName     string         `json:"opportunityName"`
	CustomerName        string         `json:"customerName"`
	Status              string         `json:"status"`
	StartDate           string         `json:"startDate,omitempty"`
	EndDate             string         `json:"endDate,omitempty"`
	TargetCompletion    string         `json:"targetCompletionDate,omitempty"`
	LoanOfficer         string         `json:"loanOfficer"`
	RelationshipManager string         `json:"relationshipManager"`
	TotalNoOfDays       int            `json:"totalNoOfDays"`
	Channels            []ChannelDayVM `json:"channels"`
}

// ChannelDayVM is the progress of one tracked channel.
type ChannelDayVM struct {
	Channel        string `json:"channel"`
	StartDate      string `json:"startDate,omitempty"`
	CompletionDate string `json:"completionDate,omitempty"`
	NoOfDays       int    `json:"noOfDays"`
}

// AnalysisVM is the dashboard summary with averages rounded to one decimal.
type AnalysisVM struct {
	Count             int     `json:"count"`
	AvgTotalDays      float64 `json:"avgTotalDays"`
	AvgRiskAssessment float64 `json:"avgRiskAssessmentDays"`
	AvgCreditCheck    float64 `json:"avgCreditCheckDays"`
	AvgCompliance     float64 `json:"avgComplianceDays"`
	AvgFormalProposal float64 `json:"avgFormalProposalDays"`
}

// DashboardPresenter maps dashboards to their API shape.
type DashboardPresenter struct{}

// NewDashboardPresenter creates a new dashboard presenter.
func NewDashboardPresenter() *DashboardPresenter {
	return &DashboardPresenter{}
}

var trackedChannels = []string{
	opportunity.ChannelRiskAssessment,
	opportunity.ChannelCreditCheck,
	opportunity.ChannelCompliance,
	opportunity.ChannelFormalProposal,
}

// ToViewModels converts dashboards for the list endpoint.
func (p *DashboardPresenter) ToViewModels(dashboards []opportunity.Dashboard) []DashboardVM {
	out := make([]DashboardVM, 0, len(dashboards))
	for i := range dashboards {
		d := &dashboards[i]
		vm := DashboardVM{
			ID:                  d.ID,
			OpportunityID:       d.OpportunityID,
			OpportunityName:     d.OpportunityName,
			CustomerName:        d.CustomerName,
			Status:              d.Status,
			StartDate:           formatDate(d.StartDate),
			EndDate:             formatDate(d.OpportunityEndDate),
			TargetCompletion:    formatDate(d.TargetCompletion),
			LoanOfficer:         d.LoanOfficer,
			RelationshipManager: d.RelationshipManager,
			TotalNoOfDays:       d.TotalNoOfDays,
		}
		for _, channel := range trackedChannels {
			progress := d.Progress(channel)
			vm.Channels = append(vm.Channels, ChannelDayVM{
				Channel:        channel,
				StartDate:      formatDate(progress.StartDate),
				CompletionDate: formatDate(progress.CompletionDate),
				NoOfDays:       progress.NoOfDays,
			})
		}
		out = append(out, vm)
	}
	return out
}

// ToAnalysis rounds the averages for display.
func (p *DashboardPresenter) ToAnalysis(a opportunity.DashboardAnalysis) AnalysisVM {
	return AnalysisVM{
		Count:             a.Count,
		AvgTotalDays:      round1(a.AvgTotalDays),
		AvgRiskAssessment: round1(a.AvgRiskAssessment),
		AvgCreditCheck:    round1(a.AvgCreditCheck),
		AvgCompliance:     round1(a.AvgCompliance),
		AvgFormalProposal: round1(a.AvgFormalProposal),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
