package opportunity

import (
	"strings"
	"time"
)

// Channels whose checklist progress is tracked on the dashboard.
const (
	ChannelRiskAssessment = "Risk Assessment"
	ChannelCreditCheck    = "Credit Check"
	ChannelCompliance     = "Compliance"
	ChannelFormalProposal = "Formal Proposal"
)

// Dashboard is the analytics projection of one opportunity.
type Dashboard struct {
	ID                  string    `json:"id"`
	CustomerName        string    `json:"customerName"`
	OpportunityID       string    `json:"opportunityId"`
	OpportunityName     string    `json:"opportunityName"`
	Status              string    `json:"status"`
	StartDate           time.Time `json:"startDate"`
	OpportunityEndDate  time.Time `json:"opportunityEndDate"`
	TargetCompletion    time.Time `json:"targetCompletionDate"`
	LoanOfficer         string    `json:"loanOfficer"`
	RelationshipManager string    `json:"relationshipManager"`
	TotalNoOfDays       int       `json:"totalNoOfDays"`

	RiskAssessment ChannelProgress `json:"riskAssessment"`
	CreditCheck    ChannelProgress `json:"creditCheck"`
	Compliance     ChannelProgress `json:"compliance"`
	FormalProposal ChannelProgress `json:"formalProposal"`
}

// ChannelProgress records when the checklist of a channel started and finished.
type ChannelProgress struct {
	StartDate      time.Time `json:"startDate"`
	CompletionDate time.Time `json:"completionDate"`
	NoOfDays       int       `json:"noOfDays"`
}

// Progress returns the tracked progress slot for channel, or nil if the channel is untracked.
func (d *Dashboard) Progress(channel string) *ChannelProgress {
	switch {
	case strings.EqualFold(channel, ChannelRiskAssessment):
		return &d.RiskAssessment
	case strings.EqualFold(channel, ChannelCreditCheck):
		return &d.CreditCheck
	case strings.EqualFold(channel, ChannelCompliance):
		return &d.Compliance
	case strings.EqualFold(channel, ChannelFormalProposal):
		return &d.FormalProposal
	}
	return nil
}

// RecordStatus stamps the start or completion date of a channel and recomputes its day count.
func (p *ChannelProgress) RecordStatus(status ActionStatus, now time.Time) {
	switch status.Normalize() {
	case ActionInProgress:
		if p.StartDate.IsZero() {
			p.StartDate = now
		}
	case ActionCompleted:
		if p.StartDate.IsZero() {
			p.StartDate = now
		}
		p.CompletionDate = now
	}
	p.NoOfDays = DateDifference(p.StartDate, p.CompletionDate)
}

// Close marks the opportunity as finished and computes the total duration.
func (d *Dashboard) Close(status State, now time.Time) {
	d.Status = status.String()
	d.OpportunityEndDate = now
	d.TotalNoOfDays = DateDifference(d.StartDate, now)
}

// DateDifference counts whole days between start and end. The zero time means
// "not set" and yields 0; two instants on the same calendar day count as 1.
// Calendar days are taken in end's location, so a start read back from
// storage in UTC compares against the clock's local day.
func DateDifference(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	start = start.In(end.Location())
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy == ey && sm == em && sd == ed {
		return 1
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DashboardAnalysis holds the average day counts across all dashboards.
type DashboardAnalysis struct {
	Count             int     `json:"count"`
	AvgTotalDays      float64 `json:"avgTotalDays"`
	AvgRiskAssessment float64 `json:"avgRiskAssessmentDays"`
	AvgCreditCheck    float64 `json:"avgCreditCheckDays"`
	AvgCompliance     float64 `json:"avgComplianceDays"`
	AvgFormalProposal float64 `json:"avgFormalProposalDays"`
}

// Analyze averages the non-zero day counts of the given dashboards.
func Analyze(dashboards []Dashboard) DashboardAnalysis {
	a := DashboardAnalysis{Count: len(dashboards)}
	avg := func(get func(Dashboard) int) float64 {
		sum, n := 0, 0
		for _, d := range dashboards {
			if v := get(d); v > 0 {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return float64(sum) / float64(n)
	}
	a.AvgTotalDays = avg(func(d Dashboard) int { return d.TotalNoOfDays })
	a.AvgRiskAssessment = avg(func(d Dashboard) int { return d.RiskAssessment.NoOfDays })
	a.AvgCreditCheck = avg(func(d Dashboard) int { return d.CreditCheck.NoOfDays })
	a.AvgCompliance = avg(func(d Dashboard) int { return d.Compliance.NoOfDays })
	a.AvgFormalProposal = avg(func(d Dashboard) int { return d.FormalProposal.NoOfDays })
	return a
}
