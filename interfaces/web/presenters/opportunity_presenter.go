package presenters

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/platform/workflows"
)

// OpportunityVM is the API shape of a full opportunity. The aggregate hides its
// list item id and template flag from its serialized body, so they are lifted here.
type OpportunityVM struct {
	ID             string `json:"id"`
	TemplateLoaded bool   `json:"templateLoaded"`
	*opportunity.Opportunity
	Warnings []DiagnosticVM `json:"warnings,omitempty"`
}

// DiagnosticVM describes a side effect that failed while the request still succeeded.
type DiagnosticVM struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// OpportunitySummaryVM is one row of the opportunity list.
type OpportunitySummaryVM struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	Reference     string `json:"reference"`
	State         string `json:"state"`
	Customer      string `json:"customer"`
	DealType      string `json:"dealType"`
	OpenedDate    string `json:"openedDate,omitempty"`
	TargetDate    string `json:"targetDate,omitempty"`
	TeamSize      int    `json:"teamSize"`
	IsTerminal    bool   `json:"isTerminal"`
	HasTempUpload bool   `json:"hasTempUpload"`
}

// OpportunityPresenter maps opportunities to and from their API shape.
type OpportunityPresenter struct{}

// NewOpportunityPresenter creates a new opportunity presenter.
func NewOpportunityPresenter() *OpportunityPresenter {
	return &OpportunityPresenter{}
}

// ToViewModel wraps opp with its id and any warnings.
func (p *OpportunityPresenter) ToViewModel(opp *opportunity.Opportunity, diagnostics []workflows.Diagnostic) *OpportunityVM {
	vm := &OpportunityVM{
		ID:             opp.ID,
		TemplateLoaded: opp.TemplateLoaded,
		Opportunity:    opp,
	}
	for _, d := range diagnostics {
		vm.Warnings = append(vm.Warnings, DiagnosticVM{Step: d.Step, Message: d.Error})
	}
	return vm
}

// ToSummaries builds the list rows for opps.
func (p *OpportunityPresenter) ToSummaries(opps []*opportunity.Opportunity) []OpportunitySummaryVM {
	out := make([]OpportunitySummaryVM, 0, len(opps))
	for _, o := range opps {
		out = append(out, OpportunitySummaryVM{
			ID:            o.ID,
			DisplayName:   o.DisplayName,
			Reference:     o.Reference,
			State:         o.State().String(),
			Customer:      o.Metadata.Customer.DisplayName,
			DealType:      o.Content.DealType.TemplateName,
			OpenedDate:    formatDate(o.Metadata.OpenedDate),
			TargetDate:    formatDate(o.Metadata.TargetDate),
			TeamSize:      len(o.Content.TeamMembers),
			IsTerminal:    o.State().IsTerminal(),
			HasTempUpload: o.HasTempAttachments(),
		})
	}
	return out
}

// Decode reads an opportunity request body.
func (p *OpportunityPresenter) Decode(body io.Reader) (*opportunity.Opportunity, error) {
	var vm OpportunityVM
	if err := json.NewDecoder(body).Decode(&vm); err != nil {
		return nil, fmt.Errorf("decode opportunity: %v: %w", err, contracts.ErrInvalidArgument)
	}
	if vm.Opportunity == nil {
		return nil, fmt.Errorf("empty opportunity: %w", contracts.ErrInvalidArgument)
	}
	opp := vm.Opportunity
	opp.ID = vm.ID
	opp.TemplateLoaded = vm.TemplateLoaded
	return opp, nil
}

// ToWarnings converts diagnostics without an opportunity body.
func (p *OpportunityPresenter) ToWarnings(diagnostics []workflows.Diagnostic) []DiagnosticVM {
	out := make([]DiagnosticVM, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, DiagnosticVM{Step: d.Step, Message: d.Error})
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
