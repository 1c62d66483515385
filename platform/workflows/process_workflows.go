package workflows

import (
	"context"
	"time"

	"github.com/google/uuid"

	"propmgmt/domain/opportunity"
)

// ProcessWorkflow advances one process step of an in-progress opportunity.
// Implementations may mutate opp and return it, or return a replacement.
type ProcessWorkflow interface {
	Process(ctx context.Context, opp *opportunity.Opportunity, process opportunity.Process) (*opportunity.Opportunity, error)
}

// ProcessWorkflowFunc adapts a function to ProcessWorkflow.
type ProcessWorkflowFunc func(ctx context.Context, opp *opportunity.Opportunity, process opportunity.Process) (*opportunity.Opportunity, error)

// Process calls f.
func (f ProcessWorkflowFunc) Process(ctx context.Context, opp *opportunity.Opportunity, process opportunity.Process) (*opportunity.Opportunity, error) {
	return f(ctx, opp, process)
}

// ProcessWorkflows holds the delegate for each dispatchable process kind.
type ProcessWorkflows struct {
	Checklist        ProcessWorkflow
	CustomerDecision ProcessWorkflow
	ProposalStatus   ProcessWorkflow
	StartProcess     ProcessWorkflow
	NewOpportunity   ProcessWorkflow
}

// DefaultProcessWorkflows returns the built-in delegates.
func DefaultProcessWorkflows(clock func() time.Time) ProcessWorkflows {
	if clock == nil {
		clock = time.Now
	}
	return ProcessWorkflows{
		Checklist:        ProcessWorkflowFunc(checklistWorkflow),
		CustomerDecision: &customerDecisionWorkflow{clock: clock},
		ProposalStatus:   ProcessWorkflowFunc(proposalStatusWorkflow),
		StartProcess:     ProcessWorkflowFunc(startProcessWorkflow),
		NewOpportunity:   ProcessWorkflowFunc(newOpportunityWorkflow),
	}
}

// checklistWorkflow walks every checklist process of the deal type, so the
// dispatcher only needs to call it once per update.
func checklistWorkflow(_ context.Context, opp *opportunity.Opportunity, _ opportunity.Process) (*opportunity.Opportunity, error) {
	processes := opp.Content.DealType.ProcessList
	for i := range processes {
		p := &processes[i]
		if !p.IsType(opportunity.ProcessTypeChecklist) || !p.HasChannel() {
			continue
		}
		checklist, ok := opp.FindChecklist(p.Channel)
		if !ok {
			opp.Content.Checklists = append(opp.Content.Checklists, opportunity.Checklist{
				ID:               uuid.NewString(),
				ChecklistChannel: p.Channel,
				ChecklistStatus:  opportunity.ActionNotStarted,
			})
			checklist = &opp.Content.Checklists[len(opp.Content.Checklists)-1]
		}
		checklist.ChecklistStatus = checklistStatus(*checklist)
		p.Status = checklist.ChecklistStatus
	}
	return opp, nil
}

func checklistStatus(c opportunity.Checklist) opportunity.ActionStatus {
	done := 0
	for _, task := range c.ChecklistTaskList {
		if task.Completed {
			done++
		}
	}
	switch {
	case done > 0 && done == len(c.ChecklistTaskList):
		return opportunity.ActionCompleted
	case done > 0:
		return opportunity.ActionInProgress
	}
	switch current := c.ChecklistStatus.Normalize(); current {
	case opportunity.ActionBlocked, opportunity.ActionCanceled:
		return current
	}
	return opportunity.ActionNotStarted
}

type customerDecisionWorkflow struct {
	clock     func() time.Time
	lifecycle opportunity.Lifecycle
}

func (w *customerDecisionWorkflow) Process(_ context.Context, opp *opportunity.Opportunity, process opportunity.Process) (*opportunity.Opportunity, error) {
	decision := &opp.Content.CustomerDecision
	if !decision.Approved {
		return opp, nil
	}
	if decision.ApprovedDate.IsZero() {
		decision.ApprovedDate = w.clock()
	}
	setProcessStatus(opp, process, opportunity.ActionCompleted)
	if err := w.lifecycle.Accept(opp); err != nil {
		return nil, err
	}
	return opp, nil
}

func proposalStatusWorkflow(_ context.Context, opp *opportunity.Opportunity, process opportunity.Process) (*opportunity.Opportunity, error) {
	sections := opp.Content.ProposalDocument.Sections
	if len(sections) == 0 {
		return opp, nil
	}
	completed, started, blocked := 0, 0, 0
	for _, s := range sections {
		switch s.SectionStatus.Normalize() {
		case opportunity.ActionCompleted:
			completed++
		case opportunity.ActionInProgress:
			started++
		case opportunity.ActionBlocked:
			blocked++
		}
	}
	status := opportunity.ActionNotStarted
	switch {
	case completed == len(sections):
		status = opportunity.ActionCompleted
	case blocked > 0:
		status = opportunity.ActionBlocked
	case completed+started > 0:
		status = opportunity.ActionInProgress
	}
	setProcessStatus(opp, process, status)
	return opp, nil
}

func startProcessWorkflow(_ context.Context, opp *opportunity.Opportunity, process opportunity.Process) (*opportunity.Opportunity, error) {
	if opp.Content.DealType.IsSet() && len(opp.MembersInRole(opportunity.RoleLoanOfficer)) > 0 {
		setProcessStatus(opp, process, opportunity.ActionCompleted)
	}
	return opp, nil
}

func newOpportunityWorkflow(_ context.Context, opp *opportunity.Opportunity, process opportunity.Process) (*opportunity.Opportunity, error) {
	setProcessStatus(opp, process, opportunity.ActionCompleted)
	return opp, nil
}

// setProcessStatus updates the deal type entry matching process by step and channel.
func setProcessStatus(opp *opportunity.Opportunity, process opportunity.Process, status opportunity.ActionStatus) {
	processes := opp.Content.DealType.ProcessList
	for i := range processes {
		if processes[i].IsStep(process.ProcessStep) && processes[i].Channel == process.Channel {
			processes[i].Status = status
			return
		}
	}
}
