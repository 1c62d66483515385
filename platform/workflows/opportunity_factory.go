package workflows

import (
	"context"
	"fmt"
	"time"

	"propmgmt/domain/opportunity"
	"propmgmt/logging"
	"propmgmt/platform/executors"
)

// Diagnostic is a non-fatal side effect failure returned with a workflow result.
type Diagnostic = executors.Diagnostic

// WorkflowResult is the opportunity produced by a workflow run plus any side
// effects that failed along the way.
type WorkflowResult struct {
	Opportunity *opportunity.Opportunity
	Diagnostics []Diagnostic
}

func (r *WorkflowResult) add(d ...Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d...)
}

// Recorder receives workflow metrics.
type Recorder interface {
	RecordTransition(from, to string)
	RecordWorkflow(operation string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordTransition(string, string)        {}
func (nopRecorder) RecordWorkflow(string, time.Duration) {}

// OpportunityFactory runs the state machine of an opportunity: provisioning while
// Creating, per-process dispatch while InProgress, and dashboard analytics after
// every persisted change. Inputs are never mutated; results carry a copy.
type OpportunityFactory struct {
	provisioner *TeamProvisioner
	mover       *DocumentMover
	analytics   *DashboardAnalytics
	processes   ProcessWorkflows
	lifecycle   opportunity.Lifecycle
	recorder    Recorder
	logger      *logging.Logger
}

// NewOpportunityFactory wires the factory. A nil recorder disables metrics.
func NewOpportunityFactory(
	provisioner *TeamProvisioner,
	mover *DocumentMover,
	analytics *DashboardAnalytics,
	processes ProcessWorkflows,
	recorder Recorder,
) *OpportunityFactory {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &OpportunityFactory{
		provisioner: provisioner,
		mover:       mover,
		analytics:   analytics,
		processes:   processes,
		recorder:    recorder,
		logger:      logging.Default().WithComponent("opportunity_factory"),
	}
}

// CreateWorkflow prepares a new opportunity. It always starts in Creating; when the
// deal type already carries a process list the team is provisioned and the
// opportunity moves straight to InProgress.
func (f *OpportunityFactory) CreateWorkflow(ctx context.Context, opp *opportunity.Opportunity) (*WorkflowResult, error) {
	start := time.Now()
	defer func() { f.recorder.RecordWorkflow("create", time.Since(start)) }()

	result := &WorkflowResult{Opportunity: opp.Clone()}
	current := result.Opportunity
	from := current.State()
	if err := f.lifecycle.StartCreating(current); err != nil {
		return nil, err
	}
	f.recordTransition(current.ID, from, current.State())

	// Deal types are usually assigned after creation, so this branch rarely runs here.
	if current.Content.DealType.ProcessList != nil {
		if err := f.provisionAndActivate(ctx, result); err != nil {
			return nil, err
		}
	}
	f.logger.Workflow("Create workflow completed", current.ID, "state", current.State(), "diagnostics", len(result.Diagnostics))
	return result, nil
}

// UpdateWorkflow applies the state machine to an updated opportunity.
func (f *OpportunityFactory) UpdateWorkflow(ctx context.Context, opp *opportunity.Opportunity) (*WorkflowResult, error) {
	start := time.Now()
	defer func() { f.recorder.RecordWorkflow("update", time.Since(start)) }()

	result := &WorkflowResult{Opportunity: opp.Clone()}
	state := result.Opportunity.State()

	if state != opportunity.StateCreating && result.Opportunity.HasTempAttachments() {
		result.add(f.mover.MoveTempAttachments(ctx, result.Opportunity)...)
	}

	switch state {
	case opportunity.StateCreating:
		if result.Opportunity.Content.DealType.ProcessList != nil {
			if err := f.provisionAndActivate(ctx, result); err != nil {
				return nil, err
			}
		}
	case opportunity.StateInProgress:
		if err := f.dispatchProcesses(ctx, result); err != nil {
			return nil, err
		}
	}

	f.logger.Workflow("Update workflow completed", result.Opportunity.ID, "state", result.Opportunity.State(), "diagnostics", len(result.Diagnostics))
	return result, nil
}

func (f *OpportunityFactory) provisionAndActivate(ctx context.Context, result *WorkflowResult) error {
	opp := result.Opportunity
	provisioned, err := f.provisioner.Provision(ctx, opp)
	if err != nil {
		f.logger.WorkflowError("Team provisioning failed", err, opp.ID)
		return fmt.Errorf("provision team: %w", err)
	}
	result.add(provisioned.Diagnostics...)
	result.add(f.provisioner.GrantMembership(ctx, opp, provisioned.Group)...)

	from := opp.State()
	if err := f.lifecycle.Activate(opp); err != nil {
		return err
	}
	f.recordTransition(opp.ID, from, opp.State())
	return nil
}

// dispatchProcesses walks the deal type in order and hands each process to the
// first matching delegate. Checklist processes are handled by a single call.
func (f *OpportunityFactory) dispatchProcesses(ctx context.Context, result *WorkflowResult) error {
	from := result.Opportunity.State()
	checklistPass := false

	for i := 0; i < len(result.Opportunity.Content.DealType.ProcessList); i++ {
		process := result.Opportunity.Content.DealType.ProcessList[i]

		var delegate ProcessWorkflow
		switch {
		case process.IsType(opportunity.ProcessTypeChecklist):
			if checklistPass {
				continue
			}
			checklistPass = true
			delegate = f.processes.Checklist
		case process.IsType(opportunity.ProcessTypeCustomerDecision):
			delegate = f.processes.CustomerDecision
		case process.IsType(opportunity.ProcessTypeProposalStatus):
			delegate = f.processes.ProposalStatus
		case process.IsStep(opportunity.ProcessStepStartProcess):
			delegate = f.processes.StartProcess
		case process.IsStep(opportunity.ProcessStepNewOpportunity):
			delegate = f.processes.NewOpportunity
		}
		if delegate == nil {
			continue
		}

		updated, err := delegate.Process(ctx, result.Opportunity, process)
		if err != nil {
			f.logger.WorkflowError("Process workflow failed", err, result.Opportunity.ID, "process", process.ProcessStep)
			return fmt.Errorf("process %q: %w", process.ProcessStep, err)
		}
		if updated != nil {
			result.Opportunity = updated
		}
	}

	if to := result.Opportunity.State(); to != from {
		f.recordTransition(result.Opportunity.ID, from, to)
	}
	return nil
}

// AfterCreate records the dashboard of a persisted opportunity.
func (f *OpportunityFactory) AfterCreate(ctx context.Context, opp *opportunity.Opportunity) []Diagnostic {
	if err := f.analytics.Created(ctx, opp); err != nil {
		f.logger.WorkflowError("Dashboard create failed", err, opp.ID)
		return []Diagnostic{{Step: StepDashboard, Error: err.Error()}}
	}
	return nil
}

// AfterUpdate refreshes the dashboard of a persisted opportunity.
func (f *OpportunityFactory) AfterUpdate(ctx context.Context, previous, current *opportunity.Opportunity) []Diagnostic {
	if err := f.analytics.Updated(ctx, previous, current); err != nil {
		f.logger.WorkflowError("Dashboard update failed", err, current.ID)
		return []Diagnostic{{Step: StepDashboard, Error: err.Error()}}
	}
	return nil
}

// AfterDelete removes the dashboard of a deleted opportunity.
func (f *OpportunityFactory) AfterDelete(ctx context.Context, opportunityID string) []Diagnostic {
	if err := f.analytics.Deleted(ctx, opportunityID); err != nil {
		f.logger.WorkflowError("Dashboard delete failed", err, opportunityID)
		return []Diagnostic{{Step: StepDashboard, Error: err.Error()}}
	}
	return nil
}

func (f *OpportunityFactory) recordTransition(opportunityID string, from, to opportunity.State) {
	if from == to {
		return
	}
	f.recorder.RecordTransition(from.String(), to.String())
	f.logger.Transition(opportunityID, from, to)
}
