package executors

import (
	"context"

	"propmgmt/logging"
)

// SideEffect is a best-effort step that runs after the primary work of a workflow.
type SideEffect struct {
	Step string
	Run  func(ctx context.Context) error
}

// Diagnostic records a side effect that failed without failing the workflow.
type Diagnostic struct {
	Step  string `json:"step"`
	Error string `json:"error"`
}

// FailureRecorder is notified of every failed side effect.
type FailureRecorder interface {
	RecordSideEffectFailure(step string)
}

type nopFailureRecorder struct{}

func (nopFailureRecorder) RecordSideEffectFailure(string) {}

// SideEffectExecutor runs side effects sequentially and collects their failures
type SideEffectExecutor struct {
	recorder FailureRecorder
	logger   *logging.Logger
}

// NewSideEffectExecutor creates an executor. A nil recorder disables metrics.
func NewSideEffectExecutor(recorder FailureRecorder) *SideEffectExecutor {
	if recorder == nil {
		recorder = nopFailureRecorder{}
	}
	return &SideEffectExecutor{
		recorder: recorder,
		logger:   logging.Default().WithComponent("side_effect_executor"),
	}
}

// Execute runs every effect in order. A failing effect is logged and recorded,
// and the remaining effects still run.
func (e *SideEffectExecutor) Execute(ctx context.Context, opportunityID string, effects []SideEffect) []Diagnostic {
	var diagnostics []Diagnostic
	for _, effect := range effects {
		if err := effect.Run(ctx); err != nil {
			e.logger.WorkflowError("Side effect failed", err, opportunityID, "step", effect.Step)
			e.recorder.RecordSideEffectFailure(effect.Step)
			diagnostics = append(diagnostics, Diagnostic{Step: effect.Step, Error: err.Error()})
			continue
		}
		e.logger.Debug("Side effect completed", "opportunity_id", opportunityID, "step", effect.Step)
	}
	return diagnostics
}
