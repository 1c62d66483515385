package executors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingRecorder struct {
	steps []string
}

func (r *countingRecorder) RecordSideEffectFailure(step string) {
	r.steps = append(r.steps, step)
}

func TestSideEffectExecutor_FailuresDoNotStopRemainingEffects(t *testing.T) {
	// Arrange
	rec := &countingRecorder{}
	executor := NewSideEffectExecutor(rec)
	var ran []string
	effects := []SideEffect{
		{Step: "owner", Run: func(context.Context) error { ran = append(ran, "owner"); return errors.New("graph unavailable") }},
		{Step: "member", Run: func(context.Context) error { ran = append(ran, "member"); return nil }},
		{Step: "addin", Run: func(context.Context) error { ran = append(ran, "addin"); return errors.New("timeout") }},
	}

	// Act
	diagnostics := executor.Execute(context.Background(), "opp-1", effects)

	// Assert
	assert.Equal(t, []string{"owner", "member", "addin"}, ran)
	assert.Equal(t, []Diagnostic{
		{Step: "owner", Error: "graph unavailable"},
		{Step: "addin", Error: "timeout"},
	}, diagnostics)
	assert.Equal(t, []string{"owner", "addin"}, rec.steps)
}

func TestSideEffectExecutor_AllSucceed(t *testing.T) {
	executor := NewSideEffectExecutor(nil)

	diagnostics := executor.Execute(context.Background(), "opp-1", []SideEffect{
		{Step: "noop", Run: func(context.Context) error { return nil }},
	})

	assert.Empty(t, diagnostics)
}
