package opportunity

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a state change is not allowed.
var ErrInvalidTransition = errors.New("invalid state transition")

var transitions = map[State][]State{
	StateNone:       {StateCreating},
	StateCreating:   {StateInProgress, StateArchived},
	StateInProgress: {StateAccepted, StateArchived},
}

// Lifecycle manages opportunity state transitions and business rules
type Lifecycle struct{}

// CanTransition reports whether from may move to to. Staying in place is always allowed.
func (Lifecycle) CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the opportunity to the target state with validation
func (l Lifecycle) Transition(opp *Opportunity, to State) error {
	from := opp.State()
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("cannot leave terminal state %s: %w", from, ErrInvalidTransition)
	}
	if !l.CanTransition(from, to) {
		return fmt.Errorf("cannot move from %s to %s: %w", from, to, ErrInvalidTransition)
	}
	opp.Metadata.OpportunityState = to
	return nil
}

// StartCreating marks a new opportunity as being provisioned
func (l Lifecycle) StartCreating(opp *Opportunity) error {
	return l.Transition(opp, StateCreating)
}

// Activate moves a provisioned opportunity into the working state
func (l Lifecycle) Activate(opp *Opportunity) error {
	return l.Transition(opp, StateInProgress)
}

// Accept closes the opportunity after the customer approved
func (l Lifecycle) Accept(opp *Opportunity) error {
	return l.Transition(opp, StateAccepted)
}

// Archive closes the opportunity without acceptance
func (l Lifecycle) Archive(opp *Opportunity) error {
	return l.Transition(opp, StateArchived)
}
