package opportunity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State is the workflow state of an opportunity.
type State string

const (
	StateNone       State = "None"
	StateCreating   State = "Creating"
	StateInProgress State = "InProgress"
	StateAssigned   State = "Assigned"
	StateDraft      State = "Draft"
	StateNotStarted State = "NotStarted"
	StateComplete   State = "Complete"
	StateSubmitted  State = "Submitted"
	StateAccepted   State = "Accepted"
	StateArchived   State = "Archived"
)

var allStates = []State{
	StateNone, StateCreating, StateInProgress, StateAssigned, StateDraft,
	StateNotStarted, StateComplete, StateSubmitted, StateAccepted, StateArchived,
}

// ParseState resolves a state name case-insensitively. An empty string is StateNone.
func ParseState(name string) (State, error) {
	if strings.TrimSpace(name) == "" {
		return StateNone, nil
	}
	for _, s := range allStates {
		if strings.EqualFold(string(s), name) {
			return s, nil
		}
	}
	return StateNone, fmt.Errorf("unknown opportunity state %q", name)
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s State) IsTerminal() bool {
	return s == StateAccepted || s == StateArchived
}

func (s State) String() string {
	if s == "" {
		return string(StateNone)
	}
	return string(s)
}

// UnmarshalJSON accepts any casing of a known state name.
func (s *State) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseState(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ActionStatus is the status of a single process step or checklist.
type ActionStatus string

const (
	ActionNotStarted ActionStatus = "NotStarted"
	ActionInProgress ActionStatus = "InProgress"
	ActionBlocked    ActionStatus = "Blocked"
	ActionCompleted  ActionStatus = "Completed"
	ActionCanceled   ActionStatus = "Canceled"
)

// Normalize maps an empty status to NotStarted.
func (a ActionStatus) Normalize() ActionStatus {
	if a == "" {
		return ActionNotStarted
	}
	return a
}
