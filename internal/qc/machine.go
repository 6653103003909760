package qc

import "fmt"

// State is a state of the iteration controller.
type State string

const (
	StateValidating       State = "VALIDATING"
	StateAnalyzingFailure State = "ANALYZING_FAILURE"
	StateRegenerating     State = "REGENERATING"
	StatePassed           State = "PASSED"
	StateRejected         State = "REJECTED"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StatePassed || s == StateRejected
}

// Event drives a transition.
type Event string

const (
	EventPassed      Event = "passed"
	EventFailed      Event = "failed"
	EventFixed       Event = "fixed"
	EventRegenerated Event = "regenerated"
)

// transitions maps state and event to the next state. A failed validation
// is resolved separately because it depends on the round.
var transitions = map[State]map[Event]State{
	StateValidating: {
		EventPassed: StatePassed,
	},
	StateAnalyzingFailure: {
		EventFixed: StateRegenerating,
	},
	StateRegenerating: {
		EventRegenerated: StateValidating,
	},
	StatePassed:   {},
	StateRejected: {},
}

// Transition returns the state that follows s on ev during round out of
// maxRounds. It is a pure function.
func Transition(s State, ev Event, round, maxRounds int) (State, error) {
	if s == StateValidating && ev == EventFailed {
		if round >= maxRounds {
			return StateRejected, nil
		}
		return StateAnalyzingFailure, nil
	}
	next, ok := transitions[s][ev]
	if !ok {
		return s, fmt.Errorf("invalid transition: %s on %s", s, ev)
	}
	return next, nil
}
