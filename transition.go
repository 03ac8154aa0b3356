package hfsm

// Transition describes a state transition.
type Transition[TState, TTrigger comparable] struct {
	// Source is the state transitioned from.
	Source TState

	// Destination is the state transitioned to.
	Destination TState

	// Trigger is the trigger that caused the transition.
	Trigger TTrigger

	// Parameters are the arguments the trigger was fired with.
	Parameters []any
}

// NewTransition creates a new transition.
func NewTransition[TState, TTrigger comparable](source, destination TState, trigger TTrigger, parameters ...any) Transition[TState, TTrigger] {
	if parameters == nil {
		parameters = []any{}
	}
	return Transition[TState, TTrigger]{
		Source:      source,
		Destination: destination,
		Trigger:     trigger,
		Parameters:  parameters,
	}
}

// IsReentry returns true if the transition is a re-entry, i.e., the identity transition.
func (t Transition[TState, TTrigger]) IsReentry() bool {
	return t.Source == t.Destination
}

// Param returns the i-th firing argument, or nil when it was not supplied.
func (t Transition[TState, TTrigger]) Param(i int) any {
	if i < 0 || i >= len(t.Parameters) {
		return nil
	}
	return t.Parameters[i]
}
