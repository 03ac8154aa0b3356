package hfsm

import "context"

// ActionFunc is an entry, exit or internal-transition action.
type ActionFunc[TState, TTrigger comparable] func(ctx context.Context, t Transition[TState, TTrigger]) error

// ActionBehaviour is an entry or exit action, optionally bound to one trigger.
type ActionBehaviour[TState, TTrigger comparable] struct {
	action      ActionFunc[TState, TTrigger]
	description InvocationInfo

	fromTrigger    TTrigger
	hasFromTrigger bool
}

// NewActionBehaviour creates an action that runs for every transition.
func NewActionBehaviour[TState, TTrigger comparable](
	action ActionFunc[TState, TTrigger],
	description InvocationInfo,
) *ActionBehaviour[TState, TTrigger] {
	return &ActionBehaviour[TState, TTrigger]{
		action:      action,
		description: description,
	}
}

// NewActionBehaviourFrom creates an action that only runs when the transition was caused by trigger.
func NewActionBehaviourFrom[TState, TTrigger comparable](
	trigger TTrigger,
	action ActionFunc[TState, TTrigger],
	description InvocationInfo,
) *ActionBehaviour[TState, TTrigger] {
	a := NewActionBehaviour(action, description)
	a.fromTrigger = trigger
	a.hasFromTrigger = true
	return a
}

// Execute runs the action if it applies to the transition's trigger.
func (a *ActionBehaviour[TState, TTrigger]) Execute(ctx context.Context, transition Transition[TState, TTrigger]) error {
	if a.hasFromTrigger && transition.Trigger != a.fromTrigger {
		return nil
	}
	if a.action == nil {
		return nil
	}
	return a.action(ctx, transition)
}

// Description returns the description of the action.
func (a *ActionBehaviour[TState, TTrigger]) Description() InvocationInfo {
	return a.description
}

// FromTrigger returns the trigger this action is bound to, if any.
func (a *ActionBehaviour[TState, TTrigger]) FromTrigger() (TTrigger, bool) {
	return a.fromTrigger, a.hasFromTrigger
}
