package hfsm

import (
	"context"
	"fmt"
)

// StateRepresentation models the behaviour of a state.
type StateRepresentation[TState, TTrigger comparable] struct {
	state TState

	// superstate is the parent state (nil if this is a root state).
	superstate *StateRepresentation[TState, TTrigger]

	// substates are the child states of this state.
	substates []*StateRepresentation[TState, TTrigger]

	// triggerBehaviours maps triggers to their behaviours.
	triggerBehaviours map[TTrigger][]*TriggerBehaviour[TState, TTrigger]

	// triggerOrder lists triggers in the order they were first configured.
	triggerOrder []TTrigger

	entryActions []*ActionBehaviour[TState, TTrigger]
	exitActions  []*ActionBehaviour[TState, TTrigger]

	// terminal marks the state itself as final; substates inherit it.
	terminal bool
}

// NewStateRepresentation creates a new state representation.
func NewStateRepresentation[TState, TTrigger comparable](state TState) *StateRepresentation[TState, TTrigger] {
	return &StateRepresentation[TState, TTrigger]{
		state:             state,
		triggerBehaviours: make(map[TTrigger][]*TriggerBehaviour[TState, TTrigger]),
	}
}

// UnderlyingState returns the state this representation models.
func (sr *StateRepresentation[TState, TTrigger]) UnderlyingState() TState {
	return sr.state
}

// Superstate returns the parent state, if any.
func (sr *StateRepresentation[TState, TTrigger]) Superstate() *StateRepresentation[TState, TTrigger] {
	return sr.superstate
}

// SetSuperstate sets the parent state.
func (sr *StateRepresentation[TState, TTrigger]) SetSuperstate(superstate *StateRepresentation[TState, TTrigger]) {
	sr.superstate = superstate
}

// Substates returns the substates of this state.
func (sr *StateRepresentation[TState, TTrigger]) Substates() []*StateRepresentation[TState, TTrigger] {
	return sr.substates
}

// AddSubstate adds a substate to this state.
func (sr *StateRepresentation[TState, TTrigger]) AddSubstate(substate *StateRepresentation[TState, TTrigger]) {
	sr.substates = append(sr.substates, substate)
}

// MarkTerminal flags the state as terminal.
func (sr *StateRepresentation[TState, TTrigger]) MarkTerminal() {
	sr.terminal = true
}

// IsTerminal reports whether this state or any of its superstates is terminal.
func (sr *StateRepresentation[TState, TTrigger]) IsTerminal() bool {
	if sr.terminal {
		return true
	}
	return sr.superstate != nil && sr.superstate.IsTerminal()
}

// TriggerBehaviours returns the behaviours configured for trigger in this state only.
func (sr *StateRepresentation[TState, TTrigger]) TriggerBehaviours(trigger TTrigger) []*TriggerBehaviour[TState, TTrigger] {
	return sr.triggerBehaviours[trigger]
}

// EntryActions returns the entry actions.
func (sr *StateRepresentation[TState, TTrigger]) EntryActions() []*ActionBehaviour[TState, TTrigger] {
	return sr.entryActions
}

// ExitActions returns the exit actions.
func (sr *StateRepresentation[TState, TTrigger]) ExitActions() []*ActionBehaviour[TState, TTrigger] {
	return sr.exitActions
}

// CanHandle returns true if this state or a superstate has exactly one satisfied behaviour for trigger.
func (sr *StateRepresentation[TState, TTrigger]) CanHandle(trigger TTrigger) bool {
	result, err := sr.TryFindHandler(trigger)
	return err == nil && result.Handler != nil
}

// TryFindHandler searches this state, then its superstates, for the behaviour
// that handles trigger. A state whose behaviours all have unmet guards does not
// stop the search; two satisfied behaviours in one state do.
func (sr *StateRepresentation[TState, TTrigger]) TryFindHandler(trigger TTrigger) (*TriggerBehaviourResult[TState, TTrigger], error) {
	result := &TriggerBehaviourResult[TState, TTrigger]{}
	for rep := sr; rep != nil; rep = rep.superstate {
		handler, err := rep.tryFindLocalHandler(trigger, result)
		if err != nil {
			return nil, err
		}
		if handler != nil {
			result.Handler = handler
			return result, nil
		}
	}
	return result, nil
}

func (sr *StateRepresentation[TState, TTrigger]) tryFindLocalHandler(
	trigger TTrigger,
	result *TriggerBehaviourResult[TState, TTrigger],
) (*TriggerBehaviour[TState, TTrigger], error) {
	behaviours, exists := sr.triggerBehaviours[trigger]
	if !exists {
		return nil, nil
	}
	result.BehavioursFound = true

	var possible []*TriggerBehaviour[TState, TTrigger]
	for _, behaviour := range behaviours {
		if behaviour.GuardConditionsMet() {
			possible = append(possible, behaviour)
		}
	}

	switch len(possible) {
	case 0:
		for _, behaviour := range behaviours {
			result.UnmetGuardConditions = append(result.UnmetGuardConditions, behaviour.UnmetGuardConditions()...)
		}
		return nil, nil
	case 1:
		return possible[0], nil
	default:
		var guards []string
		for _, behaviour := range possible {
			guards = append(guards, behaviour.Guard().Descriptions()...)
		}
		return nil, &AmbiguousGuardsError{State: sr.state, Trigger: trigger, Guards: guards}
	}
}

// AddTriggerBehaviour adds a trigger behaviour to this state.
func (sr *StateRepresentation[TState, TTrigger]) AddTriggerBehaviour(behaviour *TriggerBehaviour[TState, TTrigger]) {
	trigger := behaviour.Trigger()
	if _, exists := sr.triggerBehaviours[trigger]; !exists {
		sr.triggerOrder = append(sr.triggerOrder, trigger)
	}
	sr.triggerBehaviours[trigger] = append(sr.triggerBehaviours[trigger], behaviour)
}

// AddEntryAction adds an entry action to this state.
func (sr *StateRepresentation[TState, TTrigger]) AddEntryAction(action *ActionBehaviour[TState, TTrigger]) {
	sr.entryActions = append(sr.entryActions, action)
}

// AddExitAction adds an exit action to this state.
func (sr *StateRepresentation[TState, TTrigger]) AddExitAction(action *ActionBehaviour[TState, TTrigger]) {
	sr.exitActions = append(sr.exitActions, action)
}

// Enter runs entry actions from the outermost state not shared with the
// transition's source down to this state.
func (sr *StateRepresentation[TState, TTrigger]) Enter(ctx context.Context, transition Transition[TState, TTrigger]) error {
	if transition.IsReentry() {
		return sr.ExecuteEntryActions(ctx, transition)
	}

	if !sr.Includes(transition.Source) {
		if sr.superstate != nil {
			if err := sr.superstate.Enter(ctx, transition); err != nil {
				return err
			}
		}
		return sr.ExecuteEntryActions(ctx, transition)
	}

	return nil
}

// Exit runs exit actions from this state up to, but excluding, the first
// state that also contains the transition's destination.
func (sr *StateRepresentation[TState, TTrigger]) Exit(ctx context.Context, transition Transition[TState, TTrigger]) error {
	if transition.IsReentry() {
		return sr.ExecuteExitActions(ctx, transition)
	}

	if !sr.Includes(transition.Destination) {
		if err := sr.ExecuteExitActions(ctx, transition); err != nil {
			return err
		}
		if sr.superstate != nil {
			return sr.superstate.Exit(ctx, transition)
		}
	}

	return nil
}

// ExecuteEntryActions executes all entry actions for this state.
func (sr *StateRepresentation[TState, TTrigger]) ExecuteEntryActions(ctx context.Context, transition Transition[TState, TTrigger]) error {
	for _, action := range sr.entryActions {
		if err := action.Execute(ctx, transition); err != nil {
			return fmt.Errorf("entry action of state '%v': %w", sr.state, err)
		}
	}
	return nil
}

// ExecuteExitActions executes all exit actions for this state.
func (sr *StateRepresentation[TState, TTrigger]) ExecuteExitActions(ctx context.Context, transition Transition[TState, TTrigger]) error {
	for _, action := range sr.exitActions {
		if err := action.Execute(ctx, transition); err != nil {
			return fmt.Errorf("exit action of state '%v': %w", sr.state, err)
		}
	}
	return nil
}

// Includes returns true if this state or any of its substates is the specified state.
func (sr *StateRepresentation[TState, TTrigger]) Includes(state TState) bool {
	if sr.state == state {
		return true
	}
	for _, substate := range sr.substates {
		if substate.Includes(state) {
			return true
		}
	}
	return false
}

// IsIncludedIn returns true if this state is the specified state or a substate of it.
func (sr *StateRepresentation[TState, TTrigger]) IsIncludedIn(state TState) bool {
	if sr.state == state {
		return true
	}
	if sr.superstate != nil {
		return sr.superstate.IsIncludedIn(state)
	}
	return false
}

// PermittedTriggers returns the triggers that are currently permitted from this state.
func (sr *StateRepresentation[TState, TTrigger]) PermittedTriggers() []TTrigger {
	result := sr.LocalPermittedTriggers()

	if sr.superstate != nil {
		for _, trigger := range sr.superstate.PermittedTriggers() {
			if !containsTrigger(result, trigger) {
				result = append(result, trigger)
			}
		}
	}

	return result
}

// LocalPermittedTriggers returns the triggers that are permitted from this state (not including superstates).
func (sr *StateRepresentation[TState, TTrigger]) LocalPermittedTriggers() []TTrigger {
	var result []TTrigger
	for _, trigger := range sr.triggerOrder {
		for _, behaviour := range sr.triggerBehaviours[trigger] {
			if behaviour.GuardConditionsMet() {
				result = append(result, trigger)
				break
			}
		}
	}
	return result
}

// String returns a string representation of this state.
func (sr *StateRepresentation[TState, TTrigger]) String() string {
	return fmt.Sprintf("%v", sr.state)
}

// containsTrigger checks if a trigger is in the slice.
func containsTrigger[TTrigger comparable](triggers []TTrigger, trigger TTrigger) bool {
	for _, t := range triggers {
		if t == trigger {
			return true
		}
	}
	return false
}
