package hfsm

import (
	"context"
	"fmt"
	"reflect"
)

// StateConfiguration provides a fluent interface for configuring state behaviour.
//
// Configuration mistakes that can never work, such as nil callbacks, panic with
// an *ArgumentError.
type StateConfiguration[TState, TTrigger comparable] struct {
	representation *StateRepresentation[TState, TTrigger]
	lookup         func(TState) *StateRepresentation[TState, TTrigger]
}

// firstOrEmpty returns the first element of the slice or empty string if empty.
func firstOrEmpty(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}

// NewStateConfiguration creates a new state configuration.
func NewStateConfiguration[TState, TTrigger comparable](
	representation *StateRepresentation[TState, TTrigger],
	lookup func(TState) *StateRepresentation[TState, TTrigger],
) *StateConfiguration[TState, TTrigger] {
	return &StateConfiguration[TState, TTrigger]{
		representation: representation,
		lookup:         lookup,
	}
}

// State returns the state being configured.
func (sc *StateConfiguration[TState, TTrigger]) State() TState {
	return sc.representation.UnderlyingState()
}

// Permit configures the state to transition to the specified destination state
// when the specified trigger is fired.
func (sc *StateConfiguration[TState, TTrigger]) Permit(trigger TTrigger, destinationState TState) *StateConfiguration[TState, TTrigger] {
	sc.enforceNotIdentityTransition(destinationState)
	sc.representation.AddTriggerBehaviour(
		NewTransitioningTriggerBehaviour(trigger, destinationState, EmptyTransitionGuard),
	)
	return sc
}

// PermitIf configures the state to transition to the specified destination state
// when the specified trigger is fired, if the guard condition is met.
func (sc *StateConfiguration[TState, TTrigger]) PermitIf(trigger TTrigger, destinationState TState, guard GuardFunc, guardDescription ...string) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(guard, "guard")
	sc.enforceNotIdentityTransition(destinationState)
	sc.representation.AddTriggerBehaviour(
		NewTransitioningTriggerBehaviour(trigger, destinationState, NewTransitionGuard(guard, firstOrEmpty(guardDescription))),
	)
	return sc
}

// PermitReentry configures the state to re-enter itself when the specified trigger is fired.
// Entry and exit actions will be executed.
func (sc *StateConfiguration[TState, TTrigger]) PermitReentry(trigger TTrigger) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddTriggerBehaviour(
		NewReentryTriggerBehaviour(trigger, sc.representation.UnderlyingState(), EmptyTransitionGuard),
	)
	return sc
}

// PermitReentryIf configures the state to re-enter itself when the specified trigger is fired,
// if the guard condition is met. Entry and exit actions will be executed.
func (sc *StateConfiguration[TState, TTrigger]) PermitReentryIf(trigger TTrigger, guard GuardFunc, guardDescription ...string) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(guard, "guard")
	sc.representation.AddTriggerBehaviour(
		NewReentryTriggerBehaviour(trigger, sc.representation.UnderlyingState(), NewTransitionGuard(guard, firstOrEmpty(guardDescription))),
	)
	return sc
}

// PermitDynamic configures the state to transition to a state computed from the
// source state and the firing arguments when the specified trigger is fired.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamic(trigger TTrigger, selector StateSelector[TState]) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(selector, "selector")
	sc.representation.AddTriggerBehaviour(
		NewDynamicTriggerBehaviour(trigger, selector, EmptyTransitionGuard),
	)
	return sc
}

// PermitDynamicIf is PermitDynamic gated by a guard condition.
func (sc *StateConfiguration[TState, TTrigger]) PermitDynamicIf(
	trigger TTrigger,
	selector StateSelector[TState],
	guard GuardFunc,
	guardDescription ...string,
) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(selector, "selector")
	enforceNotNil(guard, "guard")
	sc.representation.AddTriggerBehaviour(
		NewDynamicTriggerBehaviour(trigger, selector, NewTransitionGuard(guard, firstOrEmpty(guardDescription))),
	)
	return sc
}

// Ignore configures the state to ignore the specified trigger.
func (sc *StateConfiguration[TState, TTrigger]) Ignore(trigger TTrigger) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddTriggerBehaviour(
		NewIgnoredTriggerBehaviour[TState](trigger, EmptyTransitionGuard),
	)
	return sc
}

// IgnoreIf configures the state to ignore the specified trigger if the guard condition is met.
func (sc *StateConfiguration[TState, TTrigger]) IgnoreIf(trigger TTrigger, guard GuardFunc, guardDescription ...string) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(guard, "guard")
	sc.representation.AddTriggerBehaviour(
		NewIgnoredTriggerBehaviour[TState](trigger, NewTransitionGuard(guard, firstOrEmpty(guardDescription))),
	)
	return sc
}

// InternalTransition configures an internal transition where the state is not exited
// and re-entered, and entry/exit actions are not executed.
func (sc *StateConfiguration[TState, TTrigger]) InternalTransition(trigger TTrigger, action ActionFunc[TState, TTrigger]) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(action, "action")
	sc.representation.AddTriggerBehaviour(
		NewInternalTriggerBehaviour(trigger, EmptyTransitionGuard, action),
	)
	return sc
}

// OnEntry configures an action to be executed when entering this state.
// The action receives the transition, including the firing arguments:
//
//	OnEntry(func(ctx context.Context, t Transition[State, Trigger]) error {
//	    if name, ok := t.Param(0).(string); ok {
//	        // use name
//	    }
//	    return nil
//	})
func (sc *StateConfiguration[TState, TTrigger]) OnEntry(action ActionFunc[TState, TTrigger]) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(action, "action")
	sc.representation.AddEntryAction(
		NewActionBehaviour(action, CreateInvocationInfo(action, "")),
	)
	return sc
}

// OnEntryFrom configures an action to be executed when entering this state
// because of the specified trigger.
func (sc *StateConfiguration[TState, TTrigger]) OnEntryFrom(trigger TTrigger, action ActionFunc[TState, TTrigger]) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(action, "action")
	sc.representation.AddEntryAction(
		NewActionBehaviourFrom(trigger, action, CreateInvocationInfo(action, "")),
	)
	return sc
}

// OnExit configures an action to be executed when exiting this state.
func (sc *StateConfiguration[TState, TTrigger]) OnExit(action ActionFunc[TState, TTrigger]) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(action, "action")
	sc.representation.AddExitAction(
		NewActionBehaviour(action, CreateInvocationInfo(action, "")),
	)
	return sc
}

// OnExitFrom configures an action to be executed when exiting this state
// because of the specified trigger.
func (sc *StateConfiguration[TState, TTrigger]) OnExitFrom(trigger TTrigger, action ActionFunc[TState, TTrigger]) *StateConfiguration[TState, TTrigger] {
	enforceNotNil(action, "action")
	sc.representation.AddExitAction(
		NewActionBehaviourFrom(trigger, action, CreateInvocationInfo(action, "")),
	)
	return sc
}

// SubstateOf sets the superstate of this state.
func (sc *StateConfiguration[TState, TTrigger]) SubstateOf(superstate TState) *StateConfiguration[TState, TTrigger] {
	superstateRep := sc.lookup(superstate)

	// Check for circular references
	if superstateRep.IsIncludedIn(sc.representation.UnderlyingState()) {
		panic(&ArgumentError{
			ParamName: "superstate",
			Message: fmt.Sprintf(
				"circular superstate relationship detected: %v -> %v",
				sc.representation.UnderlyingState(),
				superstate,
			),
		})
	}

	sc.representation.SetSuperstate(superstateRep)
	superstateRep.AddSubstate(sc.representation)
	return sc
}

// enforceNotIdentityTransition ensures that a transition is not to the same state.
func (sc *StateConfiguration[TState, TTrigger]) enforceNotIdentityTransition(destinationState TState) {
	if sc.representation.UnderlyingState() == destinationState {
		panic(&ArgumentError{
			ParamName: "destinationState",
			Message:   "permit() requires that the destination state is not equal to the source state. To accept a trigger without changing state, use either Ignore() or PermitReentry()",
		})
	}
}

// enforceNotNil panics with an ErrNullArgument error when fn is a nil function.
func enforceNotNil(fn any, param string) {
	if fn == nil {
		panic(nullArgument(param))
	}
	if v := reflect.ValueOf(fn); v.Kind() == reflect.Func && v.IsNil() {
		panic(nullArgument(param))
	}
}

// OnEntryFrom1 configures a typed entry action for a one-argument trigger.
func OnEntryFrom1[TArg0 any, TState, TTrigger comparable](
	sc *StateConfiguration[TState, TTrigger],
	trigger *TriggerWithParameters1[TTrigger, TArg0],
	action func(ctx context.Context, arg0 TArg0, t Transition[TState, TTrigger]) error,
) *StateConfiguration[TState, TTrigger] {
	if trigger == nil {
		panic(nullArgument("trigger"))
	}
	enforceNotNil(action, "action")
	return sc.addTypedEntryAction(trigger.Trigger(), action, func(ctx context.Context, t Transition[TState, TTrigger]) error {
		return action(ctx, paramAs[TArg0](t, 0), t)
	})
}

// OnEntryFrom2 configures a typed entry action for a two-argument trigger.
func OnEntryFrom2[TArg0, TArg1 any, TState, TTrigger comparable](
	sc *StateConfiguration[TState, TTrigger],
	trigger *TriggerWithParameters2[TTrigger, TArg0, TArg1],
	action func(ctx context.Context, arg0 TArg0, arg1 TArg1, t Transition[TState, TTrigger]) error,
) *StateConfiguration[TState, TTrigger] {
	if trigger == nil {
		panic(nullArgument("trigger"))
	}
	enforceNotNil(action, "action")
	return sc.addTypedEntryAction(trigger.Trigger(), action, func(ctx context.Context, t Transition[TState, TTrigger]) error {
		return action(ctx, paramAs[TArg0](t, 0), paramAs[TArg1](t, 1), t)
	})
}

// OnEntryFrom3 configures a typed entry action for a three-argument trigger.
func OnEntryFrom3[TArg0, TArg1, TArg2 any, TState, TTrigger comparable](
	sc *StateConfiguration[TState, TTrigger],
	trigger *TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2],
	action func(ctx context.Context, arg0 TArg0, arg1 TArg1, arg2 TArg2, t Transition[TState, TTrigger]) error,
) *StateConfiguration[TState, TTrigger] {
	if trigger == nil {
		panic(nullArgument("trigger"))
	}
	enforceNotNil(action, "action")
	return sc.addTypedEntryAction(trigger.Trigger(), action, func(ctx context.Context, t Transition[TState, TTrigger]) error {
		return action(ctx, paramAs[TArg0](t, 0), paramAs[TArg1](t, 1), paramAs[TArg2](t, 2), t)
	})
}

func (sc *StateConfiguration[TState, TTrigger]) addTypedEntryAction(
	trigger TTrigger,
	typed any,
	action ActionFunc[TState, TTrigger],
) *StateConfiguration[TState, TTrigger] {
	sc.representation.AddEntryAction(
		NewActionBehaviourFrom(trigger, action, CreateInvocationInfo(typed, "")),
	)
	return sc
}

// paramAs returns the i-th firing argument as T, or T's zero value.
func paramAs[T any](t interface{ Param(int) any }, i int) T {
	v, _ := t.Param(i).(T)
	return v
}
