// Package hfsm provides a generic, hierarchical state machine for Go.
//
// It models an object's behaviour as a finite set of states connected by
// guarded transitions, with support for:
//
//   - Generic types for states and triggers
//   - Guard conditions for conditional transitions
//   - Entry and exit actions, optionally scoped to one trigger
//   - Hierarchical states (substates and superstates)
//   - Terminal states that accept and ignore every trigger
//   - Global triggers used when no state handles a trigger
//   - Parameterized triggers with argument validation
//   - Dynamic, reentry and internal transitions
//
// # Basic Usage
//
// Create a state machine with initial state:
//
//	sm := hfsm.NewStateMachine[State, Trigger](InitialState)
//
// Configure states with transitions:
//
//	sm.Configure(StateA).
//	    Permit(TriggerX, StateB).
//	    OnEntry(func(ctx context.Context, t hfsm.Transition[State, Trigger]) error {
//	        fmt.Println("Entering StateA")
//	        return nil
//	    })
//
// Fire triggers to cause transitions:
//
//	err := sm.Fire(TriggerX)
//
// # Guards
//
// Add conditions to transitions:
//
//	sm.Configure(StateA).
//	    PermitIf(TriggerX, StateB, func() bool { return someCondition }, "some condition")
//
// At most one guard for a state and trigger may hold when the trigger is
// fired; otherwise Fire returns an error matching ErrAmbiguousGuards.
//
// # Hierarchical States
//
// Create state hierarchies:
//
//	sm.Configure(StateB).SubstateOf(StateA)
//
// Leaving StateB for a state outside StateA runs StateB's exit actions and then
// StateA's. Moving between two substates of StateA runs neither StateA's exit
// nor its entry actions.
//
// # Parameterized Triggers
//
//	assign, _ := hfsm.SetTriggerParameters1[string](sm, Assign)
//	hfsm.OnEntryFrom1(sm.Configure(Assigned), assign,
//	    func(ctx context.Context, assignee string, t hfsm.Transition[State, Trigger]) error {
//	        return nil
//	    })
//	err := hfsm.Fire1(sm, assign, "alice")
//
// # Ordering
//
// A fire runs, in order: the exit actions, the state commit, the
// AllStatesOnEntry hook, the OnTransitioned observers and the entry actions.
// A failing action stops the sequence; the state is not rolled back.
package hfsm
