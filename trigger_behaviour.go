package hfsm

import "context"

// BehaviourKind identifies how a trigger behaviour resolves its destination.
type BehaviourKind int

const (
	// Transitioning moves to a fixed destination state.
	Transitioning BehaviourKind = iota
	// Reentry exits and re-enters the configured state.
	Reentry
	// Dynamic computes the destination from the source and the firing arguments.
	Dynamic
	// Ignored accepts the trigger without changing state or running actions.
	Ignored
	// Internal runs an action without leaving the state.
	Internal
)

func (k BehaviourKind) String() string {
	switch k {
	case Transitioning:
		return "Transitioning"
	case Reentry:
		return "Reentry"
	case Dynamic:
		return "Dynamic"
	case Ignored:
		return "Ignored"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// StateSelector computes a destination state from the source and the firing arguments.
type StateSelector[TState comparable] func(source TState, args []any) TState

// TriggerBehaviour is a guarded edge for one trigger. The kind decides which of
// destination, selector or action is meaningful.
type TriggerBehaviour[TState, TTrigger comparable] struct {
	trigger TTrigger
	guard   TransitionGuard
	kind    BehaviourKind

	destination TState
	selector    StateSelector[TState]
	action      ActionFunc[TState, TTrigger]
}

func newTriggerBehaviour[TState, TTrigger comparable](
	kind BehaviourKind,
	trigger TTrigger,
	guard TransitionGuard,
) *TriggerBehaviour[TState, TTrigger] {
	return &TriggerBehaviour[TState, TTrigger]{
		trigger: trigger,
		guard:   guard,
		kind:    kind,
	}
}

// NewTransitioningTriggerBehaviour creates a behaviour that moves to a fixed destination.
func NewTransitioningTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	destination TState,
	guard TransitionGuard,
) *TriggerBehaviour[TState, TTrigger] {
	b := newTriggerBehaviour[TState](Transitioning, trigger, guard)
	b.destination = destination
	return b
}

// NewReentryTriggerBehaviour creates a behaviour that re-enters destination.
func NewReentryTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	destination TState,
	guard TransitionGuard,
) *TriggerBehaviour[TState, TTrigger] {
	b := newTriggerBehaviour[TState](Reentry, trigger, guard)
	b.destination = destination
	return b
}

// NewDynamicTriggerBehaviour creates a behaviour whose destination is computed at fire time.
func NewDynamicTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	selector StateSelector[TState],
	guard TransitionGuard,
) *TriggerBehaviour[TState, TTrigger] {
	b := newTriggerBehaviour[TState](Dynamic, trigger, guard)
	b.selector = selector
	return b
}

// NewIgnoredTriggerBehaviour creates a behaviour that swallows the trigger.
func NewIgnoredTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	guard TransitionGuard,
) *TriggerBehaviour[TState, TTrigger] {
	return newTriggerBehaviour[TState](Ignored, trigger, guard)
}

// NewInternalTriggerBehaviour creates a behaviour that runs action without exiting the state.
func NewInternalTriggerBehaviour[TState, TTrigger comparable](
	trigger TTrigger,
	guard TransitionGuard,
	action ActionFunc[TState, TTrigger],
) *TriggerBehaviour[TState, TTrigger] {
	b := newTriggerBehaviour[TState](Internal, trigger, guard)
	b.action = action
	return b
}

// Trigger returns the trigger associated with this behaviour.
func (b *TriggerBehaviour[TState, TTrigger]) Trigger() TTrigger {
	return b.trigger
}

// Kind returns the behaviour kind.
func (b *TriggerBehaviour[TState, TTrigger]) Kind() BehaviourKind {
	return b.kind
}

// Guard returns the transition guard for this behaviour.
func (b *TriggerBehaviour[TState, TTrigger]) Guard() TransitionGuard {
	return b.guard
}

// GuardConditionsMet returns true if all guard conditions are met.
func (b *TriggerBehaviour[TState, TTrigger]) GuardConditionsMet() bool {
	return b.guard.GuardConditionsMet()
}

// UnmetGuardConditions returns the descriptions of all unmet guard conditions.
func (b *TriggerBehaviour[TState, TTrigger]) UnmetGuardConditions() []string {
	return b.guard.UnmetGuardConditions()
}

// ResolveDestination applies the destination rule. The second result is false
// when the behaviour does not change state (ignored and internal behaviours).
func (b *TriggerBehaviour[TState, TTrigger]) ResolveDestination(source TState, args []any) (TState, bool) {
	switch b.kind {
	case Transitioning, Reentry:
		return b.destination, true
	case Dynamic:
		return b.selector(source, args), true
	default:
		var zero TState
		return zero, false
	}
}

// Execute runs the action of an internal behaviour. Other kinds do nothing.
func (b *TriggerBehaviour[TState, TTrigger]) Execute(ctx context.Context, transition Transition[TState, TTrigger]) error {
	if b.kind != Internal || b.action == nil {
		return nil
	}
	return b.action(ctx, transition)
}

// TriggerBehaviourResult represents the result of finding a trigger behaviour.
type TriggerBehaviourResult[TState, TTrigger comparable] struct {
	// Handler is the trigger behaviour that was found.
	Handler *TriggerBehaviour[TState, TTrigger]

	// UnmetGuardConditions contains descriptions of guards that blocked the trigger
	// on the way up the hierarchy.
	UnmetGuardConditions []string

	// BehavioursFound is true when at least one behaviour exists for the trigger,
	// whether or not its guard was met.
	BehavioursFound bool
}
