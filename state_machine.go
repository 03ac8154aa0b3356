package hfsm

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// UnhandledTriggerFunc decides what happens when no behaviour handles a trigger.
// Its error, if any, is returned from Fire.
type UnhandledTriggerFunc[TState, TTrigger comparable] func(state TState, trigger TTrigger, unmetGuards []string) error

// StateMachine represents a state machine that can transition between states based on triggers.
//
// A StateMachine is not safe for concurrent use. Configure it first, then fire
// triggers from one goroutine at a time.
type StateMachine[TState, TTrigger comparable] struct {
	// cell holds the current state.
	cell StateCell[TState]

	// stateRepresentations contains the configuration for each state.
	stateRepresentations map[TState]*StateRepresentation[TState, TTrigger]

	// triggerConfiguration holds the parameter signatures registered per trigger.
	triggerConfiguration map[TTrigger]*TriggerWithParameters[TTrigger]

	// globalTriggers are fallbacks for states without a more specific handler.
	globalTriggers map[TTrigger]TState

	// allStatesOnEntry runs on every committed transition, before observers.
	allStatesOnEntry func(Transition[TState, TTrigger])

	// unhandledTriggerAction replaces the default unhandled-trigger error when set.
	unhandledTriggerAction UnhandledTriggerFunc[TState, TTrigger]

	// onTransitionedEvent is called when a transition is committed.
	onTransitionedEvent *OnTransitionedEvent[TState, TTrigger]

	logger logrus.FieldLogger
}

// OnTransitionedEvent handles transition event callbacks.
type OnTransitionedEvent[TState, TTrigger comparable] struct {
	handlers []func(Transition[TState, TTrigger])
}

// NewOnTransitionedEvent creates a new OnTransitionedEvent.
func NewOnTransitionedEvent[TState, TTrigger comparable]() *OnTransitionedEvent[TState, TTrigger] {
	return &OnTransitionedEvent[TState, TTrigger]{}
}

// Register adds a handler to the event.
func (e *OnTransitionedEvent[TState, TTrigger]) Register(handler func(Transition[TState, TTrigger])) {
	e.handlers = append(e.handlers, handler)
}

// Invoke calls all registered handlers in registration order.
func (e *OnTransitionedEvent[TState, TTrigger]) Invoke(transition Transition[TState, TTrigger]) {
	for _, handler := range e.handlers {
		handler(transition)
	}
}

// NewStateMachine creates a new state machine with the specified initial state.
func NewStateMachine[TState, TTrigger comparable](initialState TState, opts ...Option) *StateMachine[TState, TTrigger] {
	return NewStateMachineWithExternalStorage[TState, TTrigger](&valueCell[TState]{state: initialState}, opts...)
}

// NewStateMachineWithExternalStorage creates a new state machine whose current
// state is kept in cell. It panics if cell is nil, a nil pointer, or a
// StateFuncs without both Get and Set.
func NewStateMachineWithExternalStorage[TState, TTrigger comparable](
	cell StateCell[TState],
	opts ...Option,
) *StateMachine[TState, TTrigger] {
	if !validCell(cell) {
		panic(nullArgument("cell"))
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &StateMachine[TState, TTrigger]{
		cell:                 cell,
		stateRepresentations: make(map[TState]*StateRepresentation[TState, TTrigger]),
		triggerConfiguration: make(map[TTrigger]*TriggerWithParameters[TTrigger]),
		globalTriggers:       make(map[TTrigger]TState),
		onTransitionedEvent:  NewOnTransitionedEvent[TState, TTrigger](),
		logger:               o.logger,
	}
}

// validCell reports whether cell can be read and written. A nil interface, a
// typed nil pointer and StateFuncs missing Get or Set are all rejected.
func validCell[TState comparable](cell StateCell[TState]) bool {
	if cell == nil {
		return false
	}
	if f, ok := cell.(StateFuncs[TState]); ok {
		return f.Get != nil && f.Set != nil
	}
	v := reflect.ValueOf(cell)
	return v.Kind() != reflect.Pointer || !v.IsNil()
}

// State returns the current state.
func (sm *StateMachine[TState, TTrigger]) State() TState {
	return sm.cell.State()
}

// SetState overwrites the current state without running any actions or
// notifying observers.
func (sm *StateMachine[TState, TTrigger]) SetState(state TState) {
	sm.cell.SetState(state)
}

// Configure begins configuration of a state.
func (sm *StateMachine[TState, TTrigger]) Configure(state TState) *StateConfiguration[TState, TTrigger] {
	return NewStateConfiguration(
		sm.getRepresentation(state),
		sm.getRepresentation,
	)
}

// ConfigureTerminal begins configuration of a state and marks it terminal.
// Triggers fired while in it, or in any of its substates, are accepted and do nothing.
func (sm *StateMachine[TState, TTrigger]) ConfigureTerminal(state TState) *StateConfiguration[TState, TTrigger] {
	representation := sm.getRepresentation(state)
	representation.MarkTerminal()
	return NewStateConfiguration(representation, sm.getRepresentation)
}

// SetTriggerParameters registers the argument types trigger must be fired with.
// Each trigger can be registered once.
func (sm *StateMachine[TState, TTrigger]) SetTriggerParameters(
	trigger TTrigger,
	argumentTypes ...reflect.Type,
) (*TriggerWithParameters[TTrigger], error) {
	for i, t := range argumentTypes {
		if t == nil {
			return nil, nullArgument(fmt.Sprintf("argumentTypes[%d]", i))
		}
	}
	twp := NewTriggerWithParameters(trigger, argumentTypes...)
	if err := sm.saveTriggerConfiguration(twp); err != nil {
		return nil, err
	}
	return twp, nil
}

func (sm *StateMachine[TState, TTrigger]) saveTriggerConfiguration(twp *TriggerWithParameters[TTrigger]) error {
	if _, exists := sm.triggerConfiguration[twp.Trigger()]; exists {
		return &InvalidOperationError{
			Err:     ErrConfigurationConflict,
			Message: fmt.Sprintf("parameters for the trigger '%v' have already been configured", twp.Trigger()),
		}
	}
	sm.triggerConfiguration[twp.Trigger()] = twp
	return nil
}

// ConfigureGlobalTriggers makes each trigger move to destination from any
// state that has no behaviour of its own, or inherited, for it.
func (sm *StateMachine[TState, TTrigger]) ConfigureGlobalTriggers(triggers []TTrigger, destination TState) {
	for _, trigger := range triggers {
		sm.globalTriggers[trigger] = destination
	}
}

// AllStatesOnEntry sets a hook that runs on every committed transition,
// replacing any previous hook.
func (sm *StateMachine[TState, TTrigger]) AllStatesOnEntry(action func(Transition[TState, TTrigger])) {
	if action == nil {
		panic(nullArgument("action"))
	}
	sm.allStatesOnEntry = action
}

// OnTransitioned registers a callback that will be called when a transition is committed.
func (sm *StateMachine[TState, TTrigger]) OnTransitioned(action func(Transition[TState, TTrigger])) {
	if action == nil {
		panic(nullArgument("action"))
	}
	sm.onTransitionedEvent.Register(action)
}

// OnUnhandledTrigger registers a callback that will be called when a trigger is fired
// but no valid transition exists. It replaces the default error.
func (sm *StateMachine[TState, TTrigger]) OnUnhandledTrigger(action UnhandledTriggerFunc[TState, TTrigger]) {
	if action == nil {
		panic(nullArgument("action"))
	}
	sm.unhandledTriggerAction = action
}

// Fire fires a trigger with optional args.
func (sm *StateMachine[TState, TTrigger]) Fire(trigger TTrigger, args ...any) error {
	return sm.FireCtx(context.Background(), trigger, args...)
}

// FireWithParameters fires a trigger whose parameters were registered with SetTriggerParameters.
func (sm *StateMachine[TState, TTrigger]) FireWithParameters(trigger *TriggerWithParameters[TTrigger], args ...any) error {
	if trigger == nil {
		return nullArgument("trigger")
	}
	return sm.FireCtx(context.Background(), trigger.Trigger(), args...)
}

// FireCtx fires a trigger. ctx is handed to every action run by the fire.
func (sm *StateMachine[TState, TTrigger]) FireCtx(ctx context.Context, trigger TTrigger, args ...any) error {
	return sm.internalFire(ctx, trigger, args)
}

// internalFire processes a single trigger.
func (sm *StateMachine[TState, TTrigger]) internalFire(ctx context.Context, trigger TTrigger, args []any) error {
	source := sm.State()
	log := sm.logger.WithFields(logrus.Fields{
		"fire_id": ulid.Make().String(),
		"state":   source,
		"trigger": trigger,
	})

	if twp, ok := sm.triggerConfiguration[trigger]; ok {
		if err := twp.ValidateParameters(args); err != nil {
			return err
		}
	}

	representation := sm.getRepresentation(source)
	if representation.IsTerminal() {
		log.Debug("state is terminal, trigger has no effect")
		return nil
	}

	result, err := representation.TryFindHandler(trigger)
	if err != nil {
		return err
	}

	handler := result.Handler
	if handler == nil {
		if destination, ok := sm.globalTriggers[trigger]; ok {
			log.Debug("using global trigger")
			return sm.executeTransition(ctx, log, NewTransition(source, destination, trigger, args...), representation)
		}
		return sm.handleUnhandledTrigger(log, source, trigger, result)
	}

	switch handler.Kind() {
	case Ignored:
		log.Debug("trigger ignored")
		return nil
	case Internal:
		return handler.Execute(ctx, NewTransition(source, source, trigger, args...))
	}

	destination, _ := handler.ResolveDestination(source, args)
	return sm.executeTransition(ctx, log, NewTransition(source, destination, trigger, args...), representation)
}

// executeTransition runs the exit cascade, commits the destination, notifies
// and runs the entry cascade. Nothing is rolled back if an action fails.
func (sm *StateMachine[TState, TTrigger]) executeTransition(
	ctx context.Context,
	log logrus.FieldLogger,
	transition Transition[TState, TTrigger],
	sourceRepresentation *StateRepresentation[TState, TTrigger],
) error {
	if err := sourceRepresentation.Exit(ctx, transition); err != nil {
		return err
	}

	sm.cell.SetState(transition.Destination)
	log.WithField("destination", transition.Destination).Debug("transition committed")

	if sm.allStatesOnEntry != nil {
		sm.allStatesOnEntry(transition)
	}

	sm.onTransitionedEvent.Invoke(transition)

	return sm.getRepresentation(transition.Destination).Enter(ctx, transition)
}

// handleUnhandledTrigger handles a trigger that has no valid handler.
func (sm *StateMachine[TState, TTrigger]) handleUnhandledTrigger(
	log logrus.FieldLogger,
	state TState,
	trigger TTrigger,
	result *TriggerBehaviourResult[TState, TTrigger],
) error {
	if sm.unhandledTriggerAction != nil {
		return sm.unhandledTriggerAction(state, trigger, result.UnmetGuardConditions)
	}

	reason := NoBehaviour
	if result.BehavioursFound {
		reason = GuardUnmet
	}
	log.WithField("reason", reason).Debug("trigger not handled")

	permittedTriggers := sm.getRepresentation(state).PermittedTriggers()
	permitted := make([]any, len(permittedTriggers))
	for i, t := range permittedTriggers {
		permitted[i] = t
	}

	return &InvalidTransitionError{
		Trigger:           trigger,
		State:             state,
		Reason:            reason,
		UnmetGuards:       result.UnmetGuardConditions,
		PermittedTriggers: permitted,
	}
}

// IsInState returns true if the current state is the specified state or a substate of it.
func (sm *StateMachine[TState, TTrigger]) IsInState(state TState) bool {
	return sm.getRepresentation(sm.State()).IsIncludedIn(state)
}

// IsInTerminalState returns true if the current state, or one of its superstates, is terminal.
func (sm *StateMachine[TState, TTrigger]) IsInTerminalState() bool {
	return sm.getRepresentation(sm.State()).IsTerminal()
}

// CanFire returns true if firing trigger from the current state would not fail.
// A terminal state accepts every trigger.
func (sm *StateMachine[TState, TTrigger]) CanFire(trigger TTrigger) bool {
	representation := sm.getRepresentation(sm.State())
	if representation.IsTerminal() {
		return true
	}
	result, err := representation.TryFindHandler(trigger)
	if err != nil {
		return false
	}
	if result.Handler != nil {
		return true
	}
	_, ok := sm.globalTriggers[trigger]
	return ok
}

// PermittedTriggers returns the triggers whose guards are met in the current
// state and its superstates. It is empty in a terminal state.
func (sm *StateMachine[TState, TTrigger]) PermittedTriggers() []TTrigger {
	representation := sm.getRepresentation(sm.State())
	if representation.IsTerminal() {
		return []TTrigger{}
	}
	return representation.PermittedTriggers()
}

// getRepresentation gets or creates the representation for a state.
func (sm *StateMachine[TState, TTrigger]) getRepresentation(state TState) *StateRepresentation[TState, TTrigger] {
	representation, exists := sm.stateRepresentations[state]
	if !exists {
		representation = NewStateRepresentation[TState, TTrigger](state)
		sm.stateRepresentations[state] = representation
	}
	return representation
}

// String returns the current state and the triggers permitted from it.
func (sm *StateMachine[TState, TTrigger]) String() string {
	triggers := sm.PermittedTriggers()
	names := make([]string, len(triggers))
	for i, t := range triggers {
		names[i] = fmt.Sprintf("%v", t)
	}
	return fmt.Sprintf("StateMachine { State = %v, PermittedTriggers = { %s } }", sm.State(), strings.Join(names, ", "))
}
