package hfsm

import (
	"fmt"
	"reflect"
)

// TriggerWithParameters associates configured parameters with an underlying trigger value.
type TriggerWithParameters[TTrigger comparable] struct {
	underlyingTrigger TTrigger
	argumentTypes     []reflect.Type
}

// NewTriggerWithParameters creates a new configured trigger.
func NewTriggerWithParameters[TTrigger comparable](underlyingTrigger TTrigger, argumentTypes ...reflect.Type) *TriggerWithParameters[TTrigger] {
	return &TriggerWithParameters[TTrigger]{
		underlyingTrigger: underlyingTrigger,
		argumentTypes:     argumentTypes,
	}
}

// ArgumentTypes returns the argument types expected by this trigger.
func (t *TriggerWithParameters[TTrigger]) ArgumentTypes() []reflect.Type {
	return t.argumentTypes
}

// Trigger returns the underlying trigger value.
func (t *TriggerWithParameters[TTrigger]) Trigger() TTrigger {
	return t.underlyingTrigger
}

// ValidateParameters ensures that the supplied arguments are compatible with those configured for this trigger.
func (t *TriggerWithParameters[TTrigger]) ValidateParameters(args []any) error {
	if len(args) != len(t.argumentTypes) {
		return &ParameterConversionError{
			Trigger: t.underlyingTrigger,
			Message: fmt.Sprintf("expected %d parameters but got %d", len(t.argumentTypes), len(args)),
		}
	}

	for i, expectedType := range t.argumentTypes {
		arg := args[i]
		if arg == nil {
			if !nilable(expectedType) {
				return &ParameterConversionError{
					Trigger: t.underlyingTrigger,
					Message: fmt.Sprintf("argument at position %d is nil but expected type %v", i, expectedType),
				}
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if !argType.AssignableTo(expectedType) {
			return &ParameterConversionError{
				Trigger: t.underlyingTrigger,
				Message: fmt.Sprintf("argument at position %d is of type %v but expected type %v", i, argType, expectedType),
			}
		}
	}

	return nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// typeOf returns the reflect.Type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TriggerWithParameters1 is a configured trigger with one required argument.
type TriggerWithParameters1[TTrigger comparable, TArg0 any] struct {
	*TriggerWithParameters[TTrigger]
}

// NewTriggerWithParameters1 creates a new configured trigger with one argument.
func NewTriggerWithParameters1[TTrigger comparable, TArg0 any](underlyingTrigger TTrigger) *TriggerWithParameters1[TTrigger, TArg0] {
	return &TriggerWithParameters1[TTrigger, TArg0]{
		TriggerWithParameters: NewTriggerWithParameters(underlyingTrigger, typeOf[TArg0]()),
	}
}

// TriggerWithParameters2 is a configured trigger with two required arguments.
type TriggerWithParameters2[TTrigger comparable, TArg0, TArg1 any] struct {
	*TriggerWithParameters[TTrigger]
}

// NewTriggerWithParameters2 creates a new configured trigger with two arguments.
func NewTriggerWithParameters2[TTrigger comparable, TArg0, TArg1 any](underlyingTrigger TTrigger) *TriggerWithParameters2[TTrigger, TArg0, TArg1] {
	return &TriggerWithParameters2[TTrigger, TArg0, TArg1]{
		TriggerWithParameters: NewTriggerWithParameters(underlyingTrigger, typeOf[TArg0](), typeOf[TArg1]()),
	}
}

// TriggerWithParameters3 is a configured trigger with three required arguments.
type TriggerWithParameters3[TTrigger comparable, TArg0, TArg1, TArg2 any] struct {
	*TriggerWithParameters[TTrigger]
}

// NewTriggerWithParameters3 creates a new configured trigger with three arguments.
func NewTriggerWithParameters3[TTrigger comparable, TArg0, TArg1, TArg2 any](underlyingTrigger TTrigger) *TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2] {
	return &TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2]{
		TriggerWithParameters: NewTriggerWithParameters(underlyingTrigger, typeOf[TArg0](), typeOf[TArg1](), typeOf[TArg2]()),
	}
}

// SetTriggerParameters1 registers a one-argument signature for trigger on sm.
func SetTriggerParameters1[TArg0 any, TState, TTrigger comparable](
	sm *StateMachine[TState, TTrigger],
	trigger TTrigger,
) (*TriggerWithParameters1[TTrigger, TArg0], error) {
	twp := NewTriggerWithParameters1[TTrigger, TArg0](trigger)
	if err := sm.saveTriggerConfiguration(twp.TriggerWithParameters); err != nil {
		return nil, err
	}
	return twp, nil
}

// SetTriggerParameters2 registers a two-argument signature for trigger on sm.
func SetTriggerParameters2[TArg0, TArg1 any, TState, TTrigger comparable](
	sm *StateMachine[TState, TTrigger],
	trigger TTrigger,
) (*TriggerWithParameters2[TTrigger, TArg0, TArg1], error) {
	twp := NewTriggerWithParameters2[TTrigger, TArg0, TArg1](trigger)
	if err := sm.saveTriggerConfiguration(twp.TriggerWithParameters); err != nil {
		return nil, err
	}
	return twp, nil
}

// SetTriggerParameters3 registers a three-argument signature for trigger on sm.
func SetTriggerParameters3[TArg0, TArg1, TArg2 any, TState, TTrigger comparable](
	sm *StateMachine[TState, TTrigger],
	trigger TTrigger,
) (*TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2], error) {
	twp := NewTriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2](trigger)
	if err := sm.saveTriggerConfiguration(twp.TriggerWithParameters); err != nil {
		return nil, err
	}
	return twp, nil
}

// ParameterFirer fires triggers registered with SetTriggerParameters.
// *StateMachine implements it, as do wrappers around one.
type ParameterFirer[TTrigger comparable] interface {
	FireWithParameters(trigger *TriggerWithParameters[TTrigger], args ...any) error
}

// Fire1 fires a one-argument trigger.
func Fire1[TArg0 any, TTrigger comparable](
	sm ParameterFirer[TTrigger],
	trigger *TriggerWithParameters1[TTrigger, TArg0],
	arg0 TArg0,
) error {
	if trigger == nil {
		return nullArgument("trigger")
	}
	return sm.FireWithParameters(trigger.TriggerWithParameters, arg0)
}

// Fire2 fires a two-argument trigger.
func Fire2[TArg0, TArg1 any, TTrigger comparable](
	sm ParameterFirer[TTrigger],
	trigger *TriggerWithParameters2[TTrigger, TArg0, TArg1],
	arg0 TArg0,
	arg1 TArg1,
) error {
	if trigger == nil {
		return nullArgument("trigger")
	}
	return sm.FireWithParameters(trigger.TriggerWithParameters, arg0, arg1)
}

// Fire3 fires a three-argument trigger.
func Fire3[TArg0, TArg1, TArg2 any, TTrigger comparable](
	sm ParameterFirer[TTrigger],
	trigger *TriggerWithParameters3[TTrigger, TArg0, TArg1, TArg2],
	arg0 TArg0,
	arg1 TArg1,
	arg2 TArg2,
) error {
	if trigger == nil {
		return nullArgument("trigger")
	}
	return sm.FireWithParameters(trigger.TriggerWithParameters, arg0, arg1, arg2)
}
