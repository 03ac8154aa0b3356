package hfsm

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by the state machine. Use errors.Is to match them.
var (
	// ErrConfigurationConflict is returned when a trigger's parameters are configured twice.
	ErrConfigurationConflict = errors.New("configuration conflict")

	// ErrAmbiguousGuards is returned when more than one guard is satisfied for a trigger.
	ErrAmbiguousGuards = errors.New("ambiguous guards")

	// ErrUnhandledTrigger is returned when no behaviour handles a fired trigger.
	ErrUnhandledTrigger = errors.New("unhandled trigger")

	// ErrParameterMismatch is returned when firing arguments do not match the trigger's signature.
	ErrParameterMismatch = errors.New("parameter mismatch")

	// ErrNullArgument indicates a required callback or value was nil.
	ErrNullArgument = errors.New("null argument")

	// ErrInvalidArgument indicates a configuration argument that can never be valid.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidOperationError indicates an operation that is not valid given the current configuration.
type InvalidOperationError struct {
	Err     error
	Message string
}

func (e *InvalidOperationError) Error() string {
	return e.Message
}

func (e *InvalidOperationError) Unwrap() error {
	return e.Err
}

// ArgumentError indicates an invalid argument was passed.
type ArgumentError struct {
	Err       error
	ParamName string
	Message   string
}

func (e *ArgumentError) Error() string {
	if e.ParamName != "" {
		return fmt.Sprintf("%s (parameter: %s)", e.Message, e.ParamName)
	}
	return e.Message
}

func (e *ArgumentError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidArgument
	}
	return e.Err
}

// nullArgument builds the error used when a builder is handed a nil callback.
func nullArgument(param string) *ArgumentError {
	return &ArgumentError{
		Err:       ErrNullArgument,
		ParamName: param,
		Message:   "value cannot be nil",
	}
}

// AmbiguousGuardsError is returned when several behaviours for the same trigger
// have their guards satisfied at the same time.
type AmbiguousGuardsError struct {
	State   any
	Trigger any
	Guards  []string
}

func (e *AmbiguousGuardsError) Error() string {
	return fmt.Sprintf(
		"multiple permitted transitions are configured from state '%v' for trigger '%v' (%s); guards should be mutually exclusive",
		e.State, e.Trigger, strings.Join(e.Guards, ", "))
}

func (e *AmbiguousGuardsError) Unwrap() error {
	return ErrAmbiguousGuards
}

// UnhandledReason tells why a trigger could not be handled.
type UnhandledReason int

const (
	// NoBehaviour means no behaviour is configured for the trigger in the state or its superstates.
	NoBehaviour UnhandledReason = iota

	// GuardUnmet means behaviours exist for the trigger but none of their guards is satisfied.
	GuardUnmet
)

func (r UnhandledReason) String() string {
	switch r {
	case NoBehaviour:
		return "NoBehaviour"
	case GuardUnmet:
		return "GuardUnmet"
	default:
		return "Unknown"
	}
}

// InvalidTransitionError is returned when a trigger is fired from a state that
// does not have a valid transition for that trigger.
type InvalidTransitionError struct {
	Trigger           any
	State             any
	Reason            UnhandledReason
	UnmetGuards       []string
	PermittedTriggers []any
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason == GuardUnmet {
		return fmt.Sprintf(
			"trigger '%v' is valid for transition from state '%v' "+
				"but guard conditions are not met. Guard conditions: %s",
			e.Trigger, e.State, strings.Join(e.UnmetGuards, ", "))
	}

	var permitted string
	if len(e.PermittedTriggers) > 0 {
		triggers := make([]string, len(e.PermittedTriggers))
		for i, t := range e.PermittedTriggers {
			triggers[i] = fmt.Sprintf("%v", t)
		}
		permitted = fmt.Sprintf(" Permitted triggers: %s.", strings.Join(triggers, ", "))
	} else {
		permitted = " No valid leaving transitions are permitted from state."
	}

	return fmt.Sprintf(
		"no valid leaving transitions are permitted from state '%v' for trigger '%v'.%s",
		e.State, e.Trigger, permitted)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrUnhandledTrigger
}

// ParameterConversionError indicates firing arguments that do not fit a trigger's signature.
type ParameterConversionError struct {
	Trigger any
	Message string
}

func (e *ParameterConversionError) Error() string {
	return fmt.Sprintf("trigger '%v': %s", e.Trigger, e.Message)
}

func (e *ParameterConversionError) Unwrap() error {
	return ErrParameterMismatch
}
