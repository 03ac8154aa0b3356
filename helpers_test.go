package hfsm_test

import (
	"context"

	"github.com/atlekbai/hfsm"
)

// Test state and trigger types
type State int
type Trigger int

const (
	StateA State = iota
	StateB
	StateC
	StateD
)

const (
	TriggerX Trigger = iota
	TriggerY
	TriggerZ
)

func (s State) String() string {
	switch s {
	case StateA:
		return "StateA"
	case StateB:
		return "StateB"
	case StateC:
		return "StateC"
	case StateD:
		return "StateD"
	default:
		return "Unknown"
	}
}

func (t Trigger) String() string {
	switch t {
	case TriggerX:
		return "TriggerX"
	case TriggerY:
		return "TriggerY"
	case TriggerZ:
		return "TriggerZ"
	default:
		return "Unknown"
	}
}

// recorder collects action names in the order they ran.
type recorder struct {
	calls []string
}

func (r *recorder) action(name string) hfsm.ActionFunc[State, Trigger] {
	return func(ctx context.Context, t hfsm.Transition[State, Trigger]) error {
		r.calls = append(r.calls, name)
		return nil
	}
}

func alwaysFalse() bool { return false }
