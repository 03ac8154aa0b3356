package hfsm

import (
	"context"
	"errors"
	"testing"
)

type phase string
type signal string

const (
	idle    phase = "idle"
	running phase = "running"
	paused  phase = "paused"
	done    phase = "done"

	start signal = "start"
	pause signal = "pause"
	stop  signal = "stop"
)

func guardOf(met bool, description string) TransitionGuard {
	return NewTransitionGuard(func() bool { return met }, description)
}

func TestStateRepresentation_TryFindHandler_Local(t *testing.T) {
	rep := NewStateRepresentation[phase, signal](idle)
	rep.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(start, running, EmptyTransitionGuard))

	result, err := rep.TryFindHandler(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Handler == nil || !result.BehavioursFound {
		t.Fatalf("expected a handler, got %+v", result)
	}
	if dst, ok := result.Handler.ResolveDestination(idle, nil); !ok || dst != running {
		t.Errorf("expected running, got %v", dst)
	}
}

func TestStateRepresentation_TryFindHandler_NoBehaviour(t *testing.T) {
	rep := NewStateRepresentation[phase, signal](idle)

	result, err := rep.TryFindHandler(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Handler != nil || result.BehavioursFound {
		t.Errorf("expected nothing found, got %+v", result)
	}
}

func TestStateRepresentation_TryFindHandler_FallsThroughToSuperstate(t *testing.T) {
	super := NewStateRepresentation[phase, signal](running)
	super.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(stop, done, EmptyTransitionGuard))
	sub := NewStateRepresentation[phase, signal](paused)
	sub.SetSuperstate(super)
	super.AddSubstate(sub)
	sub.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(stop, idle, guardOf(false, "never")))

	result, err := sub.TryFindHandler(stop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Handler == nil {
		t.Fatal("expected superstate handler")
	}
	if dst, _ := result.Handler.ResolveDestination(paused, nil); dst != done {
		t.Errorf("expected done, got %v", dst)
	}
	if len(result.UnmetGuardConditions) != 1 || result.UnmetGuardConditions[0] != "never" {
		t.Errorf("expected unmet guard 'never', got %v", result.UnmetGuardConditions)
	}
}

func TestStateRepresentation_TryFindHandler_Ambiguous(t *testing.T) {
	rep := NewStateRepresentation[phase, signal](idle)
	rep.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(start, running, guardOf(true, "first")))
	rep.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(start, paused, guardOf(true, "second")))

	_, err := rep.TryFindHandler(start)

	var ambiguous *AmbiguousGuardsError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousGuardsError, got %v", err)
	}
	if ambiguous.State != idle || ambiguous.Trigger != start {
		t.Errorf("unexpected error fields %+v", ambiguous)
	}
	if len(ambiguous.Guards) != 2 || ambiguous.Guards[0] != "first" || ambiguous.Guards[1] != "second" {
		t.Errorf("expected [first second], got %v", ambiguous.Guards)
	}
}

func TestStateRepresentation_IsTerminal_Inherited(t *testing.T) {
	super := NewStateRepresentation[phase, signal](done)
	sub := NewStateRepresentation[phase, signal](paused)
	sub.SetSuperstate(super)

	if sub.IsTerminal() {
		t.Error("expected non-terminal before marking")
	}
	super.MarkTerminal()
	if !sub.IsTerminal() {
		t.Error("expected substate to inherit terminal flag")
	}
}

func TestStateRepresentation_IncludesAndIsIncludedIn(t *testing.T) {
	root := NewStateRepresentation[phase, signal](running)
	mid := NewStateRepresentation[phase, signal](paused)
	leaf := NewStateRepresentation[phase, signal](idle)
	mid.SetSuperstate(root)
	root.AddSubstate(mid)
	leaf.SetSuperstate(mid)
	mid.AddSubstate(leaf)

	if !root.Includes(idle) || !root.Includes(running) {
		t.Error("expected root to include itself and its nested substate")
	}
	if leaf.Includes(running) {
		t.Error("expected leaf not to include its superstate")
	}
	if !leaf.IsIncludedIn(running) || !leaf.IsIncludedIn(idle) {
		t.Error("expected leaf to be included in its ancestors and itself")
	}
	if root.IsIncludedIn(paused) {
		t.Error("expected root not to be included in its substate")
	}
}

func TestStateRepresentation_PermittedTriggers_Ordered(t *testing.T) {
	super := NewStateRepresentation[phase, signal](running)
	super.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(stop, done, EmptyTransitionGuard))
	super.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(start, idle, EmptyTransitionGuard))
	sub := NewStateRepresentation[phase, signal](paused)
	sub.SetSuperstate(super)
	sub.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(start, running, EmptyTransitionGuard))
	sub.AddTriggerBehaviour(NewTransitioningTriggerBehaviour(pause, idle, guardOf(false, "")))

	got := sub.PermittedTriggers()
	want := []signal{start, stop}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStateRepresentation_ActionErrorsAreWrapped(t *testing.T) {
	errBoom := errors.New("boom")
	rep := NewStateRepresentation[phase, signal](idle)
	rep.AddEntryAction(NewActionBehaviour(func(context.Context, Transition[phase, signal]) error {
		return errBoom
	}, InvocationInfo{}))

	err := rep.ExecuteEntryActions(context.Background(), NewTransition(done, idle, start))
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err.Error() != "entry action of state 'idle': boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestInvocationInfo_Description(t *testing.T) {
	tests := []struct {
		name string
		info InvocationInfo
		want string
	}{
		{"user description", InvocationInfo{MethodName: "hfsm.isReady", description: "ready"}, "ready"},
		{"named function", InvocationInfo{MethodName: "hfsm.isReady"}, "isReady"},
		{"closure", InvocationInfo{MethodName: "hfsm.TestX.func1"}, DefaultFunctionDescription},
		{"unknown", InvocationInfo{}, NullString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Description(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGetFunctionName_Nil(t *testing.T) {
	var fn GuardFunc
	if name := getFunctionName(fn); name != "" {
		t.Errorf("expected empty name for nil func, got %q", name)
	}
	if name := getFunctionName(nil); name != "" {
		t.Errorf("expected empty name for nil, got %q", name)
	}
}

func TestTransition_ParametersNeverNil(t *testing.T) {
	tr := NewTransition(idle, running, start)
	if tr.Parameters == nil {
		t.Error("expected empty, non-nil parameters")
	}
	if tr.Param(0) != nil {
		t.Errorf("expected nil for a missing parameter, got %v", tr.Param(0))
	}
	if tr.IsReentry() {
		t.Error("expected idle -> running not to be a reentry")
	}
}
