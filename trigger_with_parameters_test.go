package hfsm_test

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/hfsm"
)

func TestSetTriggerParameters_DuplicateIsConflict(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)

	_, err := hfsm.SetTriggerParameters1[string](sm, TriggerX)
	require.NoError(t, err)

	_, err = hfsm.SetTriggerParameters2[string, int](sm, TriggerX)
	require.ErrorIs(t, err, hfsm.ErrConfigurationConflict)

	var opErr *hfsm.InvalidOperationError
	assert.True(t, errors.As(err, &opErr))

	_, err = sm.SetTriggerParameters(TriggerX, reflect.TypeOf(""))
	assert.ErrorIs(t, err, hfsm.ErrConfigurationConflict)
}

func TestSetTriggerParameters_NilTypeIsRejected(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)

	_, err := sm.SetTriggerParameters(TriggerX, reflect.TypeOf(0), nil)

	var argErr *hfsm.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.ErrorIs(t, err, hfsm.ErrNullArgument)
	assert.Equal(t, "argumentTypes[1]", argErr.ParamName)
}

func TestFire_ParameterMismatchRunsNothing(t *testing.T) {
	rec := &recorder{}
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExit(rec.action("exit A"))
	_, err := hfsm.SetTriggerParameters1[string](sm, TriggerX)
	require.NoError(t, err)

	tests := map[string][]any{
		"no arguments":   nil,
		"wrong type":     {42},
		"too many":       {"a", "b"},
		"nil for string": {nil},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			err := sm.Fire(TriggerX, args...)

			var convErr *hfsm.ParameterConversionError
			require.ErrorAs(t, err, &convErr)
			assert.ErrorIs(t, err, hfsm.ErrParameterMismatch)
			assert.Equal(t, TriggerX, convErr.Trigger)
		})
	}

	assert.Equal(t, StateA, sm.State())
	assert.Empty(t, rec.calls)
}

func TestFire_UnregisteredTriggerAcceptsAnyArguments(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateB)

	require.NoError(t, sm.Fire(TriggerX, 1, "two", 3.0))
	assert.Equal(t, StateB, sm.State())
}

func TestFire_NilAllowedForNilableTypes(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateB)
	_, err := sm.SetTriggerParameters(TriggerX, reflect.TypeOf(&struct{}{}), reflect.TypeOf((*io.Reader)(nil)).Elem())
	require.NoError(t, err)

	require.NoError(t, sm.Fire(TriggerX, nil, nil))
	assert.Equal(t, StateB, sm.State())
}

func TestFire_AssignableArgumentAccepted(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	sm.Configure(StateA).Permit(TriggerX, StateB)
	_, err := hfsm.SetTriggerParameters1[error](sm, TriggerX)
	require.NoError(t, err)

	require.NoError(t, sm.Fire(TriggerX, errors.New("reason")))
	assert.Equal(t, StateB, sm.State())
}

func TestOnEntryFrom1_ReceivesTypedArgument(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	assign, err := hfsm.SetTriggerParameters1[string](sm, TriggerX)
	require.NoError(t, err)

	var received []string
	sm.Configure(StateA).
		Permit(TriggerX, StateB).
		Permit(TriggerY, StateB)
	hfsm.OnEntryFrom1(sm.Configure(StateB), assign,
		func(ctx context.Context, assignee string, tr hfsm.Transition[State, Trigger]) error {
			received = append(received, assignee)
			return nil
		})

	require.NoError(t, hfsm.Fire1(sm, assign, "x"))
	assert.Equal(t, StateB, sm.State())
	assert.Equal(t, []string{"x"}, received)

	sm.SetState(StateA)
	require.NoError(t, sm.Fire(TriggerY))
	assert.Equal(t, []string{"x"}, received, "entry action is scoped to its trigger")
}

func TestOnEntryFrom2And3_ReceiveTypedArguments(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)
	two, err := hfsm.SetTriggerParameters2[string, int](sm, TriggerX)
	require.NoError(t, err)
	three, err := hfsm.SetTriggerParameters3[string, int, bool](sm, TriggerY)
	require.NoError(t, err)

	sm.Configure(StateA).Permit(TriggerX, StateB)
	sm.Configure(StateB).Permit(TriggerY, StateC)

	var gotName string
	var gotCount int
	var gotFlag bool
	hfsm.OnEntryFrom2(sm.Configure(StateB), two,
		func(ctx context.Context, name string, count int, tr hfsm.Transition[State, Trigger]) error {
			gotName, gotCount = name, count
			return nil
		})
	hfsm.OnEntryFrom3(sm.Configure(StateC), three,
		func(ctx context.Context, name string, count int, flag bool, tr hfsm.Transition[State, Trigger]) error {
			gotFlag = flag
			return nil
		})

	require.NoError(t, hfsm.Fire2(sm, two, "a", 2))
	assert.Equal(t, "a", gotName)
	assert.Equal(t, 2, gotCount)

	require.NoError(t, hfsm.Fire3(sm, three, "b", 3, true))
	assert.True(t, gotFlag)
	assert.Equal(t, StateC, sm.State())
}

func TestFireWithParameters_NilHandle(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)

	assert.ErrorIs(t, sm.FireWithParameters(nil), hfsm.ErrNullArgument)
	assert.ErrorIs(t, hfsm.Fire1[string, Trigger](sm, nil, "x"), hfsm.ErrNullArgument)
}

func TestOnEntryFrom1_NilHandlePanics(t *testing.T) {
	sm := hfsm.NewStateMachine[State, Trigger](StateA)

	assert.Panics(t, func() {
		hfsm.OnEntryFrom1[string](sm.Configure(StateB), nil,
			func(context.Context, string, hfsm.Transition[State, Trigger]) error { return nil })
	})
}
