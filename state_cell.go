package hfsm

// StateCell holds the current state on behalf of a state machine. The embedder
// owns it; the machine reads it at the start of every fire and writes it when a
// transition commits.
type StateCell[TState comparable] interface {
	State() TState
	SetState(TState)
}

// StateFuncs adapts an accessor/mutator pair to a StateCell, for state that
// lives inside a larger object.
type StateFuncs[TState comparable] struct {
	Get func() TState
	Set func(TState)
}

// State calls Get.
func (f StateFuncs[TState]) State() TState {
	return f.Get()
}

// SetState calls Set.
func (f StateFuncs[TState]) SetState(s TState) {
	f.Set(s)
}

// valueCell is the cell used when the machine owns its state.
type valueCell[TState comparable] struct {
	state TState
}

func (c *valueCell[TState]) State() TState {
	return c.state
}

func (c *valueCell[TState]) SetState(s TState) {
	c.state = s
}
