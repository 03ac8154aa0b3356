package hfsm

// GuardFunc is a side-effect-free predicate that gates a trigger behaviour.
type GuardFunc func() bool

// GuardCondition represents a single guard condition with its method description.
type GuardCondition struct {
	guard GuardFunc

	// methodDescription contains information about the guard method.
	methodDescription InvocationInfo
}

// NewGuardCondition creates a new guard condition.
func NewGuardCondition(guard GuardFunc, description InvocationInfo) GuardCondition {
	return GuardCondition{
		guard:             guard,
		methodDescription: description,
	}
}

// Description returns the description of the guard method.
func (g GuardCondition) Description() string {
	return g.methodDescription.Description()
}

// MethodDescription returns the full method description.
func (g GuardCondition) MethodDescription() InvocationInfo {
	return g.methodDescription
}

// IsMet returns true if the guard condition is met.
func (g GuardCondition) IsMet() bool {
	if g.guard == nil {
		return true
	}
	return g.guard()
}

// TransitionGuard contains a list of guard conditions that must all be met for a transition.
type TransitionGuard struct {
	Conditions []GuardCondition
}

// EmptyTransitionGuard is a transition guard with no conditions (always passes).
var EmptyTransitionGuard = TransitionGuard{}

// NewTransitionGuard creates a new transition guard from a guard function.
// An empty description falls back to the guard's function name.
func NewTransitionGuard(guard GuardFunc, description string) TransitionGuard {
	if guard == nil {
		return EmptyTransitionGuard
	}
	return TransitionGuard{
		Conditions: []GuardCondition{
			NewGuardCondition(guard, CreateInvocationInfo(guard, description)),
		},
	}
}

// GuardConditionsMet returns true if all guard conditions are met.
func (tg TransitionGuard) GuardConditionsMet() bool {
	for _, c := range tg.Conditions {
		if !c.IsMet() {
			return false
		}
	}
	return true
}

// UnmetGuardConditions returns the descriptions of all guard conditions that are not met.
func (tg TransitionGuard) UnmetGuardConditions() []string {
	var unmet []string
	for _, c := range tg.Conditions {
		if !c.IsMet() {
			unmet = append(unmet, c.Description())
		}
	}
	return unmet
}

// Descriptions returns the descriptions of every condition, met or not.
func (tg TransitionGuard) Descriptions() []string {
	result := make([]string, len(tg.Conditions))
	for i, c := range tg.Conditions {
		result[i] = c.Description()
	}
	return result
}

// IsEmpty returns true if the transition guard has no conditions.
func (tg TransitionGuard) IsEmpty() bool {
	return len(tg.Conditions) == 0
}
