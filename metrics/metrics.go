// Package metrics exports Prometheus metrics for hfsm state machines.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/atlekbai/hfsm"
)

// Fire results used as the "result" label of hfsm_fires_total.
const (
	ResultOK                = "ok"
	ResultUnhandled         = "unhandled"
	ResultAmbiguous         = "ambiguous"
	ResultParameterMismatch = "parameter_mismatch"
	ResultError             = "error"
)

// Collector holds the metric vectors shared by every instrumented machine.
type Collector struct {
	// transitions counts committed transitions. Labeled by machine, source,
	// destination and trigger.
	transitions *prometheus.CounterVec

	// fires counts fires by outcome.
	fires *prometheus.CounterVec

	// duration tracks how long a fire took, actions included.
	duration *prometheus.HistogramVec

	mu sync.Mutex
	// machines maps each instrumented *hfsm.StateMachine to its wrapper.
	machines map[any]any
}

// NewCollector creates the metric vectors and registers them with reg. A nil
// reg creates unregistered vectors.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfsm_transitions_total",
				Help: "A count of committed state transitions.",
			},
			[]string{"machine", "source", "destination", "trigger"},
		),
		fires: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfsm_fires_total",
				Help: "A count of fired triggers by result.",
			},
			[]string{"machine", "trigger", "result"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hfsm_fire_duration_seconds",
				Help:    "Time spent firing a trigger, including actions.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"machine", "trigger", "result"},
		),
		machines: make(map[any]any),
	}
}

// Machine is a state machine whose fires are measured.
type Machine[TState, TTrigger comparable] struct {
	*hfsm.StateMachine[TState, TTrigger]

	fires    *prometheus.CounterVec
	duration prometheus.ObserverVec
}

// Instrument counts every transition sm commits under the given machine name
// and returns a wrapper whose Fire methods also record results and durations.
// Instrumenting a machine again with the same collector returns the first
// wrapper, keeping its original name; observers are registered only once.
func Instrument[TState, TTrigger comparable](
	c *Collector,
	machine string,
	sm *hfsm.StateMachine[TState, TTrigger],
) *Machine[TState, TTrigger] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.machines[sm].(*Machine[TState, TTrigger]); ok {
		return m
	}

	transitions := c.transitions.MustCurryWith(prometheus.Labels{"machine": machine})
	sm.OnTransitioned(func(t hfsm.Transition[TState, TTrigger]) {
		transitions.WithLabelValues(label(t.Source), label(t.Destination), label(t.Trigger)).Inc()
	})

	m := &Machine[TState, TTrigger]{
		StateMachine: sm,
		fires:        c.fires.MustCurryWith(prometheus.Labels{"machine": machine}),
		duration:     c.duration.MustCurryWith(prometheus.Labels{"machine": machine}),
	}
	c.machines[sm] = m
	return m
}

// Fire fires trigger and records its result.
func (m *Machine[TState, TTrigger]) Fire(trigger TTrigger, args ...any) error {
	return m.FireCtx(context.Background(), trigger, args...)
}

// FireCtx fires trigger with ctx and records its result.
func (m *Machine[TState, TTrigger]) FireCtx(ctx context.Context, trigger TTrigger, args ...any) error {
	start := time.Now()
	err := m.StateMachine.FireCtx(ctx, trigger, args...)

	result := Result(err)
	m.fires.WithLabelValues(label(trigger), result).Inc()
	m.duration.WithLabelValues(label(trigger), result).Observe(time.Since(start).Seconds())
	return err
}

// FireWithParameters fires a trigger registered with SetTriggerParameters and
// records its result. The wrapper can be passed to hfsm.Fire1, Fire2 and Fire3.
func (m *Machine[TState, TTrigger]) FireWithParameters(trigger *hfsm.TriggerWithParameters[TTrigger], args ...any) error {
	if trigger == nil {
		return m.StateMachine.FireWithParameters(nil)
	}
	return m.FireCtx(context.Background(), trigger.Trigger(), args...)
}

// Result classifies the error returned by a fire.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, hfsm.ErrUnhandledTrigger):
		return ResultUnhandled
	case errors.Is(err, hfsm.ErrAmbiguousGuards):
		return ResultAmbiguous
	case errors.Is(err, hfsm.ErrParameterMismatch):
		return ResultParameterMismatch
	default:
		return ResultError
	}
}

func label(v any) string {
	return fmt.Sprintf("%v", v)
}
