package sim

import (
	"context"
	"fmt"

	"github.com/Tex6298/levimage-sim/internal/control"
	"github.com/Tex6298/levimage-sim/internal/levi"
	"github.com/Tex6298/levimage-sim/internal/plant"
)

// Simulator ties the supervisor, pulse scheduler and rotor integrator into
// a fixed-rate tick loop. Each Tick is one atomic read-decide-integrate-emit
// sequence; the simulator performs no sleeping, timing or I/O of its own.
//
// Not safe for concurrent use: exactly one goroutine may call Tick,
// Configure, SubmitCommand and Reset.
type Simulator struct {
	params levi.Params
	rotor  *plant.Rotor
	sup    *control.Supervisor

	pending       levi.Command
	interlockOpen bool
	now           float64

	metrics   []levi.Metric
	observers []levi.Observer
}

// New returns a simulator for the given parameter set, at rest in IDLE.
func New(p levi.Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		params: p,
		rotor:  plant.NewRotor(p),
		sup:    control.NewSupervisor(),
	}, nil
}

// Configure atomically replaces the parameter set. It is safe to call
// between ticks, never concurrently with one. Physical and controller
// state are preserved, so parameters can be edited mid-run.
func (s *Simulator) Configure(p levi.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	return nil
}

// Params returns the active parameter set.
func (s *Simulator) Params() levi.Params { return s.params }

// Mode returns the supervisor's current mode.
func (s *Simulator) Mode() levi.Mode { return s.sup.Mode() }

// FaultLatched reports whether the fault latch is set.
func (s *Simulator) FaultLatched() bool { return s.sup.FaultLatched() }

// Time returns the simulated time.
func (s *Simulator) Time() float64 { return s.now }

// SubmitCommand records an operator command to be applied on the next
// tick. Commands are latest-wins: a second submission before the next
// tick replaces the first.
func (s *Simulator) SubmitCommand(c levi.Command) { s.pending = c }

// SetInterlockOpen sets the external interlock chain state (vacuum,
// containment). An open chain trips FAULT on the next tick.
func (s *Simulator) SetInterlockOpen(open bool) { s.interlockOpen = open }

func (s *Simulator) AddMetric(m levi.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o levi.Observer) { s.observers = append(s.observers, o) }

// Tick advances the simulation by one Dt and returns the telemetry
// sample for the new state. It never fails under a valid configuration.
func (s *Simulator) Tick() levi.Telemetry {
	p := s.params

	cmd := s.pending
	s.pending = levi.CommandNone

	out := s.sup.Tick(p, control.Inputs{
		Command:       cmd,
		RPM:           levi.RPM(s.rotor.Omega),
		Temperature:   s.rotor.Temperature,
		InterlockOpen: s.interlockOpen,
	})

	// Stop is a full physical reset unless the latch kept us in FAULT.
	if cmd == levi.CommandStop && s.sup.Mode() != levi.ModeFault {
		s.rotor.Reset(p)
	}

	duty := 0.0
	if out.Current != 0 {
		duty = plant.Duty(s.rotor.Theta, s.rotor.Omega, plant.BaseDuty(p), out.Bootstrap, p)
	}

	res := s.rotor.Step(p, out.Current, duty)
	s.now += p.Dt

	sample := levi.Telemetry{
		Time:        s.now,
		RPM:         levi.RPM(s.rotor.Omega),
		Theta:       s.rotor.Theta,
		Omega:       s.rotor.Omega,
		Temperature: s.rotor.Temperature,
		Losses:      res.Losses,
		JoulePower:  res.JoulePower,
		Current:     res.Current,
		Duty:        res.Duty,
		Mode:        s.sup.Mode(),
	}

	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, o := range s.observers {
		o.OnSample(sample)
	}

	return sample
}

// Reset reinitializes physical and controller state for a fresh run,
// clearing the fault latch and simulated time. Parameters are kept.
func (s *Simulator) Reset() {
	s.rotor.Reset(s.params)
	s.sup.Reset()
	s.pending = levi.CommandNone
	s.now = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Result holds the output of a batch Run.
type Result struct {
	Samples []levi.Telemetry
	Metrics map[string]float64
	Ticks   int
}

// Run executes ticks for the given duration, collecting every sample and
// the final metric values. The context is checked each tick; on
// cancellation the partial result is returned with the context error.
func (s *Simulator) Run(ctx context.Context, duration float64) (*Result, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %g", duration)
	}

	steps := int(duration / s.params.Dt)
	result := &Result{
		Samples: make([]levi.Telemetry, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		result.Samples = append(result.Samples, s.Tick())
		result.Ticks++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
