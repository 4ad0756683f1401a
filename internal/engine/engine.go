// Package engine defines the boundary to the stochastic simulation engine.
// The adapter never implements a simulation algorithm itself; it hands a
// fully validated request to an Engine implementation and gets back a
// trajectory. The production implementation is Command, which drives an
// external engine process over a JSON stdin/stdout protocol.
package engine

import (
	"context"
	"fmt"
)

// Request is one simulation run. The engine integrates the model from time
// zero to Duration and samples Steps+1 points, uniformly spaced, including
// both endpoints.
type Request struct {
	// ModelPath is the path of the model file on disk.
	ModelPath string `json:"model"`

	// ModelLanguage identifies the model format ("sbml").
	ModelLanguage string `json:"language"`

	// Method is the simulation method identifier from the algorithm
	// registry ("ssa", "tau-leaping", "tau-hybrid", "ode").
	Method string `json:"method"`

	// Settings are engine-side method settings (seed, tolerances, ...).
	Settings map[string]any `json:"settings,omitempty"`

	// Duration is the end time of the integration.
	Duration float64 `json:"duration"`

	// Steps is the number of uniform sampling intervals over [0, Duration].
	Steps int `json:"steps"`
}

// Trajectory is the engine's output: a shared time axis and one series per
// model species. All series have the same length as Times.
type Trajectory struct {
	Times   []float64            `json:"times"`
	Species map[string][]float64 `json:"species"`
}

// Validate checks that the trajectory is internally consistent with the
// request that produced it.
func (tr *Trajectory) Validate(req *Request) error {
	want := req.Steps + 1
	if len(tr.Times) != want {
		return fmt.Errorf("engine returned %d time points, expected %d", len(tr.Times), want)
	}
	for name, series := range tr.Species {
		if len(series) != want {
			return fmt.Errorf("engine returned %d points for species %s, expected %d", len(series), name, want)
		}
	}
	return nil
}

// Engine runs simulations. Implementations must be safe for sequential
// reuse; concurrent use is not required.
type Engine interface {
	Simulate(ctx context.Context, req *Request) (*Trajectory, error)
}
