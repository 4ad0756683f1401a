package engine

import (
	"context"
	"sync"
)

// Mock implements Engine for testing. It produces a deterministic
// trajectory with the configured species, and records every request so
// tests can verify the translation layer.
type Mock struct {
	mu sync.Mutex

	species []string
	err     error

	// Calls records every Simulate request in order.
	Calls []*Request
}

// NewMock creates a Mock engine with no species configured.
func NewMock() *Mock {
	return &Mock{}
}

// WithSpecies configures the species names of the produced trajectories.
func (m *Mock) WithSpecies(ids ...string) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.species = ids
	return m
}

// WithError makes Simulate fail with err.
func (m *Mock) WithError(err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Simulate implements Engine. Species i takes the value (i+1)*100 + t at
// time t, so tests can predict any sample exactly.
func (m *Mock) Simulate(ctx context.Context, req *Request) (*Trajectory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.Calls = append(m.Calls, req)
	if m.err != nil {
		return nil, m.err
	}

	n := req.Steps + 1
	tr := &Trajectory{
		Times:   make([]float64, n),
		Species: map[string][]float64{},
	}
	for j := 0; j < n; j++ {
		tr.Times[j] = req.Duration * float64(j) / float64(req.Steps)
	}
	for i, id := range m.species {
		series := make([]float64, n)
		for j := 0; j < n; j++ {
			series[j] = float64(i+1)*100 + tr.Times[j]
		}
		tr.Species[id] = series
	}
	return tr, nil
}

// MockValue returns the value the Mock produces for the species at index
// i (zero based) at time t. Exported for use by tests in other packages.
func MockValue(i int, t float64) float64 {
	return float64(i+1)*100 + t
}
