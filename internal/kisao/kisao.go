// Package kisao maps KiSAO ontology ids onto the simulation methods and
// settings the engine boundary understands. The registry is the single
// source of truth for which algorithms and algorithm parameters the adapter
// supports; everything outside it is rejected during validation rather than
// passed through to the engine.
package kisao

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/reprobio/omexrun/internal/sedml"
)

// ParameterKind is the value type of an algorithm parameter.
type ParameterKind string

const (
	KindInteger ParameterKind = "integer"
	KindFloat   ParameterKind = "float"
)

// Parameter describes one tunable setting of an algorithm.
type Parameter struct {
	// KisaoID is the canonical ontology id, e.g. KISAO_0000488.
	KisaoID string

	// Name is the engine-side setting name.
	Name string

	Kind ParameterKind
}

// Parse converts a raw SED-ML parameter value into the parameter's typed
// form (int64 or float64).
func (p Parameter) Parse(value string) (any, error) {
	switch p.Kind {
	case KindInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid integer for parameter %s (%s)", value, p.Name, p.KisaoID)
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid float for parameter %s (%s)", value, p.Name, p.KisaoID)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("parameter %s has unknown kind %q", p.KisaoID, p.Kind)
	}
}

// Algorithm is one registry entry: a supported simulation algorithm and the
// parameters it accepts.
type Algorithm struct {
	// KisaoID is the canonical ontology id, e.g. KISAO_0000029.
	KisaoID string

	// Name is a human-readable algorithm name.
	Name string

	// Method is the engine-side method identifier.
	Method string

	Parameters []Parameter
}

// Parameter returns the algorithm's parameter with the given KiSAO id.
func (a *Algorithm) Parameter(kisaoID string) (Parameter, bool) {
	for _, p := range a.Parameters {
		if p.KisaoID == kisaoID {
			return p, true
		}
	}
	return Parameter{}, false
}

// ParameterIDs returns the sorted KiSAO ids of the algorithm's parameters.
func (a *Algorithm) ParameterIDs() []string {
	ids := make([]string, len(a.Parameters))
	for i, p := range a.Parameters {
		ids[i] = p.KisaoID
	}
	sort.Strings(ids)
	return ids
}

// ResolveChanges translates SED-ML parameter changes into engine settings
// keyed by engine name. Unsupported parameter ids and malformed values are
// reported via the package's typed errors.
func (a *Algorithm) ResolveChanges(changes []sedml.AlgorithmParameterChange) (map[string]any, error) {
	settings := map[string]any{}
	for _, c := range changes {
		p, ok := a.Parameter(c.KisaoID)
		if !ok {
			return nil, &UnsupportedParameterError{Algorithm: a, KisaoID: c.KisaoID}
		}
		v, err := p.Parse(c.NewValue)
		if err != nil {
			return nil, &InvalidParameterValueError{Parameter: p, Value: c.NewValue, Reason: err}
		}
		settings[p.Name] = v
	}
	return settings, nil
}

// Shared parameters.
var (
	paramSeed    = Parameter{KisaoID: "KISAO_0000488", Name: "seed", Kind: KindInteger}
	paramEpsilon = Parameter{KisaoID: "KISAO_0000228", Name: "epsilon", Kind: KindFloat}
	paramRelTol  = Parameter{KisaoID: "KISAO_0000209", Name: "rtol", Kind: KindFloat}
	paramAbsTol  = Parameter{KisaoID: "KISAO_0000211", Name: "atol", Kind: KindFloat}
)

var registry = map[string]*Algorithm{
	"KISAO_0000029": {
		KisaoID:    "KISAO_0000029",
		Name:       "Gillespie direct method (SSA)",
		Method:     "ssa",
		Parameters: []Parameter{paramSeed},
	},
	"KISAO_0000039": {
		KisaoID:    "KISAO_0000039",
		Name:       "tau-leaping method",
		Method:     "tau-leaping",
		Parameters: []Parameter{paramSeed, paramEpsilon},
	},
	"KISAO_0000561": {
		KisaoID:    "KISAO_0000561",
		Name:       "hybrid tau-leaping / ODE method",
		Method:     "tau-hybrid",
		Parameters: []Parameter{paramSeed, paramEpsilon, paramRelTol, paramAbsTol},
	},
	"KISAO_0000088": {
		KisaoID:    "KISAO_0000088",
		Name:       "LSODA",
		Method:     "ode",
		Parameters: []Parameter{paramRelTol, paramAbsTol},
	},
}

// Lookup returns the registry entry for the given canonical KiSAO id.
func Lookup(kisaoID string) (*Algorithm, error) {
	if alg, ok := registry[kisaoID]; ok {
		return alg, nil
	}
	return nil, &UnsupportedAlgorithmError{KisaoID: kisaoID}
}

// Algorithms returns all registry entries sorted by KiSAO id.
func Algorithms() []*Algorithm {
	out := make([]*Algorithm, 0, len(registry))
	for _, alg := range registry {
		out = append(out, alg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KisaoID < out[j].KisaoID })
	return out
}

// AlgorithmIDs returns the sorted KiSAO ids of all supported algorithms.
func AlgorithmIDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
