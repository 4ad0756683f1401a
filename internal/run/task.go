// Package run is the adapter's core: it validates declarative simulation
// specifications, translates them into engine calls, and maps engine
// trajectories back onto the requested output variables and reports.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/reprobio/omexrun/internal/engine"
	"github.com/reprobio/omexrun/internal/kisao"
	"github.com/reprobio/omexrun/internal/logging"
	"github.com/reprobio/omexrun/internal/sbml"
	"github.com/reprobio/omexrun/internal/sedml"
)

const symbolTime = sedml.SymbolTime

// stepTolerance bounds the rounding error accepted when checking that the
// output window divides the simulation into whole steps.
const stepTolerance = 1e-8

// VariableResults maps variable ids to their sampled series. Every series
// has numberOfPoints+1 values covering [outputStartTime, outputEndTime].
type VariableResults map[string][]float64

// Runner executes simulation specifications against an engine.
type Runner struct {
	Engine engine.Engine
	Log    *slog.Logger
	Trace  *logging.TraceLogger
}

// NewRunner creates a Runner. A nil logger falls back to slog.Default.
func NewRunner(eng engine.Engine, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{Engine: eng, Log: log}
}

// Task validates one task (model + uniform time course) together with the
// requested variables, runs the engine over [0, outputEndTime], and returns
// the variables sampled over the output window. The model's Source must be
// resolvable from the current process (callers resolve archive-relative
// paths first).
func (r *Runner) Task(ctx context.Context, model *sedml.Model, sim *sedml.UniformTimeCourse, variables []sedml.Variable) (VariableResults, error) {
	if !strings.HasPrefix(model.Language, sedml.LanguageSBML) {
		return nil, &UnsupportedLanguageError{Language: model.Language}
	}

	sbmlModel, err := sbml.ReadModel(model.Source)
	if err != nil {
		return nil, &ModelImportError{Source: model.Source, Err: err}
	}

	alg, err := kisao.Lookup(sim.Algorithm.KisaoID)
	if err != nil {
		return nil, err
	}
	settings, err := alg.ResolveChanges(sim.Algorithm.Changes)
	if err != nil {
		return nil, err
	}

	steps, offset, err := stepPlan(sim)
	if err != nil {
		return nil, err
	}

	if err := checkVariables(variables, sbmlModel); err != nil {
		return nil, err
	}

	req := &engine.Request{
		ModelPath:     model.Source,
		ModelLanguage: "sbml",
		Method:        alg.Method,
		Settings:      settings,
		Duration:      sim.OutputEndTime,
		Steps:         steps,
	}

	r.Log.Debug("running task",
		"model", model.Source, "algorithm", sim.Algorithm.KisaoID,
		"method", alg.Method, "steps", steps)
	r.Trace.Log(map[string]any{
		"event": "engine_request", "model": model.Source,
		"method": alg.Method, "duration": req.Duration, "steps": req.Steps,
	})

	tr, err := r.Engine.Simulate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", model.Source, err)
	}
	if err := tr.Validate(req); err != nil {
		return nil, err
	}

	results := VariableResults{}
	for _, v := range variables {
		switch {
		case v.Symbol != "":
			results[v.ID] = append([]float64(nil), tr.Times[offset:]...)
		default:
			id, _ := speciesIDFromTarget(v.Target)
			series, ok := tr.Species[id]
			if !ok {
				return nil, fmt.Errorf("engine did not report species %q requested by variable %q", id, v.ID)
			}
			results[v.ID] = append([]float64(nil), series[offset:]...)
		}
	}
	return results, nil
}

// stepPlan maps the output window onto engine sampling: the engine runs
// from time 0 to outputEndTime in uniform steps whose samples include both
// output endpoints. Returns the engine step count and the index of the
// first output sample.
func stepPlan(sim *sedml.UniformTimeCourse) (steps, offset int, err error) {
	if sim.InitialTime != 0 {
		return 0, 0, &TimeCourseError{Reason: fmt.Sprintf(
			"initial time is %g, which is not supported. Initial time must be 0", sim.InitialTime)}
	}
	if sim.NumberOfPoints < 1 {
		return 0, 0, &TimeCourseError{Reason: fmt.Sprintf(
			"number of points must be at least 1, not %d", sim.NumberOfPoints)}
	}
	if sim.OutputStartTime < 0 || sim.OutputEndTime <= sim.OutputStartTime {
		return 0, 0, &TimeCourseError{Reason: fmt.Sprintf(
			"output times [%g, %g] are invalid: the output end time must follow a non-negative output start time",
			sim.OutputStartTime, sim.OutputEndTime)}
	}

	// The sampling grid over [0, end] must land exactly on the output
	// start time.
	total := float64(sim.NumberOfPoints) * sim.OutputEndTime / (sim.OutputEndTime - sim.OutputStartTime)
	rounded := math.Round(total)
	if math.Abs(total-rounded) > stepTolerance*math.Max(1, math.Abs(total)) {
		return 0, 0, &TimeCourseError{Reason: fmt.Sprintf(
			"a time course over [0, %g] with output starting at %g must specify an integer number of steps (got %g)",
			sim.OutputEndTime, sim.OutputStartTime, total)}
	}

	steps = int(rounded)
	offset = steps - sim.NumberOfPoints
	return steps, offset, nil
}

// checkVariables validates the symbols and targets of the requested
// variables against the imported model.
func checkVariables(variables []sedml.Variable, model *sbml.Model) error {
	for _, v := range variables {
		switch {
		case v.Symbol != "":
			if v.Symbol != symbolTime {
				return &UnsupportedSymbolError{Variable: v.ID, Symbol: v.Symbol}
			}
		case v.Target != "":
			id, ok := speciesIDFromTarget(v.Target)
			if !ok {
				return &UnsupportedTargetError{Variable: v.ID, Target: v.Target, Reason: "unrecognized XPath"}
			}
			if !model.HasSpecies(id) {
				return &UnsupportedTargetError{Variable: v.ID, Target: v.Target,
					Reason: fmt.Sprintf("model has no species %q", id)}
			}
		default:
			return fmt.Errorf("variable %q has neither a symbol nor a target", v.ID)
		}
	}
	return nil
}
