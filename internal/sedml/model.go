// Package sedml provides a data model and XML reader/writer for the subset
// of SED-ML (Simulation Experiment Description Markup Language) Level 1
// Version 3 that the simulator adapter executes: SBML models, uniform time
// course simulations, basic tasks, single-variable data generators, and
// report outputs.
package sedml

import "fmt"

// Well-known URNs used by SED-ML documents.
const (
	// LanguageSBML identifies SBML model sources.
	LanguageSBML = "urn:sedml:language:sbml"

	// SymbolTime is the variable symbol for simulation time.
	SymbolTime = "urn:sedml:symbol:time"
)

// Model references a model source file and the language it is written in.
type Model struct {
	ID       string
	Name     string
	Source   string // path relative to the document, or absolute
	Language string // language URN, e.g. LanguageSBML
}

// AlgorithmParameterChange overrides one parameter of a simulation algorithm.
// The parameter is identified by its KiSAO id and the value is carried as the
// raw string from the document; interpretation is up to the algorithm registry.
type AlgorithmParameterChange struct {
	KisaoID  string
	NewValue string
}

// Algorithm identifies a simulation algorithm by KiSAO id together with any
// parameter overrides.
type Algorithm struct {
	KisaoID string
	Changes []AlgorithmParameterChange
}

// UniformTimeCourse describes a simulation that records numberOfPoints+1
// samples uniformly spaced over [OutputStartTime, OutputEndTime], after
// starting the system at InitialTime.
type UniformTimeCourse struct {
	ID              string
	Name            string
	InitialTime     float64
	OutputStartTime float64
	OutputEndTime   float64
	NumberOfPoints  int
	Algorithm       Algorithm
}

// Task pairs a model with a simulation.
type Task struct {
	ID           string
	Name         string
	ModelID      string
	SimulationID string
}

// Variable is a single observable requested from a task: either a symbol
// (time) or an XPath target addressing part of the model.
type Variable struct {
	ID     string
	Name   string
	Symbol string
	Target string
	TaskID string
}

// DataGenerator computes a data stream from task variables. Only identity
// generators (math consisting of the single variable) are supported.
type DataGenerator struct {
	ID        string
	Name      string
	Variables []Variable
	Math      string
}

// DataSet binds a data generator to a labeled column of a report.
type DataSet struct {
	ID              string
	Label           string
	DataGeneratorID string
}

// Report is an output collecting data sets into a table.
type Report struct {
	ID       string
	Name     string
	DataSets []DataSet
}

// Document is a parsed SED-ML document.
type Document struct {
	Level   int
	Version int

	Models          []*Model
	Simulations     []*UniformTimeCourse
	Tasks           []*Task
	DataGenerators  []*DataGenerator
	Reports         []*Report
}

// Model returns the model with the given id, or nil.
func (d *Document) Model(id string) *Model {
	for _, m := range d.Models {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Simulation returns the simulation with the given id, or nil.
func (d *Document) Simulation(id string) *UniformTimeCourse {
	for _, s := range d.Simulations {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Task returns the task with the given id, or nil.
func (d *Document) Task(id string) *Task {
	for _, t := range d.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// DataGenerator returns the data generator with the given id, or nil.
func (d *Document) DataGenerator(id string) *DataGenerator {
	for _, g := range d.DataGenerators {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Validate checks internal consistency: unique ids and resolvable
// references. It does not judge whether the simulator supports the
// document; that is the executor's concern.
func (d *Document) Validate() error {
	seen := map[string]string{}
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s is missing an id", kind)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("duplicate id %q (%s and %s)", id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	for _, m := range d.Models {
		if err := check("model", m.ID); err != nil {
			return err
		}
	}
	for _, s := range d.Simulations {
		if err := check("simulation", s.ID); err != nil {
			return err
		}
	}
	for _, t := range d.Tasks {
		if err := check("task", t.ID); err != nil {
			return err
		}
		if d.Model(t.ModelID) == nil {
			return fmt.Errorf("task %q references undefined model %q", t.ID, t.ModelID)
		}
		if d.Simulation(t.SimulationID) == nil {
			return fmt.Errorf("task %q references undefined simulation %q", t.ID, t.SimulationID)
		}
	}
	for _, g := range d.DataGenerators {
		if err := check("data generator", g.ID); err != nil {
			return err
		}
		for _, v := range g.Variables {
			if v.TaskID != "" && d.Task(v.TaskID) == nil {
				return fmt.Errorf("variable %q references undefined task %q", v.ID, v.TaskID)
			}
		}
	}
	for _, r := range d.Reports {
		if err := check("report", r.ID); err != nil {
			return err
		}
		for _, ds := range r.DataSets {
			if d.DataGenerator(ds.DataGeneratorID) == nil {
				return fmt.Errorf("data set %q references undefined data generator %q", ds.ID, ds.DataGeneratorID)
			}
		}
	}
	return nil
}
