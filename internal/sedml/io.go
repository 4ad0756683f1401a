package sedml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Namespace is the SED-ML Level 1 Version 3 XML namespace.
const Namespace = "http://sed-ml.org/sed-ml/level1/version3"

// mathMLNamespace is used when writing data generator math.
const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// xmlDocument mirrors the on-disk SED-ML structure. The exported Document
// type is converted to and from this representation so callers never deal
// with list wrappers or namespace bookkeeping.
type xmlDocument struct {
	XMLName xml.Name `xml:"sedML"`
	Xmlns   string   `xml:"xmlns,attr"`
	Level   int      `xml:"level,attr"`
	Version int      `xml:"version,attr"`

	Models         []xmlModel         `xml:"listOfModels>model"`
	Simulations    []xmlUniformTC     `xml:"listOfSimulations>uniformTimeCourse"`
	Tasks          []xmlTask          `xml:"listOfTasks>task"`
	DataGenerators []xmlDataGenerator `xml:"listOfDataGenerators>dataGenerator"`
	Outputs        xmlOutputs         `xml:"listOfOutputs"`
}

type xmlModel struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr,omitempty"`
	Language string `xml:"language,attr"`
	Source   string `xml:"source,attr"`
}

type xmlUniformTC struct {
	ID              string       `xml:"id,attr"`
	Name            string       `xml:"name,attr,omitempty"`
	InitialTime     float64      `xml:"initialTime,attr"`
	OutputStartTime float64      `xml:"outputStartTime,attr"`
	OutputEndTime   float64      `xml:"outputEndTime,attr"`
	NumberOfPoints  int          `xml:"numberOfPoints,attr"`
	Algorithm       xmlAlgorithm `xml:"algorithm"`
}

type xmlAlgorithm struct {
	KisaoID    string              `xml:"kisaoID,attr"`
	Parameters []xmlAlgorithmParam `xml:"listOfAlgorithmParameters>algorithmParameter"`
}

type xmlAlgorithmParam struct {
	KisaoID string `xml:"kisaoID,attr"`
	Value   string `xml:"value,attr"`
}

type xmlTask struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr,omitempty"`
	ModelRef      string `xml:"modelReference,attr"`
	SimulationRef string `xml:"simulationReference,attr"`
}

type xmlDataGenerator struct {
	ID        string        `xml:"id,attr"`
	Name      string        `xml:"name,attr,omitempty"`
	Variables []xmlVariable `xml:"listOfVariables>variable"`
	Math      xmlMath       `xml:"math"`
}

type xmlMath struct {
	Xmlns string `xml:"xmlns,attr,omitempty"`
	CI    string `xml:"ci"`
}

type xmlVariable struct {
	ID      string `xml:"id,attr"`
	Name    string `xml:"name,attr,omitempty"`
	Symbol  string `xml:"symbol,attr,omitempty"`
	Target  string `xml:"target,attr,omitempty"`
	TaskRef string `xml:"taskReference,attr,omitempty"`
}

type xmlOutputs struct {
	Reports []xmlReport `xml:"report"`
}

type xmlReport struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name,attr,omitempty"`
	DataSets []xmlDataSet `xml:"listOfDataSets>dataSet"`
}

type xmlDataSet struct {
	ID      string `xml:"id,attr"`
	Label   string `xml:"label,attr"`
	DataRef string `xml:"dataReference,attr"`
}

// NormalizeKisaoID converts the document form of a KiSAO id (KISAO:0000029)
// to the canonical underscore form (KISAO_0000029). Ids already in canonical
// form pass through unchanged.
func NormalizeKisaoID(id string) string {
	return strings.Replace(id, "KISAO:", "KISAO_", 1)
}

// documentKisaoID converts a canonical KiSAO id back to the colon form used
// in SED-ML documents.
func documentKisaoID(id string) string {
	return strings.Replace(id, "KISAO_", "KISAO:", 1)
}

// Read parses a SED-ML document from r and validates its internal
// references.
func Read(r io.Reader) (*Document, error) {
	var xd xmlDocument
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&xd); err != nil {
		return nil, fmt.Errorf("parse SED-ML: %w", err)
	}

	doc := &Document{Level: xd.Level, Version: xd.Version}
	for _, m := range xd.Models {
		doc.Models = append(doc.Models, &Model{
			ID:       m.ID,
			Name:     m.Name,
			Source:   m.Source,
			Language: m.Language,
		})
	}
	for _, s := range xd.Simulations {
		sim := &UniformTimeCourse{
			ID:              s.ID,
			Name:            s.Name,
			InitialTime:     s.InitialTime,
			OutputStartTime: s.OutputStartTime,
			OutputEndTime:   s.OutputEndTime,
			NumberOfPoints:  s.NumberOfPoints,
			Algorithm: Algorithm{
				KisaoID: NormalizeKisaoID(s.Algorithm.KisaoID),
			},
		}
		for _, p := range s.Algorithm.Parameters {
			sim.Algorithm.Changes = append(sim.Algorithm.Changes, AlgorithmParameterChange{
				KisaoID:  NormalizeKisaoID(p.KisaoID),
				NewValue: p.Value,
			})
		}
		doc.Simulations = append(doc.Simulations, sim)
	}
	for _, t := range xd.Tasks {
		doc.Tasks = append(doc.Tasks, &Task{
			ID:           t.ID,
			Name:         t.Name,
			ModelID:      t.ModelRef,
			SimulationID: t.SimulationRef,
		})
	}
	for _, g := range xd.DataGenerators {
		gen := &DataGenerator{
			ID:   g.ID,
			Name: g.Name,
			Math: strings.TrimSpace(g.Math.CI),
		}
		for _, v := range g.Variables {
			gen.Variables = append(gen.Variables, Variable{
				ID:     v.ID,
				Name:   v.Name,
				Symbol: v.Symbol,
				Target: v.Target,
				TaskID: v.TaskRef,
			})
		}
		doc.DataGenerators = append(doc.DataGenerators, gen)
	}
	for _, xr := range xd.Outputs.Reports {
		rep := &Report{ID: xr.ID, Name: xr.Name}
		for _, ds := range xr.DataSets {
			rep.DataSets = append(rep.DataSets, DataSet{
				ID:              ds.ID,
				Label:           ds.Label,
				DataGeneratorID: ds.DataRef,
			})
		}
		doc.Reports = append(doc.Reports, rep)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReadFile parses the SED-ML document at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Write serializes doc to w as SED-ML.
func Write(doc *Document, w io.Writer) error {
	xd := xmlDocument{
		Xmlns:   Namespace,
		Level:   doc.Level,
		Version: doc.Version,
	}
	if xd.Level == 0 {
		xd.Level = 1
	}
	if xd.Version == 0 {
		xd.Version = 3
	}

	for _, m := range doc.Models {
		xd.Models = append(xd.Models, xmlModel{
			ID:       m.ID,
			Name:     m.Name,
			Language: m.Language,
			Source:   m.Source,
		})
	}
	for _, s := range doc.Simulations {
		xs := xmlUniformTC{
			ID:              s.ID,
			Name:            s.Name,
			InitialTime:     s.InitialTime,
			OutputStartTime: s.OutputStartTime,
			OutputEndTime:   s.OutputEndTime,
			NumberOfPoints:  s.NumberOfPoints,
			Algorithm:       xmlAlgorithm{KisaoID: documentKisaoID(s.Algorithm.KisaoID)},
		}
		for _, c := range s.Algorithm.Changes {
			xs.Algorithm.Parameters = append(xs.Algorithm.Parameters, xmlAlgorithmParam{
				KisaoID: documentKisaoID(c.KisaoID),
				Value:   c.NewValue,
			})
		}
		xd.Simulations = append(xd.Simulations, xs)
	}
	for _, t := range doc.Tasks {
		xd.Tasks = append(xd.Tasks, xmlTask{
			ID:            t.ID,
			Name:          t.Name,
			ModelRef:      t.ModelID,
			SimulationRef: t.SimulationID,
		})
	}
	for _, g := range doc.DataGenerators {
		xg := xmlDataGenerator{
			ID:   g.ID,
			Name: g.Name,
			Math: xmlMath{Xmlns: mathMLNamespace, CI: g.Math},
		}
		for _, v := range g.Variables {
			xg.Variables = append(xg.Variables, xmlVariable{
				ID:      v.ID,
				Name:    v.Name,
				Symbol:  v.Symbol,
				Target:  v.Target,
				TaskRef: v.TaskID,
			})
		}
		xd.DataGenerators = append(xd.DataGenerators, xg)
	}
	for _, r := range doc.Reports {
		xr := xmlReport{ID: r.ID, Name: r.Name}
		for _, ds := range r.DataSets {
			xr.DataSets = append(xr.DataSets, xmlDataSet{
				ID:      ds.ID,
				Label:   ds.Label,
				DataRef: ds.DataGeneratorID,
			})
		}
		xd.Outputs.Reports = append(xd.Outputs.Reports, xr)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(xd); err != nil {
		return fmt.Errorf("encode SED-ML: %w", err)
	}
	return enc.Close()
}

// WriteFile serializes doc to the file at path.
func WriteFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
