package sedml

import (
	"bytes"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<sedML xmlns="http://sed-ml.org/sed-ml/level1/version3" level="1" version="3">
  <listOfModels>
    <model id="model_1" language="urn:sedml:language:sbml" source="model_1.xml"/>
  </listOfModels>
  <listOfSimulations>
    <uniformTimeCourse id="sim_1" initialTime="0" outputStartTime="0.1" outputEndTime="0.2" numberOfPoints="20">
      <algorithm kisaoID="KISAO:0000029">
        <listOfAlgorithmParameters>
          <algorithmParameter kisaoID="KISAO:0000488" value="10"/>
        </listOfAlgorithmParameters>
      </algorithm>
    </uniformTimeCourse>
  </listOfSimulations>
  <listOfTasks>
    <task id="task_1" modelReference="model_1" simulationReference="sim_1"/>
  </listOfTasks>
  <listOfDataGenerators>
    <dataGenerator id="data_gen_time">
      <listOfVariables>
        <variable id="var_time" symbol="urn:sedml:symbol:time" taskReference="task_1"/>
      </listOfVariables>
      <math xmlns="http://www.w3.org/1998/Math/MathML"><ci>var_time</ci></math>
    </dataGenerator>
    <dataGenerator id="data_gen_BE">
      <listOfVariables>
        <variable id="var_BE" target="/sbml:sbml/sbml:model/sbml:listOfSpecies/sbml:species[@id='BE']" taskReference="task_1"/>
      </listOfVariables>
      <math xmlns="http://www.w3.org/1998/Math/MathML"><ci>var_BE</ci></math>
    </dataGenerator>
  </listOfDataGenerators>
  <listOfOutputs>
    <report id="report_1">
      <listOfDataSets>
        <dataSet id="data_set_time" label="Time" dataReference="data_gen_time"/>
        <dataSet id="data_set_BE" label="BE" dataReference="data_gen_BE"/>
      </listOfDataSets>
    </report>
  </listOfOutputs>
</sedML>
`

func TestRead(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(doc.Models) != 1 || doc.Models[0].ID != "model_1" {
		t.Errorf("models = %+v, want one model_1", doc.Models)
	}
	if doc.Models[0].Language != LanguageSBML {
		t.Errorf("model language = %q, want %q", doc.Models[0].Language, LanguageSBML)
	}

	if len(doc.Simulations) != 1 {
		t.Fatalf("simulations = %d, want 1", len(doc.Simulations))
	}
	sim := doc.Simulations[0]
	if sim.Algorithm.KisaoID != "KISAO_0000029" {
		t.Errorf("algorithm id = %q, want normalized KISAO_0000029", sim.Algorithm.KisaoID)
	}
	if len(sim.Algorithm.Changes) != 1 || sim.Algorithm.Changes[0].KisaoID != "KISAO_0000488" {
		t.Errorf("algorithm changes = %+v, want one KISAO_0000488", sim.Algorithm.Changes)
	}
	if sim.OutputStartTime != 0.1 || sim.OutputEndTime != 0.2 || sim.NumberOfPoints != 20 {
		t.Errorf("time course = %+v, want start 0.1 end 0.2 points 20", sim)
	}

	if got := doc.Task("task_1"); got == nil || got.ModelID != "model_1" || got.SimulationID != "sim_1" {
		t.Errorf("Task(task_1) = %+v", got)
	}

	if len(doc.DataGenerators) != 2 {
		t.Fatalf("data generators = %d, want 2", len(doc.DataGenerators))
	}
	if gen := doc.DataGenerator("data_gen_time"); gen.Math != "var_time" {
		t.Errorf("data_gen_time math = %q, want var_time", gen.Math)
	}
	if gen := doc.DataGenerator("data_gen_BE"); gen.Variables[0].Target == "" {
		t.Errorf("data_gen_BE variable target is empty")
	}

	if len(doc.Reports) != 1 || len(doc.Reports[0].DataSets) != 2 {
		t.Fatalf("reports = %+v, want one report with two data sets", doc.Reports)
	}
}

func TestReadRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "unknown model reference",
			mutate:  func(s string) string { return strings.Replace(s, `modelReference="model_1"`, `modelReference="nope"`, 1) },
			wantErr: "undefined model",
		},
		{
			name:    "unknown simulation reference",
			mutate:  func(s string) string { return strings.Replace(s, `simulationReference="sim_1"`, `simulationReference="nope"`, 1) },
			wantErr: "undefined simulation",
		},
		{
			name:    "unknown data generator reference",
			mutate:  func(s string) string { return strings.Replace(s, `dataReference="data_gen_BE"`, `dataReference="nope"`, 1) },
			wantErr: "undefined data generator",
		},
		{
			name:    "duplicate id",
			mutate:  func(s string) string { return strings.Replace(s, `id="sim_1"`, `id="model_1"`, 1) },
			wantErr: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.mutate(sampleDoc)))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Read() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// KiSAO ids are written back in the colon form.
	if !strings.Contains(buf.String(), `kisaoID="KISAO:0000029"`) {
		t.Errorf("written document does not use document-form KiSAO ids:\n%s", buf.String())
	}

	again, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read(Write()) error = %v", err)
	}
	if again.Simulations[0].Algorithm.KisaoID != doc.Simulations[0].Algorithm.KisaoID {
		t.Errorf("round trip changed algorithm: %q != %q",
			again.Simulations[0].Algorithm.KisaoID, doc.Simulations[0].Algorithm.KisaoID)
	}
	if len(again.Reports) != len(doc.Reports) {
		t.Errorf("round trip changed report count: %d != %d", len(again.Reports), len(doc.Reports))
	}
}

func TestNormalizeKisaoID(t *testing.T) {
	if got := NormalizeKisaoID("KISAO:0000029"); got != "KISAO_0000029" {
		t.Errorf("NormalizeKisaoID = %q", got)
	}
	if got := NormalizeKisaoID("KISAO_0000029"); got != "KISAO_0000029" {
		t.Errorf("NormalizeKisaoID passthrough = %q", got)
	}
}
