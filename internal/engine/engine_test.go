package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestMockSimulate(t *testing.T) {
	m := NewMock().WithSpecies("A", "B")
	req := &Request{ModelPath: "model.xml", Method: "ssa", Duration: 20, Steps: 40}

	tr, err := m.Simulate(context.Background(), req)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if err := tr.Validate(req); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if tr.Times[0] != 0 || tr.Times[40] != 20 {
		t.Errorf("times endpoints = %v, %v; want 0, 20", tr.Times[0], tr.Times[40])
	}
	if got := tr.Species["A"][0]; got != MockValue(0, 0) {
		t.Errorf("A[0] = %v, want %v", got, MockValue(0, 0))
	}
	if got := tr.Species["B"][40]; got != MockValue(1, 20) {
		t.Errorf("B[40] = %v, want %v", got, MockValue(1, 20))
	}

	if len(m.Calls) != 1 || m.Calls[0].Method != "ssa" {
		t.Errorf("recorded calls = %+v", m.Calls)
	}
}

func TestMockSimulateError(t *testing.T) {
	wantErr := errors.New("engine exploded")
	m := NewMock().WithSpecies("A").WithError(wantErr)

	_, err := m.Simulate(context.Background(), &Request{Duration: 1, Steps: 1})
	if !errors.Is(err, wantErr) {
		t.Errorf("Simulate() error = %v, want %v", err, wantErr)
	}
}

func TestTrajectoryValidate(t *testing.T) {
	req := &Request{Duration: 1, Steps: 2}

	tests := []struct {
		name    string
		tr      Trajectory
		wantErr bool
	}{
		{
			name: "consistent",
			tr:   Trajectory{Times: []float64{0, 0.5, 1}, Species: map[string][]float64{"A": {1, 2, 3}}},
		},
		{
			name:    "wrong time count",
			tr:      Trajectory{Times: []float64{0, 1}, Species: map[string][]float64{}},
			wantErr: true,
		},
		{
			name:    "ragged species",
			tr:      Trajectory{Times: []float64{0, 0.5, 1}, Species: map[string][]float64{"A": {1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tr.Validate(req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestHelperProcess is not a real test; it is the fake engine executable
// used by the Command tests.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintln(os.Stderr, "bad request:", err)
		os.Exit(1)
	}

	switch os.Getenv("FAKE_ENGINE_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "model import failed")
		os.Exit(2)
	case "garbage":
		fmt.Println("not json")
	default:
		n := req.Steps + 1
		tr := Trajectory{Times: make([]float64, n), Species: map[string][]float64{"A": make([]float64, n)}}
		for j := 0; j < n; j++ {
			tr.Times[j] = req.Duration * float64(j) / float64(req.Steps)
			tr.Species["A"][j] = float64(j)
		}
		json.NewEncoder(os.Stdout).Encode(tr)
	}
}

func fakeEngine(t *testing.T, mode string) *Command {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("FAKE_ENGINE_MODE", mode)

	c, err := NewCommand(CommandConfig{Argv: []string{os.Args[0], "-test.run=TestHelperProcess"}})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCommandSimulate(t *testing.T) {
	c := fakeEngine(t, "ok")
	req := &Request{ModelPath: "m.xml", Method: "ssa", Duration: 10, Steps: 5}

	tr, err := c.Simulate(context.Background(), req)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(tr.Times) != 6 || tr.Times[5] != 10 {
		t.Errorf("times = %v", tr.Times)
	}
	if _, ok := tr.Species["A"]; !ok {
		t.Errorf("species = %v, want A", tr.Species)
	}
}

func TestCommandSimulateFailure(t *testing.T) {
	c := fakeEngine(t, "fail")

	_, err := c.Simulate(context.Background(), &Request{Duration: 1, Steps: 1})
	if err == nil || !strings.Contains(err.Error(), "model import failed") {
		t.Errorf("Simulate() error = %v, want stderr folded in", err)
	}
}

func TestCommandSimulateGarbageOutput(t *testing.T) {
	c := fakeEngine(t, "garbage")

	_, err := c.Simulate(context.Background(), &Request{Duration: 1, Steps: 1})
	if err == nil || !strings.Contains(err.Error(), "decode engine output") {
		t.Errorf("Simulate() error = %v, want decode error", err)
	}
}

func TestNewCommandRequiresArgv(t *testing.T) {
	if _, err := NewCommand(CommandConfig{}); err == nil {
		t.Error("NewCommand() with empty argv succeeded")
	}
}
