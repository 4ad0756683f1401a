package runlog

import (
	"context"
	"testing"
	"time"
)

func TestRecordAndList(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer log.Close()

	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Document: "ex1/sim.sedml", Task: "task_1", Algorithm: "KISAO_0000029", Status: StatusSucceeded, StartedAt: started, Duration: 120 * time.Millisecond},
		{Document: "ex1/sim.sedml", Task: "task_2", Algorithm: "KISAO_0000039", Status: StatusFailed, Error: "boom", StartedAt: started.Add(time.Second), Duration: 5 * time.Millisecond},
	}
	for _, e := range entries {
		if err := log.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := log.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(got))
	}

	if got[0].Task != "task_1" || got[0].Status != StatusSucceeded || got[0].Error != "" {
		t.Errorf("entry 0 = %+v", got[0])
	}
	if got[1].Task != "task_2" || got[1].Status != StatusFailed || got[1].Error != "boom" {
		t.Errorf("entry 1 = %+v", got[1])
	}
	if !got[0].StartedAt.Equal(started) {
		t.Errorf("entry 0 started at %v, want %v", got[0].StartedAt, started)
	}
	if got[0].Duration != 120*time.Millisecond {
		t.Errorf("entry 0 duration = %v", got[0].Duration)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Record(context.Background(), Entry{Document: "d", Task: "t", Algorithm: "a", Status: StatusSucceeded, StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	got, err := second.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("List() after reopen = %d entries, want 1", len(got))
	}
}
