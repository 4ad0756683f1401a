package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Command runs an external simulation engine process. The request is
// written to the process's stdin as a single JSON object and the trajectory
// is read from its stdout as a single JSON object. Diagnostic output goes
// to stderr and is folded into the error on failure.
type Command struct {
	path    string
	args    []string
	timeout time.Duration
}

// CommandConfig configures a Command engine.
type CommandConfig struct {
	// Argv is the engine command line; Argv[0] is the executable.
	Argv []string

	// Timeout bounds a single simulation run. Zero means no bound beyond
	// the caller's context.
	Timeout time.Duration
}

// NewCommand creates a Command engine.
func NewCommand(cfg CommandConfig) (*Command, error) {
	if len(cfg.Argv) == 0 || cfg.Argv[0] == "" {
		return nil, fmt.Errorf("engine command is not configured")
	}
	return &Command{
		path:    cfg.Argv[0],
		args:    cfg.Argv[1:],
		timeout: cfg.Timeout,
	}, nil
}

// Simulate implements Engine.
func (c *Command) Simulate(ctx context.Context, req *Request) (*Trajectory, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode engine request: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.path, c.args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("engine %s: %w", c.path, ctx.Err())
		}
		return nil, fmt.Errorf("engine %s failed: %w%s", c.path, err, stderrTail(stderr.String()))
	}

	var tr Trajectory
	if err := json.Unmarshal(stdout.Bytes(), &tr); err != nil {
		return nil, fmt.Errorf("decode engine output: %w", err)
	}
	if err := tr.Validate(req); err != nil {
		return nil, err
	}
	return &tr, nil
}

// stderrTail formats the last few lines of engine stderr for error
// messages.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, "; ")
}
