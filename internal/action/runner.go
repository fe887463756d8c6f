// Package action runs external commands in response to gesture events.
package action

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrNoCommand is returned when the runner has no command configured for an
// event.
var ErrNoCommand = errors.New("no command configured")

// Request is the JSON payload written to the command's stdin.
type Request struct {
	ID          string  `json:"id"`
	Event       string  `json:"event"`
	TimestampMs float64 `json:"timestampMs"`
}

// Response is the JSON payload expected on the command's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Runner maps gesture event names to external commands and executes them
// with a timeout. Commands receive a Request on stdin and reply with a
// Response on stdout.
type Runner struct {
	commands map[string]string
	timeout  time.Duration
}

// NewRunner creates a runner with the given per-execution timeout.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{
		commands: make(map[string]string),
		timeout:  timeout,
	}
}

// Bind associates an event name with a command. An empty command unbinds.
func (r *Runner) Bind(event, command string) {
	if command == "" {
		delete(r.commands, event)
		return
	}
	r.commands[event] = command
}

// Run executes the command bound to the event, if any.
func (r *Runner) Run(ev gesture.Event) (*Response, error) {
	command, ok := r.commands[ev.Name]
	if !ok {
		return nil, fmt.Errorf("%w for event %q", ErrNoCommand, ev.Name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command)

	reqJSON, err := json.Marshal(Request{
		ID:          ev.ID,
		Event:       ev.Name,
		TimestampMs: ev.TimestampMs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("action timeout after %s", r.timeout)
	}
	if err != nil {
		if stderrStr := stderr.String(); stderrStr != "" {
			return nil, fmt.Errorf("action failed: %w, stderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("action failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse action response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}
