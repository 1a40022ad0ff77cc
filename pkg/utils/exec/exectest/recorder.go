// Package exectest provides a scripted command runner for tests
package exectest

import (
	"context"
	"strings"
	"sync"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/utils/exec"
)

// Call is one recorded invocation
type Call struct {
	Command  string
	FailFast bool
	Capture  bool

	// Cancelled marks a call made with a done context, it never reached the shell
	Cancelled bool
}

// Recorder records every command and answers from a table of results
// keyed by command substring. Unmatched commands succeed with empty output.
type Recorder struct {
	mu      sync.Mutex
	calls   []Call
	results map[string]exec.Result
}

// NewRecorder returns an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{results: map[string]exec.Result{}}
}

// On scripts the result returned for commands containing match
func (r *Recorder) On(match string, result exec.Result) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[match] = result
	return r
}

// Run mimics exec.Executor.Run without continue-on-error. Like the real executor,
// a done context fails the command with exit code -1.
func (r *Recorder) Run(ctx context.Context, command string, failFast bool) (exec.Result, error) {
	result := r.record(ctx, Call{Command: command, FailFast: failFast})
	if failFast && result.Failed() {
		return result, cerrors.Error{ErrorCode: cerrors.ErrorTypeCommandExecution, Target: command, Reason: result.Stderr}
	}
	return result, nil
}

// Capture mimics exec.Executor.Capture
func (r *Recorder) Capture(ctx context.Context, command string) (exec.Result, error) {
	return r.record(ctx, Call{Command: command, Capture: true}), nil
}

func (r *Recorder) record(ctx context.Context, call Call) exec.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		call.Cancelled = true
		r.calls = append(r.calls, call)
		return exec.Result{Command: call.Command, ExitCode: -1, Stderr: err.Error()}
	}
	r.calls = append(r.calls, call)
	result := exec.Result{Command: call.Command}
	for match, scripted := range r.results {
		if strings.Contains(call.Command, match) {
			result = scripted
			result.Command = call.Command
			break
		}
	}
	return result
}

// Calls returns a copy of the recorded invocations
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Commands returns the recorded command lines containing match
func (r *Recorder) Commands(match string) []string {
	var out []string
	for _, call := range r.Calls() {
		if strings.Contains(call.Command, match) {
			out = append(out, call.Command)
		}
	}
	return out
}

var _ exec.Runner = &Recorder{}
