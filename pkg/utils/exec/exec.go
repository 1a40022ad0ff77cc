package exec

import (
	"bytes"
	"context"
	"io"
	"os"
	osexec "os/exec"
	"strconv"
	"strings"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/pkg/errors"
)

// Result holds the outcome of one command line.
// Stdout and Stderr are empty when the output was streamed to the terminal.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Failed reports whether the command exited non-zero or could not be started
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// Executor runs command lines through the shell
type Executor struct {
	// Shell is the interpreter used with "-c", defaults to /bin/sh
	Shell string
	// Verbose streams command output instead of capturing it
	Verbose bool
	// ContinueOnError turns fail-fast failures into warnings
	ContinueOnError bool
	// Stdout and Stderr receive streamed output, default to the process streams
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor returns an Executor writing to the process streams
func NewExecutor(verbose, continueOnError bool) *Executor {
	return &Executor{
		Shell:           "/bin/sh",
		Verbose:         verbose,
		ContinueOnError: continueOnError,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	}
}

// Run executes the command line. In verbose mode output streams to the terminal,
// otherwise it is captured into the Result.
// If failFast is set and the command fails, a COMMAND_EXECUTION_ERROR is returned
// unless the executor continues on error. Without failFast the caller decides.
func (e *Executor) Run(ctx context.Context, command string, failFast bool) (Result, error) {
	if e.Verbose {
		log.Infof("Running: %v", command)
	}

	result := e.run(ctx, command, !e.Verbose)
	if !failFast || !result.Failed() {
		return result, nil
	}

	log.Errorf("Command failed: %v", command)
	if !e.Verbose && result.Stderr != "" {
		log.Errorf("Error: %v", strings.TrimSpace(result.Stderr))
	}
	if e.ContinueOnError {
		return result, nil
	}
	return result, cerrors.Error{
		ErrorCode: cerrors.ErrorTypeCommandExecution,
		Target:    command,
		Reason:    failureReason(result),
	}
}

// Capture always captures the output and never fails the run,
// a non-zero exit code is only reported through the Result
func (e *Executor) Capture(ctx context.Context, command string) (Result, error) {
	log.Debugf("Capturing: %v", command)
	return e.run(ctx, command, true), nil
}

func (e *Executor) run(ctx context.Context, command string, capture bool) Result {
	shell := e.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := osexec.CommandContext(ctx, shell, "-c", command)

	var stdout, stderr bytes.Buffer
	if capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = writerOrDefault(e.Stdout, os.Stdout)
		cmd.Stderr = writerOrDefault(e.Stderr, os.Stderr)
	}

	result := Result{Command: command}
	err := cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	var exitErr *osexec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		// the shell never started
		result.ExitCode = -1
		if result.Stderr == "" {
			result.Stderr = err.Error()
		}
	}
	return result
}

func failureReason(result Result) string {
	if msg := strings.TrimSpace(result.Stderr); msg != "" {
		return msg
	}
	return "exit code " + strconv.Itoa(result.ExitCode)
}

func writerOrDefault(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

// Runner is the command surface used by the rest of the suite
type Runner interface {
	Run(ctx context.Context, command string, failFast bool) (Result, error)
	Capture(ctx context.Context, command string) (Result, error)
}

var _ Runner = &Executor{}
