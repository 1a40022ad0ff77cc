package watcher

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/pkg/errors"
)

// ErrAlreadyRunning is returned when a watcher is started while another one is tracked
var ErrAlreadyRunning = cerrors.Error{
	ErrorCode: cerrors.ErrorTypeWatcher,
	Reason:    "a pod watcher is already running, stop it before starting a new one",
}

// captureLimit bounds the in-memory output of a watcher without log file
const captureLimit = 64 << 10

// waitDelay bounds how long Wait keeps copying output after the process exited,
// grandchildren holding the pipe open would block it otherwise
const waitDelay = time.Second

// Spec describes the watch command to launch
type Spec struct {
	// Args is the argv of the watch command, it is not run through a shell
	Args []string
	// LogPath receives stdout and stderr when set, output is kept in memory otherwise
	LogPath string
	// StopTimeout is the grace period after SIGTERM, defaults to types.WatcherStopTimeout
	StopTimeout time.Duration
}

// Handle tracks one running watcher. It is not safe for concurrent use.
type Handle struct {
	cmd         *exec.Cmd
	logPath     string
	logFile     *os.File
	capture     *boundedBuffer
	done        <-chan error
	exited      <-chan struct{}
	stopTimeout time.Duration
	stopped     bool
	forced      bool
}

// Start launches the watch command in the background
func Start(spec Spec) (*Handle, error) {
	if len(spec.Args) == 0 || spec.Args[0] == "" {
		return nil, cerrors.Error{ErrorCode: cerrors.ErrorTypeWatcher, Reason: "watch command must not be empty"}
	}

	cmd := exec.Command(spec.Args[0], spec.Args[1:]...)
	cmd.WaitDelay = waitDelay
	configureSysProcAttr(cmd)

	h := &Handle{
		cmd:         cmd,
		logPath:     spec.LogPath,
		stopTimeout: spec.StopTimeout,
	}
	if h.stopTimeout <= 0 {
		h.stopTimeout = types.WatcherStopTimeout
	}

	if spec.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(spec.LogPath), 0755); err != nil {
			return nil, errors.Wrapf(err, "could not create the directory of %v", spec.LogPath)
		}
		f, err := os.Create(spec.LogPath)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create the watcher log %v", spec.LogPath)
		}
		h.logFile = f
		cmd.Stdout = f
		cmd.Stderr = f
	} else {
		h.capture = newBoundedBuffer(captureLimit)
		cmd.Stdout = h.capture
		cmd.Stderr = h.capture
	}

	if err := cmd.Start(); err != nil {
		h.closeLog()
		return nil, cerrors.Error{
			ErrorCode: cerrors.ErrorTypeWatcher,
			Target:    spec.Args[0],
			Reason:    err.Error(),
		}
	}

	// cmd.Wait must run exactly once, its result is handed to Stop
	done := make(chan error, 1)
	exited := make(chan struct{})
	go func() {
		done <- cmd.Wait()
		close(exited)
	}()
	h.done = done
	h.exited = exited

	return h, nil
}

// Stop terminates the watcher. It sends SIGTERM and waits for the grace period;
// when the process does not exit in time, or is already gone, it escalates to SIGKILL.
// A process that already finished is not an error. Stop on a nil handle is a no-op
// and calling it twice is safe.
func Stop(h *Handle) error {
	if h == nil || h.stopped {
		return nil
	}
	h.stopped = true
	defer h.closeLog()

	if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		log.Warnf("[Monitor]: Warning when stopping monitoring: %v", err)
		return h.kill()
	}

	select {
	case <-h.done:
		log.Info("[Monitor]: Monitoring stopped")
		return nil
	case <-time.After(h.stopTimeout):
		log.Warnf("[Monitor]: Warning when stopping monitoring: pid %d did not exit within %v", h.PID(), h.stopTimeout)
		return h.kill()
	}
}

// Stop is the method form of Stop
func (h *Handle) Stop() error {
	return Stop(h)
}

func (h *Handle) kill() error {
	h.forced = true
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return cerrors.Error{
			ErrorCode: cerrors.ErrorTypeWatcher,
			Target:    h.cmd.Path,
			Reason:    err.Error(),
		}
	}
	select {
	case <-h.exited:
	case <-time.After(h.stopTimeout):
		log.Warnf("[Monitor]: pid %d was killed but has not been reaped", h.PID())
	}
	return nil
}

func (h *Handle) closeLog() {
	if h.logFile == nil {
		return
	}
	if err := h.logFile.Close(); err != nil {
		log.Warnf("[Monitor]: could not close %v: %v", h.logPath, err)
	}
	h.logFile = nil
}

// PID returns the process id of the watcher
func (h *Handle) PID() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// LogPath returns the file receiving the watcher output, empty in capture mode
func (h *Handle) LogPath() string {
	return h.logPath
}

// Output returns the most recent captured output, empty when a log file is used
func (h *Handle) Output() string {
	if h.capture == nil {
		return ""
	}
	return h.capture.String()
}

// Exited is closed once the watcher process has exited and been reaped
func (h *Handle) Exited() <-chan struct{} {
	return h.exited
}

// Forced reports whether Stop had to escalate to SIGKILL
func (h *Handle) Forced() bool {
	return h.forced
}
