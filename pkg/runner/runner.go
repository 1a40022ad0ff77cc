package runner

import (
	"context"
	"os"
	"time"

	"github.com/kyokomi/emoji"
	"github.com/litmuschaos/chaos-suite/pkg/catalog"
	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/events"
	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/metrics"
	"github.com/litmuschaos/chaos-suite/pkg/telemetry"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/litmuschaos/chaos-suite/pkg/utils/exec"
	"github.com/litmuschaos/chaos-suite/pkg/utils/stringutils"
	"github.com/litmuschaos/chaos-suite/pkg/watcher"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Watch is a running background watcher
type Watch interface {
	PID() int
	Stop() error
}

// Monitor launches the background pod watcher
type Monitor interface {
	Start(args []string, logPath string) (Watch, error)
}

// Metrics receives the measurements of a run
type Metrics interface {
	ExperimentApplied(ctx context.Context, kind string)
	ExperimentCompleted(ctx context.Context, kind, status string)
	CommandFailed(ctx context.Context, state string)
	SuiteFinished(ctx context.Context, verdict string, elapsed time.Duration)
}

// Runner drives one suite run through its lifecycle states
type Runner struct {
	Options types.RunDetails
	Suite   types.SuiteDetails
	RunID   string

	Executor  exec.Runner
	Monitor   Monitor
	Notifier  events.Notifier
	Confirmer events.Confirmer
	Metrics   Metrics

	// SettleTime is the pause between applying the experiments and starting the watcher
	SettleTime time.Duration
	// Tick is the wait between two countdown updates of verbose mode
	Tick time.Duration
	// Now is the clock used to timestamp the artifacts
	Now func() time.Time

	kubectl         exec.Kubectl
	state           types.State
	verdict         string
	experiments     []catalog.Descriptor
	workflow        catalog.Descriptor
	hasWorkflow     bool
	applied         []catalog.Descriptor
	workflowApplied bool
	watch           Watch
	reportPath      string
}

// New returns a Runner with the production collaborators
func New(options types.RunDetails, suite types.SuiteDetails, executor exec.Runner) *Runner {
	return &Runner{
		Options:    options,
		Suite:      suite,
		RunID:      stringutils.GetRunID(),
		Executor:   executor,
		Monitor:    WatcherMonitor{},
		Notifier:   events.Nop{},
		Confirmer:  events.NewPrompt(os.Stdin, os.Stdout),
		Metrics:    metrics.Nop{},
		SettleTime: types.SettleTime,
		Tick:       time.Second,
		Now:        time.Now,
	}
}

// WatcherMonitor starts watch commands as subprocesses
type WatcherMonitor struct{}

func (WatcherMonitor) Start(args []string, logPath string) (Watch, error) {
	h, err := watcher.Start(watcher.Spec{Args: args, LogPath: logPath})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// State returns the last lifecycle state entered
func (r *Runner) State() types.State {
	return r.state
}

// Verdict returns the outcome of the run, Awaited while it is running
func (r *Runner) Verdict() string {
	if r.verdict == "" {
		return types.AwaitedVerdict
	}
	return r.verdict
}

// ReportPath returns the generated report, empty when none was written
func (r *Runner) ReportPath() string {
	return r.reportPath
}

// Run executes the suite. On failure or interruption the watcher is stopped and
// the cleanup policy applied before the error is returned.
func (r *Runner) Run(ctx context.Context) error {
	r.defaults()
	started := r.Now()

	ctx, span := telemetry.StartSpan(ctx, "ChaosSuite",
		attribute.String("run_id", r.RunID),
		attribute.String("namespace", r.Suite.ChaosNamespace),
	)
	defer span.End()

	log.Info(emoji.Sprint(":fire: ===== Chaos Engineering Test Suite ====="))
	log.InfoWithValues("[Info]: The suite details are as follows", logrus.Fields{
		"Run ID":          r.RunID,
		"Experiments Dir": r.Suite.ExperimentsDir,
		"Chaos Namespace": r.Suite.ChaosNamespace,
		"App Label":       r.Suite.AppLabel,
		"Duration":        r.Options.Duration,
	})

	err := r.lifecycle(ctx)
	if err != nil {
		r.verdict = types.FailVerdict
		if ctx.Err() != nil || cerrors.IsType(err, cerrors.ErrorTypeInterrupted) {
			r.verdict = types.AbortVerdict
			log.Warn("[Abort]: Interrupted by user. Cleaning up...")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, r.verdict)
		r.teardown(context.WithoutCancel(ctx))
	} else {
		r.verdict = types.PassVerdict
		log.Info(emoji.Sprint(":sparkles: ===== Chaos Engineering Test Suite Completed ====="))
	}

	span.SetAttributes(attribute.String("verdict", r.verdict))
	r.Metrics.SuiteFinished(context.WithoutCancel(ctx), r.verdict, r.Now().Sub(started))
	return err
}

func (r *Runner) defaults() {
	if r.Executor == nil {
		r.Executor = exec.NewExecutor(r.Options.Verbose, r.Options.ContinueOnError)
	}
	if r.Monitor == nil {
		r.Monitor = WatcherMonitor{}
	}
	if r.Notifier == nil {
		r.Notifier = events.Nop{}
	}
	if r.Confirmer == nil {
		r.Confirmer = events.NewPrompt(os.Stdin, os.Stdout)
	}
	if r.Metrics == nil {
		r.Metrics = metrics.Nop{}
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.Tick <= 0 {
		r.Tick = time.Second
	}
	if r.RunID == "" {
		r.RunID = stringutils.GetRunID()
	}
	r.kubectl = exec.Kubectl{Binary: r.Suite.KubectlBinary}
}

func (r *Runner) lifecycle(ctx context.Context) error {
	steps := []struct {
		state types.State
		run   func(context.Context) error
	}{
		{types.StateInit, r.loadCatalog},
		{types.StateNamespaceReady, r.ensureNamespace},
		{types.StateExperimentsApplied, r.applyExperiments},
		{types.StateSettleWait, r.settle},
		{types.StateMonitoring, r.startMonitoring},
		{types.StateWorkflowApplied, r.applyWorkflow},
		{types.StateDurationWait, r.waitForChaos},
		{types.StateMonitorStopped, r.stopMonitoring},
		{types.StateStatusChecked, r.checkStatus},
		{types.StateReported, r.generateReport},
		{types.StateCleanedUp, r.cleanup},
		{types.StateDone, nil},
	}

	for _, step := range steps {
		if step.state == types.StateReported && r.Options.OutputDir == "" {
			continue
		}
		if err := r.enter(ctx, step.state, step.run); err != nil {
			return err
		}
	}
	return nil
}

// enter records the state, notifies it and runs its action inside a span.
// A context cancelled before or during the action turns into an interruption,
// including for actions that never fail on their own.
func (r *Runner) enter(ctx context.Context, state types.State, action func(context.Context) error) error {
	r.state = state
	r.Notifier.StateChanged(state)
	if err := interrupted(ctx, state); err != nil {
		return err
	}
	if action == nil {
		return nil
	}

	ctx, span := telemetry.StartSpan(ctx, state.String())
	defer span.End()
	err := action(ctx)
	if err == nil {
		err = interrupted(ctx, state)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func interrupted(ctx context.Context, state types.State) error {
	if ctx.Err() == nil {
		return nil
	}
	return cerrors.Error{
		ErrorCode: cerrors.ErrorTypeInterrupted,
		Phase:     state.String(),
		Reason:    "suite interrupted: " + ctx.Err().Error(),
	}
}
