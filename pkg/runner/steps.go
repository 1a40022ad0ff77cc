package runner

import (
	"context"
	"path/filepath"
	"time"

	"github.com/kyokomi/emoji"
	"github.com/litmuschaos/chaos-suite/pkg/catalog"
	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/metrics"
	"github.com/litmuschaos/chaos-suite/pkg/probe"
	"github.com/litmuschaos/chaos-suite/pkg/report"
	"github.com/litmuschaos/chaos-suite/pkg/result"
	"github.com/litmuschaos/chaos-suite/pkg/status"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/litmuschaos/chaos-suite/pkg/utils/common"
	"github.com/litmuschaos/chaos-suite/pkg/utils/stringutils"
	"github.com/litmuschaos/chaos-suite/pkg/watcher"
	"github.com/palantir/stacktrace"
)

func (r *Runner) loadCatalog(context.Context) error {
	log.Infof("[Init]: Loading chaos experiments from %v", r.Suite.ExperimentsDir)
	r.experiments = catalog.Load(r.Suite.ExperimentsDir, r.Suite.ExperimentFiles)
	r.workflow, r.hasWorkflow = catalog.LoadWorkflow(r.Suite.ExperimentsDir, r.Suite.WorkflowFile)
	log.Infof("[Init]: Loaded %d chaos experiments", len(r.experiments))
	return nil
}

func (r *Runner) ensureNamespace(ctx context.Context) error {
	log.Infof("[Setup]: Ensuring %v namespace exists...", r.Suite.ChaosNamespace)
	if _, err := r.Executor.Run(ctx, r.kubectl.EnsureNamespace(r.Suite.ChaosNamespace), true); err != nil {
		r.Metrics.CommandFailed(ctx, r.state.String())
		return stacktrace.Propagate(err, result.EnsureNamespace)
	}
	return nil
}

// applyExperiments applies the catalog in order. A descriptor counts as applied
// once its apply was attempted, so teardown deletes partial applies as well.
func (r *Runner) applyExperiments(ctx context.Context) error {
	for _, experiment := range r.experiments {
		log.Infof("[Apply]: Applying %v...", experiment)
		r.applied = append(r.applied, experiment)
		res, err := r.Executor.Run(ctx, r.kubectl.Apply(experiment.FilePath), true)
		if err != nil {
			r.Metrics.CommandFailed(ctx, r.state.String())
			return stacktrace.Propagate(err, "%v: %v", result.ApplyExperiment, experiment.FileName)
		}
		if res.Failed() {
			r.Metrics.CommandFailed(ctx, r.state.String())
			continue
		}
		r.Metrics.ExperimentApplied(ctx, experiment.Kind)
	}
	log.Info("[Apply]: All individual chaos experiments applied!")
	return nil
}

func (r *Runner) settle(ctx context.Context) error {
	log.Debugf("[Wait]: Waiting %v for the experiments to start", r.SettleTime)
	if err := common.WaitForDuration(ctx, r.SettleTime); err != nil {
		return stacktrace.Propagate(err, result.SettleWait)
	}
	return nil
}

// startMonitoring launches the pod watcher. A second start while a watcher is
// tracked is rejected, the running one must be stopped first.
func (r *Runner) startMonitoring(ctx context.Context) error {
	if r.watch != nil {
		return watcher.ErrAlreadyRunning
	}
	log.Info("[Monitor]: Starting pod monitoring...")

	logPath := ""
	if r.Options.OutputDir != "" {
		logPath = stringutils.TimestampedPath(r.Options.OutputDir, "pod_monitoring", "log", r.Now())
		log.Infof("[Monitor]: Logging pod monitoring to %v", logPath)
	}

	watch, err := r.Monitor.Start(r.kubectl.WatchPods(r.Suite.AppNamespace, r.Suite.AppLabel), logPath)
	if err != nil {
		return stacktrace.Propagate(err, result.StartMonitoring)
	}
	r.watch = watch
	log.Infof("[Monitor]: Monitoring started (PID: %d)", watch.PID())
	return nil
}

// applyWorkflow applies the optional workflow. Its failure never aborts the run.
func (r *Runner) applyWorkflow(ctx context.Context) error {
	if !r.hasWorkflow {
		return nil
	}
	log.Info("[Workflow]: Applying chaos workflow...")
	r.workflowApplied = true
	res, _ := r.Executor.Run(ctx, r.kubectl.Apply(r.workflow.FilePath), false)
	if res.Failed() {
		r.Metrics.CommandFailed(ctx, r.state.String())
		log.Warnf("%v, exit code: %v", result.ApplyWorkflow, res.ExitCode)
		log.Warn("[Workflow]: Workflow application failed. This might be due to version incompatibility.")
		log.Warn("[Workflow]: Continuing with individual experiments only.")
	}
	return nil
}

func (r *Runner) waitForChaos(ctx context.Context) error {
	log.Infof("[Wait]: Waiting for chaos experiments to complete (%d seconds)...", r.Options.Duration)

	var err error
	if r.Options.Verbose {
		err = common.Countdown(ctx, r.Options.Duration, r.Tick, func(remaining int) {
			r.Notifier.Countdown(time.Duration(remaining) * time.Second)
		})
		if err == nil {
			r.Notifier.CountdownDone()
		}
	} else {
		err = common.WaitForDuration(ctx, r.Options.ChaosDuration())
	}
	if err != nil {
		return stacktrace.Propagate(err, result.DurationWait)
	}
	log.Info(emoji.Sprint(":white_check_mark: [Wait]: Chaos experiments completed!"))
	return nil
}

// stopMonitoring stops and forgets the watcher, it is a no-op without one
func (r *Runner) stopMonitoring(context.Context) error {
	if r.watch == nil {
		return nil
	}
	log.Info("[Monitor]: Stopping monitoring process...")
	watch := r.watch
	r.watch = nil
	if err := watch.Stop(); err != nil {
		log.Warnf("%v, err: %v", result.StopMonitoring, err)
	}
	return nil
}

func (r *Runner) checkStatus(ctx context.Context) error {
	if err := status.CheckExperimentStatus(ctx, r.Executor, r.kubectl, r.Suite); err != nil {
		r.Metrics.CommandFailed(ctx, r.state.String())
		return stacktrace.Propagate(err, result.CheckStatus)
	}
	return nil
}

func (r *Runner) generateReport(ctx context.Context) error {
	log.Info("[Report]: Generating chaos experiment report...")
	snapshot := status.TakeSnapshot(ctx, r.Executor, r.kubectl, r.Suite)

	path, err := report.Write(r.Options.OutputDir, report.Data{
		GeneratedAt:         r.Now(),
		RunID:               r.RunID,
		Verdict:             types.PassVerdict,
		Experiments:         r.experiments,
		PodStatus:           snapshot.Pods,
		ExperimentStatus:    snapshot.Experiments,
		MonitoringAvailable: probe.MonitoringAvailable(ctx, r.Executor, r.kubectl, r.Suite.Monitoring),
		AppNamespace:        r.Suite.AppNamespace,
		AppName:             r.Suite.AppName,
	})
	if err != nil {
		return stacktrace.Propagate(err, result.GenerateReport)
	}
	r.reportPath = path
	log.Infof("[Report]: Report generated: %v", path)
	return nil
}

// cleanup deletes every descriptor whose apply was attempted and the workflow,
// unless cleanup is disabled or declined. Deletes never fail the run.
func (r *Runner) cleanup(ctx context.Context) error {
	// deletes must still reach the cluster after an interrupt
	ctx = context.WithoutCancel(ctx)
	if len(r.applied) == 0 && !r.workflowApplied {
		return nil
	}
	if r.Options.NoCleanup {
		log.Info("[Cleanup]: Skipping cleanup, the chaos experiments are left in place")
		r.retain(ctx)
		return nil
	}
	if !r.Options.AutoCleanup && !r.Confirmer.Confirm("Do you want to clean up the chaos experiments?") {
		log.Info("[Cleanup]: Cleanup declined, the chaos experiments are left in place")
		r.retain(ctx)
		return nil
	}

	log.Info("[Cleanup]: Cleaning up chaos experiments...")
	for _, experiment := range r.applied {
		res, _ := r.Executor.Run(ctx, r.kubectl.Delete(experiment.FilePath), false)
		if res.Failed() {
			log.Warnf("[Cleanup]: Unable to delete %v, exit code: %v", experiment.FileName, res.ExitCode)
			r.Metrics.CommandFailed(ctx, types.StateCleanedUp.String())
			r.Metrics.ExperimentCompleted(ctx, experiment.Kind, metrics.StatusFailed)
			continue
		}
		r.Metrics.ExperimentCompleted(ctx, experiment.Kind, metrics.StatusDeleted)
	}
	if r.workflowApplied {
		if res, _ := r.Executor.Run(ctx, r.kubectl.Delete(r.workflow.FilePath), false); res.Failed() {
			log.Warnf("[Cleanup]: Unable to delete %v, exit code: %v", filepath.Base(r.workflow.FilePath), res.ExitCode)
			r.Metrics.CommandFailed(ctx, types.StateCleanedUp.String())
		}
	}
	r.applied = nil
	r.workflowApplied = false
	log.Info("[Cleanup]: Cleanup completed!")
	return nil
}

func (r *Runner) retain(ctx context.Context) {
	for _, experiment := range r.applied {
		r.Metrics.ExperimentCompleted(ctx, experiment.Kind, metrics.StatusRetained)
	}
	r.applied = nil
	r.workflowApplied = false
}

// teardown is the failure path: stop the watcher, then apply the cleanup policy
func (r *Runner) teardown(ctx context.Context) {
	_ = r.stopMonitoring(ctx)
	if r.Options.NoCleanup && (len(r.applied) != 0 || r.workflowApplied) {
		log.Warn("[Abort]: Cleanup disabled, chaos resources may remain in the cluster")
	}
	_ = r.cleanup(ctx)
}
