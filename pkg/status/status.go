package status

import (
	"context"
	"strings"

	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/litmuschaos/chaos-suite/pkg/utils/exec"
)

// CheckExperimentStatus queries the chaos resources of the suite namespace.
// A failing chaos query follows the fail-fast policy of the runner,
// the workflow query is informational only.
func CheckExperimentStatus(ctx context.Context, runner exec.Runner, kubectl exec.Kubectl, suite types.SuiteDetails) error {
	log.Info("[Status]: Checking status of chaos experiments...")
	result, err := runner.Run(ctx, kubectl.GetResources(suite.ChaosNamespace, suite.ChaosKinds...), true)
	if err != nil {
		return err
	}
	printOutput(result)

	if suite.WorkflowKind == "" {
		return nil
	}
	log.Info("[Status]: Checking status of chaos workflow...")
	result, _ = runner.Run(ctx, kubectl.GetResources(suite.ChaosNamespace, suite.WorkflowKind), false)
	if result.Failed() {
		log.Warnf("[Status]: Unable to get the %v status, exit code: %v", suite.WorkflowKind, result.ExitCode)
		return nil
	}
	printOutput(result)
	return nil
}

// Snapshot is the status captured for the report
type Snapshot struct {
	Pods        string
	Experiments string
}

// TakeSnapshot captures the application pods and the chaos resources.
// Failed queries leave the corresponding block empty.
func TakeSnapshot(ctx context.Context, runner exec.Runner, kubectl exec.Kubectl, suite types.SuiteDetails) Snapshot {
	return Snapshot{
		Pods:        capture(ctx, runner, kubectl.GetPods(suite.AppNamespace, suite.AppLabel)),
		Experiments: capture(ctx, runner, kubectl.GetResources(suite.ChaosNamespace, suite.ChaosKinds...)),
	}
}

func capture(ctx context.Context, runner exec.Runner, command string) string {
	result, err := runner.Capture(ctx, command)
	if err != nil {
		log.Warnf("[Status]: Unable to run %v, err: %v", command, err)
		return ""
	}
	if result.Failed() {
		log.Warnf("[Status]: %v exited with code %v", command, result.ExitCode)
		return ""
	}
	return result.Stdout
}

// printOutput shows captured output, streamed output was already displayed
func printOutput(result exec.Result) {
	if out := strings.TrimSpace(result.Stdout); out != "" {
		log.Info(out)
	}
}
