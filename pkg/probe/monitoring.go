package probe

import (
	"context"

	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/litmuschaos/chaos-suite/pkg/utils/exec"
)

// MonitoringAvailable reports whether the Prometheus service of the monitoring
// stack can be found in the cluster
func MonitoringAvailable(ctx context.Context, runner exec.Runner, kubectl exec.Kubectl, monitoring types.MonitoringDetails) bool {
	if monitoring.Service == "" {
		return false
	}
	result, err := runner.Capture(ctx, kubectl.GetServiceName(monitoring.Namespace, monitoring.Service))
	if err != nil {
		log.Warnf("[Probe]: Unable to look up the %v service, err: %v", monitoring.Service, err)
		return false
	}
	if result.Failed() {
		log.Debugf("[Probe]: %v service not found in %v namespace", monitoring.Service, monitoring.Namespace)
		return false
	}
	return true
}
