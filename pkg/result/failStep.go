package result

// fail steps attached to the errors propagated out of the suite lifecycle
const (
	EnsureNamespace = "[setup]: failed to ensure the chaos namespace"
	ApplyExperiment = "[apply]: failed to apply the chaos experiment"
	SettleWait      = "[apply]: interrupted while waiting for the experiments to register"
	StartMonitoring = "[monitor]: failed to start the pod watcher"
	ApplyWorkflow   = "[workflow]: failed to apply the chaos workflow"
	DurationWait    = "[chaos]: interrupted while waiting for the chaos duration"
	StopMonitoring  = "[monitor]: failed to stop the pod watcher"
	CheckStatus     = "[status]: failed to check the chaos experiment status"
	GenerateReport  = "[report]: failed to generate the chaos report"
	PushMetrics     = "[report]: failed to push the suite metrics"
)
