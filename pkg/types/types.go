package types

import "time"

const (
	// PassVerdict marks a suite that went through every lifecycle state
	PassVerdict string = "Pass"
	// FailVerdict marks a suite stopped by a fatal error
	FailVerdict string = "Fail"
	// AbortVerdict marks a suite stopped by the operator
	AbortVerdict string = "Abort"
	// AwaitedVerdict marks a suite that is still running
	AwaitedVerdict string = "Awaited"

	// UnknownField is reported for every manifest field that could not be resolved
	UnknownField string = "unknown"

	// DefaultDuration is the default chaos duration in seconds
	DefaultDuration = 240
	// SettleTime is the pause between applying the experiments and starting the watcher
	SettleTime = 5 * time.Second
	// WatcherStopTimeout is how long the watcher gets to exit after SIGTERM
	WatcherStopTimeout = 5 * time.Second
)

// RunDetails is the resolved set of options for one suite run.
// It is built once at startup and never mutated afterwards.
type RunDetails struct {
	Duration        int
	OutputDir       string
	Verbose         bool
	ContinueOnError bool
	NoCleanup       bool
	AutoCleanup     bool
	LogFormat       string
	ConfigFile      string
	PushgatewayURL  string
	OTelEndpoint    string
}

// ChaosDuration returns the configured wait as a time.Duration
func (r RunDetails) ChaosDuration() time.Duration {
	return time.Duration(r.Duration) * time.Second
}

// SuiteDetails describes where the experiments live and how the cluster is addressed
type SuiteDetails struct {
	ExperimentsDir  string            `yaml:"experimentsDir"`
	ExperimentFiles []string          `yaml:"experimentFiles"`
	WorkflowFile    string            `yaml:"workflowFile"`
	ChaosNamespace  string            `yaml:"chaosNamespace"`
	AppNamespace    string            `yaml:"appNamespace"`
	AppName         string            `yaml:"appName"`
	AppLabel        string            `yaml:"appLabel"`
	ChaosKinds      []string          `yaml:"chaosKinds"`
	WorkflowKind    string            `yaml:"workflowKind"`
	Monitoring      MonitoringDetails `yaml:"monitoring"`
	KubectlBinary   string            `yaml:"kubectl"`
}

// MonitoringDetails locates the Prometheus service documented in the report
type MonitoringDetails struct {
	Namespace string `yaml:"namespace"`
	Service   string `yaml:"service"`
}

// DefaultSuiteDetails returns the conventional chaos-experiments layout
func DefaultSuiteDetails() SuiteDetails {
	return SuiteDetails{
		ExperimentsDir: "chaos-experiments",
		ExperimentFiles: []string{
			"network-delay-chaos.yaml",
			"pod-failure-chaos.yaml",
			"cpu-stress-chaos.yaml",
			"memory-stress-chaos.yaml",
			"io-chaos.yaml",
		},
		WorkflowFile:   "chaos-workflow.yaml",
		ChaosNamespace: "chaos-testing",
		AppNamespace:   "default",
		AppName:        "resilient-app",
		AppLabel:       "app=resilient-app",
		ChaosKinds:     []string{"podchaos", "networkchaos", "stresschaos", "iochaos"},
		WorkflowKind:   "workflow",
		Monitoring: MonitoringDetails{
			Namespace: "monitoring",
			Service:   "prometheus",
		},
		KubectlBinary: "kubectl",
	}
}

// State is one step of the suite lifecycle
type State string

const (
	StateInit               State = "INIT"
	StateNamespaceReady     State = "NAMESPACE_READY"
	StateExperimentsApplied State = "EXPERIMENTS_APPLIED"
	StateSettleWait         State = "SETTLE_WAIT"
	StateMonitoring         State = "MONITORING"
	StateWorkflowApplied    State = "WORKFLOW_APPLIED"
	StateDurationWait       State = "DURATION_WAIT"
	StateMonitorStopped     State = "MONITOR_STOPPED"
	StateStatusChecked      State = "STATUS_CHECKED"
	StateReported           State = "REPORTED"
	StateCleanedUp          State = "CLEANED_UP"
	StateDone               State = "DONE"
)

func (s State) String() string {
	return string(s)
}
