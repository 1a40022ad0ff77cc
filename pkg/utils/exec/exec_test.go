package exec

import (
	"bytes"
	"context"
	"testing"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietExecutor(continueOnError bool) *Executor {
	return &Executor{Shell: "/bin/sh", ContinueOnError: continueOnError}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name            string
		command         string
		failFast        bool
		continueOnError bool
		wantExit        int
		wantStdout      string
		wantErr         bool
	}{
		{name: "success is captured", command: "echo chaos", failFast: true, wantExit: 0, wantStdout: "chaos\n"},
		{name: "fail fast failure is fatal", command: "echo nope >&2; exit 3", failFast: true, wantExit: 3, wantErr: true},
		{name: "fail fast failure with continue on error", command: "exit 2", failFast: true, continueOnError: true, wantExit: 2},
		{name: "best effort failure returns result", command: "exit 4", failFast: false, wantExit: 4},
		{name: "pipelines run through the shell", command: "printf 'a\\nb\\n' | wc -l | tr -d ' '", failFast: true, wantStdout: "2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := quietExecutor(tt.continueOnError).Run(context.Background(), tt.command, tt.failFast)
			assert.Equal(t, tt.wantExit, result.ExitCode)
			if tt.wantStdout != "" {
				assert.Equal(t, tt.wantStdout, result.Stdout)
			}
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cerrors.IsType(err, cerrors.ErrorTypeCommandExecution))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRun_FatalErrorCarriesStderr(t *testing.T) {
	_, err := quietExecutor(false).Run(context.Background(), "echo broken manifest >&2; exit 1", true)
	require.Error(t, err)

	var cerr cerrors.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "broken manifest", cerr.Reason)
	assert.Equal(t, "echo broken manifest >&2; exit 1", cerr.Target)
}

func TestRun_VerboseStreamsOutput(t *testing.T) {
	var out bytes.Buffer
	e := &Executor{Shell: "/bin/sh", Verbose: true, Stdout: &out, Stderr: &out}

	result, err := e.Run(context.Background(), "echo streamed", true)
	require.NoError(t, err)
	assert.Empty(t, result.Stdout)
	assert.Equal(t, "streamed\n", out.String())
}

func TestCapture_IgnoresVerboseAndFailures(t *testing.T) {
	e := &Executor{Shell: "/bin/sh", Verbose: true}

	result, err := e.Capture(context.Background(), "echo snapshot; exit 1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, "snapshot\n", result.Stdout)
}

func TestRun_MissingShell(t *testing.T) {
	e := &Executor{Shell: "/nonexistent/shell"}

	result, err := e.Run(context.Background(), "true", false)
	require.NoError(t, err)
	assert.Equal(t, -1, result.ExitCode)
	assert.True(t, result.Failed())
}

func TestKubectlCommands(t *testing.T) {
	k := Kubectl{}

	assert.Equal(t, "kubectl apply -f chaos-experiments/io-chaos.yaml", k.Apply("chaos-experiments/io-chaos.yaml"))
	assert.Equal(t, "kubectl delete -f chaos-experiments/io-chaos.yaml", k.Delete("chaos-experiments/io-chaos.yaml"))
	assert.Equal(t, "kubectl apply -f 'my dir/net.yaml'", k.Apply("my dir/net.yaml"))
	assert.Equal(t, "kubectl create namespace chaos-testing --dry-run=client -o yaml | kubectl apply -f -", k.EnsureNamespace("chaos-testing"))
	assert.Equal(t, "kubectl get podchaos,networkchaos -n chaos-testing", k.GetResources("chaos-testing", "podchaos", "networkchaos"))
	assert.Equal(t, "kubectl get svc -n monitoring prometheus -o name", k.GetServiceName("monitoring", "prometheus"))
	assert.Equal(t, []string{"kubectl", "get", "pods", "-l", "app=resilient-app", "-w"}, k.WatchPods("", "app=resilient-app"))
	assert.Equal(t, "oc get pods -l app=web -n default", Kubectl{Binary: "oc"}.GetPods("default", "app=web"))
}
