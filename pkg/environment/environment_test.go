package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRunDetailsDefaults(t *testing.T) {
	run, err := GetRunDetails(NewConfig())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDuration, run.Duration)
	assert.Equal(t, "text", run.LogFormat)
	assert.Empty(t, run.OutputDir)
	assert.False(t, run.AutoCleanup)
}

func TestGetRunDetailsFromEnv(t *testing.T) {
	t.Setenv("CHAOS_SUITE_DURATION", "30")
	t.Setenv("CHAOS_SUITE_OUTPUT_DIR", "/tmp/reports")
	t.Setenv("CHAOS_SUITE_AUTO_CLEANUP", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	run, err := GetRunDetails(NewConfig())
	require.NoError(t, err)
	assert.Equal(t, 30, run.Duration)
	assert.Equal(t, "/tmp/reports", run.OutputDir)
	assert.True(t, run.AutoCleanup)
	assert.Equal(t, "collector:4317", run.OTelEndpoint)
}

func TestGetRunDetailsValidation(t *testing.T) {
	t.Run("negative duration", func(t *testing.T) {
		v := NewConfig()
		v.Set(KeyDuration, -1)
		_, err := GetRunDetails(v)
		assert.True(t, cerrors.IsType(err, cerrors.ErrorTypeConfig))
	})

	t.Run("no-cleanup wins over auto-cleanup", func(t *testing.T) {
		v := NewConfig()
		v.Set(KeyNoCleanup, true)
		v.Set(KeyAutoCleanup, true)
		run, err := GetRunDetails(v)
		require.NoError(t, err)
		assert.True(t, run.NoCleanup)
		assert.False(t, run.AutoCleanup)
	})
}

func TestGetSuiteDetails(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		suite, err := GetSuiteDetails(NewConfig(), types.RunDetails{})
		require.NoError(t, err)
		assert.Equal(t, types.DefaultSuiteDetails(), suite)
	})

	t.Run("suite file then overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
experimentFiles:
  - network-delay-chaos.yaml
appLabel: app=checkout
chaosNamespace: from-file
`), 0o644))

		v := NewConfig()
		v.Set(KeyNamespace, "from-flag")
		suite, err := GetSuiteDetails(v, types.RunDetails{ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, []string{"network-delay-chaos.yaml"}, suite.ExperimentFiles)
		assert.Equal(t, "app=checkout", suite.AppLabel)
		assert.Equal(t, "from-flag", suite.ChaosNamespace)
		assert.Equal(t, "chaos-workflow.yaml", suite.WorkflowFile)
	})

	t.Run("missing suite file", func(t *testing.T) {
		_, err := GetSuiteDetails(NewConfig(), types.RunDetails{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")})
		assert.True(t, cerrors.IsType(err, cerrors.ErrorTypeConfig))
	})
}

func TestValidateSuiteDetails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.SuiteDetails)
		valid  bool
	}{
		{name: "defaults", mutate: func(*types.SuiteDetails) {}, valid: true},
		{name: "uppercase namespace", mutate: func(s *types.SuiteDetails) { s.ChaosNamespace = "Chaos" }},
		{name: "empty chaos namespace", mutate: func(s *types.SuiteDetails) { s.ChaosNamespace = "" }},
		{name: "empty app namespace", mutate: func(s *types.SuiteDetails) { s.AppNamespace = "" }, valid: true},
		{name: "bad selector", mutate: func(s *types.SuiteDetails) { s.AppLabel = "app==(x" }},
		{name: "set selector", mutate: func(s *types.SuiteDetails) { s.AppLabel = "app in (a,b)" }, valid: true},
		{name: "no chaos kinds", mutate: func(s *types.SuiteDetails) { s.ChaosKinds = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite := types.DefaultSuiteDetails()
			tt.mutate(&suite)
			err := ValidateSuiteDetails(suite)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, cerrors.IsType(err, cerrors.ErrorTypeConfig))
		})
	}
}
