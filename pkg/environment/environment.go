package environment

import (
	"os"
	"strings"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/palantir/stacktrace"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/validation"
)

// configuration keys, shared by the flags and the CHAOS_SUITE_* env
const (
	KeyDuration        = "duration"
	KeyOutputDir       = "output-dir"
	KeyVerbose         = "verbose"
	KeyContinueOnError = "continue-on-error"
	KeyNoCleanup       = "no-cleanup"
	KeyAutoCleanup     = "auto-cleanup"
	KeyLogFormat       = "log-format"
	KeyConfig          = "config"
	KeyPushgatewayURL  = "pushgateway-url"
	KeyOTelEndpoint    = "otel-endpoint"
	KeyExperimentsDir  = "experiments-dir"
	KeyNamespace       = "namespace"
	KeyKubectl         = "kubectl"

	EnvPrefix = "CHAOS_SUITE"
)

// NewConfig returns a viper instance reading CHAOS_SUITE_* variables,
// with the OTLP endpoint also taken from the standard OTEL env
func NewConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyOTelEndpoint, EnvPrefix+"_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")

	v.SetDefault(KeyDuration, types.DefaultDuration)
	v.SetDefault(KeyLogFormat, "text")
	return v
}

// GetRunDetails resolves the run options.
// --no-cleanup wins over --auto-cleanup when both are set.
func GetRunDetails(v *viper.Viper) (types.RunDetails, error) {
	run := types.RunDetails{
		Duration:        v.GetInt(KeyDuration),
		OutputDir:       v.GetString(KeyOutputDir),
		Verbose:         v.GetBool(KeyVerbose),
		ContinueOnError: v.GetBool(KeyContinueOnError),
		NoCleanup:       v.GetBool(KeyNoCleanup),
		AutoCleanup:     v.GetBool(KeyAutoCleanup),
		LogFormat:       v.GetString(KeyLogFormat),
		ConfigFile:      v.GetString(KeyConfig),
		PushgatewayURL:  v.GetString(KeyPushgatewayURL),
		OTelEndpoint:    v.GetString(KeyOTelEndpoint),
	}
	if run.Duration < 0 {
		return run, configError(KeyDuration, "duration must not be negative")
	}
	if run.NoCleanup {
		run.AutoCleanup = false
	}
	return run, nil
}

// GetSuiteDetails starts from the default layout, overlays the suite file
// of the run and then the explicit flag or env overrides
func GetSuiteDetails(v *viper.Viper, run types.RunDetails) (types.SuiteDetails, error) {
	suite := types.DefaultSuiteDetails()

	if run.ConfigFile != "" {
		raw, err := os.ReadFile(run.ConfigFile)
		if err != nil {
			return suite, stacktrace.Propagate(configError(KeyConfig, err.Error()), "could not read the suite file")
		}
		if err := yaml.Unmarshal(raw, &suite); err != nil {
			return suite, stacktrace.Propagate(configError(KeyConfig, err.Error()), "could not parse the suite file")
		}
	}

	if dir := v.GetString(KeyExperimentsDir); dir != "" {
		suite.ExperimentsDir = dir
	}
	if ns := v.GetString(KeyNamespace); ns != "" {
		suite.ChaosNamespace = ns
	}
	if bin := v.GetString(KeyKubectl); bin != "" {
		suite.KubectlBinary = bin
	}

	return suite, ValidateSuiteDetails(suite)
}

// ValidateSuiteDetails checks the namespaces and the watch selector
func ValidateSuiteDetails(suite types.SuiteDetails) error {
	if err := validateNamespace("chaosNamespace", suite.ChaosNamespace); err != nil {
		return err
	}
	// an empty app namespace watches the current context namespace
	if suite.AppNamespace != "" {
		if err := validateNamespace("appNamespace", suite.AppNamespace); err != nil {
			return err
		}
	}
	if suite.AppLabel == "" {
		return configError("appLabel", "label selector must not be empty")
	}
	if _, err := labels.Parse(suite.AppLabel); err != nil {
		return configError("appLabel", err.Error())
	}
	if len(suite.ChaosKinds) == 0 {
		return configError("chaosKinds", "at least one chaos kind is required")
	}
	return nil
}

func validateNamespace(key, ns string) error {
	if errs := validation.IsDNS1123Label(ns); len(errs) != 0 {
		return configError(key, "invalid namespace '"+ns+"': "+strings.Join(errs, ", "))
	}
	return nil
}

func configError(target, reason string) error {
	return cerrors.Error{ErrorCode: cerrors.ErrorTypeConfig, Target: target, Reason: reason}
}
