package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/litmuschaos/chaos-suite/pkg/environment"
	"github.com/litmuschaos/chaos-suite/pkg/events"
	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/metrics"
	"github.com/litmuschaos/chaos-suite/pkg/result"
	"github.com/litmuschaos/chaos-suite/pkg/runner"
	"github.com/litmuschaos/chaos-suite/pkg/telemetry"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/litmuschaos/chaos-suite/pkg/utils/exec"
	"github.com/palantir/stacktrace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := environment.NewConfig()

	var rootCmd = &cobra.Command{
		Use:           "chaos-suite [flags]",
		Short:         "Run chaos engineering experiments on Kubernetes",
		Long:          "Apply the chaos experiments, watch the application pods for the chaos duration, report and clean up",
		Args:          cobra.MaximumNArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return run(cmd.Context(), v)
		},
	}

	flags := rootCmd.Flags()
	flags.Int(environment.KeyDuration, types.DefaultDuration, "Duration to run chaos experiments (seconds)")
	flags.String(environment.KeyOutputDir, "", "Directory to store logs and reports")
	flags.Bool(environment.KeyVerbose, false, "Enable verbose output")
	flags.Bool(environment.KeyContinueOnError, false, "Continue running experiments even if some fail")
	flags.Bool(environment.KeyNoCleanup, false, "Do not clean up experiments after running")
	flags.Bool(environment.KeyAutoCleanup, false, "Automatically clean up experiments without prompting")
	flags.String(environment.KeyLogFormat, "text", "Log format, one of text or json")
	flags.String(environment.KeyConfig, "", "Path of a YAML suite file overriding the default layout")
	flags.String(environment.KeyPushgatewayURL, "", "Pushgateway receiving the run metrics")
	flags.String(environment.KeyOTelEndpoint, "", "OTLP gRPC endpoint receiving the lifecycle spans")
	flags.String(environment.KeyExperimentsDir, "", "Directory holding the chaos manifests (default chaos-experiments)")
	flags.String(environment.KeyNamespace, "", "Namespace of the chaos resources (default chaos-testing)")
	flags.String(environment.KeyKubectl, "", "Cluster CLI binary (default kubectl)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	// the first signal restores default handling, a second one force-quits the teardown
	context.AfterFunc(ctx, stop)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		msg, errType := cerrors.GetRootCauseAndErrorCode(err)
		log.Errorf("[Error]: %v", msg)
		log.Debugf("[Error]: type %v, trace: %v", errType, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	options, err := environment.GetRunDetails(v)
	if err != nil {
		return err
	}
	if err := log.Configure(options.Verbose, options.LogFormat); err != nil {
		return cerrors.Error{ErrorCode: cerrors.ErrorTypeConfig, Target: environment.KeyLogFormat, Reason: err.Error()}
	}
	suite, err := environment.GetSuiteDetails(v, options)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.InitOTelSDK(ctx, options.OTelEndpoint)
	if err != nil {
		log.Warnf("[Telemetry]: Unable to initialise the tracer provider, err: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Warnf("[Telemetry]: Unable to flush the spans, err: %v", err)
		}
	}()
	ctx = telemetry.WithTraceParent(ctx)

	suiteRunner := runner.New(options, suite, exec.NewExecutor(options.Verbose, options.ContinueOnError))
	suiteRunner.Notifier = events.NewConsole(os.Stdout)
	suiteRunner.Confirmer = events.NewPrompt(os.Stdin, os.Stdout)

	var recorder *metrics.Recorder
	if options.PushgatewayURL != "" {
		if recorder, err = metrics.NewRecorder(); err != nil {
			return err
		}
		suiteRunner.Metrics = recorder
	}

	runErr := suiteRunner.Run(ctx)

	if recorder != nil {
		pushCtx := context.WithoutCancel(ctx)
		if err := recorder.Push(pushCtx, options.PushgatewayURL, suiteRunner.RunID); err != nil {
			log.Warnf("%v, err: %v", result.PushMetrics, err)
		}
		if err := recorder.Shutdown(pushCtx); err != nil {
			log.Warnf("[Metrics]: Unable to shut down the meter provider, err: %v", err)
		}
	}

	if runErr != nil {
		return stacktrace.Propagate(runErr, "suite %v finished with verdict %v", suiteRunner.RunID, suiteRunner.Verdict())
	}
	fmt.Printf("Suite %v finished with verdict %v\n", suiteRunner.RunID, suiteRunner.Verdict())
	return nil
}
