package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lool/ws-contract-tests/framework"
	"github.com/lool/ws-contract-tests/wstests"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:   "ws-contract-tests",
		Short: "Contract tests for a document service's WebSocket protocol",
		Long: `Runs scripted editing sessions against a running document service over its WebSocket
endpoint, and reports which tests passed.

Settings can also be given in a config file (--config) or as LOOLTEST_* environment
variables, such as LOOLTEST_PORT or LOOLTEST_POLL_TIMEOUT.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := params.load(cmd.Flags()); err != nil {
				return fmt.Errorf("invalid parameters: %w", err)
			}
			closeLog, err := configureLogging(params)
			if err != nil {
				return fmt.Errorf("invalid parameters: %w", err)
			}
			defer closeLog()
			return run(cmd, params)
		},
	}
	params.addFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, params commandParams) error {
	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = framework.ZerologLogger(log.Logger)
	}

	harness, err := framework.NewTestHarness(
		framework.ServiceParams{
			Host:         params.host,
			Port:         params.port,
			Path:         params.wsPath,
			Capabilities: params.capabilities,
		},
		params.statusQueryTimeout,
		mainDebugLogger,
		os.Stdout,
	)
	if err != nil {
		return fmt.Errorf("test service error: %w", err)
	}
	log.Info().Str("url", harness.WebSocketURL()).Strs("capabilities", harness.Capabilities()).
		Msg("service is reachable")

	fmt.Println()
	framework.PrintFilterDescription(harness, params.filters, wstests.AllCapabilities)

	fmt.Println("Running test suite")

	testLogger := framework.TestLoggers(
		&ConsoleTestLogger{
			DebugOutputOnFailure: params.debug || params.debugAll,
			DebugOutputOnSuccess: params.debugAll,
		},
		framework.EventTestLogger(log.Logger),
	)
	config := wstests.SuiteConfig{
		FixturesDir: params.fixturesDir,
		PollTimeout: params.pollTimeout,
	}

	results := wstests.RunTestSuite(harness, config, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(results)
	passed, failed, skipped := results.Counts()
	log.Info().Int("passed", passed).Int("failed", failed).Int("skipped", skipped).Msg("test run finished")
	if !results.OK() {
		fmt.Println()
		fmt.Println("To rerun a failed test:")
		for _, f := range results.Failures {
			fmt.Printf("  %s\n", rerunCommand(cmd.Flags(), f.TestID))
		}
		return fmt.Errorf("%d tests failed", failed)
	}
	return nil
}

// configureLogging sets up the global harness logger: console output on stderr, and also
// JSON output to a rotating file if one was specified.
func configureLogging(params commandParams) (func(), error) {
	level, err := zerolog.ParseLevel(strings.ToLower(params.logLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", params.logLevel)
	}
	if params.debugAll && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	closer := func() {}
	if params.logFile != "" {
		file := &lumberjack.Logger{
			Filename:   params.logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = func() { _ = file.Close() }
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer, nil
}
