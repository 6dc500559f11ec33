// Package cmd provides the CLI commands for codeengine.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/codeengine/internal/config"
	"github.com/standardbeagle/codeengine/internal/engine"
	"github.com/standardbeagle/codeengine/internal/logging"
	"github.com/standardbeagle/codeengine/internal/preflight"
	"github.com/standardbeagle/codeengine/internal/profiling"
	"github.com/standardbeagle/codeengine/pkg/version"
)

var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profiler     = profiling.NewProfiler()
	cpuCleanup   func()
	traceCleanup func()
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the codeengine CLI.
func NewRootCmd() *cobra.Command {
	var skipCheck bool

	cmd := &cobra.Command{
		Use:   "codeengine",
		Short: "Local-first code intelligence engine for AI coding assistants",
		Long: `codeengine indexes a codebase into a canonical symbol store and an
inverted text index, then serves search, navigation, and health tools
over the Model Context Protocol.

It runs entirely locally with zero configuration required.

Just run 'codeengine' in your project directory to get started.`,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runSmartDefault(cmd.Context(), skipCheck)
		},
	}

	cmd.SetVersionTemplate("codeengine version {{.Version}}\n")

	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Skip pre-flight system checks")

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.codeengine/logs/")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLogsCmd())

	return cmd
}

func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error

	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	} else {
		// Without --debug, still log to file only: 'serve' talks MCP over
		// stdio and slog.Default() would otherwise write to stderr.
		cleanup, err := logging.SetupMCPMode()
		if err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}
		loggingCleanup = cleanup
	}

	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
	}

	if profileTrace != "" {
		traceCleanup, err = profiler.StartTrace(profileTrace)
		if err != nil {
			if cpuCleanup != nil {
				cpuCleanup()
			}
			return fmt.Errorf("failed to start trace: %w", err)
		}
	}

	return nil
}

func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}
	if loggingCleanup != nil {
		slog.Info("debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// runSmartDefault implements the "it just works" flow: find the
// workspace root, run a silent preflight check, start the engine, and
// serve over stdio.
//
// MCP requires stdout to carry nothing but JSON-RPC messages. No
// output may reach stdout before Serve begins — diagnostics belong to
// 'codeengine doctor' and 'codeengine status' instead.
func runSmartDefault(ctx context.Context, skipCheck bool) error {
	root, err := config.FindProjectRoot(".")
	if err != nil {
		root, _ = os.Getwd()
	}

	if !skipCheck {
		checker := preflight.New(preflight.WithOutput(os.Stderr))
		results := checker.RunAll(ctx, root)
		if checker.HasCriticalFailures(results) {
			slog.Error("system check failed, run 'codeengine doctor' for diagnostics")
			return fmt.Errorf("system check failed")
		}
	}

	eng, err := engine.Start(ctx, root, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer func() { _ = eng.Close(context.Background()) }()

	return eng.Serve(ctx)
}
