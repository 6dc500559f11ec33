package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/codeengine/internal/config"
	"github.com/standardbeagle/codeengine/internal/engine"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Start codeengine's MCP tool surface, serving search, navigation, and
health tools to a connected client until the process receives an
interrupt or the client closes the connection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	return cmd
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := config.FindProjectRoot(".")
	if err != nil {
		root, _ = os.Getwd()
	}

	eng, err := engine.Start(ctx, root, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer func() { _ = eng.Close(context.Background()) }()

	return eng.Serve(ctx)
}
