// Command agentrun runs autonomous agents through a bounded control loop.
// It loads a YAML runtime configuration, assembles the builtin tool registry
// and the configured model, and executes the agent to completion.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentrun"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree. A fresh instance per call keeps
// flag state from leaking between test executions.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "agentrun",
		Short:         "Run autonomous agents through a bounded control loop",
		Version:       agentrun.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd(), newToolsCmd(), newModelsCmd(), newNewCmd())

	return rootCmd
}
