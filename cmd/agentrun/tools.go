package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentrun/config"
	"github.com/hupe1980/agentrun/logging"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the builtin tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := buildRegistry(config.Default(), logging.NoOpLogger{})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Built-in tools: %s\n", strings.Join(registry.List(), ", "))

			return nil
		},
	}
}
