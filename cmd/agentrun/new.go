package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentrun/config"
)

func newNewCmd() *cobra.Command {
	var force bool

	newCmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Scaffold a new agent project",
		Long: `Writes <name>.yaml seeded with the default configuration so the project
is immediately runnable via 'agentrun run --config <name>.yaml'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scaffoldProject(cmd.OutOrStdout(), args[0], force)
		},
	}

	newCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return newCmd
}

// scaffoldProject writes the seed configuration file for a new agent.
func scaffoldProject(out io.Writer, name string, force bool) error {
	path := name + ".yaml"

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	cfg := config.Default()
	cfg.Agent.Name = name

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(out, "Scaffolded new agent project: %s\n", name)

	return nil
}
