package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentrun"
	"github.com/hupe1980/agentrun/agent"
	"github.com/hupe1980/agentrun/config"
	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/logging"
	"github.com/hupe1980/agentrun/model"
	"github.com/hupe1980/agentrun/model/anthropic"
	"github.com/hupe1980/agentrun/model/openai"
	"github.com/hupe1980/agentrun/telemetry"
	"github.com/hupe1980/agentrun/tool"
)

func newRunCmd() *cobra.Command {
	var configPath string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run an agent through the control loop",
		Long: `Loads the runtime configuration, assembles the builtin tool registry and
the configured model, then runs the agent to completion and prints every
step outcome. Without --config the built-in demo configuration is used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runAgent(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")

	return runCmd
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// runAgent wires the configured runtime and executes one run end to end.
func runAgent(ctx context.Context, out io.Writer, cfg config.Config) error {
	logger := logging.NewDefaultSlogLogger()

	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		return err
	}

	rt := agentrun.New(func(o *agentrun.Options) {
		o.Mode = cfg.ControlMode()
		o.Delay = cfg.Delay()
		o.Logger = logger
	})

	actx := core.NewAgentContext(cfg.AgentConfig())
	actx.Metadata["goal"] = cfg.Agent.Goal
	actx.ToolPermissions = cfg.ToolPermissions()

	rt.RegisterAgent(cfg.Agent.Name, buildAgent(cfg, registry))
	rt.RegisterContext(cfg.Agent.Name, actx)

	var audit *telemetry.AuditLogger
	if cfg.Audit.Path != "" {
		audit, err = telemetry.NewAuditLogger(cfg.Audit.Path)
		if err != nil {
			return err
		}
		defer audit.Close()
	}

	runID, outcomes, runErr := rt.Run(ctx, cfg.Agent.Name)

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.Success {
			failed++
		}

		payload, err := json.Marshal(outcome.Output)
		if err != nil {
			payload = []byte(fmt.Sprintf("%v", outcome.Output))
		}
		fmt.Fprintf(out, "step %s: success=%t retries=%d output=%s\n",
			outcome.StepID, outcome.Success, outcome.Retries, payload)

		if audit != nil {
			if err := audit.WriteEvent("step_completed", map[string]any{
				"run_id":  runID,
				"step_id": outcome.StepID,
				"success": outcome.Success,
				"retries": outcome.Retries,
			}); err != nil {
				logger.Warn("audit write failed", "error", err)
			}
		}
	}

	if audit != nil {
		payload := map[string]any{
			"run_id": runID,
			"agent":  cfg.Agent.Name,
			"steps":  len(outcomes),
			"failed": failed,
		}
		if runErr != nil {
			payload["error"] = runErr.Error()
		}
		if err := audit.WriteEvent("run_finished", payload); err != nil {
			logger.Warn("audit write failed", "error", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run %s aborted: %w", runID, runErr)
	}

	fmt.Fprintf(out, "Run %s finished: %d steps, %d failed\n", runID, len(outcomes), failed)

	return nil
}

// buildRegistry assembles the builtin tool registry: time, log, math, file
// and http_fetch. The file tool is sandboxed under the configured root.
func buildRegistry(cfg config.Config, logger logging.Logger) (*tool.Registry, error) {
	registry := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Logger = logger
	})

	mathTool, err := tool.NewMathTool()
	if err != nil {
		return nil, err
	}

	fileTool, err := tool.NewFileTool(cfg.Tools.FileRoot)
	if err != nil {
		return nil, err
	}

	registry.Register(tool.NewTimeTool())
	registry.Register(tool.NewLogTool(func(o *tool.LogToolOptions) {
		o.Logger = logger
	}))
	registry.Register(mathTool)
	registry.Register(fileTool)
	registry.Register(tool.NewHTTPFetchTool())

	return registry, nil
}

// buildAgent picks the agent implementation for the configured provider.
// The stub and random providers drive the scripted demo plan; openai and
// anthropic drive a model-backed agent that plans against the goal.
func buildAgent(cfg config.Config, registry *tool.Registry) core.Agent {
	switch cfg.Model.Provider {
	case "openai", "anthropic":
		return agent.NewModelAgent(cfg.Agent.Name, buildModel(cfg), func(o *agent.ModelAgentOptions) {
			o.Registry = registry
		})
	default:
		return agent.NewScriptedAgent(cfg.Agent.Name, cfg.Agent.Goal, demoSteps(), func(o *agent.ScriptedAgentOptions) {
			o.Description = cfg.Agent.Description
			o.Registry = registry
		})
	}
}

// buildModel maps the provider name to a model implementation.
func buildModel(cfg config.Config) model.Model {
	switch cfg.Model.Provider {
	case "random":
		return model.NewRandomReasoner()
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
		})
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
		})
	default:
		return model.NewStubModel()
	}
}

// demoSteps is the stub demo plan: log a greeting, then compute a sum.
func demoSteps() []core.Step {
	return []core.Step{
		{
			ID:          "hello",
			Description: "log a greeting",
			Tool:        "log",
			Args:        map[string]any{"message": "hello from agent"},
		},
		{
			ID:          "add",
			Description: "compute a math expression",
			Tool:        "math",
			Args:        map[string]any{"expression": "1+1"},
		},
	}
}
