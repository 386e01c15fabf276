// Package app provides the entry point for the codemode command-line
// application.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcpgateway/codemode/pkg/audit"
	"github.com/mcpgateway/codemode/pkg/gateway"
	"github.com/mcpgateway/codemode/pkg/gateway/config"
	"github.com/mcpgateway/codemode/pkg/gateway/registry"
	gwserver "github.com/mcpgateway/codemode/pkg/gateway/server"
	"github.com/mcpgateway/codemode/pkg/gateway/validate"
	"github.com/mcpgateway/codemode/pkg/logger"
	"github.com/mcpgateway/codemode/pkg/telemetry"
)

// version is replaced at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:               "codemode",
	DisableAutoGenTag: true,
	Short:             "Codemode gateway - a sandboxed JavaScript execution core for MCP backends",
	Long: `codemode runs a dynamic-code execution gateway for the Model Context Protocol.

It exposes two tools to MCP clients:

- execute: runs JavaScript in a sandbox that denies all ambient authority
  except a single curated "mcp" capability object proxying the connected
  backend servers, under a timeout and call-budget ceiling.
- search: enumerates the tools, resources, prompts and servers known to
  the connected backends, filtered by a case-insensitive pattern.

Backend connection establishment itself is an external collaborator and out
of scope for this binary; codemode registers backends named in its
configuration file as disconnected until something else (out of scope)
supplies a live client for them.`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if viper.GetBool("debug") {
			_ = os.Setenv("DEBUG", "true")
		}
		logger.Initialize()
	},
}

// NewRootCmd creates a new root command for the codemode CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to codemode configuration file")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		logger.Errorf("Error binding config flag: %v", err)
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.SilenceUsage = true

	return rootCmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the codemode gateway",
		Long: `Start the codemode gateway, exposing the execute and search tools over
Streamable HTTP at the configured listen address.`,
		RunE: runServe,
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			logger.Infof("codemode version: %s", version)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the codemode configuration file for syntax and semantic errors:
YAML syntax, required fields, execution limit bounds, and backend entries.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			configPath := viper.GetString("config")
			if configPath == "" {
				return fmt.Errorf("no configuration file specified, use --config flag")
			}

			cfg, err := loadAndValidateConfig(configPath)
			if err != nil {
				return err
			}

			logger.Infof("Configuration is valid")
			logger.Infof("  Name: %s", cfg.Name)
			logger.Infof("  Listen: %s", cfg.Listen.Address)
			logger.Infof("  Default timeout: %dms, max mcp calls: %d",
				cfg.Execution.DefaultTimeoutMs, cfg.Execution.DefaultMaxMCPCalls)
			if len(cfg.Backends) > 0 {
				logger.Infof("  Backends: %d configured", len(cfg.Backends))
			}
			return nil
		},
	}
}

func loadAndValidateConfig(configPath string) (*config.Config, error) {
	logger.Infof("Loading configuration from: %s", configPath)

	loader := config.NewYAMLLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration loading failed: %w", err)
	}
	cfg.ApplyDefaults(
		validate.DefaultTimeoutMs,
		validate.MinTimeoutMs,
		validate.MaxTimeoutMs,
		validate.MaxCodeLength,
		validate.DefaultMaxMCPCalls,
	)

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return cfg, nil
}

// buildRegistry registers every configured backend as disconnected: codemode
// itself never dials a backend transport (spec.md §1 keeps that out of
// scope), so a registered backend only becomes usable once an external
// collaborator calls Registry.Add with a live BackendClient.
func buildRegistry(cfg *config.Config) *registry.Registry {
	reg := registry.New()
	for _, b := range cfg.Backends {
		reg.Add(gateway.BackendConnection{
			Name:   b.Name,
			Status: gateway.StatusDisconnected,
		})
	}
	return reg
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	configPath := viper.GetString("config")
	if configPath == "" {
		return fmt.Errorf("no configuration file specified, use --config flag")
	}

	cfg, err := loadAndValidateConfig(configPath)
	if err != nil {
		return err
	}

	reg := buildRegistry(cfg)
	if len(cfg.Backends) > 0 {
		logger.Warnf("%d backend(s) registered as disconnected; connecting backend transports is out of scope for this binary", len(cfg.Backends))
	}

	auditor := audit.NewAuditor(audit.Config{Enabled: true, Component: cfg.Name})

	telemetryProvider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:                     true,
		MetricsEnabled:              true,
		EnablePrometheusMetricsPath: true,
		ServiceName:                 cfg.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to create telemetry provider: %w", err)
	}
	defer func() {
		if err := telemetryProvider.Shutdown(ctx); err != nil {
			logger.Errorf("failed to shutdown telemetry provider: %v", err)
		}
	}()

	limits := gwserver.ExecutionLimits{
		DefaultTimeoutMs:   cfg.Execution.DefaultTimeoutMs,
		DefaultMaxMCPCalls: cfg.Execution.DefaultMaxMCPCalls,
	}
	srv := gwserver.New(cfg.Name, version, reg, limits, auditor, telemetryProvider)

	return serveStreamableHTTP(ctx, srv, cfg.Listen.Address, true)
}
