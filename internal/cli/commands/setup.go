// Package commands implements the tikey subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tikey/internal/cli/config"
	"github.com/leapstack-labs/tikey/internal/cli/output"
	"github.com/leapstack-labs/tikey/pkg/compat"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Checker  *compat.Checker
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a checker built from the
// configured rule catalog.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutChecker(cmd)

	reg, err := cmdCtx.Cfg.BuildRegistry()
	if err != nil {
		return nil, err
	}
	c, err := compat.New(
		compat.WithRegistry(reg),
		compat.WithDialect(cmdCtx.Cfg.Dialect),
		compat.WithJobs(cmdCtx.Cfg.Jobs),
		compat.WithLogger(cmdCtx.Logger),
	)
	if err != nil {
		return nil, err
	}
	cmdCtx.Checker = c
	return cmdCtx, nil
}

// NewCommandContextWithoutChecker creates a CommandContext without a checker.
// Useful for commands that only read the catalog.
func NewCommandContextWithoutChecker(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or defaults when commands
// run without the root command (as in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
