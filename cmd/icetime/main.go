// Command icetime evaluates youth hockey schedules for conflicts and scores
// candidate opponents and tournaments.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/config"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

// cli carries state shared by subcommands once the root pre-run has loaded
// configuration.
type cli struct {
	configFile string
	cfg        *config.Config
	log        logger.Logger
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "icetime",
		Short:         "Schedule risk and fit evaluation for hockey teams",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "init" {
				return nil
			}
			return c.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "Path to a YAML config file (overrides "+config.EnvConfigFile+")")

	root.AddCommand(
		newServeCmd(c),
		newRisksCmd(c),
		newFitCmd(c),
		newInitCmd(),
	)
	return root
}

// setup loads configuration (defaults -> .env -> file -> env) and
// initializes the process logger on stderr so command output stays clean.
func (c *cli) setup(cmd *cobra.Command) error {
	if c.configFile != "" {
		if err := os.Setenv(config.EnvConfigFile, c.configFile); err != nil {
			return fmt.Errorf("setting config path: %w", err)
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	c.log = logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	c.cfg = cfg
	return nil
}
