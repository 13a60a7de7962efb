// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Command ctrl-scout is an operator dashboard for monitored controller environments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/confighub/ctrl-scout/internal/clierr"
	"github.com/confighub/ctrl-scout/internal/config"
	"github.com/confighub/ctrl-scout/internal/engine"
	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/internal/logging"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

// rootOptions holds the global flags shared by every command.
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ctrl-scout",
		Short: "Inspect monitored controller environments",
		Long: `ctrl-scout - inspect monitored controller environments

ctrl-scout shows one controller environment at a time:

  - Account metadata, settings and cluster endpoints
  - Resource limits and how close each one is to its cap
  - Open P0/P1 issues and controller, account and cluster incidents
  - Ad-hoc queries from a catalog of parameterized templates

Run "ctrl-scout dashboard" for the interactive view, or the envs, status,
incidents, limits and query commands for scripting (all accept --json).

Environment Variables:
  CTRL_SCOUT_LOG_LEVEL         Session log level (default: info)
  CTRL_SCOUT_LOG_DIR           Session log directory (default: .ctrl-scout/logs)
  CTRL_SCOUT_QUERY_LATENCY     Simulated query latency (default: 1.5s)
  CTRL_SCOUT_QUERY_TIMEOUT     Query timeout (default: 30s)
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file (default: $HOME/.ctrl-scout/config.yaml or ./config.yaml)")
	pf.String("environments", "", "Environments fixtures file, YAML or JSON (default: built-in reference environments)")
	pf.String("queries", "", "Extra query templates file (default: ~/.ctrl-scout/queries.yaml)")
	pf.String("log-level", "info", "Session log level: debug, info, warn, error")

	cmd.AddCommand(
		newVersionCmd(),
		newCompletionCmd(),
		newDashboardCmd(opts),
		newEnvsCmd(opts),
		newStatusCmd(opts),
		newIncidentsCmd(opts),
		newLimitsCmd(opts),
		newQueryCmd(opts),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, clierr.Pretty(err))
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ctrl-scout version %s (built %s)\n", BuildTag, BuildDate)
		},
	}
}

// session is everything a command needs to drive the engine.
type session struct {
	cfg    *config.Config
	engine *engine.Engine
	log    *logging.Session
}

// Close flushes the session log and returns its path.
func (s *session) Close() string {
	return s.log.Close()
}

// bootstrap loads configuration, opens the session log for command and
// builds the engine over the configured environments and templates.
func bootstrap(cmd *cobra.Command, opts *rootOptions, command string) (*session, error) {
	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewSession(cfg.LogDir, command, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	registry, err := envsvc.LoadRegistry(cfg.EnvironmentsFile)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("load environments: %w", err)
	}

	catalog, err := queries.LoadCatalog(cfg.QueriesFile)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("load query templates: %w", err)
	}

	exec := queries.WithTimeout(queries.NewMockExecutor(catalog, cfg.QueryLatency), cfg.QueryTimeout)
	eng := engine.New(registry, catalog,
		engine.WithLogger(logger.Logger),
		engine.WithExecutor(exec))

	s := &session{cfg: cfg, engine: eng, log: logger}
	if cfg.DefaultEnvironment != "" {
		if err := selectEnvironment(eng, cfg.DefaultEnvironment); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// selectEnvironment selects by id, falling back to hostname or name lookup.
func selectEnvironment(eng *engine.Engine, ref string) error {
	_, err := eng.SelectEnvironment(ref)
	if err == nil || !clierr.IsNotFound(err) {
		return err
	}
	if r := eng.ResolveByText(ref); r.Unresolved {
		return clierr.NotFound("controller", ref)
	}
	return nil
}
