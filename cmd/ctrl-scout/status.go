// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/confighub/ctrl-scout/internal/engine"
	"github.com/confighub/ctrl-scout/internal/incidentsvc"
	"github.com/confighub/ctrl-scout/internal/severity"
)

// StatusInfo holds the status of one environment for display
type StatusInfo struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Hostname  string              `json:"hostname"`
	Version   string              `json:"version"`
	Health    severity.Tier       `json:"health"`
	Cards     []engine.Card       `json:"cards"`
	Incidents incidentsvc.Summary `json:"incidents"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [ENV]",
		Short: "Show key metrics for an environment",
		Long: `Show the key metric cards for one controller environment: uptime,
incidents, P0/P1 issues, thread pool breaches and metric limits reached.

ENV is an environment id, a controller hostname, or part of its name.
Without ENV the default environment is used.

Examples:
  ctrl-scout status
  ctrl-scout status farm
  ctrl-scout status dotnetces.saas.appdynamics.com --json
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeEnvironments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts, args)
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runStatus(cmd *cobra.Command, opts *rootOptions, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := bootstrap(cmd, opts, "status")
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 1 {
		if err := selectEnvironment(s.engine, args[0]); err != nil {
			return err
		}
	}

	cards, err := s.engine.Cards()
	if err != nil {
		return err
	}
	snap := s.engine.Snapshot()
	env := snap.Environment

	status := StatusInfo{
		ID:        env.ID,
		Name:      env.Name,
		Hostname:  env.Hostname,
		Version:   env.Snapshot.AccountInfo.Version,
		Health:    severity.Overall(env.Snapshot),
		Cards:     cards,
		Incidents: snap.Incidents,
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Fprintf(out, "%s (%s)\n", status.Name, status.Hostname)
	fmt.Fprintf(out, "Version %s  Health %s %s\n\n", status.Version, tierIcon(status.Health), status.Health)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range cards {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", tierIcon(c.Tier), c.Label, c.Value)
	}
	return w.Flush()
}
