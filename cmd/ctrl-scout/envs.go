// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/confighub/ctrl-scout/internal/clierr"
	"github.com/confighub/ctrl-scout/internal/filter"
	"github.com/confighub/ctrl-scout/internal/severity"
)

// EnvironmentInfo is one row of the envs listing.
type EnvironmentInfo struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Hostname  string        `json:"hostname"`
	AccountID string        `json:"accountId"`
	Health    severity.Tier `json:"health"`
	Selected  bool          `json:"selected"`
}

// Field implements filter.Record.
func (e EnvironmentInfo) Field(name string) (string, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "name":
		return e.Name, true
	case "hostname":
		return e.Hostname, true
	case "account":
		return e.AccountID, true
	case "health":
		return string(e.Health), true
	case "selected":
		return strconv.FormatBool(e.Selected), true
	}
	return "", false
}

func newEnvsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envs",
		Short: "List controller environments",
		Long: `List the controller environments ctrl-scout knows about, with an overall
health tier derived from uptime, incidents, issues and limits.

Examples:
  ctrl-scout envs
  ctrl-scout envs --json
  ctrl-scout envs --where "health=warning,negative"
  ctrl-scout envs --environments ./fixtures.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvs(cmd, opts)
		},
	}
	cmd.Flags().String("where", "", "Filter on id, name, hostname, account, health or selected")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runEnvs(cmd *cobra.Command, opts *rootOptions) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	where, _ := cmd.Flags().GetString("where")

	expr, err := filter.Parse(where)
	if err != nil {
		return fmt.Errorf("invalid --where: %w", err)
	}

	s, err := bootstrap(cmd, opts, "envs")
	if err != nil {
		return err
	}
	defer s.Close()

	selected := s.engine.Snapshot().Environment.ID
	infos := []EnvironmentInfo{}
	for _, summary := range s.engine.ListEnvironments() {
		env, err := s.engine.Environment(summary.ID)
		if err != nil {
			return err
		}
		info := EnvironmentInfo{
			ID:        summary.ID,
			Name:      summary.Name,
			Hostname:  summary.Hostname,
			AccountID: summary.AccountID,
			Health:    severity.Overall(env.Snapshot),
			Selected:  summary.ID == selected,
		}
		if expr.Matches(info) {
			infos = append(infos, info)
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, clierr.NothingFound("environments"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tHOSTNAME\tHEALTH")
	for _, e := range infos {
		marker := " "
		if e.Selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s %s\n", marker, e.ID, e.Name, e.Hostname, tierIcon(e.Health), e.Health)
	}
	return w.Flush()
}
