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
	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/internal/filter"
	"github.com/confighub/ctrl-scout/internal/severity"
)

// LimitInfo is one metric limit with its usage.
type LimitInfo struct {
	Scope    string        `json:"scope"` // "controller" or "account"
	Resource string        `json:"resource"`
	Current  int64         `json:"current"`
	Limit    int64         `json:"limit"`
	Percent  int           `json:"percent"`
	Tier     severity.Tier `json:"tier"`
}

// Field implements filter.Record.
func (l LimitInfo) Field(name string) (string, bool) {
	switch name {
	case "scope":
		return l.Scope, true
	case "resource":
		return l.Resource, true
	case "current":
		return strconv.FormatInt(l.Current, 10), true
	case "limit":
		return strconv.FormatInt(l.Limit, 10), true
	case "percent":
		return strconv.Itoa(l.Percent), true
	case "tier":
		return string(l.Tier), true
	}
	return "", false
}

func newLimitsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limits [ENV]",
		Short: "Show metric limit usage",
		Long: `Show how close each controller and account metric limit is to its cap.

Usage at 60% or more is a warning, 80% or more is negative. Filter with
--where on scope, resource, current, limit, percent and tier.

Examples:
  ctrl-scout limits
  ctrl-scout limits farm --where "percent>=60"
  ctrl-scout limits --where "scope=account AND tier!=excellent" --json
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeEnvironments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLimits(cmd, opts, args)
		},
	}
	cmd.Flags().String("where", "", "Filter expression, e.g. \"percent>=80\"")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runLimits(cmd *cobra.Command, opts *rootOptions, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	where, _ := cmd.Flags().GetString("where")

	expr, err := filter.Parse(where)
	if err != nil {
		return fmt.Errorf("invalid --where: %w", err)
	}

	s, err := bootstrap(cmd, opts, "limits")
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 1 {
		if err := selectEnvironment(s.engine, args[0]); err != nil {
			return err
		}
	}
	snap := s.engine.Snapshot()
	if !snap.HasSelection {
		return clierr.ErrNoActiveSelection
	}

	usage := snap.Environment.Snapshot.LimitUsage
	infos := []LimitInfo{}
	add := func(scope string, rows []envsvc.LimitUsageRow) {
		for _, r := range rows {
			pct := r.Percent()
			info := LimitInfo{
				Scope:    scope,
				Resource: r.Resource,
				Current:  r.Current,
				Limit:    r.Limit,
				Percent:  pct,
				Tier:     severity.UsagePercent(float64(pct)),
			}
			if expr.Matches(info) {
				infos = append(infos, info)
			}
		}
	}
	add("controller", usage.Controller)
	add("account", usage.Account)

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, clierr.NothingFound("limits"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCOPE\tRESOURCE\tCURRENT\tLIMIT\tUSAGE")
	for _, l := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s %d%%\n", l.Scope, l.Resource, l.Current, l.Limit, tierIcon(l.Tier), l.Percent)
	}
	return w.Flush()
}
