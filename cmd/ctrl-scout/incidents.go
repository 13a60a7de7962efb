// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/confighub/ctrl-scout/internal/clierr"
	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/internal/filter"
)

// IncidentInfo is one row of the incidents listing.
type IncidentInfo struct {
	Level        envsvc.Level            `json:"level"`
	ID           string                  `json:"id"`
	Type         string                  `json:"type"`
	Description  string                  `json:"description"`
	Severity     envsvc.IncidentSeverity `json:"severity"`
	Status       envsvc.IncidentStatus   `json:"status"`
	ResourceType envsvc.ResourceType     `json:"resourceType,omitempty"`
	StartTime    string                  `json:"startTime"`
	Duration     string                  `json:"duration"`
}

// Field implements filter.Record.
func (i IncidentInfo) Field(name string) (string, bool) {
	switch name {
	case "level":
		return string(i.Level), true
	case "id":
		return i.ID, true
	case "type":
		return i.Type, true
	case "description":
		return i.Description, true
	case "severity":
		return string(i.Severity), true
	case "status":
		return string(i.Status), true
	case "resource":
		return string(i.ResourceType), i.ResourceType != ""
	}
	return "", false
}

func newIncidentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incidents [ENV]",
		Short: "List controller, account and cluster incidents",
		Long: `List the incidents of one environment, controller level first.

Filter with --where on level, id, type, description, severity, status and
resource.

Examples:
  ctrl-scout incidents farm
  ctrl-scout incidents --where "severity=critical"
  ctrl-scout incidents dotnetces --where "level=controller AND status=active" --json
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeEnvironments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIncidents(cmd, opts, args)
		},
	}
	cmd.Flags().String("where", "", "Filter expression, e.g. \"severity=critical OR status=active\"")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runIncidents(cmd *cobra.Command, opts *rootOptions, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	where, _ := cmd.Flags().GetString("where")

	expr, err := filter.Parse(where)
	if err != nil {
		return fmt.Errorf("invalid --where: %w", err)
	}

	s, err := bootstrap(cmd, opts, "incidents")
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

	infos := []IncidentInfo{}
	for _, level := range envsvc.Levels {
		for _, inc := range snap.Environment.Snapshot.Incidents.Level(level) {
			info := IncidentInfo{
				Level:        level,
				ID:           inc.ID,
				Type:         inc.Type,
				Description:  inc.Description,
				Severity:     inc.Severity,
				Status:       inc.Status,
				ResourceType: inc.ResourceType,
				StartTime:    inc.StartTime,
				Duration:     inc.Duration,
			}
			if expr.Matches(info) {
				infos = append(infos, info)
			}
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, clierr.NothingFound("incidents"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tID\tSEVERITY\tSTATUS\tSTARTED\tDURATION\tDESCRIPTION")
	for _, i := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\t%s\n",
			i.Level, i.ID, tierIcon(incidentTier(i.Severity)), i.Severity, i.Status, i.StartTime, i.Duration, i.Description)
	}
	return w.Flush()
}
