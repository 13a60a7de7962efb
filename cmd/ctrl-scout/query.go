// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/confighub/ctrl-scout/internal/clierr"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List and run query templates",
		Long: `List and run parameterized query templates against an environment.

Templates come in two types:
- Built-in: Shipped with ctrl-scout
- User: Your own templates in ~/.ctrl-scout/queries.yaml (or --queries)

Examples:
  # List all templates
  ctrl-scout query list

  # Show the parameters of a template
  ctrl-scout query params top-errors-by-app

  # Run a template
  ctrl-scout query run database-connections --param dbPattern=%prod% --env farm
`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List query templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryList(cmd, opts)
		},
	}
	list.Flags().Bool("json", false, "Output as JSON")

	params := &cobra.Command{
		Use:               "params TEMPLATE",
		Short:             "Show the parameters of a template",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplates,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryParams(cmd, opts, args[0])
		},
	}
	params.Flags().Bool("json", false, "Output as JSON")

	run := &cobra.Command{
		Use:   "run TEMPLATE",
		Short: "Run a template against an environment",
		Long: `Run a template against an environment and print the result table.

Examples:
  ctrl-scout query run active-applications
  ctrl-scout query run agent-status --param appName=web --env dotnetces
  ctrl-scout query run top-errors-by-app --param appId=app-001 \
      --param startDate=2025-09-01 --param endDate=2025-09-30 --json
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplates,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryRun(cmd, opts, args[0])
		},
	}
	run.Flags().StringArray("param", nil, "Parameter as name=value (repeatable)")
	run.Flags().String("env", "", "Environment id, hostname or name (default: the default environment)")
	run.Flags().Bool("json", false, "Output as JSON")
	_ = run.RegisterFlagCompletionFunc("env", completeEnvironments)

	cmd.AddCommand(list, params, run)
	return cmd
}

func runQueryList(cmd *cobra.Command, opts *rootOptions) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := bootstrap(cmd, opts, "query-list")
	if err != nil {
		return err
	}
	defer s.Close()

	templates := s.engine.ListQueryTemplates()
	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(templates)
	}

	printTemplates(cmd, "BUILT-IN QUERIES", filterCategory(templates, "builtin"))
	printTemplates(cmd, "YOUR QUERIES", filterCategory(templates, "user"))

	fmt.Fprintln(out, "USAGE")
	fmt.Fprintln(out, "─────")
	fmt.Fprintln(out, "  ctrl-scout query params <id>                 Show parameters")
	fmt.Fprintln(out, "  ctrl-scout query run <id> --param name=value Run a template")
	return nil
}

func filterCategory(templates []queries.Template, category string) []queries.Template {
	var out []queries.Template
	for _, t := range templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

func printTemplates(cmd *cobra.Command, title string, templates []queries.Template) {
	if len(templates) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("─", len([]rune(title))))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range templates {
		names := make([]string, len(t.Parameters))
		for i, p := range t.Parameters {
			names[i] = p.Name
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", t.ID, t.Name, strings.Join(names, ", "))
	}
	w.Flush()
	fmt.Fprintln(out)
}

func runQueryParams(cmd *cobra.Command, opts *rootOptions, id string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := bootstrap(cmd, opts, "query-params")
	if err != nil {
		return err
	}
	defer s.Close()

	params, err := s.engine.GetQueryParameters(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(params)
	}

	if len(params) == 0 {
		fmt.Fprintf(out, "%s takes no parameters\n", id)
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tREQUIRED\tLABEL")
	for _, p := range params {
		required := "no"
		if p.Required {
			required = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Type, required, p.Label)
	}
	return w.Flush()
}

func runQueryRun(cmd *cobra.Command, opts *rootOptions, id string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	rawParams, _ := cmd.Flags().GetStringArray("param")

	params, err := parseParams(rawParams)
	if err != nil {
		return err
	}

	// --env is applied by bootstrap as the default environment.
	s, err := bootstrap(cmd, opts, "query-run")
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.engine.ExecuteQuery(cmd.Context(), id, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(result.Rows) == 0 {
		fmt.Fprintln(out, clierr.NothingFound("rows"))
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.Columns, "\t"))
	for _, row := range result.Strings() {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d row(s) returned\n", len(result.Rows))
	return nil
}

// parseParams turns name=value pairs into a parameter map.
func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", kv)
		}
		params[name] = value
	}
	return params, nil
}
