// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for ctrl-scout.

Bash:
  $ source <(ctrl-scout completion bash)
  # Or add to ~/.bashrc:
  $ ctrl-scout completion bash >> ~/.bashrc

Zsh:
  $ source <(ctrl-scout completion zsh)
  # Or install to fpath:
  $ ctrl-scout completion zsh > "${fpath[1]}/_ctrl-scout"

Fish:
  $ ctrl-scout completion fish | source

PowerShell:
  PS> ctrl-scout completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}

// completeEnvironments completes environment ids from --environments or the
// built-in set. Completion runs without a session, so nothing is logged.
func completeEnvironments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	path, _ := cmd.Flags().GetString("environments")
	registry, err := envsvc.LoadRegistry(path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ids := make([]string, 0, registry.Len())
	for _, e := range registry.List() {
		ids = append(ids, e.ID)
	}
	return filterPrefix(ids, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeTemplates completes query template ids.
func completeTemplates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	path, _ := cmd.Flags().GetString("queries")
	catalog, err := queries.LoadCatalog(path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, t := range catalog.List() {
		ids = append(ids, t.ID)
	}
	return filterPrefix(ids, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// filterPrefix returns items that start with prefix (case-insensitive)
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return items
	}
	var filtered []string
	lowerPrefix := strings.ToLower(prefix)
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
