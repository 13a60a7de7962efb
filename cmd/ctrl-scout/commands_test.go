// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confighub/ctrl-scout/internal/clierr"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

// cliHome isolates a command run: HOME and the working directory point at a
// temp dir, session logs go under it, and queries settle immediately.
func cliHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	t.Setenv("CTRL_SCOUT_LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("CTRL_SCOUT_QUERY_LATENCY", "1ms")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ctrl-scout version dev")
}

func TestEnvsCommand(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "envs")
	require.NoError(t, err)

	assert.Contains(t, out, "HOSTNAME")
	assert.Contains(t, out, "* controllerces")
	assert.Contains(t, out, "dotnetces.saas.appdynamics.com")
	assert.Contains(t, out, "Farm Controller")
}

func TestEnvsCommandJSON(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "envs", "--json")
	require.NoError(t, err)

	var infos []EnvironmentInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "controllerces", infos[0].ID)
	assert.True(t, infos[0].Selected)
	assert.False(t, infos[2].Selected)
	assert.NotEmpty(t, infos[2].Health)
}

func TestEnvsCommandWritesSessionLog(t *testing.T) {
	dir := cliHome(t)
	_, err := runCLI(t, "envs")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "logs", "envs-*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestStatusCommand(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "status", "farm")
	require.NoError(t, err)

	assert.Contains(t, out, "Farm Controller (farm.saas.appdynamics.com)")
	assert.Contains(t, out, "97.2%")
	assert.Contains(t, out, "Thread Pool Breaches")
}

func TestStatusCommandJSON(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "status", "farm", "--json")
	require.NoError(t, err)

	var status StatusInfo
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "farm", status.ID)
	require.Len(t, status.Cards, 5)
	assert.Equal(t, "97.2%", status.Cards[0].Value)
	assert.Equal(t, "12", status.Cards[3].Value)
}

func TestStatusCommandResolvesHostname(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "status", "dotnetces.saas.appdynamics.com", "--json")
	require.NoError(t, err)

	var status StatusInfo
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "dotnetces", status.ID)
}

func TestStatusCommandUnknownController(t *testing.T) {
	cliHome(t)
	_, err := runCLI(t, "status", "nowhere.example.com")
	require.Error(t, err)
	assert.True(t, clierr.IsNotFound(err))
}

func TestDefaultEnvironmentFromConfigFile(t *testing.T) {
	dir := cliHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("default_environment: farm\n"), 0o644))

	out, err := runCLI(t, "status", "--json")
	require.NoError(t, err)

	var status StatusInfo
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "farm", status.ID)
}

func TestQueryListCommand(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "query", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "BUILT-IN QUERIES")
	assert.Contains(t, out, "active-applications")
	assert.Contains(t, out, "appId, startDate, endDate, limit")
	assert.NotContains(t, out, "YOUR QUERIES")
}

func TestQueryListIncludesUserTemplates(t *testing.T) {
	dir := cliHome(t)
	path := filepath.Join(dir, "my-queries.yaml")
	data := `queries:
  - id: slow-bts
    name: Slow Business Transactions
    description: Business transactions above a response time
    query: SELECT name FROM bts WHERE art > ?
    parameters:
      - name: threshold
        type: number
        label: Threshold (ms)
        required: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, err := runCLI(t, "query", "list", "--queries", path)
	require.NoError(t, err)
	assert.Contains(t, out, "YOUR QUERIES")
	assert.Contains(t, out, "slow-bts")
}

func TestQueryParamsCommand(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "query", "params", "top-errors-by-app")
	require.NoError(t, err)
	assert.Contains(t, out, "appId")
	assert.Contains(t, out, "Application ID")

	out, err = runCLI(t, "query", "params", "active-applications")
	require.NoError(t, err)
	assert.Contains(t, out, "takes no parameters")
}

func TestQueryParamsUnknownTemplate(t *testing.T) {
	cliHome(t)
	_, err := runCLI(t, "query", "params", "nope")
	assert.True(t, clierr.IsNotFound(err))
}

func TestQueryRunCommand(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "query", "run", "active-applications")
	require.NoError(t, err)

	assert.Contains(t, out, "App Name")
	assert.Contains(t, out, "E-Commerce Web")
	assert.Contains(t, out, "4 row(s) returned")
}

func TestQueryRunCommandJSON(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "query", "run", "agent-status", "--param", "appName=web", "--env", "farm", "--json")
	require.NoError(t, err)

	var result queries.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.NotEmpty(t, result.Columns)
	assert.NotEmpty(t, result.Rows)
}

func TestQueryRunMissingParameter(t *testing.T) {
	cliHome(t)
	_, err := runCLI(t, "query", "run", "top-errors-by-app", "--param", "startDate=2025-09-01")
	require.Error(t, err)

	missing, ok := clierr.AsMissingParameter(err)
	require.True(t, ok)
	assert.Equal(t, "appId", missing.Name)
}

func TestQueryRunMalformedParam(t *testing.T) {
	cliHome(t)
	_, err := runCLI(t, "query", "run", "agent-status", "--param", "appName")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected name=value")
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"single", []string{"appId=app-001"}, map[string]string{"appId": "app-001"}, false},
		{"value with equals", []string{"q=a=b"}, map[string]string{"q": "a=b"}, false},
		{"empty value", []string{"limit="}, map[string]string{"limit": ""}, false},
		{"trimmed name", []string{" appId =x"}, map[string]string{"appId": "x"}, false},
		{"no equals", []string{"appId"}, nil, true},
		{"no name", []string{"=x"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterPrefix(t *testing.T) {
	items := []string{"controllerces", "dotnetces", "farm"}

	assert.Equal(t, items, filterPrefix(items, ""))
	assert.Equal(t, []string{"dotnetces"}, filterPrefix(items, "dot"))
	assert.Equal(t, []string{"farm"}, filterPrefix(items, "FA"))
	assert.Empty(t, filterPrefix(items, "zzz"))
}

func TestCompleteEnvironments(t *testing.T) {
	cliHome(t)
	cmd := newRootCmd()
	status, _, err := cmd.Find([]string{"status"})
	require.NoError(t, err)

	ids, _ := completeEnvironments(status, nil, "f")
	assert.Equal(t, []string{"farm"}, ids)
}

func TestEnvsCommandWhere(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "envs", "--where", "health=negative", "--json")
	require.NoError(t, err)

	var infos []EnvironmentInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.NotEmpty(t, infos)
	for _, e := range infos {
		assert.Equal(t, "negative", string(e.Health))
	}
	ids := make([]string, len(infos))
	for i, e := range infos {
		ids[i] = e.ID
	}
	assert.Contains(t, ids, "farm")
}

func TestEnvsCommandInvalidWhere(t *testing.T) {
	cliHome(t)
	_, err := runCLI(t, "envs", "--where", "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --where")
}

func TestIncidentsCommand(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "incidents", "farm")
	require.NoError(t, err)
	assert.Contains(t, out, "CTRL-INC-003")
	assert.Contains(t, out, "CTRL-INC-004")
}

func TestIncidentsCommandWhere(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "incidents", "farm", "--where", "severity=critical AND level=controller", "--json")
	require.NoError(t, err)

	var infos []IncidentInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "CTRL-INC-003", infos[0].ID)
}

func TestIncidentsCommandNothingMatches(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "incidents", "--where", "severity=nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No incidents found")
}

func TestLimitsCommandWhere(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "limits", "--where", "percent>=80", "--json")
	require.NoError(t, err)

	var infos []LimitInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "controller", infos[0].Scope)
	assert.Equal(t, "Application", infos[0].Resource)
	assert.Equal(t, 90, infos[0].Percent)
	assert.Equal(t, "negative", string(infos[0].Tier))
}

func TestLimitsCommand(t *testing.T) {
	cliHome(t)
	out, err := runCLI(t, "limits")
	require.NoError(t, err)
	assert.Contains(t, out, "SCOPE")
	assert.Contains(t, out, "StackTrace")
	assert.Contains(t, out, "90%")
}
