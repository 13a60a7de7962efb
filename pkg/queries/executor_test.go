// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package queries

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confighub/ctrl-scout/internal/clierr"
)

func TestMockExecutorCannedTables(t *testing.T) {
	exec := NewMockExecutor(DefaultCatalog(), 0)

	res, err := exec.Execute(context.Background(), "active-applications", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"App Name", "App ID", "Created Date"}, res.Columns)
	require.Len(t, res.Rows, 4)
	assert.Equal(t, "E-Commerce Web", res.Rows[0][0].String())

	res, err = exec.Execute(context.Background(), "database-connections", map[string]string{"dbPattern": "%prod%"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 4)
	assert.True(t, res.Rows[1][1].IsNumber())
	assert.Equal(t, 62.0, res.Rows[1][1].Float())
}

func TestMockExecutorEveryBuiltinHasTable(t *testing.T) {
	tables := CannedTables()
	for _, q := range BuiltinTemplates {
		table, ok := tables[q.ID]
		require.True(t, ok, q.ID)
		assert.NoError(t, table.Validate(), q.ID)
	}
}

func TestMockExecutorNoData(t *testing.T) {
	c, err := NewCatalog(Template{ID: "custom", Name: "Custom", Query: "SELECT 1"})
	require.NoError(t, err)

	res, err := NewMockExecutor(c, 0).Execute(context.Background(), "custom", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Result"}, res.Columns)
	assert.Equal(t, [][]string{{"No data available"}}, res.Strings())
}

func TestMockExecutorBindsBeforeWaiting(t *testing.T) {
	exec := NewMockExecutor(DefaultCatalog(), time.Hour)

	_, err := exec.Execute(context.Background(), "agent-status", nil)
	_, ok := clierr.AsMissingParameter(err)
	assert.True(t, ok)

	_, err = exec.Execute(context.Background(), "unknown", nil)
	assert.True(t, clierr.IsNotFound(err))
}

func TestMockExecutorHonoursCancel(t *testing.T) {
	exec := NewMockExecutor(DefaultCatalog(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := exec.Execute(ctx, "active-applications", nil)
	e, ok := clierr.AsExecution(err)
	require.True(t, ok)
	assert.Equal(t, "canceled", e.Message)
}

func TestMockExecutorMalformedTable(t *testing.T) {
	exec := NewMockExecutor(DefaultCatalog(), 0)
	exec.SetTable("active-applications", &Result{
		Columns: []string{"A", "B"},
		Rows:    [][]Cell{Row("only-one")},
	})

	_, err := exec.Execute(context.Background(), "active-applications", nil)
	_, ok := clierr.AsExecution(err)
	assert.True(t, ok)
}

func TestMockExecutorReturnsCopies(t *testing.T) {
	exec := NewMockExecutor(DefaultCatalog(), 0)
	res, err := exec.Execute(context.Background(), "active-applications", nil)
	require.NoError(t, err)
	res.Rows[0][0] = Text("mutated")

	again, err := exec.Execute(context.Background(), "active-applications", nil)
	require.NoError(t, err)
	assert.Equal(t, "E-Commerce Web", again.Rows[0][0].String())
}

func TestWithTimeout(t *testing.T) {
	exec := WithTimeout(NewMockExecutor(DefaultCatalog(), time.Hour), 20*time.Millisecond)

	_, err := exec.Execute(context.Background(), "active-applications", nil)
	assert.True(t, clierr.IsTimeout(err))
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	exec := WithTimeout(NewMockExecutor(DefaultCatalog(), 0), time.Second)

	res, err := exec.Execute(context.Background(), "active-applications", nil)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 4)
}

func TestControllerContext(t *testing.T) {
	_, ok := ControllerFrom(context.Background())
	assert.False(t, ok)

	ctx := WithController(context.Background(), "dotnetces.saas.appdynamics.com")
	host, ok := ControllerFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "dotnetces.saas.appdynamics.com", host)
}

func TestCellJSON(t *testing.T) {
	row := Row("prod-users-db", 45, 0.5)
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `["prod-users-db", 45, 0.5]`, string(data))

	var back []Cell
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, row, back)
}
