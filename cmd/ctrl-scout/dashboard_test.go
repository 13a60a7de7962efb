// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confighub/ctrl-scout/internal/clierr"
	"github.com/confighub/ctrl-scout/internal/engine"
	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/internal/viewstate"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

// testDashboardModel creates a DashboardModel over the reference environments
// with a fast mock executor.
func testDashboardModel(t *testing.T) DashboardModel {
	t.Helper()
	reg, err := envsvc.NewRegistry(envsvc.DefaultEnvironments()...)
	require.NoError(t, err)
	catalog := queries.DefaultCatalog()
	eng := engine.New(reg, catalog, engine.WithExecutor(queries.NewMockExecutor(catalog, time.Millisecond)))
	return newDashboardModel(context.Background(), eng)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func finalDashboard(t *testing.T, tm *teatest.TestModel) DashboardModel {
	t.Helper()
	fm := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second))
	m, ok := fm.(DashboardModel)
	require.True(t, ok, "final model should be DashboardModel")
	return m
}

// --- View Key Tests ---

func TestDashboardViewKeys(t *testing.T) {
	tests := []struct {
		keys string
		want viewstate.View
	}{
		{"1", viewstate.Overview},
		{"2", viewstate.Limits},
		{"3", viewstate.Issues},
		{"4", viewstate.Incidents},
		{"5", viewstate.ExecuteQuery},
		{"45", viewstate.ExecuteQuery},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
			time.Sleep(50 * time.Millisecond)

			for _, r := range tt.keys {
				tm.Send(runes(string(r)))
			}
			tm.Send(runes("q"))

			m := finalDashboard(t, tm)
			assert.Equal(t, tt.want, m.snap.ActiveView)
		})
	}
}

func TestDashboardTabCyclesViews(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyShiftTab})
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.Equal(t, viewstate.Limits, m.snap.ActiveView)
}

func TestDashboardCardShortcuts(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("P"))
	tm.Send(runes("U")) // no detail view, stays on issues
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.Equal(t, viewstate.Issues, m.snap.ActiveView)
	assert.Contains(t, m.statusMsg, "Uptime")
}

// --- Environment Tests ---

func TestDashboardNextEnvironment(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("]"))
	tm.Send(runes("]"))
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.Equal(t, "farm", m.snap.Environment.ID)
}

func TestDashboardPrevEnvironmentWraps(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("["))
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.Equal(t, "farm", m.snap.Environment.ID)
}

func TestDashboardLookup(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("/"))
	tm.Type("dotnet")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.False(t, m.lookupMode)
	assert.Equal(t, "dotnetces", m.snap.Environment.ID)
}

func TestDashboardLookupUnresolved(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("/"))
	tm.Type("custom.example.com")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.Equal(t, "controllerces", m.snap.Environment.ID)
	assert.Contains(t, m.statusMsg, "custom.example.com")
}

func TestDashboardLookupKeysDoNotSwitchViews(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("/"))
	tm.Type("4q")
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.Equal(t, viewstate.Overview, m.snap.ActiveView)
}

// --- Incident Tests ---

func TestDashboardToggleIncident(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("4"))
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.False(t, m.snap.IsCollapsed(envsvc.LevelController, 0))
	assert.Len(t, m.snap.ExpandedIncidents, 1)
}

// --- Query Tests ---

func TestDashboardRunQueryWithoutParameters(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("5"))
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	time.Sleep(200 * time.Millisecond)
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.Equal(t, "active-applications", m.snap.Query.TemplateID)
	require.NotNil(t, m.snap.Query.Result)
	assert.Len(t, m.snap.Query.Result.Rows, 4)
	assert.Empty(t, m.snap.Query.Error)
	assert.Zero(t, m.inflight)
}

func TestDashboardRunQueryWithParameters(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("5"))
	tm.Send(runes("j"))
	tm.Send(runes("j"))
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Type("web")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	time.Sleep(200 * time.Millisecond)
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.False(t, m.editing)
	assert.Equal(t, "agent-status", m.snap.Query.TemplateID)
	assert.NotNil(t, m.snap.Query.Result)
	assert.Empty(t, m.snap.Query.Error)
}

func TestDashboardRunQueryMissingParameter(t *testing.T) {
	tm := teatest.NewTestModel(t, testDashboardModel(t), teatest.WithInitialTermSize(80, 24))
	time.Sleep(50 * time.Millisecond)

	tm.Send(runes("5"))
	tm.Send(runes("j"))
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(runes("x"))
	time.Sleep(100 * time.Millisecond)
	tm.Send(runes("q"))

	m := finalDashboard(t, tm)
	assert.Equal(t, "top-errors-by-app", m.snap.Query.TemplateID)
	assert.Nil(t, m.snap.Query.Result)
	assert.Contains(t, m.snap.Query.Error, "appId")
}

// --- Render Tests ---

func sized(t *testing.T, m DashboardModel) DashboardModel {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(DashboardModel)
}

func press(t *testing.T, m DashboardModel, msg tea.KeyMsg) DashboardModel {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(DashboardModel)
}

func TestDashboardViewBeforeResize(t *testing.T) {
	m := testDashboardModel(t)
	assert.Contains(t, m.View(), "Initializing")
}

func TestDashboardRenderOverview(t *testing.T) {
	m := sized(t, testDashboardModel(t))
	view := m.View()

	for _, want := range []string{"Controller CES", "controllerces.saas.appdynamics.com", "Uptime", "P0/P1 Issues", "ACCOUNT", "athena"} {
		assert.Contains(t, view, want)
	}
}

func TestDashboardRenderIncidents(t *testing.T) {
	m := sized(t, testDashboardModel(t))
	m = press(t, m, runes("4"))

	view := m.View()
	assert.Contains(t, view, "CONTROLLER (1)")
	assert.Contains(t, view, "▸")
	assert.NotContains(t, view, "CTRL-INC-001")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	view = m.View()
	assert.Contains(t, view, "▾")
	assert.Contains(t, view, "CTRL-INC-001")
}

func TestDashboardRenderLimits(t *testing.T) {
	m := sized(t, testDashboardModel(t))
	m = press(t, m, runes("2"))

	view := m.View()
	assert.Contains(t, view, "CONTROLLER LIMITS")
	assert.Contains(t, view, "%")
}

func TestDashboardRenderHelp(t *testing.T) {
	m := sized(t, testDashboardModel(t))
	m = press(t, m, runes("?"))
	assert.Contains(t, m.View(), "Metric cards")

	m = press(t, m, runes("x"))
	assert.False(t, m.helpMode)
}

func TestDashboardStaleResultIgnored(t *testing.T) {
	m := sized(t, testDashboardModel(t))
	m.inflight = 1
	m.statusMsg = "unchanged"

	updated, _ := m.Update(queryDoneMsg{templateID: "active-applications", err: fmt.Errorf("query r1: %w", clierr.ErrStaleResult)})
	m = updated.(DashboardModel)
	assert.Zero(t, m.inflight)
	assert.Equal(t, "unchanged", m.statusMsg)
}
