// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/internal/severity"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("141"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	statusOK = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	statusWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	statusErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(22)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("236")).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	// Help bar styles
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	helpActionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpDotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

var titleCaser = cases.Title(language.English)

// titleCase converts a string to title case (first letter of each word capitalized)
func titleCase(s string) string {
	return titleCaser.String(s)
}

// tierStyle returns the colour of a severity tier.
func tierStyle(t severity.Tier) lipgloss.Style {
	switch t {
	case severity.Excellent:
		return statusOK
	case severity.Warning:
		return statusWarn
	default:
		return statusErr
	}
}

// tierIcon returns the plain icon of a severity tier.
func tierIcon(t severity.Tier) string {
	switch t {
	case severity.Excellent:
		return "✓"
	case severity.Warning:
		return "⚠"
	default:
		return "✗"
	}
}

func renderTier(t severity.Tier) string {
	return tierStyle(t).Render(tierIcon(t))
}

func incidentTier(s envsvc.IncidentSeverity) severity.Tier {
	switch s {
	case envsvc.SeverityCritical:
		return severity.Negative
	case envsvc.SeverityWarning:
		return severity.Warning
	default:
		return severity.Excellent
	}
}

func priorityTier(p envsvc.Priority) severity.Tier {
	switch p {
	case envsvc.PriorityP0:
		return severity.Negative
	case envsvc.PriorityP1:
		return severity.Warning
	default:
		return severity.Excellent
	}
}

type dashboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Quit    key.Binding
	Help    key.Binding
	Tab     key.Binding
	BackTab key.Binding
	Escape  key.Binding
	// Detail views
	Overview  key.Binding
	Limits    key.Binding
	Issues    key.Binding
	Incidents key.Binding
	Query     key.Binding
	// Metric card shortcuts
	CardUptime     key.Binding
	CardIncidents  key.Binding
	CardIssues     key.Binding
	CardThreadPool key.Binding
	CardLimits     key.Binding
	// Environment navigation
	NextEnv key.Binding
	PrevEnv key.Binding
	Lookup  key.Binding
	// Query panel
	Run key.Binding
}

func defaultDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Tab:            key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		BackTab:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Escape:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Overview:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "details")),
		Limits:         key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "limits")),
		Issues:         key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "issues")),
		Incidents:      key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "incidents")),
		Query:          key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "execute query")),
		CardUptime:     key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "uptime card")),
		CardIncidents:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "incidents card")),
		CardIssues:     key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "P0/P1 card")),
		CardThreadPool: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "thread pool card")),
		CardLimits:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "limits card")),
		NextEnv:        key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next env")),
		PrevEnv:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev env")),
		Lookup:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find controller")),
		Run:            key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "run query")),
	}
}

// Messages
type queryDoneMsg struct {
	templateID string
	result     *queries.Result
	err        error
}

// incidentRow is one incident card in display order.
type incidentRow struct {
	level    envsvc.Level
	index    int
	incident envsvc.Incident
}

func incidentRows(in envsvc.Incidents) []incidentRow {
	var rows []incidentRow
	for _, level := range envsvc.Levels {
		for i, inc := range in.Level(level) {
			rows = append(rows, incidentRow{level: level, index: i, incident: inc})
		}
	}
	return rows
}
