// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/confighub/ctrl-scout/internal/clierr"
	"github.com/confighub/ctrl-scout/internal/engine"
	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/internal/severity"
	"github.com/confighub/ctrl-scout/internal/viewstate"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Interactive environment dashboard",
		Long: `Interactive dashboard for one controller environment at a time.

The header shows key metric cards (uptime, incidents, P0/P1 issues, thread
pool breaches, metric limits reached). Below them a detail panel switches
between Details, Limits, Issues, Incidents and Execute Query.

Keys:
  1-5, tab      Switch detail view
  U N P T L     Activate a metric card
  [ ]           Previous / next environment
  /             Find a controller by hostname or name
  j/k, enter    Move and toggle incidents, pick a query template
  x             Run the selected query
  ?             Help
  q             Quit

Examples:
  ctrl-scout dashboard
  ctrl-scout dashboard --env farm
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts)
		},
	}
	cmd.Flags().String("env", "", "Environment to open: id, hostname or name")
	_ = cmd.RegisterFlagCompletionFunc("env", completeEnvironments)
	return cmd
}

func runDashboard(cmd *cobra.Command, opts *rootOptions) error {
	s, err := bootstrap(cmd, opts, "dashboard")
	if err != nil {
		return err
	}
	defer func() {
		if path := s.Close(); path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Session log: %s\n", path)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(newDashboardModel(ctx, s.engine), tea.WithAltScreen())
	s.engine.OnSelectionChanged(func(env envsvc.Environment) {
		// Selection changes happen inside Update; Send would block the loop.
		go p.Send(selectionChangedMsg{env: env.Summary()})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

type selectionChangedMsg struct {
	env envsvc.Summary
}

// DashboardModel renders engine state and forwards user actions to it.
type DashboardModel struct {
	ctx     context.Context
	engine  *engine.Engine
	keymap  dashboardKeyMap
	spinner spinner.Model

	snap      engine.Snapshot
	cards     []engine.Card
	envs      []envsvc.Summary
	templates []queries.Template

	width     int
	height    int
	ready     bool
	helpMode  bool
	statusMsg string

	// Controller lookup
	lookupMode bool
	lookup     textinput.Model

	incidentCursor int

	// Query panel
	queryCursor int
	paramInputs []textinput.Model
	paramFocus  int
	editing     bool
	inflight    int
	results     table.Model
}

func newDashboardModel(ctx context.Context, eng *engine.Engine) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	lookup := textinput.New()
	lookup.Placeholder = "hostname or name"
	lookup.Prompt = ""
	lookup.CharLimit = 120

	m := DashboardModel{
		ctx:       ctx,
		engine:    eng,
		keymap:    defaultDashboardKeyMap(),
		spinner:   s,
		envs:      eng.ListEnvironments(),
		templates: eng.ListQueryTemplates(),
		lookup:    lookup,
		width:     100,
	}
	m.refresh()
	return m
}

func (m DashboardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// refresh re-reads engine state after an action.
func (m *DashboardModel) refresh() {
	m.snap = m.engine.Snapshot()
	m.cards, _ = m.engine.Cards()

	rows := incidentRows(m.snap.Environment.Snapshot.Incidents)
	if m.incidentCursor >= len(rows) {
		m.incidentCursor = max(len(rows)-1, 0)
	}
	if m.snap.Query.Result != nil {
		m.results = resultTable(m.snap.Query.Result)
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case selectionChangedMsg:
		m.refresh()
		m.statusMsg = "Now viewing " + msg.env.Name
		return m, nil

	case queryDoneMsg:
		m.inflight = max(m.inflight-1, 0)
		if clierr.IsStale(msg.err) {
			return m, nil
		}
		m.refresh()
		if msg.err != nil {
			m.statusMsg = clierr.Short(msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("%s: %d row(s) returned", msg.templateID, len(msg.result.Rows))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.lookupMode {
			return m.updateLookup(msg)
		}
		if m.editing {
			return m.updateParams(msg)
		}
		if m.helpMode {
			m.helpMode = false
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m DashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		return m, tea.Quit
	}
	m.statusMsg = ""

	switch {
	case key.Matches(msg, m.keymap.Help):
		m.helpMode = true

	case key.Matches(msg, m.keymap.Tab):
		m.engine.CycleView(1)
	case key.Matches(msg, m.keymap.BackTab):
		m.engine.CycleView(-1)

	case key.Matches(msg, m.keymap.Overview):
		_ = m.engine.SetActiveView(viewstate.Overview)
	case key.Matches(msg, m.keymap.Limits):
		_ = m.engine.SetActiveView(viewstate.Limits)
	case key.Matches(msg, m.keymap.Issues):
		_ = m.engine.SetActiveView(viewstate.Issues)
	case key.Matches(msg, m.keymap.Incidents):
		_ = m.engine.SetActiveView(viewstate.Incidents)
	case key.Matches(msg, m.keymap.Query):
		_ = m.engine.SetActiveView(viewstate.ExecuteQuery)

	case key.Matches(msg, m.keymap.CardUptime):
		m.activateCard(viewstate.IndicatorUptime)
	case key.Matches(msg, m.keymap.CardIncidents):
		m.activateCard(viewstate.IndicatorIncidents)
	case key.Matches(msg, m.keymap.CardIssues):
		m.activateCard(viewstate.IndicatorIssues)
	case key.Matches(msg, m.keymap.CardThreadPool):
		m.activateCard(viewstate.IndicatorThreadPool)
	case key.Matches(msg, m.keymap.CardLimits):
		m.activateCard(viewstate.IndicatorLimits)

	case key.Matches(msg, m.keymap.NextEnv):
		m.switchEnvironment(1)
	case key.Matches(msg, m.keymap.PrevEnv):
		m.switchEnvironment(-1)

	case key.Matches(msg, m.keymap.Lookup):
		m.lookupMode = true
		m.lookup.SetValue("")
		return m, m.lookup.Focus()

	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keymap.Enter):
		return m.activate()

	case key.Matches(msg, m.keymap.Run):
		if m.snap.ActiveView == viewstate.ExecuteQuery {
			return m.runQuery()
		}
	}

	m.refresh()
	return m, nil
}

func (m *DashboardModel) activateCard(i viewstate.Indicator) {
	if _, ok := m.engine.ActivateIndicator(i); !ok {
		for _, c := range m.cards {
			if c.Indicator == i {
				m.statusMsg = fmt.Sprintf("%s: %s", c.Label, c.Value)
			}
		}
	}
}

func (m *DashboardModel) switchEnvironment(delta int) {
	if len(m.envs) == 0 {
		return
	}
	idx := 0
	for i, e := range m.envs {
		if e.ID == m.snap.Environment.ID {
			idx = i
			break
		}
	}
	next := m.envs[(idx+delta+len(m.envs))%len(m.envs)]
	if _, err := m.engine.SelectEnvironment(next.ID); err != nil {
		m.statusMsg = clierr.Short(err)
		return
	}
	m.incidentCursor = 0
}

func (m *DashboardModel) moveCursor(delta int) {
	switch m.snap.ActiveView {
	case viewstate.Incidents:
		n := len(incidentRows(m.snap.Environment.Snapshot.Incidents))
		if n > 0 {
			m.incidentCursor = min(max(m.incidentCursor+delta, 0), n-1)
		}
	case viewstate.ExecuteQuery:
		if n := len(m.templates); n > 0 {
			m.queryCursor = min(max(m.queryCursor+delta, 0), n-1)
		}
	}
}

// activate handles enter: toggle the incident under the cursor, or pick the
// query template under the cursor.
func (m DashboardModel) activate() (tea.Model, tea.Cmd) {
	switch m.snap.ActiveView {
	case viewstate.Incidents:
		rows := incidentRows(m.snap.Environment.Snapshot.Incidents)
		if m.incidentCursor < len(rows) {
			row := rows[m.incidentCursor]
			if _, err := m.engine.ToggleIncident(row.level, row.index); err != nil {
				m.statusMsg = clierr.Short(err)
			}
		}
	case viewstate.ExecuteQuery:
		if m.queryCursor < len(m.templates) {
			return m.selectTemplate(m.templates[m.queryCursor])
		}
	}
	m.refresh()
	return m, nil
}

func (m DashboardModel) selectTemplate(t queries.Template) (tea.Model, tea.Cmd) {
	if err := m.engine.SelectQuery(t.ID); err != nil {
		m.statusMsg = clierr.Short(err)
		return m, nil
	}

	m.paramInputs = make([]textinput.Model, len(t.Parameters))
	for i, p := range t.Parameters {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = p.Placeholder
		if ti.Placeholder == "" {
			ti.Placeholder = string(p.Type)
		}
		ti.CharLimit = 200
		m.paramInputs[i] = ti
	}
	m.refresh()

	if len(m.paramInputs) == 0 {
		return m.runQuery()
	}
	m.editing = true
	m.paramFocus = 0
	return m, m.paramInputs[0].Focus()
}

func (m DashboardModel) updateLookup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.lookupMode = false
		m.lookup.Blur()
		return m, nil
	case tea.KeyEnter:
		m.lookupMode = false
		m.lookup.Blur()
		r := m.engine.ResolveByText(m.lookup.Value())
		if r.Unresolved {
			m.statusMsg = fmt.Sprintf("No controller matches %q", r.Text)
		} else {
			m.statusMsg = "Now viewing " + r.Environment.Name
			m.incidentCursor = 0
		}
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.lookup, cmd = m.lookup.Update(msg)
	return m, cmd
}

func (m DashboardModel) updateParams(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.paramInputs[m.paramFocus].Blur()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.focusParam(m.paramFocus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.focusParam(m.paramFocus - 1)
	case tea.KeyEnter:
		if m.paramFocus < len(m.paramInputs)-1 {
			return m, m.focusParam(m.paramFocus + 1)
		}
		m.editing = false
		m.paramInputs[m.paramFocus].Blur()
		return m.runQuery()
	}
	var cmd tea.Cmd
	m.paramInputs[m.paramFocus], cmd = m.paramInputs[m.paramFocus].Update(msg)
	return m, cmd
}

func (m *DashboardModel) focusParam(i int) tea.Cmd {
	n := len(m.paramInputs)
	m.paramInputs[m.paramFocus].Blur()
	m.paramFocus = (i + n) % n
	return m.paramInputs[m.paramFocus].Focus()
}

// runQuery executes the selected template in the background.
func (m DashboardModel) runQuery() (tea.Model, tea.Cmd) {
	id := m.snap.Query.TemplateID
	if id == "" && m.queryCursor < len(m.templates) {
		return m.selectTemplate(m.templates[m.queryCursor])
	}

	params := make(map[string]string, len(m.paramInputs))
	if t, err := m.templateByID(id); err == nil {
		for i, p := range t.Parameters {
			if i < len(m.paramInputs) {
				params[p.Name] = m.paramInputs[i].Value()
			}
		}
	}

	eng, ctx := m.engine, m.ctx
	m.inflight++
	m.statusMsg = ""
	run := func() tea.Msg {
		res, err := eng.ExecuteQuery(ctx, id, params)
		return queryDoneMsg{templateID: id, result: res, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m DashboardModel) templateByID(id string) (queries.Template, error) {
	for _, t := range m.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return queries.Template{}, clierr.NotFound("query template", id)
}

func resultTable(r *queries.Result) table.Model {
	rows := r.Strings()
	cols := make([]table.Column, len(r.Columns))
	for i, c := range r.Columns {
		w := lipgloss.Width(c)
		for _, row := range rows {
			w = max(w, lipgloss.Width(row[i]))
		}
		cols[i] = table.Column{Title: c, Width: w + 1}
	}
	trs := make([]table.Row, len(rows))
	for i, row := range rows {
		trs[i] = table.Row(row)
	}
	return table.New(
		table.WithColumns(cols),
		table.WithRows(trs),
		table.WithHeight(len(trs)+1),
	)
}

func (m DashboardModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.helpMode {
		return m.renderHelp()
	}
	if !m.snap.HasSelection {
		return "\n  No controller data available\n\n" + dimStyle.Render("  q quit")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(panelStyle.Width(max(m.width-4, 40)).Render(m.renderPanel()))
	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(" " + m.statusMsg + "\n")
	}
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m DashboardModel) renderHeader() string {
	env := m.snap.Environment
	var b strings.Builder
	b.WriteString(headerStyle.Render("ctrl-scout"))
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(env.Name))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" │ %s │ account %s │ v%s",
		env.Hostname, env.AccountID, env.Snapshot.AccountInfo.Version)))
	b.WriteString("\n")

	var envs []string
	for _, e := range m.envs {
		if e.ID == env.ID {
			envs = append(envs, cursorStyle.Render("● "+e.ID))
		} else {
			envs = append(envs, dimStyle.Render("○ "+e.ID))
		}
	}
	b.WriteString(" " + strings.Join(envs, "  "))
	b.WriteString("\n")

	if m.lookupMode {
		b.WriteString(promptStyle.Render(" Controller: ") + m.lookup.View() + "\n")
	}
	return b.String()
}

func (m DashboardModel) renderCards() string {
	cards := make([]string, 0, len(m.cards))
	for _, c := range m.cards {
		style := cardStyle.BorderForeground(tierStyle(c.Tier).GetForeground())
		body := fmt.Sprintf("%s %s\n%s", renderTier(c.Tier), lipgloss.NewStyle().Bold(true).Render(c.Value), dimStyle.Render(c.Label))
		cards = append(cards, style.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m DashboardModel) renderTabs() string {
	tabs := make([]string, 0, len(viewstate.Order))
	for i, v := range viewstate.Order {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == m.snap.ActiveView {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m DashboardModel) renderPanel() string {
	switch m.snap.ActiveView {
	case viewstate.Limits:
		return m.renderLimits()
	case viewstate.Issues:
		return m.renderIssues()
	case viewstate.Incidents:
		return m.renderIncidents()
	case viewstate.ExecuteQuery:
		return m.renderQuery()
	default:
		return m.renderOverview()
	}
}

func field(b *strings.Builder, label string, value any) {
	fmt.Fprintf(b, "  %-20s %v\n", label, value)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func (m DashboardModel) renderOverview() string {
	s := m.snap.Environment.Snapshot
	a := s.AccountInfo
	var b strings.Builder

	b.WriteString(sectionStyle.Render("ACCOUNT") + "\n")
	field(&b, "Controller", a.Controller)
	field(&b, "Account ID", a.AccountID)
	field(&b, "Host", a.Host)
	field(&b, "SSH IP", a.SSHIP)
	field(&b, "Version", a.Version)
	field(&b, "Global name", a.GlobalName)
	field(&b, "EUM name", a.EUMName)
	field(&b, "Dedicated", yesNo(a.Dedicated))
	license := a.License
	if a.IsPremium() {
		license = statusOK.Render(license)
	}
	field(&b, "License", license)

	b.WriteString("\n" + sectionStyle.Render("SETTINGS") + "\n")
	field(&b, "Timezone", s.Settings.Timezone)
	field(&b, "Retention", s.Settings.Retention)
	field(&b, "Maintenance window", s.Settings.MaintenanceWindow)
	field(&b, "SSO", yesNo(s.Settings.SSO))

	b.WriteString("\n" + sectionStyle.Render("CLUSTERS") + "\n")
	field(&b, "GAN", strings.Join(s.Clusters.GAN, ", "))
	field(&b, "EUM", strings.Join(s.Clusters.EUM, ", "))

	b.WriteString("\n" + sectionStyle.Render("HEALTH") + "\n")
	health := severity.Health(s.HealthStatus)
	field(&b, "Status", renderTier(health)+" "+titleCase(string(s.HealthStatus)))
	field(&b, "Response time", fmt.Sprintf("%g ms", s.Metrics.ResponseTime))
	field(&b, "Active users", s.Metrics.ActiveUsers)
	field(&b, "Error rate", fmt.Sprintf("%g%%", s.Metrics.ErrorRate))
	return b.String()
}

func (m DashboardModel) renderLimits() string {
	s := m.snap.Environment.Snapshot
	var b strings.Builder

	b.WriteString(sectionStyle.Render("LICENSED LIMITS") + "\n")
	field(&b, "Applications", s.Limits.Applications)
	field(&b, "Agents", s.Limits.Agents)
	field(&b, "DB collectors", s.Limits.DBCollectors)
	field(&b, "EUM apps", s.Limits.EUMApps)

	usage := func(title string, rows []envsvc.LimitUsageRow) {
		if len(rows) == 0 {
			return
		}
		b.WriteString("\n" + sectionStyle.Render(title) + "\n")
		for _, r := range rows {
			pct := r.Percent()
			tier := severity.UsagePercent(float64(pct))
			fmt.Fprintf(&b, "  %-28s %12d / %-12d %s\n", r.Resource, r.Current, r.Limit,
				tierStyle(tier).Render(fmt.Sprintf("%3d%%", pct)))
		}
	}
	usage("CONTROLLER LIMITS", s.LimitUsage.Controller)
	usage("ACCOUNT LIMITS", s.LimitUsage.Account)
	return b.String()
}

func (m DashboardModel) renderIssues() string {
	jiras := m.snap.Environment.Snapshot.Jiras
	if len(jiras) == 0 {
		return statusOK.Render("✓ No open issues")
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("ISSUES (%d)", len(jiras))) + "\n")
	for _, j := range jiras {
		prio := tierStyle(priorityTier(j.Priority)).Render(string(j.Priority))
		fmt.Fprintf(&b, "  %s  %-12s %-40s %s\n", prio, j.ID, j.Title, dimStyle.Render(string(j.Status)))
	}
	return b.String()
}

func (m DashboardModel) renderIncidents() string {
	in := m.snap.Environment.Snapshot.Incidents
	sum := m.snap.Incidents
	if sum.Total == 0 {
		return statusOK.Render("✓ No incidents")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d incident(s), %d active, worst %s\n",
		sum.Total, sum.Active, tierStyle(incidentTier(sum.Worst)).Render(string(sum.Worst)))

	pos := 0
	for _, level := range envsvc.Levels {
		list := in.Level(level)
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("%s (%d)", strings.ToUpper(string(level)), len(list))) + "\n")
		if len(list) == 0 {
			b.WriteString(dimStyle.Render("  none") + "\n")
		}
		for i, inc := range list {
			cursor := "  "
			if pos == m.incidentCursor {
				cursor = cursorStyle.Render("> ")
			}
			pos++

			collapsed := m.snap.IsCollapsed(level, i)
			arrow := "▾"
			if collapsed {
				arrow = "▸"
			}
			sev := tierStyle(incidentTier(inc.Severity)).Render(string(inc.Severity))
			fmt.Fprintf(&b, "%s%s %s %s %s\n", cursor, arrow, sev, inc.Description, dimStyle.Render("("+string(inc.Status)+")"))
			if !collapsed {
				detail := func(label, value string) {
					if value != "" {
						fmt.Fprintf(&b, "      %-10s %s\n", label, value)
					}
				}
				detail("ID", inc.ID)
				detail("Type", inc.Type)
				detail("Resource", string(inc.ResourceType))
				detail("Start", inc.StartTime)
				detail("End", inc.EndTime)
				detail("Duration", inc.Duration)
			}
		}
	}
	return b.String()
}

func (m DashboardModel) renderQuery() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("QUERY TEMPLATES") + "\n")
	for i, t := range m.templates {
		cursor := "  "
		if i == m.queryCursor {
			cursor = cursorStyle.Render("> ")
		}
		name := t.Name
		if t.ID == m.snap.Query.TemplateID {
			name = titleStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, name, dimStyle.Render(t.Description))
	}

	t, err := m.templateByID(m.snap.Query.TemplateID)
	if err != nil {
		b.WriteString("\n" + dimStyle.Render("enter selects a template") + "\n")
		return b.String()
	}

	b.WriteString("\n" + dimStyle.Render(t.Query) + "\n")
	if len(t.Parameters) > 0 {
		b.WriteString("\n" + sectionStyle.Render("PARAMETERS") + "\n")
		for i, p := range t.Parameters {
			label := p.Label
			if p.Required {
				label += " *"
			}
			input := ""
			if i < len(m.paramInputs) {
				input = m.paramInputs[i].View()
			}
			fmt.Fprintf(&b, "  %-26s %s\n", label, input)
		}
	}

	b.WriteString("\n")
	switch {
	case m.inflight > 0:
		b.WriteString(m.spinner.View() + " Executing query...\n")
	case m.snap.Query.Error != "":
		b.WriteString(statusErr.Render("✗ "+m.snap.Query.Error) + "\n")
	}
	if r := m.snap.Query.Result; r != nil {
		b.WriteString(m.results.View() + "\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d row(s) returned", len(r.Rows))) + "\n")
	}
	return b.String()
}

func (m DashboardModel) renderHelpBar() string {
	dot := helpDotStyle.Render(" • ")
	bindings := []key.Binding{m.keymap.Tab, m.keymap.NextEnv, m.keymap.Lookup, m.keymap.Enter, m.keymap.Help, m.keymap.Quit}
	if m.editing {
		bindings = []key.Binding{m.keymap.Tab, m.keymap.Enter, m.keymap.Escape}
	}
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpActionStyle.Render(h.Desc))
	}
	return " " + strings.Join(parts, dot)
}

func (m DashboardModel) renderHelp() string {
	k := m.keymap
	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Views", []key.Binding{k.Overview, k.Limits, k.Issues, k.Incidents, k.Query, k.Tab, k.BackTab}},
		{"Metric cards", []key.Binding{k.CardUptime, k.CardIncidents, k.CardIssues, k.CardThreadPool, k.CardLimits}},
		{"Environments", []key.Binding{k.PrevEnv, k.NextEnv, k.Lookup}},
		{"Panel", []key.Binding{k.Up, k.Down, k.Enter, k.Run, k.Escape}},
		{"General", []key.Binding{k.Help, k.Quit}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ctrl-scout keys") + "\n")
	for _, g := range groups {
		b.WriteString("\n" + sectionStyle.Render(g.title) + "\n")
		for _, binding := range g.bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "  %s %s\n", helpKeyStyle.Render(fmt.Sprintf("%-10s", h.Key)), helpActionStyle.Render(h.Desc))
		}
	}
	b.WriteString("\n" + dimStyle.Render("Press any key to close"))
	return b.String()
}
