// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package viewstate is the detail-panel view selector. Any view can follow any
// other; the machine only records which one is active.
package viewstate

import "fmt"

// View is a detail panel tab.
type View string

const (
	Overview     View = "overview"
	Limits       View = "limits"
	Issues       View = "issues"
	Incidents    View = "incidents"
	ExecuteQuery View = "executeQuery"
)

// Order is the tab order of the detail panel.
var Order = []View{Overview, Limits, Issues, Incidents, ExecuteQuery}

var titles = map[View]string{
	Overview:     "Details",
	Limits:       "Limits",
	Issues:       "Issues",
	Incidents:    "Incidents",
	ExecuteQuery: "Execute Query",
}

// Title is the tab label.
func (v View) Title() string {
	if t, ok := titles[v]; ok {
		return t
	}
	return string(v)
}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	_, ok := titles[v]
	return ok
}

// Parse converts a view name to a View.
func Parse(name string) (View, error) {
	v := View(name)
	if !v.Valid() {
		return "", fmt.Errorf("unknown view %q (valid: overview, limits, issues, incidents, executeQuery)", name)
	}
	return v, nil
}

// Indicator is a metric card on the dashboard header.
type Indicator string

const (
	IndicatorUptime     Indicator = "uptime"
	IndicatorIncidents  Indicator = "incidents"
	IndicatorIssues     Indicator = "issues"
	IndicatorThreadPool Indicator = "threadPool"
	IndicatorLimits     Indicator = "limits"
)

// Target returns the view an indicator jumps to. Uptime and thread-pool cards
// have no detail view.
func (i Indicator) Target() (View, bool) {
	switch i {
	case IndicatorIncidents:
		return Incidents, true
	case IndicatorIssues:
		return Issues, true
	case IndicatorLimits:
		return Limits, true
	default:
		return "", false
	}
}

// Machine holds the active view. The zero value starts at Overview.
type Machine struct {
	active View
}

// New returns a machine in the Overview state.
func New() *Machine {
	return &Machine{active: Overview}
}

// Current returns the active view.
func (m *Machine) Current() View {
	if m.active == "" {
		return Overview
	}
	return m.active
}

// Set makes v active. Unknown views are rejected and leave the state alone.
func (m *Machine) Set(v View) error {
	if !v.Valid() {
		return fmt.Errorf("unknown view %q", v)
	}
	m.active = v
	return nil
}

// Shortcut follows an indicator's shortcut. It reports whether the view changed
// target; indicators without a target leave the state unchanged.
func (m *Machine) Shortcut(i Indicator) (View, bool) {
	v, ok := i.Target()
	if !ok {
		return m.Current(), false
	}
	m.active = v
	return v, true
}

// Next moves to the following tab, wrapping around.
func (m *Machine) Next() View {
	return m.step(1)
}

// Prev moves to the preceding tab, wrapping around.
func (m *Machine) Prev() View {
	return m.step(-1)
}

func (m *Machine) step(delta int) View {
	cur := m.Current()
	idx := 0
	for i, v := range Order {
		if v == cur {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(Order)) % len(Order)
	m.active = Order[idx]
	return m.active
}
