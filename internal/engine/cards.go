// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package engine

import (
	"strconv"

	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/internal/incidentsvc"
	"github.com/confighub/ctrl-scout/internal/severity"
	"github.com/confighub/ctrl-scout/internal/viewstate"
)

// Card is one key-metric card of the dashboard header.
type Card struct {
	Indicator viewstate.Indicator `json:"indicator"`
	Label     string              `json:"label"`
	Value     string              `json:"value"`
	Tier      severity.Tier       `json:"tier"`
	Target    viewstate.View      `json:"target,omitempty"`
}

// HasTarget reports whether activating the card changes the view.
func (c Card) HasTarget() bool { return c.Target != "" }

// Cards derives the metric cards of the selected environment.
func (e *Engine) Cards() ([]Card, error) {
	snap, err := e.registry.Current()
	if err != nil {
		return nil, err
	}
	return CardsFor(snap), nil
}

// CardsFor derives the metric cards of a snapshot, in display order.
func CardsFor(s envsvc.Snapshot) []Card {
	m := s.Metrics
	cards := []Card{
		{
			Indicator: viewstate.IndicatorUptime,
			Label:     "Uptime",
			Value:     strconv.FormatFloat(m.Uptime, 'f', -1, 64) + "%",
			Tier:      severity.Uptime(m.Uptime),
		},
		{
			Indicator: viewstate.IndicatorIncidents,
			Label:     "Incidents",
			Value:     strconv.Itoa(incidentsvc.Summarize(s.Incidents).Total),
			Tier:      severity.Incidents(s.Incidents.All()),
		},
		{
			Indicator: viewstate.IndicatorIssues,
			Label:     "P0/P1 Issues",
			Value:     strconv.Itoa(s.UrgentIssues()),
			Tier:      severity.Issues(s.Jiras),
		},
		{
			Indicator: viewstate.IndicatorThreadPool,
			Label:     "Thread Pool Breaches",
			Value:     strconv.Itoa(m.ThreadPoolBreach),
			Tier:      severity.ThreadPool(m.ThreadPoolBreach),
		},
		{
			Indicator: viewstate.IndicatorLimits,
			Label:     "Metric Limits Reached",
			Value:     strconv.Itoa(m.LimitsReached),
			Tier:      severity.Limits(m.LimitsReached),
		},
	}
	for i := range cards {
		if v, ok := cards[i].Indicator.Target(); ok {
			cards[i].Target = v
		}
	}
	return cards
}
