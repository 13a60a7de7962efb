// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package incidentsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/confighub/ctrl-scout/internal/envsvc"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(envsvc.Incidents{})
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, envsvc.IncidentSeverity(""), s.Worst)
	assert.Equal(t, 0, s.PerLevel[envsvc.LevelController])
	assert.Equal(t, 0, s.PerLevel[envsvc.LevelAccount])
	assert.Equal(t, 0, s.PerLevel[envsvc.LevelCluster])
}

func TestSummarizeAcrossLevels(t *testing.T) {
	in := envsvc.Incidents{
		Controller: []envsvc.Incident{
			{ID: "a", Severity: envsvc.SeverityWarning, Status: envsvc.IncidentResolved},
		},
		Account: []envsvc.Incident{
			{ID: "b", Severity: envsvc.SeverityInfo, Status: envsvc.IncidentActive},
		},
		Cluster: []envsvc.Incident{
			{ID: "c", Severity: envsvc.SeverityCritical, Status: envsvc.IncidentActive},
			{ID: "d", Severity: envsvc.SeverityInfo, Status: envsvc.IncidentResolved},
		},
	}

	s := Summarize(in)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, envsvc.SeverityCritical, s.Worst)
	assert.Equal(t, 1, s.PerLevel[envsvc.LevelController])
	assert.Equal(t, 1, s.PerLevel[envsvc.LevelAccount])
	assert.Equal(t, 2, s.PerLevel[envsvc.LevelCluster])
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Critical)
}

func TestSummarizeWorstWithoutCritical(t *testing.T) {
	in := envsvc.Incidents{
		Account: []envsvc.Incident{{Severity: envsvc.SeverityInfo}, {Severity: envsvc.SeverityWarning}},
	}
	assert.Equal(t, envsvc.SeverityWarning, Summarize(in).Worst)
}

func TestToggleDefaultsCollapsed(t *testing.T) {
	ts := NewToggleState()
	assert.True(t, ts.IsCollapsed(envsvc.LevelController, 0))
	assert.True(t, ts.IsCollapsed(envsvc.LevelCluster, 7))
	assert.Equal(t, 0, ts.Len())
}

func TestToggleRoundTrip(t *testing.T) {
	ts := NewToggleState()

	collapsed := ts.Toggle(envsvc.LevelAccount, 1)
	assert.False(t, collapsed)
	assert.False(t, ts.IsCollapsed(envsvc.LevelAccount, 1))
	assert.True(t, ts.IsCollapsed(envsvc.LevelAccount, 0), "other keys are untouched")

	collapsed = ts.Toggle(envsvc.LevelAccount, 1)
	assert.True(t, collapsed)
	assert.True(t, ts.IsCollapsed(envsvc.LevelAccount, 1))
	assert.Equal(t, 0, ts.Len())
}

func TestToggleReset(t *testing.T) {
	ts := NewToggleState()
	ts.Toggle(envsvc.LevelController, 0)
	ts.Toggle(envsvc.LevelCluster, 2)

	ts.Reset()
	assert.Equal(t, 0, ts.Len())
	assert.True(t, ts.IsCollapsed(envsvc.LevelController, 0))
}

func TestSyncResetsOnLengthChange(t *testing.T) {
	two := envsvc.Incidents{Controller: []envsvc.Incident{{ID: "a"}, {ID: "b"}}}
	three := envsvc.Incidents{Controller: []envsvc.Incident{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	ts := NewToggleState()
	assert.False(t, ts.Sync(two), "first sync only records lengths")

	ts.Toggle(envsvc.LevelController, 1)
	assert.False(t, ts.Sync(two), "same lengths keep state")
	assert.False(t, ts.IsCollapsed(envsvc.LevelController, 1))

	assert.True(t, ts.Sync(three))
	assert.True(t, ts.IsCollapsed(envsvc.LevelController, 1))
}

func TestExpandedOrder(t *testing.T) {
	ts := NewToggleState()
	ts.Toggle(envsvc.LevelCluster, 0)
	ts.Toggle(envsvc.LevelController, 3)
	ts.Toggle(envsvc.LevelController, 1)
	ts.Toggle(envsvc.LevelAccount, 0)

	assert.Equal(t, []Key{
		{Level: envsvc.LevelController, Index: 1},
		{Level: envsvc.LevelController, Index: 3},
		{Level: envsvc.LevelAccount, Index: 0},
		{Level: envsvc.LevelCluster, Index: 0},
	}, ts.Expanded())
	assert.Equal(t, "controller-1", ts.Expanded()[0].String())
}
