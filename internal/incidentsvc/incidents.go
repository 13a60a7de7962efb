// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package incidentsvc aggregates controller, account and cluster incidents and
// tracks which incident cards the user has expanded.
package incidentsvc

import (
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/confighub/ctrl-scout/internal/envsvc"
)

// Summary is the aggregate view of an Incidents bundle.
type Summary struct {
	Total int `json:"total"`
	// Worst is the highest severity across all levels, "" when there are none.
	Worst    envsvc.IncidentSeverity `json:"worstSeverity"`
	PerLevel map[envsvc.Level]int    `json:"perLevel"`
	Active   int                     `json:"active"`
	Critical int                     `json:"critical"`
}

// Summarize collapses the three incident levels into counts and a worst severity.
func Summarize(in envsvc.Incidents) Summary {
	s := Summary{PerLevel: make(map[envsvc.Level]int, len(envsvc.Levels))}
	for _, level := range envsvc.Levels {
		list := in.Level(level)
		s.PerLevel[level] = len(list)
		s.Total += len(list)
		for _, inc := range list {
			if inc.Severity.Rank() > s.Worst.Rank() {
				s.Worst = inc.Severity
			}
			if inc.Status == envsvc.IncidentActive {
				s.Active++
			}
			if inc.Severity == envsvc.SeverityCritical {
				s.Critical++
			}
		}
	}
	return s
}

// Key identifies an incident card by level and position in that level's list.
type Key struct {
	Level envsvc.Level `json:"level"`
	Index int          `json:"index"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s-%d", k.Level, k.Index)
}

// ToggleState records which incident cards are expanded. Cards not recorded
// are collapsed, so the summary line shows first.
type ToggleState struct {
	expanded sets.Set[Key]
	lengths  map[envsvc.Level]int
}

// NewToggleState returns a state with every card collapsed.
func NewToggleState() *ToggleState {
	return &ToggleState{
		expanded: sets.New[Key](),
		lengths:  make(map[envsvc.Level]int),
	}
}

// IsCollapsed reports whether the card at (level, index) is collapsed.
func (t *ToggleState) IsCollapsed(level envsvc.Level, index int) bool {
	return !t.expanded.Has(Key{Level: level, Index: index})
}

// Toggle flips the card at (level, index) and returns the new collapsed value.
func (t *ToggleState) Toggle(level envsvc.Level, index int) bool {
	k := Key{Level: level, Index: index}
	if t.expanded.Has(k) {
		t.expanded.Delete(k)
		return true
	}
	t.expanded.Insert(k)
	return false
}

// Reset collapses every card and forgets the tracked list lengths.
func (t *ToggleState) Reset() {
	t.expanded = sets.New[Key]()
	t.lengths = make(map[envsvc.Level]int)
}

// Sync resets the state when any level's incident count differs from the last
// sync, since the keys then refer to a different incident set. It reports
// whether a reset happened.
func (t *ToggleState) Sync(in envsvc.Incidents) bool {
	changed := false
	for _, level := range envsvc.Levels {
		if n, seen := t.lengths[level]; seen && n != len(in.Level(level)) {
			changed = true
		}
	}
	if changed {
		t.expanded = sets.New[Key]()
	}
	for _, level := range envsvc.Levels {
		t.lengths[level] = len(in.Level(level))
	}
	return changed
}

// Expanded returns the expanded keys ordered by level then index.
func (t *ToggleState) Expanded() []Key {
	keys := t.expanded.UnsortedList()
	order := make(map[envsvc.Level]int, len(envsvc.Levels))
	for i, l := range envsvc.Levels {
		order[l] = i
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Level != keys[j].Level {
			return order[keys[i].Level] < order[keys[j].Level]
		}
		return keys[i].Index < keys[j].Index
	})
	return keys
}

// Len returns the number of expanded cards.
func (t *ToggleState) Len() int {
	return t.expanded.Len()
}
