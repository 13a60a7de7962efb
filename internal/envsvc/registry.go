// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package envsvc

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/confighub/ctrl-scout/internal/clierr"
)

// Registry holds the known controller environments and the selected one.
// Once non-empty, exactly one environment is selected.
type Registry struct {
	mu       sync.RWMutex
	envs     []Environment
	index    map[string]int
	selected string
}

// NewRegistry creates a registry from envs in order. The first one is selected.
func NewRegistry(envs ...Environment) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(envs))}
	for _, e := range envs {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends an environment. The first registration becomes the selection.
func (r *Registry) Register(e Environment) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("environment %q: empty id", e.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[e.ID]; exists {
		return fmt.Errorf("environment %q already registered", e.ID)
	}
	r.index[e.ID] = len(r.envs)
	r.envs = append(r.envs, e.Clone())
	if r.selected == "" {
		r.selected = e.ID
	}
	return nil
}

// Len returns the number of registered environments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.envs)
}

// List returns environment summaries in registration order.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Summary, 0, len(r.envs))
	for _, e := range r.envs {
		out = append(out, e.Summary())
	}
	return out
}

// Get returns a copy of the environment with the given id.
func (r *Registry) Get(id string) (Environment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return Environment{}, clierr.NotFound("environment", id)
	}
	return r.envs[i].Clone(), nil
}

// Select makes id the active selection and returns its snapshot.
// On error the previous selection is kept.
func (r *Registry) Select(id string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return Snapshot{}, clierr.NotFound("environment", id)
	}
	r.selected = id
	return r.envs[i].Clone().Snapshot, nil
}

// SelectedID returns the id of the active selection, or "" when empty.
func (r *Registry) SelectedID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// Selected returns a copy of the selected environment.
func (r *Registry) Selected() (Environment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.selected == "" {
		return Environment{}, clierr.ErrNoActiveSelection
	}
	return r.envs[r.index[r.selected]].Clone(), nil
}

// Current returns the snapshot of the selected environment.
func (r *Registry) Current() (Snapshot, error) {
	e, err := r.Selected()
	if err != nil {
		return Snapshot{}, err
	}
	return e.Snapshot, nil
}

// Resolve finds the first environment whose hostname equals text, or whose
// name contains text ignoring case. It does not change the selection.
func (r *Registry) Resolve(text string) (Environment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Environment{}, clierr.NotFound("controller", text)
	}

	fold := cases.Fold()
	needle := fold.String(text)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.envs {
		if e.Hostname == text || strings.Contains(fold.String(e.Name), needle) {
			return e.Clone(), nil
		}
	}
	return Environment{}, clierr.NotFound("controller", text)
}

// Replace swaps in a refreshed copy of an already registered environment.
// The environment is replaced as a whole; the selection is unchanged.
func (r *Registry) Replace(e Environment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[e.ID]
	if !ok {
		return clierr.NotFound("environment", e.ID)
	}
	r.envs[i] = e.Clone()
	return nil
}
