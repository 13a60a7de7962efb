// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package engine owns the dashboard session state: the selected environment,
// the active detail view, incident toggles and the query panel. Every action
// is atomic under one mutex; ExecuteQuery suspends without holding it.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confighub/ctrl-scout/internal/clierr"
	"github.com/confighub/ctrl-scout/internal/envsvc"
	"github.com/confighub/ctrl-scout/internal/incidentsvc"
	"github.com/confighub/ctrl-scout/internal/viewstate"
	"github.com/confighub/ctrl-scout/pkg/queries"
)

// QueryState is the visible state of the query panel.
type QueryState struct {
	TemplateID string          `json:"templateId,omitempty"`
	Result     *queries.Result `json:"result,omitempty"`
	Err        error           `json:"-"`
	Error      string          `json:"error,omitempty"`
	Pending    bool            `json:"pending"`
	RunID      string          `json:"runId,omitempty"`
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Environment       envsvc.Environment  `json:"environment"`
	HasSelection      bool                `json:"hasSelection"`
	ActiveView        viewstate.View      `json:"activeView"`
	ExpandedIncidents []incidentsvc.Key   `json:"expandedIncidents"`
	Incidents         incidentsvc.Summary `json:"incidents"`
	Query             QueryState          `json:"query"`
}

// IsCollapsed reports whether the incident card at (level, index) is collapsed.
func (s Snapshot) IsCollapsed(level envsvc.Level, index int) bool {
	for _, k := range s.ExpandedIncidents {
		if k.Level == level && k.Index == index {
			return false
		}
	}
	return true
}

// Resolution is the outcome of a free-text controller lookup.
type Resolution struct {
	Environment envsvc.Summary `json:"environment"`
	Unresolved  bool           `json:"unresolved"`
	Text        string         `json:"text"`
}

// SelectionListener is called after the selected environment changes.
type SelectionListener func(envsvc.Environment)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithExecutor sets the query backend.
func WithExecutor(x queries.Executor) Option {
	return func(e *Engine) {
		if x != nil {
			e.exec = x
		}
	}
}

type run struct {
	epoch  uint64
	cancel context.CancelFunc
}

// Engine is the environment state engine.
type Engine struct {
	mu sync.Mutex

	registry *envsvc.Registry
	catalog  *queries.Catalog
	exec     queries.Executor
	log      *zap.Logger

	view    *viewstate.Machine
	toggles *incidentsvc.ToggleState
	query   QueryState

	epoch   uint64
	seq     uint64
	runs    map[uint64]run
	pending int

	listeners []SelectionListener
}

// New returns an engine over registry and catalog. Without WithExecutor the
// engine answers queries with a MockExecutor at the default latency.
func New(registry *envsvc.Registry, catalog *queries.Catalog, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		catalog:  catalog,
		log:      zap.NewNop(),
		view:     viewstate.New(),
		toggles:  incidentsvc.NewToggleState(),
		runs:     make(map[uint64]run),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.exec == nil {
		e.exec = queries.NewMockExecutor(catalog, queries.DefaultLatency)
	}
	if snap, err := registry.Current(); err == nil {
		e.toggles.Sync(snap.Incidents)
	}
	return e
}

// OnSelectionChanged registers fn to run after each effective selection change.
// Listeners run outside the engine lock.
func (e *Engine) OnSelectionChanged(fn SelectionListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// ListEnvironments returns the registered environments in order.
func (e *Engine) ListEnvironments() []envsvc.Summary {
	return e.registry.List()
}

// Environment returns a registered environment without selecting it.
func (e *Engine) Environment(id string) (envsvc.Environment, error) {
	return e.registry.Get(id)
}

// SelectEnvironment makes id the selection. An unknown id leaves every part of
// the state untouched.
func (e *Engine) SelectEnvironment(id string) (envsvc.Snapshot, error) {
	e.mu.Lock()
	env, changed, err := e.selectLocked(id)
	listeners := e.listeners
	e.mu.Unlock()

	if err != nil {
		e.log.Debug("select environment failed", zap.String("id", id), zap.Error(err))
		return envsvc.Snapshot{}, err
	}
	if changed {
		e.notify(listeners, env)
	}
	return env.Snapshot, nil
}

// ResolveByText selects the first environment whose hostname equals text or
// whose name contains it. A miss is not an error: the resolution is marked
// unresolved and the selection stays.
func (e *Engine) ResolveByText(text string) Resolution {
	text = strings.TrimSpace(text)

	found, err := e.registry.Resolve(text)
	if err != nil {
		e.log.Info("unresolved custom controller", zap.String("text", text))
		return Resolution{Unresolved: true, Text: text}
	}

	e.mu.Lock()
	env, changed, err := e.selectLocked(found.ID)
	listeners := e.listeners
	e.mu.Unlock()

	if err != nil {
		// Removed between lookup and select; registries never shrink today.
		return Resolution{Unresolved: true, Text: text}
	}
	if changed {
		e.notify(listeners, env)
	}
	return Resolution{Environment: env.Summary(), Text: text}
}

// RefreshEnvironment swaps in new data for a registered environment. Incident
// toggles survive unless the incident lists changed length.
func (e *Engine) RefreshEnvironment(env envsvc.Environment) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.registry.Replace(env); err != nil {
		return err
	}
	if e.registry.SelectedID() == env.ID {
		if e.toggles.Sync(env.Snapshot.Incidents) {
			e.log.Debug("incident toggles reset after refresh", zap.String("environment", env.ID))
		}
	}
	return nil
}

func (e *Engine) selectLocked(id string) (envsvc.Environment, bool, error) {
	prev := e.registry.SelectedID()
	if _, err := e.registry.Select(id); err != nil {
		return envsvc.Environment{}, false, err
	}
	env, err := e.registry.Selected()
	if err != nil {
		return envsvc.Environment{}, false, err
	}
	if prev == id {
		return env, false, nil
	}

	e.toggles.Reset()
	e.toggles.Sync(env.Snapshot.Incidents)
	e.invalidateLocked()
	e.query.Result = nil
	e.query.Err = nil
	e.query.Error = ""
	e.query.RunID = ""

	e.log.Info("environment selected",
		zap.String("environment", env.ID),
		zap.String("previous", prev),
		zap.String("hostname", env.Hostname))
	return env, true, nil
}

func (e *Engine) notify(listeners []SelectionListener, env envsvc.Environment) {
	for _, fn := range listeners {
		fn(env)
	}
}

// SetActiveView switches the detail panel view.
func (e *Engine) SetActiveView(v viewstate.View) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.Set(v)
}

// CycleView moves to the next (delta > 0) or previous tab, wrapping around.
func (e *Engine) CycleView(delta int) viewstate.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	if delta < 0 {
		return e.view.Prev()
	}
	return e.view.Next()
}

// ActivateIndicator follows a metric card's shortcut. It reports whether the
// card has a target view.
func (e *Engine) ActivateIndicator(i viewstate.Indicator) (viewstate.View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.Shortcut(i)
}

// ToggleIncident flips the incident card at (level, index) of the selected
// environment and returns its new collapsed value.
func (e *Engine) ToggleIncident(level envsvc.Level, index int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.registry.Current()
	if err != nil {
		return false, err
	}
	list := snap.Incidents.Level(level)
	if index < 0 || index >= len(list) {
		return false, clierr.NotFound("incident", incidentsvc.Key{Level: level, Index: index}.String())
	}
	return e.toggles.Toggle(level, index), nil
}

// ListQueryTemplates returns the catalog in order.
func (e *Engine) ListQueryTemplates() []queries.Template {
	return e.catalog.List()
}

// GetQueryParameters returns the declared parameters of a template.
func (e *Engine) GetQueryParameters(id string) ([]queries.Parameter, error) {
	return e.catalog.Parameters(id)
}

// SelectQuery makes id the selected template. Choosing a different template
// discards the previous result and error.
func (e *Engine) SelectQuery(id string) error {
	if _, err := e.catalog.Get(id); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectQueryLocked(id)
	return nil
}

func (e *Engine) selectQueryLocked(id string) {
	if e.query.TemplateID == id {
		return
	}
	e.invalidateLocked()
	e.query = QueryState{TemplateID: id}
}

// invalidateLocked starts a new query epoch. In-flight runs are canceled and
// their results will be discarded.
func (e *Engine) invalidateLocked() {
	if len(e.runs) > 0 {
		e.log.Debug("canceling in-flight queries", zap.Int("count", len(e.runs)))
	}
	e.epoch++
	for seq, r := range e.runs {
		r.cancel()
		delete(e.runs, seq)
	}
	e.pending = 0
	e.query.Pending = false
}

// ExecuteQuery runs a template against the selected environment. An empty id
// runs the selected template; a different id selects it first. Bind failures
// return before any suspension. Runs superseded by a template or environment
// change return clierr.ErrStaleResult and leave the visible state alone.
func (e *Engine) ExecuteQuery(ctx context.Context, id string, params map[string]string) (*queries.Result, error) {
	e.mu.Lock()
	if id == "" {
		id = e.query.TemplateID
	}
	if _, err := e.catalog.Get(id); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.selectQueryLocked(id)
	e.query.Err = nil
	e.query.Error = ""

	if _, err := e.catalog.Bind(id, params); err != nil {
		e.setErrorLocked(err)
		e.mu.Unlock()
		return nil, err
	}
	env, err := e.registry.Selected()
	if err != nil {
		e.setErrorLocked(err)
		e.mu.Unlock()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(queries.WithController(ctx, env.Hostname))
	e.seq++
	seq, epoch := e.seq, e.epoch
	e.runs[seq] = run{epoch: epoch, cancel: cancel}
	e.pending++
	e.query.Pending = true
	runID := uuid.NewString()
	log := e.log.With(
		zap.String("run", runID),
		zap.String("template", id),
		zap.String("environment", env.ID))
	e.mu.Unlock()

	log.Info("query started")
	res, err := e.exec.Execute(runCtx, id, params)
	cancel()

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.runs, seq)

	if epoch != e.epoch {
		log.Info("query result discarded", zap.Bool("failed", err != nil))
		return nil, fmt.Errorf("query %s: %w", runID, clierr.ErrStaleResult)
	}

	e.pending--
	e.query.Pending = e.pending > 0
	e.query.RunID = runID
	if err == nil {
		err = checkResult(res)
	}
	if err != nil {
		log.Warn("query failed", zap.Error(err))
		e.setErrorLocked(err)
		return nil, err
	}

	log.Info("query finished", zap.Int("rows", len(res.Rows)))
	e.query.Result = res.Clone()
	e.query.Err = nil
	e.query.Error = ""
	return res, nil
}

// checkResult holds any executor to the same result contract as the mock.
func checkResult(res *queries.Result) error {
	if res == nil {
		return clierr.Execution("empty result")
	}
	if err := res.Validate(); err != nil {
		return clierr.Execution(err.Error())
	}
	return nil
}

func (e *Engine) setErrorLocked(err error) {
	e.query.Err = err
	e.query.Error = err.Error()
}

// Snapshot returns a copy of the session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		ActiveView:        e.view.Current(),
		ExpandedIncidents: e.toggles.Expanded(),
		Query:             e.query,
	}
	s.Query.Result = e.query.Result.Clone()
	if env, err := e.registry.Selected(); err == nil {
		s.Environment = env
		s.HasSelection = true
		s.Incidents = incidentsvc.Summarize(env.Snapshot.Incidents)
	}
	return s
}
