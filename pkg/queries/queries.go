// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package queries provides the query template catalog for ctrl-scout.
//
// Query templates are named, parameterized query definitions that can be:
// - Built-in (shipped with ctrl-scout)
// - User-defined (~/.ctrl-scout/queries.yaml)
//
// A template body uses positional "?" placeholders; its declared parameters
// bind to them in order:
// - active-applications: no parameters
// - top-errors-by-app: appId, startDate, endDate, limit
// - database-connections: dbPattern
package queries

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/confighub/ctrl-scout/internal/clierr"
)

// ParamType is the declared type of a template parameter.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamNumber ParamType = "number"
	ParamDate   ParamType = "date"
)

// Parameter is one positional template parameter.
type Parameter struct {
	Name        string    `yaml:"name" json:"name"`
	Type        ParamType `yaml:"type" json:"type"`
	Label       string    `yaml:"label" json:"label"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Required    bool      `yaml:"required,omitempty" json:"required"`
}

// Template is a named, parameterized query.
type Template struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Query       string      `yaml:"query" json:"query"`
	Parameters  []Parameter `yaml:"parameters,omitempty" json:"parameters"`
	Category    string      `yaml:"category,omitempty" json:"category,omitempty"` // "builtin" or "user"
}

// Catalog is the ordered, read-only set of query templates.
type Catalog struct {
	templates []Template
}

// BuiltinTemplates are shipped with ctrl-scout.
var BuiltinTemplates = []Template{
	{
		ID:          "active-applications",
		Name:        "Active Applications",
		Description: "Get all active applications in the account",
		Query:       "SELECT app_name, app_id, created_date FROM applications WHERE status = 'active'",
		Category:    "builtin",
	},
	{
		ID:          "top-errors-by-app",
		Name:        "Top Errors by Application",
		Description: "Get top errors for a specific application within date range",
		Query:       "SELECT error_message, error_count, first_occurred FROM error_logs WHERE app_id = ? AND date >= ? AND date <= ? ORDER BY error_count DESC LIMIT ?",
		Parameters: []Parameter{
			{Name: "appId", Type: ParamString, Label: "Application ID", Placeholder: "Enter application ID", Required: true},
			{Name: "startDate", Type: ParamDate, Label: "Start Date", Required: true},
			{Name: "endDate", Type: ParamDate, Label: "End Date", Required: true},
			{Name: "limit", Type: ParamNumber, Label: "Limit", Placeholder: "10"},
		},
		Category: "builtin",
	},
	{
		ID:          "agent-status",
		Name:        "Agent Status Report",
		Description: "Get status of all agents for a specific application",
		Query:       "SELECT agent_name, agent_type, status, last_checkin FROM agents WHERE app_name = ? ORDER BY last_checkin DESC",
		Parameters: []Parameter{
			{Name: "appName", Type: ParamString, Label: "Application Name", Placeholder: "Enter application name", Required: true},
		},
		Category: "builtin",
	},
	{
		ID:          "performance-metrics",
		Name:        "Performance Metrics",
		Description: "Get performance metrics for a specific time range",
		Query:       "SELECT timestamp, avg_response_time, throughput, error_rate FROM performance_metrics WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp",
		Parameters: []Parameter{
			{Name: "startTime", Type: ParamDate, Label: "Start Time", Required: true},
			{Name: "endTime", Type: ParamDate, Label: "End Time", Required: true},
		},
		Category: "builtin",
	},
	{
		ID:          "database-connections",
		Name:        "Database Connections",
		Description: "Monitor database connections and their status",
		Query:       "SELECT db_name, connection_count, active_connections, max_connections FROM database_stats WHERE db_name LIKE ?",
		Parameters: []Parameter{
			{Name: "dbPattern", Type: ParamString, Label: "Database Name Pattern", Placeholder: "%prod%", Required: true},
		},
		Category: "builtin",
	},
}

// UserTemplatesFile is the default path to user-defined templates
func UserTemplatesFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ctrl-scout", "queries.yaml")
}

// UserTemplatesConfig is the structure of the user templates file
type UserTemplatesConfig struct {
	Queries []Template `yaml:"queries"`
}

// NewCatalog creates a catalog from templates in order, rejecting invalid or
// duplicate templates.
func NewCatalog(templates ...Template) (*Catalog, error) {
	c := &Catalog{templates: make([]Template, 0, len(templates))}
	seen := make(map[string]bool, len(templates))

	var errs field.ErrorList
	for i, t := range templates {
		path := field.NewPath("queries").Index(i)
		errs = append(errs, t.Validate(path)...)
		if seen[t.ID] {
			errs = append(errs, field.Duplicate(path.Child("id"), t.ID))
		}
		seen[t.ID] = true
		c.templates = append(c.templates, t.clone())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid query templates: %w", errs.ToAggregate())
	}
	return c, nil
}

// DefaultCatalog returns a catalog of the built-in templates.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(BuiltinTemplates...)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog creates a catalog with the built-in templates followed by the
// templates in path. An empty path uses UserTemplatesFile; a missing file is
// not an error.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		path = UserTemplatesFile()
	}

	templates := make([]Template, 0, len(BuiltinTemplates))
	templates = append(templates, BuiltinTemplates...)

	userTemplates, err := LoadUserTemplates(path)
	if err != nil {
		return nil, err
	}
	for i := range userTemplates {
		userTemplates[i].Category = "user"
	}
	templates = append(templates, userTemplates...)

	return NewCatalog(templates...)
}

// LoadUserTemplates loads templates from a user file
func LoadUserTemplates(path string) ([]Template, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No user templates file
		}
		return nil, fmt.Errorf("read queries file: %w", err)
	}

	var config UserTemplatesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse queries file: %w", err)
	}

	return config.Queries, nil
}

// List returns all templates (built-in + user)
func (c *Catalog) List() []Template {
	out := make([]Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t.clone())
	}
	return out
}

// ListBuiltin returns only built-in templates
func (c *Catalog) ListBuiltin() []Template {
	return c.byCategory("builtin")
}

// ListUser returns only user-defined templates
func (c *Catalog) ListUser() []Template {
	return c.byCategory("user")
}

func (c *Catalog) byCategory(category string) []Template {
	result := make([]Template, 0)
	for _, t := range c.templates {
		if t.Category == category {
			result = append(result, t.clone())
		}
	}
	return result
}

// Get returns a template by id
func (c *Catalog) Get(id string) (Template, error) {
	for _, t := range c.templates {
		if t.ID == id {
			return t.clone(), nil
		}
	}
	return Template{}, clierr.NotFound("query template", id)
}

// Parameters returns the declared parameters of a template
func (c *Catalog) Parameters(id string) ([]Parameter, error) {
	t, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return t.Parameters, nil
}

// Bound is a template with its parameter values in placeholder order.
// Optional parameters left unset bind as "".
type Bound struct {
	Template Template
	Args     []string
}

// Bind checks params against the template's declared parameters and orders
// them by position. Every required parameter needs a non-blank value.
func (c *Catalog) Bind(id string, params map[string]string) (Bound, error) {
	t, err := c.Get(id)
	if err != nil {
		return Bound{}, err
	}

	args := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		v := strings.TrimSpace(params[p.Name])
		if v == "" && p.Required {
			return Bound{}, clierr.MissingParameter(p.Name)
		}
		args[i] = v
	}
	return Bound{Template: t, Args: args}, nil
}

// Validate checks the template's shape: identifiers present, parameter
// names unique, types known, and one parameter per placeholder.
func (t Template) Validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList

	if strings.TrimSpace(t.ID) == "" {
		errs = append(errs, field.Required(path.Child("id"), ""))
	}
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, field.Required(path.Child("name"), ""))
	}
	if strings.TrimSpace(t.Query) == "" {
		errs = append(errs, field.Required(path.Child("query"), ""))
	}

	names := make(map[string]bool, len(t.Parameters))
	for i, p := range t.Parameters {
		pp := path.Child("parameters").Index(i)
		switch {
		case p.Name == "":
			errs = append(errs, field.Required(pp.Child("name"), ""))
		case names[p.Name]:
			errs = append(errs, field.Duplicate(pp.Child("name"), p.Name))
		}
		names[p.Name] = true

		switch p.Type {
		case ParamString, ParamNumber, ParamDate:
		default:
			errs = append(errs, field.NotSupported(pp.Child("type"), p.Type, []string{"string", "number", "date"}))
		}
	}

	if n := CountPlaceholders(t.Query); n != len(t.Parameters) {
		errs = append(errs, field.Invalid(path.Child("parameters"), len(t.Parameters),
			fmt.Sprintf("query body has %d placeholders", n)))
	}
	return errs
}

// CountPlaceholders counts "?" placeholders outside single-quoted literals.
func CountPlaceholders(query string) int {
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == '?' && !quoted:
			n++
		}
	}
	return n
}

func (t Template) clone() Template {
	t.Parameters = append([]Parameter(nil), t.Parameters...)
	return t
}
