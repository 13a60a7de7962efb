// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package queries

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/confighub/ctrl-scout/internal/clierr"
)

// DefaultLatency is the simulated round-trip of the mock executor.
const DefaultLatency = 1500 * time.Millisecond

// Executor runs a query template against the controller carried by ctx.
type Executor interface {
	Execute(ctx context.Context, templateID string, params map[string]string) (*Result, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, templateID string, params map[string]string) (*Result, error)

func (f ExecutorFunc) Execute(ctx context.Context, templateID string, params map[string]string) (*Result, error) {
	return f(ctx, templateID, params)
}

type controllerKey struct{}

// WithController returns a context carrying the target controller hostname.
func WithController(ctx context.Context, hostname string) context.Context {
	return context.WithValue(ctx, controllerKey{}, hostname)
}

// ControllerFrom returns the controller hostname carried by ctx.
func ControllerFrom(ctx context.Context) (string, bool) {
	h, ok := ctx.Value(controllerKey{}).(string)
	return h, ok && h != ""
}

// MockExecutor answers every template with a canned table after a fixed delay.
type MockExecutor struct {
	catalog *Catalog
	latency time.Duration

	mu     sync.RWMutex
	tables map[string]*Result
}

// NewMockExecutor returns a mock executor over catalog with the reference
// tables. A negative latency means no delay.
func NewMockExecutor(catalog *Catalog, latency time.Duration) *MockExecutor {
	return &MockExecutor{
		catalog: catalog,
		latency: latency,
		tables:  CannedTables(),
	}
}

// SetTable replaces the canned table for a template.
func (m *MockExecutor) SetTable(templateID string, r *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[templateID] = r
}

// Execute binds params, waits out the latency and returns the canned table.
func (m *MockExecutor) Execute(ctx context.Context, templateID string, params map[string]string) (*Result, error) {
	if _, err := m.catalog.Bind(templateID, params); err != nil {
		return nil, err
	}

	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, contextError(ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	m.mu.RLock()
	table, ok := m.tables[templateID]
	m.mu.RUnlock()
	if !ok {
		return NoData(), nil
	}

	out := table.Clone()
	if out == nil {
		return nil, clierr.Execution("empty result")
	}
	if err := out.Validate(); err != nil {
		return nil, clierr.Execution(err.Error())
	}
	return out, nil
}

// WithTimeout bounds each execution of inner to d. Expiry surfaces as an
// execution error with the message "timeout". A non-positive d disables it.
func WithTimeout(inner Executor, d time.Duration) Executor {
	if d <= 0 {
		return inner
	}
	return ExecutorFunc(func(ctx context.Context, templateID string, params map[string]string) (*Result, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		res, err := inner.Execute(ctx, templateID, params)
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, clierr.Execution("timeout")
		}
		return res, err
	})
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return clierr.Execution("timeout")
	}
	return clierr.Execution("canceled")
}

// NoData is the table returned for templates without canned data.
func NoData() *Result {
	return &Result{
		Columns: []string{"Result"},
		Rows:    [][]Cell{Row("No data available")},
	}
}

// CannedTables returns the reference result for each built-in template.
func CannedTables() map[string]*Result {
	return map[string]*Result{
		"active-applications": {
			Columns: []string{"App Name", "App ID", "Created Date"},
			Rows: [][]Cell{
				Row("E-Commerce Web", "app-001", "2023-01-15"),
				Row("Mobile API", "app-002", "2023-02-20"),
				Row("Payment Service", "app-003", "2023-03-10"),
				Row("User Management", "app-004", "2023-04-05"),
			},
		},
		"top-errors-by-app": {
			Columns: []string{"Error Message", "Error Count", "First Occurred"},
			Rows: [][]Cell{
				Row("NullPointerException in UserService", 245, "2025-09-20 10:30:00"),
				Row("Database connection timeout", 156, "2025-09-21 14:15:00"),
				Row("Invalid session token", 89, "2025-09-22 09:45:00"),
				Row("Memory allocation failed", 34, "2025-09-23 16:20:00"),
			},
		},
		"agent-status": {
			Columns: []string{"Agent Name", "Agent Type", "Status", "Last Checkin"},
			Rows: [][]Cell{
				Row("web-agent-01", "Java", "Active", "2025-09-25 12:30:00"),
				Row("app-agent-02", ".NET", "Active", "2025-09-25 12:29:00"),
				Row("db-agent-03", "Database", "Inactive", "2025-09-25 11:45:00"),
				Row("mobile-agent-04", "iOS", "Active", "2025-09-25 12:31:00"),
			},
		},
		"performance-metrics": {
			Columns: []string{"Timestamp", "Avg Response Time (ms)", "Throughput (rpm)", "Error Rate (%)"},
			Rows: [][]Cell{
				Row("2025-09-25 12:00:00", 250, 1500, 0.5),
				Row("2025-09-25 12:15:00", 280, 1450, 0.8),
				Row("2025-09-25 12:30:00", 220, 1600, 0.3),
				Row("2025-09-25 12:45:00", 300, 1400, 1.2),
			},
		},
		"database-connections": {
			Columns: []string{"DB Name", "Connection Count", "Active Connections", "Max Connections"},
			Rows: [][]Cell{
				Row("prod-users-db", 45, 38, 100),
				Row("prod-orders-db", 62, 55, 150),
				Row("prod-inventory-db", 23, 18, 80),
				Row("prod-analytics-db", 15, 12, 50),
			},
		},
	}
}
