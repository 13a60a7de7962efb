// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package clierr provides the error taxonomy shared by the environment engine
// and user-friendly error formatting for the CLI and dashboard.
// It helps distinguish between different error types and provides actionable hints.
package clierr

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for CLI output.
const (
	TypeNotFound    = "not_found"    // Unknown environment, template or incident
	TypeNoSelection = "no_selection" // Registry is empty
	TypeValidation  = "validation"   // Required query parameter unbound
	TypeExecution   = "execution"    // Query backend failure
	TypeStale       = "stale"        // Result superseded by a newer selection
	TypeInternal    = "internal"     // Internal/unexpected errors
)

var (
	// ErrNotFound is wrapped by every lookup failure.
	ErrNotFound = errors.New("not found")

	// ErrNoActiveSelection is returned when the registry holds no environments.
	ErrNoActiveSelection = errors.New("no active environment selection")

	// ErrStaleResult is returned by a query execution whose template or
	// environment selection changed while it was in flight.
	ErrStaleResult = errors.New("query result discarded: selection changed")
)

// NotFound wraps ErrNotFound with the kind and identifier that was looked up.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// MissingParameterError reports a required query parameter with no value.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Name)
}

// MissingParameter returns a MissingParameterError for name.
func MissingParameter(name string) error {
	return &MissingParameterError{Name: name}
}

// ExecutionError reports a failed query execution.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return "query execution failed: " + e.Message
}

// Execution returns an ExecutionError carrying msg.
func Execution(msg string) error {
	return &ExecutionError{Message: msg}
}

// Executionf returns an ExecutionError with a formatted message.
func Executionf(format string, args ...interface{}) error {
	return &ExecutionError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound checks if the error indicates a missing environment, template or incident.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsNoActiveSelection checks if the error came from an empty registry.
func IsNoActiveSelection(err error) bool {
	return err != nil && errors.Is(err, ErrNoActiveSelection)
}

// IsStale checks if a query result was discarded.
func IsStale(err error) bool {
	return err != nil && errors.Is(err, ErrStaleResult)
}

// AsMissingParameter returns the MissingParameterError in err's chain, if any.
func AsMissingParameter(err error) (*MissingParameterError, bool) {
	var mp *MissingParameterError
	if errors.As(err, &mp) {
		return mp, true
	}
	return nil, false
}

// AsExecution returns the ExecutionError in err's chain, if any.
func AsExecution(err error) (*ExecutionError, bool) {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// IsTimeout checks if the error is an execution timeout.
func IsTimeout(err error) bool {
	ee, ok := AsExecution(err)
	return ok && ee.Message == "timeout"
}

// ClassifyError determines the type of error for appropriate handling.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if IsNotFound(err) {
		return TypeNotFound
	}
	if IsNoActiveSelection(err) {
		return TypeNoSelection
	}
	if _, ok := AsMissingParameter(err); ok {
		return TypeValidation
	}
	if IsStale(err) {
		return TypeStale
	}
	if _, ok := AsExecution(err); ok {
		return TypeExecution
	}
	return TypeInternal
}

// Pretty formats an error with a user-friendly message and actionable hints.
func Pretty(err error) string {
	if err == nil {
		return ""
	}

	baseMsg := err.Error()

	switch ClassifyError(err) {
	case TypeNotFound:
		return fmt.Sprintf("Not found: %s\n\nHint: List what is available:\n"+
			"  - ctrl-scout envs for environment ids\n"+
			"  - ctrl-scout query list for query template ids", baseMsg)

	case TypeNoSelection:
		return fmt.Sprintf("No environment: %s\n\nHint: Load environments with --environments <file>\n"+
			"  or remove the override to use the built-in reference set", baseMsg)

	case TypeValidation:
		mp, _ := AsMissingParameter(err)
		return fmt.Sprintf("Invalid query: %s\n\nHint: Supply it with --param %s=<value>\n"+
			"  - ctrl-scout query params <id> lists every parameter", baseMsg, mp.Name)

	case TypeExecution:
		if IsTimeout(err) {
			return fmt.Sprintf("Query timed out: %s\n\nHint: Raise query_timeout in config.yaml\n"+
				"  or set CTRL_SCOUT_QUERY_TIMEOUT", baseMsg)
		}
		return fmt.Sprintf("Query failed: %s", baseMsg)

	case TypeStale:
		return fmt.Sprintf("Discarded: %s", baseMsg)

	default:
		return fmt.Sprintf("Error: %s", baseMsg)
	}
}

// WrapWithHint wraps an error with an additional hint message.
func WrapWithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nHint: %s", err, hint)
}

// NothingFound returns a user-friendly message when a list has no entries.
// This is different from an error - it's a valid "empty" result.
func NothingFound(what string) string {
	return fmt.Sprintf("No %s found.\n\n"+
		"This might mean:\n"+
		"  - The environments file defines none\n"+
		"  - The query returned an empty table", what)
}

// Unwrap returns the underlying error, stripping any wrapper.
func Unwrap(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// Short returns the first line of an error message for single-line displays.
func Short(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
