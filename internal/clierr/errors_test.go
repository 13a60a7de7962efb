// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package clierr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "environment not found",
			err:      NotFound("environment", "nope"),
			expected: true,
		},
		{
			name:     "wrapped template not found",
			err:      fmt.Errorf("parameters: %w", NotFound("query template", "x")),
			expected: true,
		},
		{
			name:     "not found text without sentinel",
			err:      errors.New("resource not found"),
			expected: false,
		},
		{
			name:     "regular error",
			err:      errors.New("something went wrong"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsNotFound(tt.err)
			if got != tt.expected {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("environment", "ghost")
	want := `environment "ghost": not found`
	if err.Error() != want {
		t.Errorf("NotFound() = %q, want %q", err.Error(), want)
	}
}

func TestAsMissingParameter(t *testing.T) {
	err := fmt.Errorf("bind: %w", MissingParameter("appId"))
	mp, ok := AsMissingParameter(err)
	if !ok {
		t.Fatal("expected MissingParameterError in chain")
	}
	if mp.Name != "appId" {
		t.Errorf("Name = %q, want appId", mp.Name)
	}
	if _, ok := AsMissingParameter(errors.New("other")); ok {
		t.Error("plain error should not be a MissingParameterError")
	}
}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(Execution("timeout")) {
		t.Error("Execution(timeout) should be a timeout")
	}
	if IsTimeout(Execution("backend exploded")) {
		t.Error("other execution errors are not timeouts")
	}
	if IsTimeout(nil) {
		t.Error("nil is not a timeout")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "not found error",
			err:      NotFound("environment", "x"),
			expected: TypeNotFound,
		},
		{
			name:     "empty registry",
			err:      ErrNoActiveSelection,
			expected: TypeNoSelection,
		},
		{
			name:     "missing parameter",
			err:      MissingParameter("appId"),
			expected: TypeValidation,
		},
		{
			name:     "execution error",
			err:      Executionf("bad row %d", 2),
			expected: TypeExecution,
		},
		{
			name:     "stale result",
			err:      ErrStaleResult,
			expected: TypeStale,
		},
		{
			name:     "internal error",
			err:      errors.New("unexpected error"),
			expected: TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got != tt.expected {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPretty(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantContain string
	}{
		{
			name:        "nil error",
			err:         nil,
			wantContain: "",
		},
		{
			name:        "not found includes listing hint",
			err:         NotFound("query template", "nope"),
			wantContain: "ctrl-scout query list",
		},
		{
			name:        "missing parameter names the flag",
			err:         MissingParameter("appId"),
			wantContain: "--param appId=",
		},
		{
			name:        "timeout includes config hint",
			err:         Execution("timeout"),
			wantContain: "query_timeout",
		},
		{
			name:        "internal error",
			err:         errors.New("boom"),
			wantContain: "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pretty(tt.err)
			if tt.wantContain != "" && !strings.Contains(got, tt.wantContain) {
				t.Errorf("Pretty() = %q, want to contain %q", got, tt.wantContain)
			}
		})
	}
}

func TestWrapWithHint(t *testing.T) {
	if WrapWithHint(nil, "hint") != nil {
		t.Error("WrapWithHint(nil) should be nil")
	}
	err := WrapWithHint(NotFound("environment", "x"), "try envs")
	if !IsNotFound(err) {
		t.Error("hint wrapper should keep the sentinel")
	}
	if Short(err) != `environment "x": not found` {
		t.Errorf("Short() = %q", Short(err))
	}
}

func TestNothingFound(t *testing.T) {
	result := NothingFound("environments")
	if !strings.Contains(result, "environments") {
		t.Errorf("NothingFound() should contain the subject")
	}
	if !strings.HasPrefix(result, "No ") {
		t.Errorf("NothingFound() should start with 'No '")
	}
}

func TestUnwrap(t *testing.T) {
	root := errors.New("root")
	err := fmt.Errorf("a: %w", fmt.Errorf("b: %w", root))
	if Unwrap(err) != root {
		t.Error("Unwrap should return the innermost error")
	}
}
