// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package logging writes a structured session log per command. The dashboard
// owns the terminal, so nothing is logged to stdout or stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultDir is where session logs go when no directory is configured.
const DefaultDir = ".ctrl-scout/logs"

// Session is a zap logger bound to one log file.
type Session struct {
	*zap.Logger
	path      string
	startTime time.Time
}

// Nop returns a session that discards everything.
func Nop() *Session {
	return &Session{Logger: zap.NewNop(), startTime: time.Now()}
}

// NewSession creates <dir>/<command>-<timestamp>.log and a JSON logger that
// writes to it at level. An empty dir yields a no-op session.
func NewSession(dir, command, level string) (*Session, error) {
	if dir == "" {
		return Nop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	start := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", command, start.Format("2006-01-02-150405")))

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.Sampling = nil

	logger, err := config.Build(zap.Fields(zap.String("command", command)))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	s := &Session{Logger: logger, path: path, startTime: start}
	s.Info("session started")
	return s, nil
}

// Path returns the log file path, "" for a no-op session.
func (s *Session) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close writes the footer entry, flushes and returns the log path.
func (s *Session) Close() string {
	if s == nil || s.Logger == nil {
		return ""
	}
	s.Info("session finished", zap.Duration("duration", time.Since(s.startTime).Round(time.Millisecond)))
	_ = s.Sync()
	return s.path
}
