// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package envsvc

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// FixturesFile is the structure of an environments file.
// The file may be YAML or JSON; field names follow the json tags.
type FixturesFile struct {
	Environments []Environment `json:"environments"`
}

// LoadFile reads environments from a YAML or JSON fixtures file.
func LoadFile(path string) ([]Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read environments file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixtures document.
func Parse(data []byte) ([]Environment, error) {
	var f FixturesFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse environments file: %w", err)
	}
	for i, e := range f.Environments {
		if e.ID == "" {
			return nil, fmt.Errorf("environment #%d: missing id", i+1)
		}
	}
	return f.Environments, nil
}

// LoadRegistry builds a registry from path, or from DefaultEnvironments when
// path is empty.
func LoadRegistry(path string) (*Registry, error) {
	envs := DefaultEnvironments()
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		envs = loaded
	}
	return NewRegistry(envs...)
}
