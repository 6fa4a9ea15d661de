// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paperfile reads and writes the YAML batch files the CLI
// exchanges with callers: papers in, ranked results out.
package paperfile

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubrank/pkg/types"
)

// File is the on-disk representation of one evaluation batch. Query and
// author are optional; papers are required.
type File struct {
	Query  string        `yaml:"query,omitempty"`
	Author *types.Author `yaml:"author,omitempty"`
	Papers []types.Paper `yaml:"papers"`
}

// ResultFile is the on-disk representation of a ranked batch.
type ResultFile struct {
	Query  string              `yaml:"query,omitempty"`
	Papers []types.ScoredPaper `yaml:"papers"`
}

// Read loads a batch file from disk. A file with no papers is an error:
// there is nothing to evaluate.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading paper file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing paper file: %w", err)
	}
	if len(f.Papers) == 0 {
		return nil, fmt.Errorf("paper file %s contains no papers", path)
	}
	return &f, nil
}

// WriteResults saves a ranked batch to a YAML file.
func WriteResults(path, query string, papers []types.ScoredPaper) error {
	data, err := yaml.Marshal(&ResultFile{Query: query, Papers: papers})
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
