// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is the immutable description of one find-and-replace run
type Config struct {
	Input         string // Path of the file to read
	Output        string // Path of the file to create or truncate
	Search        string // Substring to find
	Replace       string // Substring to substitute
	CaseSensitive bool   // Compare bytes exactly instead of lowercased text
	PreserveCase  bool   // Rewrite only matched spans in case-insensitive mode
}

// 🔍 Validate checks if the configuration is valid
func (cfg Config) Validate() error {
	if cfg.Input == "" {
		return errors.Errorf("input is required")
	}
	if cfg.Output == "" {
		return errors.Errorf("output is required")
	}
	if cfg.CaseSensitive && cfg.PreserveCase {
		return errors.Errorf("preserve_case cannot be combined with case_sensitive")
	}

	same, err := samePath(cfg.Input, cfg.Output)
	if err != nil {
		return errors.Errorf("comparing input and output paths: %w", err)
	}
	if same {
		return errors.Errorf("input and output must be different files: %s", cfg.Input)
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg Config) String() string {
	mode := "case-insensitive"
	if cfg.CaseSensitive {
		mode = "case-sensitive"
	} else if cfg.PreserveCase {
		mode = "case-insensitive, preserving case"
	}
	return fmt.Sprintf("%s -> %s (%q => %q, %s)", cfg.Input, cfg.Output, cfg.Search, cfg.Replace, mode)
}

// samePath reports whether a and b name the same file, either lexically or
// by resolving to the same inode when both exist.
func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB {
		return true, nil
	}

	statA, errA := os.Stat(absA)
	statB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(statA, statB), nil
}

// 📄 File is the on-disk shape of a job file. Nil fields were not set.
type File struct {
	Input         *string `json:"input,omitempty" yaml:"input,omitempty" hcl:"input,optional"`
	Output        *string `json:"output,omitempty" yaml:"output,omitempty" hcl:"output,optional"`
	Search        *string `json:"search,omitempty" yaml:"search,omitempty" hcl:"search,optional"`
	Replace       *string `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,optional"`
	CaseSensitive *bool   `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty" hcl:"case_sensitive,optional"`
	PreserveCase  *bool   `json:"preserve_case,omitempty" yaml:"preserve_case,omitempty" hcl:"preserve_case,optional"`
}

// 🔄 Apply copies every field set in the file onto cfg
func (f *File) Apply(cfg *Config) {
	if f.Input != nil {
		cfg.Input = *f.Input
	}
	if f.Output != nil {
		cfg.Output = *f.Output
	}
	if f.Search != nil {
		cfg.Search = *f.Search
	}
	if f.Replace != nil {
		cfg.Replace = *f.Replace
	}
	if f.CaseSensitive != nil {
		cfg.CaseSensitive = *f.CaseSensitive
	}
	if f.PreserveCase != nil {
		cfg.PreserveCase = *f.PreserveCase
	}
}

// 🔎 IsSet reports whether the named key is present in the file
func (f *File) IsSet(key string) bool {
	switch key {
	case "input":
		return f.Input != nil
	case "output":
		return f.Output != nil
	case "search":
		return f.Search != nil
	case "replace":
		return f.Replace != nil
	case "case_sensitive", "case-sensitive":
		return f.CaseSensitive != nil
	case "preserve_case", "preserve-case":
		return f.PreserveCase != nil
	}
	return false
}

// 🔌 Parser is the interface for job file parsers
type Parser interface {
	// 📝 Parse parses the job file from bytes
	Parse(ctx context.Context, data []byte, filename string) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Load reads and parses a job file
func Load(ctx context.Context, path string) (*File, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading job file")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading job file: %w", err)
	}

	f, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, errors.Errorf("parsing job file: %w", err)
	}

	return f, nil
}
