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
	"strings"

	"github.com/walteh/phpcsfixer/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultConfigCandidates lists the fixer config names, current name first
	DefaultConfigCandidates = ".php-cs-fixer.php,.php-cs-fixer.dist.php,.php_cs,.php_cs.dist"
	// DefaultRules is used when no fixer config file resolves
	DefaultRules = "@PSR12"
	// DefaultPHPExecutable is the runtime the fixer is launched with
	DefaultPHPExecutable = "php"
)

// 🔌 Parser is the interface for settings parsers
type Parser interface {
	// 📝 Parse parses settings from bytes, starting from defaults
	Parse(ctx context.Context, data []byte) (*Settings, error)

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

// 📚 Settings is the workspace configuration for the fixer
type Settings struct {
	// ToolPath is a comma-separated list of fixer binary candidates
	ToolPath string `json:"toolPath,omitempty" yaml:"toolPath,omitempty"`
	// Config is a comma-separated list of fixer config file candidates
	Config string `json:"config,omitempty" yaml:"config,omitempty"`
	// Rules is the inline rule string used when no config file resolves
	Rules        string `json:"rules,omitempty" yaml:"rules,omitempty"`
	UseCache     bool   `json:"useCache,omitempty" yaml:"useCache,omitempty"`
	AllowRisky   bool   `json:"allowRisky,omitempty" yaml:"allowRisky,omitempty"`
	Intersection bool   `json:"intersection,omitempty" yaml:"intersection,omitempty"`
	FixOnSave    bool   `json:"fixOnSave,omitempty" yaml:"fixOnSave,omitempty"`
	// PHPExecutable is the runtime that runs the fixer binary
	PHPExecutable string `json:"php,omitempty" yaml:"php,omitempty"`
	// FormatOnSave mirrors the host's own format-on-save switch
	FormatOnSave bool `json:"formatOnSave,omitempty" yaml:"formatOnSave,omitempty"`
}

// 🏭 Default returns settings with every default applied
func Default() *Settings {
	return &Settings{
		Config:        DefaultConfigCandidates,
		Rules:         DefaultRules,
		PHPExecutable: DefaultPHPExecutable,
	}
}

// 🔍 Validate checks the settings and normalizes candidate lists
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.PHPExecutable) == "" {
		return errors.Errorf("php executable is required")
	}
	s.PHPExecutable = strings.TrimSpace(s.PHPExecutable)

	s.ToolPath = strings.Join(resolve.SplitCandidates(s.ToolPath), ",")
	s.Config = strings.Join(resolve.SplitCandidates(s.Config), ",")
	s.Rules = strings.TrimSpace(s.Rules)

	return nil
}

// 🧰 ToolPathCandidates returns the fixer binary candidates in priority order
func (s *Settings) ToolPathCandidates() []string {
	return resolve.SplitCandidates(s.ToolPath)
}

// 📄 ConfigCandidates returns the fixer config candidates in priority order
func (s *Settings) ConfigCandidates() []string {
	return resolve.SplitCandidates(s.Config)
}

// 📝 String returns a string representation of the settings
func (s *Settings) String() string {
	return fmt.Sprintf("php=%s tool=[%s] config=[%s] rules=%q cache=%t risky=%t intersection=%t",
		s.PHPExecutable, s.ToolPath, s.Config, s.Rules, s.UseCache, s.AllowRisky, s.Intersection)
}
