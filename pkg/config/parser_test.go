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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	// Save original parsers
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()

	// Reset parsers
	parsers = nil

	p := &YAMLParser{}
	Register(p)
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Equal(t, p, GetParser("x.yaml"), "registered parser should be returned")
	assert.Nil(t, GetParser("x.hcl"), "unregistered format should have no parser")
}

func TestParserSelection(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{filename: ".phpcsfixer.yaml", want: &YAMLParser{}},
		{filename: ".phpcsfixer.yml", want: &YAMLParser{}},
		{filename: ".phpcsfixer.json", want: &JSONParser{}},
		{filename: ".phpcsfixer.hcl", want: &HCLParser{}},
		{filename: ".phpcsfixer.toml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "no parser expected")
				return
			}
			assert.IsType(t, tt.want, got, "parser type should match")
		})
	}
}

func TestHCLParsing(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Settings)
	}{
		{
			name: "full_settings",
			input: `
tool_path      = "vendor/bin/php-cs-fixer"
config         = ".php-cs-fixer.php"
rules          = "@Symfony"
use_cache      = true
allow_risky    = true
intersection   = false
fix_on_save    = true
php            = "php8.2"
format_on_save = false
`,
			check: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, "vendor/bin/php-cs-fixer", cfg.ToolPath, "tool path should match")
				assert.Equal(t, ".php-cs-fixer.php", cfg.Config, "config should match")
				assert.Equal(t, "@Symfony", cfg.Rules, "rules should match")
				assert.True(t, cfg.UseCache, "use_cache should be true")
				assert.True(t, cfg.AllowRisky, "allow_risky should be true")
				assert.False(t, cfg.Intersection, "intersection should be false")
				assert.True(t, cfg.FixOnSave, "fix_on_save should be true")
				assert.Equal(t, "php8.2", cfg.PHPExecutable, "php should match")
			},
		},
		{
			name:  "defaults_kept",
			input: `allow_risky = true`,
			check: func(t *testing.T, cfg *Settings) {
				assert.Equal(t, DefaultConfigCandidates, cfg.Config, "config should keep default")
				assert.Equal(t, DefaultRules, cfg.Rules, "rules should keep default")
				assert.Equal(t, DefaultPHPExecutable, cfg.PHPExecutable, "php should keep default")
				assert.True(t, cfg.AllowRisky, "allow_risky should be true")
			},
		},
		{
			name:        "syntax_error",
			input:       `rules = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unknown_attribute",
			input:       `destination = "/tmp"`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
	}

	p := &HCLParser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := p.Parse(context.Background(), []byte(tt.input))
			if tt.wantErr {
				require.Error(t, err, "Parse should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Parse should succeed")
			tt.check(t, cfg)
		})
	}
}

func TestValidateNormalizesCandidates(t *testing.T) {
	cfg := &Settings{
		ToolPath:      " a , ,b ",
		Config:        ",.php_cs,",
		Rules:         "  @PSR12 ",
		PHPExecutable: " php ",
	}
	require.NoError(t, cfg.Validate(), "Validate should succeed")
	assert.Equal(t, "a,b", cfg.ToolPath, "tool path should be normalized")
	assert.Equal(t, ".php_cs", cfg.Config, "config should be normalized")
	assert.Equal(t, "@PSR12", cfg.Rules, "rules should be trimmed")
	assert.Equal(t, "php", cfg.PHPExecutable, "php should be trimmed")
}
