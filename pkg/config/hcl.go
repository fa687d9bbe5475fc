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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses settings from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Settings, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "settings.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema, every attribute optional
	type hclSettings struct {
		ToolPath      *string `hcl:"tool_path,optional"`
		Config        *string `hcl:"config,optional"`
		Rules         *string `hcl:"rules,optional"`
		UseCache      *bool   `hcl:"use_cache,optional"`
		AllowRisky    *bool   `hcl:"allow_risky,optional"`
		Intersection  *bool   `hcl:"intersection,optional"`
		FixOnSave     *bool   `hcl:"fix_on_save,optional"`
		PHPExecutable *string `hcl:"php,optional"`
		FormatOnSave  *bool   `hcl:"format_on_save,optional"`
	}

	// Decode HCL
	var raw hclSettings
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Overlay onto defaults
	cfg := Default()
	setString(&cfg.ToolPath, raw.ToolPath)
	setString(&cfg.Config, raw.Config)
	setString(&cfg.Rules, raw.Rules)
	setString(&cfg.PHPExecutable, raw.PHPExecutable)
	setBool(&cfg.UseCache, raw.UseCache)
	setBool(&cfg.AllowRisky, raw.AllowRisky)
	setBool(&cfg.Intersection, raw.Intersection)
	setBool(&cfg.FixOnSave, raw.FixOnSave)
	setBool(&cfg.FormatOnSave, raw.FormatOnSave)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating settings: %w", err)
	}

	return cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
