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
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/phpcsfixer/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// SettingsFileNames are searched from the working directory upward
var SettingsFileNames = []string{
	".phpcsfixer.yaml",
	".phpcsfixer.yml",
	".phpcsfixer.json",
	".phpcsfixer.hcl",
}

// 🎯 Load loads settings from a file
func Load(ctx context.Context, path string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading settings")

	// Read settings file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse settings
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing settings %s: %w", path, err)
	}

	return cfg, nil
}

// 🔍 Discover finds the nearest settings file at or above dir and loads it.
// When none exists the defaults are returned with an empty path.
func Discover(ctx context.Context, dir string) (*Settings, string, error) {
	path, ok := resolve.Resolve(SettingsFileNames, dir)
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no settings file found, using defaults")
		return Default(), "", nil
	}

	cfg, err := Load(ctx, path)
	if err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}
