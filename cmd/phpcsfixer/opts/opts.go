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

package opts

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/phpcsfixer/pkg/config"
	"github.com/walteh/phpcsfixer/pkg/extension"
	"github.com/walteh/phpcsfixer/pkg/fixer"
	"github.com/walteh/phpcsfixer/pkg/host"
	"github.com/walteh/phpcsfixer/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// Flag names shared by the root command and Overrides
const (
	FlagToolPath     = "tool-path"
	FlagFixerConfig  = "fixer-config"
	FlagRules        = "rules"
	FlagUseCache     = "use-cache"
	FlagAllowRisky   = "allow-risky"
	FlagIntersection = "intersection"
	FlagPHP          = "php"
)

// 🎛️ Overrides are settings given on the command line
type Overrides struct {
	ToolPath     string
	Config       string
	Rules        string
	PHP          string
	UseCache     bool
	AllowRisky   bool
	Intersection bool

	// Changed reports whether a flag was set explicitly
	Changed func(flag string) bool
}

// Apply copies every explicitly set flag onto s
func (o *Overrides) Apply(s *config.Settings) {
	if o == nil || o.Changed == nil {
		return
	}
	if o.Changed(FlagToolPath) {
		s.ToolPath = o.ToolPath
	}
	if o.Changed(FlagFixerConfig) {
		s.Config = o.Config
	}
	if o.Changed(FlagRules) {
		s.Rules = o.Rules
	}
	if o.Changed(FlagPHP) {
		s.PHPExecutable = o.PHP
	}
	if o.Changed(FlagUseCache) {
		s.UseCache = o.UseCache
	}
	if o.Changed(FlagAllowRisky) {
		s.AllowRisky = o.AllowRisky
	}
	if o.Changed(FlagIntersection) {
		s.Intersection = o.Intersection
	}
}

// RootOpts contains shared options used by all commands
type RootOpts struct {
	SettingsFile string
	Debug        bool
	Overrides    Overrides
	Logger       *log.Logger
}

// ⚙️ LoadSettings reads the settings file (or discovers one from the working
// directory) and applies command line overrides. It runs on every call.
func (r *RootOpts) LoadSettings(ctx context.Context) (*config.Settings, error) {
	var (
		settings *config.Settings
		err      error
	)
	if r.SettingsFile != "" {
		settings, err = config.Load(ctx, r.SettingsFile)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		var path string
		settings, path, err = config.Discover(ctx, wd)
		if path != "" {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("using settings file")
		}
	}
	if err != nil {
		return nil, errors.Errorf("loading settings: %w", err)
	}

	r.Overrides.Apply(settings)
	if err := settings.Validate(); err != nil {
		return nil, errors.Errorf("validating settings: %w", err)
	}

	return settings, nil
}

// 🏠 Session is an activated extension on a local host
type Session struct {
	Host    *host.Local
	Invoker *fixer.Invoker

	disposables []host.Disposable
}

// 🏭 NewSession creates a local host, activates the extension on it and
// routes the output channel and notifications to the root logger
func (r *RootOpts) NewSession(ctx context.Context, runner fixer.Runner, extOpts ...extension.Option) (*Session, error) {
	h := host.NewLocal(r.LoadSettings, r.Logger)

	inv, err := extension.NewInvoker(h, fixer.Options{Runner: runner})
	if err != nil {
		return nil, errors.Errorf("creating invoker: %w", err)
	}

	return &Session{
		Host:        h,
		Invoker:     inv,
		disposables: extension.Activate(h, inv, extOpts...),
	}, nil
}

// Close deactivates the extension
func (s *Session) Close() {
	extension.Deactivate(s.disposables)
	s.disposables = nil
}
