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

package fixer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/phpcsfixer/pkg/config"
	"github.com/walteh/phpcsfixer/pkg/diag"
	"github.com/walteh/phpcsfixer/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

const (
	// LanguageID is the only language the invoker formats
	LanguageID = "php"

	// FailureMessage is the notification shown when the fixer fails
	FailureMessage = "There was an error while running php-cs-fixer. Please check the console output for more info"

	bundledToolName = "php-cs-fixer"
	tempPattern     = "phpcsfixer-*.php"
)

// 📄 Document is the text handed over by the host
type Document struct {
	Path       string // absolute path, empty for unsaved documents
	LanguageID string
	Text       string
}

// 📊 Status is the outcome of one invocation
type Status int

const (
	StatusSkipped Status = iota // not a php document
	StatusFixed                 // fixer ran, Text holds its output
	StatusFailed                // fixer failed, Text holds the original
	StatusAborted               // settings could not be read
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusFixed:
		return "fixed"
	case StatusFailed:
		return "failed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// 📦 Result is what Format hands back to the host
type Result struct {
	Status     Status
	Text       string
	Original   string
	ToolPath   string
	ConfigPath string
	Args       []string
	Err        error
}

// Changed reports whether the fixer produced different text
func (r Result) Changed() bool {
	return r.Status == StatusFixed && r.Text != r.Original
}

// ⚙️ SettingsSource supplies the settings for one invocation
type SettingsSource interface {
	Settings(ctx context.Context) (*config.Settings, error)
}

// SettingsFunc adapts a function to SettingsSource
type SettingsFunc func(ctx context.Context) (*config.Settings, error)

// Settings implements SettingsSource
func (f SettingsFunc) Settings(ctx context.Context) (*config.Settings, error) {
	return f(ctx)
}

// StaticSettings always returns the same settings
func StaticSettings(s *config.Settings) SettingsSource {
	return SettingsFunc(func(context.Context) (*config.Settings, error) {
		return s, nil
	})
}

// 🚨 Notifier shows user-visible error notifications
type Notifier interface {
	ShowErrorMessage(msg string)
}

type nopNotifier struct{}

func (nopNotifier) ShowErrorMessage(string) {}

// 🔧 Options configures an Invoker
type Options struct {
	Settings        SettingsSource
	Runner          Runner
	Notifier        Notifier
	DefaultToolPath string // bundled fixer, used when nothing resolves
	TempDir         string // empty means os.TempDir()
	Resolver        *resolve.Resolver
}

// 🎯 Invoker runs php-cs-fixer over single documents
type Invoker struct {
	settings        SettingsSource
	runner          Runner
	notifier        Notifier
	defaultToolPath string
	tempDir         string
	resolver        *resolve.Resolver
}

// 🏭 New creates an invoker
func New(opts Options) (*Invoker, error) {
	if opts.Settings == nil {
		return nil, errors.Errorf("settings source is required")
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.DefaultToolPath == "" {
		opts.DefaultToolPath = BundledToolPath()
	}
	if opts.Resolver == nil {
		opts.Resolver = resolve.New(nil)
	}
	return &Invoker{
		settings:        opts.Settings,
		runner:          opts.Runner,
		notifier:        opts.Notifier,
		defaultToolPath: opts.DefaultToolPath,
		tempDir:         opts.TempDir,
		resolver:        opts.Resolver,
	}, nil
}

// 📍 BundledToolPath is the php-cs-fixer shipped next to our own binary
func BundledToolPath() string {
	exe, err := os.Executable()
	if err != nil {
		return bundledToolName
	}
	return filepath.Join(filepath.Dir(exe), bundledToolName)
}

// 🧰 ToolPath resolves the fixer binary for a document directory
func (inv *Invoker) ToolPath(settings *config.Settings, dir string) string {
	candidates := settings.ToolPathCandidates()
	if len(candidates) == 0 {
		return inv.defaultToolPath
	}
	if found, ok := inv.resolver.Resolve(candidates, dir); ok {
		return found
	}
	return inv.defaultToolPath
}

// 📄 ConfigPath resolves the fixer config for a document directory.
// An empty result means inline-rules mode.
func (inv *Invoker) ConfigPath(settings *config.Settings, dir string) string {
	found, _ := inv.resolver.Resolve(settings.ConfigCandidates(), dir)
	return found
}

// 🎨 Format runs the fixer over doc and returns the text to use.
//
// Failures never surface as errors: the result carries the original text,
// diags holds the details and the user gets one notification.
func (inv *Invoker) Format(ctx context.Context, doc Document, diags *diag.Collector) Result {
	res := Result{Status: StatusSkipped, Text: doc.Text, Original: doc.Text}
	if doc.LanguageID != LanguageID {
		return res
	}

	logger := zerolog.Ctx(ctx).With().Str("document", doc.Path).Logger()
	if diags == nil {
		diags = diag.New(ctx)
	}

	settings, err := inv.settings.Settings(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("reading settings")
		diags.Logf("could not read settings: %v", err)
		inv.notifier.ShowErrorMessage("Could not read php-cs-fixer settings: " + err.Error())
		res.Status = StatusAborted
		res.Err = errors.Errorf("reading settings: %w", err)
		return res
	}

	dir := documentDir(doc)

	res.ToolPath = inv.ToolPath(settings, dir)
	diags.Log("php-cs-fixer: " + res.ToolPath)

	res.ConfigPath = inv.ConfigPath(settings, dir)
	diags.Log("config: " + res.ConfigPath)

	text, args, err := inv.run(ctx, settings, doc, dir, res, diags)
	res.Args = args
	if err != nil {
		logger.Debug().Err(err).Msg("php-cs-fixer failed")
		diags.Log("php-cs-fixer failed: " + err.Error())
		inv.notifier.ShowErrorMessage(FailureMessage)
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	res.Status = StatusFixed
	res.Text = text
	logger.Debug().Bool("changed", res.Changed()).Msg("php-cs-fixer done")
	return res
}

// 🏃 run owns the temp file for the whole invocation
func (inv *Invoker) run(ctx context.Context, settings *config.Settings, doc Document, dir string, res Result, diags *diag.Collector) (string, []string, error) {
	tmp, err := os.CreateTemp(inv.tempDir, tempPattern)
	if err != nil {
		return "", nil, errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, werr := tmp.WriteString(doc.Text)
	cerr := tmp.Close()
	if werr != nil {
		return "", nil, errors.Errorf("writing temp file: %w", werr)
	}
	if cerr != nil {
		return "", nil, errors.Errorf("closing temp file: %w", cerr)
	}

	args := BuildArgs(ArgsOptions{
		ToolPath:     res.ToolPath,
		ConfigPath:   res.ConfigPath,
		Rules:        settings.Rules,
		UseCache:     settings.UseCache,
		AllowRisky:   settings.AllowRisky,
		Intersection: settings.Intersection,
		Target:       tmpPath,
	})

	diags.Log("execute: " + settings.PHPExecutable + " " + strings.Join(args, " "))

	stdout, stderr, err := inv.runner.Run(ctx, dir, settings.PHPExecutable, args...)
	if err != nil {
		diags.Log("PHPCsFixer error")
		diags.Log(describeError(err))
		diags.Log(string(stdout))
		diags.Log(string(stderr))
		return "", args, errors.Errorf("running php-cs-fixer: %w", err)
	}
	diags.Log(string(stdout))

	fixed, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", args, errors.Errorf("reading fixed temp file: %w", err)
	}
	diags.Log("php-cs-fixer done")

	return string(fixed), args, nil
}

func documentDir(doc Document) string {
	if doc.Path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	return filepath.Dir(doc.Path)
}

func describeError(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exit code %d: %v", exitErr.ExitCode(), err)
	}
	return err.Error()
}
