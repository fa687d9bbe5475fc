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

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/phpcsfixer/cmd/phpcsfixer/opts"
	"github.com/walteh/phpcsfixer/pkg/fixer"
	"github.com/walteh/phpcsfixer/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	pterm.DisableOutput()
	os.Exit(m.Run())
}

const (
	originalPHP = "<?php\nfunction  foo( ){return 1;}\n"
	fixedPHP    = "<?php\n\nfunction foo()\n{\n    return 1;\n}\n"
)

// fakeRunner plays php-cs-fixer: it rewrites the last argument or fails
type fakeRunner struct {
	mu    sync.Mutex
	fail  bool
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, _, _ string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()
	if f.fail {
		return nil, []byte("PHP Fatal error"), errors.New("exit status 1")
	}
	return []byte("Fixed 1 of 1 files"), nil, os.WriteFile(args[len(args)-1], []byte(fixedPHP), 0644)
}

type project struct {
	root    string
	console *bytes.Buffer
	opts    *opts.RootOpts
	files   []string
}

func newProject(t *testing.T, settingsYAML string, files ...string) *project {
	t.Helper()
	p := &project{root: t.TempDir(), console: &bytes.Buffer{}}

	tool := filepath.Join(p.root, "vendor", "bin", "php-cs-fixer")
	require.NoError(t, os.MkdirAll(filepath.Dir(tool), 0755), "creating tool dir should succeed")
	require.NoError(t, os.WriteFile(tool, []byte("#!/usr/bin/env php\n"), 0755), "writing tool should succeed")

	for _, f := range files {
		path := filepath.Join(p.root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating dir should succeed")
		require.NoError(t, os.WriteFile(path, []byte(originalPHP), 0644), "writing php file should succeed")
		p.files = append(p.files, path)
	}

	settingsPath := filepath.Join(p.root, ".phpcsfixer.yaml")
	content := "toolPath: vendor/bin/php-cs-fixer\nconfig: .missing-phpcsfixer-test.php\n" + settingsYAML
	require.NoError(t, os.WriteFile(settingsPath, []byte(content), 0644), "writing settings should succeed")

	p.opts = &opts.RootOpts{
		SettingsFile: settingsPath,
		Logger:       log.New(p.console, zerolog.Disabled),
	}
	return p
}

func (p *project) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading file should succeed")
	return string(data)
}

func TestFix(t *testing.T) {
	ctx := context.Background()

	t.Run("writes_fixed_files", func(t *testing.T) {
		p := newProject(t, "", "src/A.php", "src/sub/B.php", "README.md")
		runner := &fakeRunner{}

		var out bytes.Buffer
		err := RunFix(ctx, p.opts, &FixOptions{Jobs: 2, Runner: runner}, []string{p.root}, &out)
		require.NoError(t, err, "fix should succeed")

		assert.Len(t, runner.calls, 2, "only php files should be fixed")
		assert.Equal(t, fixedPHP, p.read(t, p.files[0]), "A.php should be fixed")
		assert.Equal(t, fixedPHP, p.read(t, p.files[1]), "B.php should be fixed")
		assert.Equal(t, originalPHP, p.read(t, p.files[2]), "README.md should be untouched")
		assert.Contains(t, p.console.String(), "2 of 2 file(s) fixed", "summary should be printed")
		assert.Empty(t, out.String(), "no diff without --diff")
	})

	t.Run("dry_run_with_diff", func(t *testing.T) {
		p := newProject(t, "", "A.php")
		runner := &fakeRunner{}

		var out bytes.Buffer
		err := RunFix(ctx, p.opts, &FixOptions{DryRun: true, Diff: true, Runner: runner}, []string{p.files[0]}, &out)
		require.NoError(t, err, "dry run should succeed")

		assert.Equal(t, originalPHP, p.read(t, p.files[0]), "file should be untouched")
		assert.Contains(t, out.String(), "+    return 1;\n", "diff should show added lines")
		assert.Contains(t, out.String(), "-function  foo( ){return 1;}\n", "diff should show removed lines")
		assert.Contains(t, p.console.String(), "1 of 1 file(s) would change", "summary should be printed")
	})

	t.Run("failure_exits_non_zero", func(t *testing.T) {
		p := newProject(t, "", "A.php", "B.php")
		runner := &fakeRunner{fail: true}

		err := RunFix(ctx, p.opts, &FixOptions{Jobs: 1, Runner: runner}, []string{p.root}, &bytes.Buffer{})
		require.Error(t, err, "failures should surface")
		assert.Contains(t, err.Error(), "2 of 2 file(s) failed", "error should count failures")

		assert.Equal(t, originalPHP, p.read(t, p.files[0]), "A.php should be untouched")
		assert.Equal(t, 2, p.opts.Logger.ErrorCount(), "one notification per failed file")
		assert.Contains(t, p.console.String(), "PHP Fatal error", "stderr should reach the output channel")
	})

	t.Run("on_save", func(t *testing.T) {
		p := newProject(t, "fixOnSave: true\n", "A.php")
		runner := &fakeRunner{}

		err := RunFix(ctx, p.opts, &FixOptions{OnSave: true, Runner: runner}, []string{p.files[0]}, &bytes.Buffer{})
		require.NoError(t, err, "fix on save should succeed")
		assert.Len(t, runner.calls, 1, "fixer should run once")
		assert.Equal(t, fixedPHP, p.read(t, p.files[0]), "file should be fixed on save")
	})

	t.Run("on_save_disabled", func(t *testing.T) {
		p := newProject(t, "", "A.php")
		runner := &fakeRunner{}

		err := RunFix(ctx, p.opts, &FixOptions{OnSave: true, Runner: runner}, []string{p.files[0]}, &bytes.Buffer{})
		require.NoError(t, err, "save without fix on save should succeed")
		assert.Empty(t, runner.calls, "fixer should not run")
		assert.Equal(t, originalPHP, p.read(t, p.files[0]), "file should be untouched")
	})

	t.Run("nothing_to_fix", func(t *testing.T) {
		p := newProject(t, "", "README.md")

		err := RunFix(ctx, p.opts, &FixOptions{Runner: &fakeRunner{}}, []string{p.root}, &bytes.Buffer{})
		require.NoError(t, err, "empty run should succeed")
		assert.Contains(t, p.console.String(), "no php files found", "warning should be printed")
	})
}

func TestFormat(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		fail      bool
		wantText  string
		wantCalls int
	}{
		{name: "fixed", wantText: fixedPHP, wantCalls: 1},
		{name: "failure_returns_original", fail: true, wantText: originalPHP, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject(t, "")
			runner := &fakeRunner{fail: tt.fail}

			var out bytes.Buffer
			err := RunFormat(ctx, p.opts, &FormatOptions{
				StdinFilepath: filepath.Join(p.root, "src", "New.php"),
				Runner:        runner,
			}, strings.NewReader(originalPHP), &out)
			require.NoError(t, err, "format should not fail")
			assert.Equal(t, tt.wantText, out.String(), "stdout should hold the resulting text")
			assert.Len(t, runner.calls, tt.wantCalls, "fixer call count should match")
		})
	}
}

func TestResolve(t *testing.T) {
	p := newProject(t, "allowRisky: true\n", "src/A.php")

	var out bytes.Buffer
	err := RunResolve(context.Background(), p.opts, filepath.Join(p.root, "src"), &out)
	require.NoError(t, err, "resolve should succeed")

	got := out.String()
	assert.Contains(t, got, filepath.Join(p.root, "vendor", "bin", "php-cs-fixer"), "tool should resolve upward")
	assert.Contains(t, got, "(none, --rules=@PSR12)", "config should fall back to rules")
	assert.Contains(t, got, "fix --using-cache=no --allow-risky=yes --rules=@PSR12 "+TargetPlaceholder, "command should match")

	err = RunResolve(context.Background(), p.opts, filepath.Join(p.root, "missing"), &out)
	require.Error(t, err, "missing dir should fail")
}

func TestFixerStatusInReport(t *testing.T) {
	var console bytes.Buffer
	logger := log.New(&console, zerolog.Disabled)

	err := report(context.Background(), logger, &FixOptions{}, []fileResult{
		{path: "/a.php", status: fixer.StatusFixed, changed: true},
		{path: "/b.txt", status: fixer.StatusSkipped},
		{path: "/c.php", status: fixer.StatusAborted},
	}, &bytes.Buffer{})
	require.Error(t, err, "aborted file should count as failed")
	assert.Contains(t, err.Error(), "1 of 3 file(s) failed", "error should count failures")
}
