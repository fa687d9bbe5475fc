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
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/phpcsfixer/pkg/config"
	"github.com/walteh/phpcsfixer/pkg/diag"
)

// the fake fixer writes its working directory into the target file
const fakeFixer = `#!/bin/sh
for last; do :; done
pwd > "$last"
echo "Fixed 1 of 1 files"
`

const brokenFixer = `#!/bin/sh
echo "Loaded config default."
echo "PHP Parse error: syntax error" >&2
exit 3
`

func shellSettings(t *testing.T, script string) (*config.Settings, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}

	root := t.TempDir()
	tool := filepath.Join(root, "bin", "php-cs-fixer")
	require.NoError(t, os.MkdirAll(filepath.Dir(tool), 0755), "creating bin dir should succeed")
	require.NoError(t, os.WriteFile(tool, []byte(script), 0755), "writing script should succeed")

	docDir := filepath.Join(root, "app", "src")
	require.NoError(t, os.MkdirAll(docDir, 0755), "creating doc dir should succeed")

	s := config.Default()
	s.PHPExecutable = "/bin/sh"
	s.ToolPath = "bin/php-cs-fixer"
	s.Config = "missing-phpcsfixer-exec-test.php"
	return s, docDir
}

func TestExecRunnerSuccess(t *testing.T) {
	settings, docDir := shellSettings(t, fakeFixer)
	tempDir := t.TempDir()

	inv, err := New(Options{Settings: StaticSettings(settings), TempDir: tempDir})
	require.NoError(t, err, "New should succeed")

	diags := diag.New(context.Background())
	res := inv.Format(context.Background(), Document{
		Path:       filepath.Join(docDir, "Foo.php"),
		LanguageID: "php",
		Text:       "<?php\n",
	}, diags)

	require.Equal(t, StatusFixed, res.Status, "status should be fixed: %v", res.Err)

	want, err := filepath.EvalSymlinks(docDir)
	require.NoError(t, err, "resolving doc dir should succeed")
	got, err := filepath.EvalSymlinks(strings.TrimSpace(res.Text))
	require.NoError(t, err, "resolving output dir should succeed")
	assert.Equal(t, want, got, "fixer should run in the document directory")

	assert.Contains(t, diags.Lines(), "Fixed 1 of 1 files", "stdout should be collected")
	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err, "reading temp dir should succeed")
	assert.Empty(t, entries, "temp file should be removed")
}

func TestExecRunnerFailure(t *testing.T) {
	settings, docDir := shellSettings(t, brokenFixer)
	notifier := &recordingNotifier{}

	inv, err := New(Options{Settings: StaticSettings(settings), Notifier: notifier, TempDir: t.TempDir()})
	require.NoError(t, err, "New should succeed")

	diags := diag.New(context.Background())
	res := inv.Format(context.Background(), Document{
		Path:       filepath.Join(docDir, "Foo.php"),
		LanguageID: "php",
		Text:       "<?php\necho 1;\n",
	}, diags)

	assert.Equal(t, StatusFailed, res.Status, "status should be failed")
	assert.Equal(t, "<?php\necho 1;\n", res.Text, "original text should come back")
	assert.Len(t, notifier.msgs, 1, "one notification should be shown")

	lines := strings.Join(diags.Lines(), "\n")
	assert.Contains(t, lines, "exit code 3", "exit code should be recorded")
	assert.Contains(t, lines, "PHP Parse error: syntax error", "stderr should be recorded")
}

func TestExecRunnerSpawnError(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), t.TempDir(), "phpcsfixer-definitely-missing-binary")
	require.Error(t, err, "missing binary should fail to spawn")
}
