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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/phpcsfixer/cmd/phpcsfixer/opts"
	"github.com/walteh/phpcsfixer/pkg/fixer"
	"gitlab.com/tozd/go/errors"
)

// TargetPlaceholder stands in for the temp file in printed arguments
const TargetPlaceholder = "<file>"

// NewResolveCmd creates the resolve command
func NewResolveCmd(root *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [dir]",
		Short: "Show which php-cs-fixer and config a directory would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return RunResolve(cmd.Context(), root, dir, cmd.OutOrStdout())
		},
	}
}

// 🔍 RunResolve prints the resolved tool, config and argument vector for dir
func RunResolve(ctx context.Context, root *opts.RootOpts, dir string, out io.Writer) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Errorf("resolving %s: %w", dir, err)
	}
	if info, err := os.Stat(abs); err != nil {
		return errors.Errorf("stat %s: %w", dir, err)
	} else if !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	settings, err := root.LoadSettings(ctx)
	if err != nil {
		return err
	}

	sess, err := root.NewSession(ctx, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	toolPath := sess.Invoker.ToolPath(settings, abs)
	configPath := sess.Invoker.ConfigPath(settings, abs)
	args := fixer.BuildArgs(fixer.ArgsOptions{
		ToolPath:     toolPath,
		ConfigPath:   configPath,
		Rules:        settings.Rules,
		UseCache:     settings.UseCache,
		AllowRisky:   settings.AllowRisky,
		Intersection: settings.Intersection,
		Target:       TargetPlaceholder,
	})

	config := configPath
	switch {
	case config != "":
	case settings.Rules != "":
		config = "(none, --rules=" + settings.Rules + ")"
	default:
		config = "(none)"
	}

	table, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"directory", abs},
		{"php-cs-fixer", toolPath},
		{"config", config},
		{"command", settings.PHPExecutable + " " + strings.Join(args, " ")},
	}).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}

	if _, err := fmt.Fprintln(out, table); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	return nil
}
