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
	"path/filepath"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/phpcsfixer/cmd/phpcsfixer/opts"
	"github.com/walteh/phpcsfixer/pkg/edit"
	"github.com/walteh/phpcsfixer/pkg/extension"
	"github.com/walteh/phpcsfixer/pkg/fixer"
	"github.com/walteh/phpcsfixer/pkg/host"
	"github.com/walteh/phpcsfixer/pkg/log"
	"github.com/walteh/phpcsfixer/pkg/workspace"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// FixOptions are the flags of the fix command
type FixOptions struct {
	DryRun  bool
	Diff    bool
	OnSave  bool
	Jobs    int
	Exclude []string
	Runner  fixer.Runner // nil means the real php runtime
}

// fileResult is the outcome for one file
type fileResult struct {
	path    string
	status  fixer.Status
	changed bool
	written bool
	diff    string
	err     error
}

// NewFixCmd creates the fix command
func NewFixCmd(root *opts.RootOpts) *cobra.Command {
	fo := &FixOptions{}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Run php-cs-fixer over php files",
		Long: `Fix formats every php file found in the given paths (default: the
working directory). Files, directories and doublestar globs are accepted.

Each file is formatted through the editor format command, or through the
save hook with --on-save, and written back unless --dry-run is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fo.OnSave && fo.DryRun {
				return errors.Errorf("--on-save and --dry-run cannot be combined")
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			return RunFix(cmd.Context(), root, fo, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&fo.DryRun, "dry-run", false, "do not write fixed files")
	cmd.Flags().BoolVar(&fo.Diff, "diff", false, "print a diff of every change")
	cmd.Flags().BoolVar(&fo.OnSave, "on-save", false, "fix through the save hook instead of the format command")
	cmd.Flags().IntVarP(&fo.Jobs, "jobs", "j", 1, "number of files fixed in parallel")
	cmd.Flags().StringSliceVar(&fo.Exclude, "exclude", nil, "doublestar patterns of files to skip")

	return cmd
}

// 🔧 RunFix fixes every collected file and reports the outcome
func RunFix(ctx context.Context, root *opts.RootOpts, fo *FixOptions, args []string, out io.Writer) error {
	logger := root.Logger

	files, err := workspace.Collect(ctx, args, fo.Exclude)
	if err != nil {
		return errors.Errorf("collecting files: %w", err)
	}
	if len(files) == 0 {
		logger.Warning("no php files found")
		return nil
	}

	var (
		mu       sync.Mutex
		statuses = make(map[string]fixer.Status)
	)
	sess, err := root.NewSession(ctx, fo.Runner, extension.WithResultHook(func(doc *host.Document, res fixer.Result) {
		mu.Lock()
		defer mu.Unlock()
		statuses[doc.Path] = res.Status
	}))
	if err != nil {
		return err
	}
	defer sess.Close()

	logger.Header(fmt.Sprintf("fixing %d file(s)", len(files)))

	var bar *pterm.ProgressbarPrinter
	if len(files) > 1 {
		bar, err = pterm.DefaultProgressbar.
			WithTotal(len(files)).
			WithTitle("php-cs-fixer").
			WithRemoveWhenDone(true).
			Start()
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("starting progress bar")
			bar = nil
		}
	}

	results := make([]fileResult, len(files))

	group, gctx := errgroup.WithContext(ctx)
	if fo.Jobs > 0 {
		group.SetLimit(fo.Jobs)
	}
	for i, path := range files {
		i, path := i, path
		group.Go(func() error {
			results[i] = fixFile(gctx, sess, fo, path)
			mu.Lock()
			defer mu.Unlock()
			if st, ok := statuses[path]; ok {
				results[i].status = st
			}
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	_ = group.Wait()

	if bar != nil {
		_, _ = bar.Stop()
	}

	return report(ctx, logger, fo, results, out)
}

func fixFile(ctx context.Context, sess *opts.Session, fo *FixOptions, path string) fileResult {
	res := fileResult{path: path, status: fixer.StatusSkipped}

	doc, err := sess.Host.Open(path)
	if err != nil {
		res.err = err
		return res
	}

	if fo.OnSave {
		before := doc.Saved()
		res.written, res.err = sess.Host.Save(ctx, doc)
		res.changed = doc.Text != before
		if fo.Diff && res.changed {
			res.diff = edit.Diff(path, before, doc.Text)
		}
		return res
	}

	if err := sess.Host.ExecuteCommand(ctx, extension.FixCommand, doc); err != nil {
		res.err = err
		return res
	}
	res.changed = doc.IsDirty()
	if fo.Diff && res.changed {
		res.diff = edit.Diff(path, doc.Saved(), doc.Text)
	}
	if !fo.DryRun {
		res.written, res.err = sess.Host.Write(doc)
	}
	return res
}

func report(ctx context.Context, logger *log.Logger, fo *FixOptions, results []fileResult, out io.Writer) error {
	var failed, changed int
	for _, r := range results {
		status := r.status.String()
		isFailed := r.err != nil || r.status == fixer.StatusFailed || r.status == fixer.StatusAborted
		if r.err != nil {
			status = "error"
			logger.Errorf("%s: %v", r.path, r.err)
		}
		if isFailed {
			failed++
		}
		if r.changed {
			changed++
		}

		logger.LogFormatOperation(ctx, log.FormatOperation{
			Path:    relative(r.path),
			Status:  status,
			Changed: r.changed,
			Failed:  isFailed,
			Skipped: r.status == fixer.StatusSkipped && r.err == nil,
		})

		if r.diff != "" {
			fmt.Fprint(out, r.diff)
		}
	}

	logger.LogNewline()
	switch {
	case failed > 0:
		return errors.Errorf("%d of %d file(s) failed", failed, len(results))
	case fo.DryRun:
		logger.Successf("%d of %d file(s) would change", changed, len(results))
	default:
		logger.Successf("%d of %d file(s) fixed", changed, len(results))
	}
	return nil
}

func relative(path string) string {
	wd, err := filepath.Abs(".")
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil {
		return rel
	}
	return path
}
