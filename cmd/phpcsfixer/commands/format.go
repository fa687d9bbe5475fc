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
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/phpcsfixer/cmd/phpcsfixer/opts"
	"github.com/walteh/phpcsfixer/pkg/extension"
	"github.com/walteh/phpcsfixer/pkg/fixer"
	"github.com/walteh/phpcsfixer/pkg/host"
	"gitlab.com/tozd/go/errors"
)

// FormatOptions are the flags of the format command
type FormatOptions struct {
	StdinFilepath string
	Runner        fixer.Runner // nil means the real php runtime
}

// NewFormatCmd creates the format command
func NewFormatCmd(root *opts.RootOpts) *cobra.Command {
	fo := &FormatOptions{}

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Format php read from stdin",
		Long: `Format reads a document from stdin, formats it as if it lived at
--stdin-filepath and writes the result to stdout. The original text is
written when the fixer fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunFormat(cmd.Context(), root, fo, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&fo.StdinFilepath, "stdin-filepath", "", "path used to resolve the fixer and its config")

	return cmd
}

// 🎨 RunFormat formats one document from in and writes it to out
func RunFormat(ctx context.Context, root *opts.RootOpts, fo *FormatOptions, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Errorf("reading stdin: %w", err)
	}

	var doc *host.Document
	if fo.StdinFilepath == "" {
		doc = host.NewDocument("", string(data))
		doc.LanguageID = fixer.LanguageID
	} else {
		path, err := filepath.Abs(fo.StdinFilepath)
		if err != nil {
			return errors.Errorf("resolving %s: %w", fo.StdinFilepath, err)
		}
		doc = host.NewDocument(path, string(data))
	}

	sess, err := root.NewSession(ctx, fo.Runner)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Host.ExecuteCommand(ctx, extension.FixCommand, doc); err != nil {
		return errors.Errorf("formatting: %w", err)
	}

	if _, err := io.WriteString(out, doc.Text); err != nil {
		return errors.Errorf("writing stdout: %w", err)
	}
	return nil
}
