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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/phpcsfixer/cmd/phpcsfixer/commands"
	"github.com/walteh/phpcsfixer/cmd/phpcsfixer/opts"
	"github.com/walteh/phpcsfixer/pkg/config"
	"github.com/walteh/phpcsfixer/pkg/log"
)

// newRootCmd builds the command tree around one shared RootOpts
func newRootCmd() *cobra.Command {
	root := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "phpcsfixer",
		Short: "Format php files with php-cs-fixer",
		Long: `phpcsfixer runs php-cs-fixer over php documents the way the editor
extension does: the fixer binary and its config are looked up from the
document's directory upward, the document is fixed in a temp file and the
result replaces the text.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			root.Overrides.Changed = cmd.Flags().Changed
			ctx := setupLogging(cmd, root)
			cmd.SetContext(ctx)
		},
	}

	addRootFlags(cmd, root)

	cmd.AddCommand(
		commands.NewFixCmd(root),
		commands.NewFormatCmd(root),
		commands.NewResolveCmd(root),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, root *opts.RootOpts) {
	f := cmd.PersistentFlags()
	f.StringVarP(&root.SettingsFile, "settings", "s", "", "settings file path (default: nearest .phpcsfixer.{yaml,yml,json,hcl})")
	f.BoolVarP(&root.Debug, "debug", "d", false, "enable debug logging")

	f.StringVar(&root.Overrides.ToolPath, opts.FlagToolPath, "", "comma separated php-cs-fixer candidates")
	f.StringVar(&root.Overrides.Config, opts.FlagFixerConfig, config.DefaultConfigCandidates, "comma separated fixer config candidates")
	f.StringVar(&root.Overrides.Rules, opts.FlagRules, config.DefaultRules, "rules used when no config file is found")
	f.StringVar(&root.Overrides.PHP, opts.FlagPHP, config.DefaultPHPExecutable, "php executable")
	f.BoolVar(&root.Overrides.UseCache, opts.FlagUseCache, false, "let php-cs-fixer use its cache")
	f.BoolVar(&root.Overrides.AllowRisky, opts.FlagAllowRisky, false, "allow risky rules")
	f.BoolVar(&root.Overrides.Intersection, opts.FlagIntersection, false, "use --path-mode=intersection")
}

// setupLogging configures zerolog and the console logger based on flags
func setupLogging(cmd *cobra.Command, root *opts.RootOpts) context.Context {
	level := zerolog.InfoLevel
	if root.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	// console lines go to stderr so format can own stdout
	root.Logger = log.New(cmd.ErrOrStderr(), consoleLevel(root.Debug))

	ctx := zlog.WithContext(cmd.Context())
	return log.NewContext(ctx, root.Logger)
}

func consoleLevel(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.Disabled
}
