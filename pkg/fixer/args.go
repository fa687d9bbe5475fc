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

// FixCommand is the fixer subcommand every invocation uses
const FixCommand = "fix"

// 🧾 ArgsOptions holds everything the argument vector depends on
type ArgsOptions struct {
	ToolPath     string
	ConfigPath   string // empty when no config file resolved
	Rules        string // used only when ConfigPath is empty
	UseCache     bool
	AllowRisky   bool
	Intersection bool
	Target       string
}

// 🧾 BuildArgs assembles the positional argument vector passed to the php
// runtime. The order is fixed: tool, "fix", optional flags, then either
// --config or --rules, then the target file.
func BuildArgs(opts ArgsOptions) []string {
	args := []string{opts.ToolPath, FixCommand}

	if !opts.UseCache {
		args = append(args, "--using-cache=no")
	}
	if opts.AllowRisky {
		args = append(args, "--allow-risky=yes")
	}
	if opts.Intersection {
		args = append(args, "--path-mode=intersection")
	}

	switch {
	case opts.ConfigPath != "":
		args = append(args, "--config="+opts.ConfigPath)
	case opts.Rules != "":
		args = append(args, "--rules="+opts.Rules)
	}

	return append(args, opts.Target)
}
