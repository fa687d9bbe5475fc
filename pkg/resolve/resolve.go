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

// Package resolve finds the first existing file out of an ordered candidate
// list, walking from a base directory up to the filesystem root.
package resolve

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// 🔍 StatFunc reports file info for a path, like os.Stat
type StatFunc func(name string) (fs.FileInfo, error)

// 🧭 Resolver performs the candidate search
type Resolver struct {
	stat StatFunc
}

// 🏭 New creates a resolver backed by the given stat function.
// A nil stat uses os.Stat.
func New(stat StatFunc) *Resolver {
	if stat == nil {
		stat = os.Stat
	}
	return &Resolver{stat: stat}
}

var defaultResolver = New(nil)

// 🎯 Resolve searches candidates with the default resolver
func Resolve(candidates []string, baseDir string) (string, bool) {
	return defaultResolver.Resolve(candidates, baseDir)
}

// 🎯 Resolve returns the first candidate that exists.
//
// Candidates are tried in order. An absolute candidate that exists wins
// immediately. Otherwise the candidate is joined to baseDir and each of its
// parents in turn until the root is reached. The second result is false when
// nothing matched.
func (r *Resolver) Resolve(candidates []string, baseDir string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}

		if filepath.IsAbs(candidate) && r.exists(candidate) {
			return candidate, true
		}

		if found, ok := r.ascend(candidate, baseDir); ok {
			return found, true
		}
	}

	return "", false
}

// ⬆️ ascend tests dir/candidate from dir up to the root
func (r *Resolver) ascend(candidate, dir string) (string, bool) {
	current := filepath.Clean(dir)
	for {
		path := filepath.Join(current, candidate)
		if r.exists(path) {
			return path, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func (r *Resolver) exists(path string) bool {
	_, err := r.stat(path)
	return err == nil
}

// ✂️ SplitCandidates turns a comma-separated setting into a candidate list.
// Entries are trimmed and empty entries are dropped.
func SplitCandidates(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
