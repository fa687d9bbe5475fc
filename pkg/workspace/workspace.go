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

// Package workspace turns command line arguments into the php files to fix.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DirPattern selects php files below a directory argument
const DirPattern = "**/*.{php,phtml,inc}"

// 📂 Collect expands files, directories and doublestar globs into sorted,
// deduplicated absolute paths. Paths matching any exclude pattern are
// dropped; patterns are matched against the path relative to the argument
// root and against the absolute path.
func Collect(ctx context.Context, args []string, exclude []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	seen := make(map[string]struct{})
	add := func(root, rel string) {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if excluded(exclude, rel, abs) {
			logger.Debug().Str("file", abs).Msg("file excluded by pattern")
			return
		}
		seen[abs] = struct{}{}
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", arg, err)
		}

		if isPattern(arg) {
			root, pattern := doublestar.SplitPattern(filepath.ToSlash(abs))
			matches, err := glob(root, pattern)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(filepath.FromSlash(root), m)
			}
			continue
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(abs), filepath.Base(abs))
			continue
		}
		matches, err := glob(abs, DirPattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(abs, m)
		}
	}

	out := make([]string, 0, len(seen))
	for path := range seen {
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

func glob(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %s in %s: %w", pattern, root, err)
	}
	return matches, nil
}

func excluded(patterns []string, rel, abs string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(abs)); ok {
			return true
		}
	}
	return false
}
