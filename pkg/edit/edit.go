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

// Package edit describes text edits the way an editor host applies them:
// zero-based line/character ranges replaced with new text.
package edit

import (
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Position is a zero-based line and a byte offset within that line
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range spans Start up to, not including, End
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextEdit replaces Range with NewText
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// EndOf returns the position just past the last character of text
func EndOf(text string) Position {
	line := strings.Count(text, "\n")
	last := text[strings.LastIndex(text, "\n")+1:]
	return Position{Line: line, Character: len(last)}
}

// FullDocument replaces the whole of original with newText
func FullDocument(original, newText string) TextEdit {
	return TextEdit{
		Range: Range{
			Start: Position{},
			End:   EndOf(original),
		},
		NewText: newText,
	}
}

// Apply applies non-overlapping edits to text
func Apply(text string, edits ...TextEdit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	type span struct {
		start, end int
		newText    string
	}

	spans := make([]span, 0, len(edits))
	for i, e := range edits {
		start, err := offset(text, e.Range.Start)
		if err != nil {
			return "", errors.Errorf("edit %d start: %w", i, err)
		}
		end, err := offset(text, e.Range.End)
		if err != nil {
			return "", errors.Errorf("edit %d end: %w", i, err)
		}
		if end < start {
			return "", errors.Errorf("edit %d: end before start", i)
		}
		spans = append(spans, span{start: start, end: end, newText: e.NewText})
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return "", errors.Errorf("overlapping edits at offset %d", spans[i].start)
		}
	}

	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(text[prev:s.start])
		b.WriteString(s.newText)
		prev = s.end
	}
	b.WriteString(text[prev:])

	return b.String(), nil
}

func offset(text string, pos Position) (int, error) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, errors.Errorf("negative position %d:%d", pos.Line, pos.Character)
	}

	lineStart := 0
	for i := 0; i < pos.Line; i++ {
		idx := strings.IndexByte(text[lineStart:], '\n')
		if idx < 0 {
			return 0, errors.Errorf("line %d out of range", pos.Line)
		}
		lineStart += idx + 1
	}

	lineEnd := len(text)
	if idx := strings.IndexByte(text[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	if lineStart+pos.Character > lineEnd {
		return 0, errors.Errorf("character %d out of range on line %d", pos.Character, pos.Line)
	}

	return lineStart + pos.Character, nil
}
