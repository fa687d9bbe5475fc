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

// Package host is the slice of an editor's extension API that the fixer
// extension talks to, plus Local, a file-backed implementation.
package host

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/walteh/phpcsfixer/pkg/config"
	"github.com/walteh/phpcsfixer/pkg/diag"
	"github.com/walteh/phpcsfixer/pkg/edit"
)

// FormatDocumentCommand is the host's built-in format command
const FormatDocumentCommand = "editor.action.formatDocument"

// 📄 Document is an open text document
type Document struct {
	Path       string
	LanguageID string
	Text       string

	saved string
}

// NewDocument creates a document whose on-disk text is text
func NewDocument(path, text string) *Document {
	return &Document{
		Path:       path,
		LanguageID: LanguageForPath(path),
		Text:       text,
		saved:      text,
	}
}

// IsDirty reports whether the text differs from what is on disk
func (d *Document) IsDirty() bool {
	return d.Text != d.saved
}

var languageByExt = map[string]string{
	".php":   "php",
	".phtml": "php",
	".inc":   "php",
}

// 🔤 LanguageForPath maps a file extension to a language id
func LanguageForPath(path string) string {
	if id, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}
	return "plaintext"
}

// 🗑️ Disposable undoes a registration
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a function to Disposable
type DisposeFunc func()

// Dispose implements Disposable
func (f DisposeFunc) Dispose() { f() }

// CommandFunc handles a command for the active document
type CommandFunc func(ctx context.Context, doc *Document) error

// 🎨 FormattingProvider produces formatting edits for a document
type FormattingProvider interface {
	ProvideDocumentFormattingEdits(ctx context.Context, doc *Document) ([]edit.TextEdit, error)
}

// FormattingProviderFunc adapts a function to FormattingProvider
type FormattingProviderFunc func(ctx context.Context, doc *Document) ([]edit.TextEdit, error)

// ProvideDocumentFormattingEdits implements FormattingProvider
func (f FormattingProviderFunc) ProvideDocumentFormattingEdits(ctx context.Context, doc *Document) ([]edit.TextEdit, error) {
	return f(ctx, doc)
}

// 💾 WillSaveEvent is fired before a document is written
type WillSaveEvent struct {
	Document *Document
	waits    []func(ctx context.Context) error
}

// WaitUntil delays the save until fn has finished
func (e *WillSaveEvent) WaitUntil(fn func(ctx context.Context) error) {
	e.waits = append(e.waits, fn)
}

// WillSaveListener observes will-save events
type WillSaveListener func(ctx context.Context, e *WillSaveEvent)

// 🏠 Host is what the extension needs from the editor
type Host interface {
	RegisterCommand(id string, fn CommandFunc) Disposable
	ExecuteCommand(ctx context.Context, id string, doc *Document) error
	OnWillSaveDocument(fn WillSaveListener) Disposable
	RegisterDocumentFormattingProvider(languageID string, p FormattingProvider) Disposable
	Configuration(ctx context.Context) (*config.Settings, error)
	OutputChannel() diag.OutputChannel
	ShowErrorMessage(msg string)
}
