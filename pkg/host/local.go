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

package host

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/phpcsfixer/pkg/config"
	"github.com/walteh/phpcsfixer/pkg/diag"
	"github.com/walteh/phpcsfixer/pkg/edit"
	"gitlab.com/tozd/go/errors"
)

// SettingsLoader reads the workspace configuration
type SettingsLoader func(ctx context.Context) (*config.Settings, error)

// 📺 Console is the output channel and notification sink
type Console interface {
	diag.OutputChannel
	ShowErrorMessage(msg string)
}

// 🏠 Local is a Host over plain files
type Local struct {
	mu        sync.RWMutex
	nextID    int
	commands  map[string]CommandFunc
	providers map[string]providerEntry
	willSave  map[int]WillSaveListener
	settings  SettingsLoader
	console   Console
}

var _ Host = (*Local)(nil)

type providerEntry struct {
	id       int
	provider FormattingProvider
}

// 🏭 NewLocal creates a local host
func NewLocal(settings SettingsLoader, console Console) *Local {
	l := &Local{
		commands:  make(map[string]CommandFunc),
		providers: make(map[string]providerEntry),
		willSave:  make(map[int]WillSaveListener),
		settings:  settings,
		console:   console,
	}
	l.commands[FormatDocumentCommand] = l.FormatDocument
	return l
}

// 📂 Open reads a document from disk
func (l *Local) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", abs, err)
	}
	return NewDocument(abs, string(data)), nil
}

// RegisterCommand implements Host
func (l *Local) RegisterCommand(id string, fn CommandFunc) Disposable {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands[id] = fn
	return DisposeFunc(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.commands, id)
	})
}

// ExecuteCommand implements Host
func (l *Local) ExecuteCommand(ctx context.Context, id string, doc *Document) error {
	l.mu.RLock()
	fn, ok := l.commands[id]
	l.mu.RUnlock()
	if !ok {
		return errors.Errorf("command %q not found", id)
	}
	return fn(ctx, doc)
}

// OnWillSaveDocument implements Host
func (l *Local) OnWillSaveDocument(fn WillSaveListener) Disposable {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.willSave[id] = fn
	return DisposeFunc(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.willSave, id)
	})
}

// RegisterDocumentFormattingProvider implements Host
func (l *Local) RegisterDocumentFormattingProvider(languageID string, p FormattingProvider) Disposable {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.providers[languageID] = providerEntry{id: id, provider: p}
	return DisposeFunc(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.providers[languageID].id == id {
			delete(l.providers, languageID)
		}
	})
}

// Configuration implements Host. Settings are re-read on every call.
func (l *Local) Configuration(ctx context.Context) (*config.Settings, error) {
	if l.settings == nil {
		return config.Default(), nil
	}
	return l.settings(ctx)
}

// OutputChannel implements Host
func (l *Local) OutputChannel() diag.OutputChannel {
	return l.console
}

// ShowErrorMessage implements Host
func (l *Local) ShowErrorMessage(msg string) {
	if l.console != nil {
		l.console.ShowErrorMessage(msg)
	}
}

// 🎨 FormatDocument asks the provider for doc's language and applies its edits
func (l *Local) FormatDocument(ctx context.Context, doc *Document) error {
	l.mu.RLock()
	entry, ok := l.providers[doc.LanguageID]
	l.mu.RUnlock()
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("language", doc.LanguageID).Msg("no formatting provider registered")
		return nil
	}

	edits, err := entry.provider.ProvideDocumentFormattingEdits(ctx, doc)
	if err != nil {
		return errors.Errorf("providing formatting edits: %w", err)
	}

	text, err := edit.Apply(doc.Text, edits...)
	if err != nil {
		return errors.Errorf("applying formatting edits: %w", err)
	}
	doc.Text = text

	return nil
}

// 💾 Save runs the host's own format-on-save, fires will-save listeners,
// waits for their work and writes the document if it is dirty. It reports
// whether anything was written.
func (l *Local) Save(ctx context.Context, doc *Document) (bool, error) {
	logger := zerolog.Ctx(ctx)

	if settings, err := l.Configuration(ctx); err != nil {
		logger.Debug().Err(err).Msg("reading settings for format on save")
	} else if settings.FormatOnSave {
		if err := l.FormatDocument(ctx, doc); err != nil {
			return false, errors.Errorf("formatting on save: %w", err)
		}
	}

	event := &WillSaveEvent{Document: doc}
	for _, fn := range l.listeners() {
		fn(ctx, event)
	}
	for _, wait := range event.waits {
		if err := wait(ctx); err != nil {
			return false, errors.Errorf("waiting for will-save participant: %w", err)
		}
	}

	return l.Write(doc)
}

// 📝 Write puts a dirty document on disk without firing will-save
// listeners. It reports whether anything was written.
func (l *Local) Write(doc *Document) (bool, error) {
	if !doc.IsDirty() {
		return false, nil
	}

	if err := writeFileAtomic(doc.Path, []byte(doc.Text)); err != nil {
		return false, errors.Errorf("saving %s: %w", doc.Path, err)
	}
	doc.saved = doc.Text

	return true, nil
}

// Saved returns the text last read from or written to disk
func (d *Document) Saved() string {
	return d.saved
}

func (l *Local) listeners() []WillSaveListener {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]int, 0, len(l.willSave))
	for id := range l.willSave {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]WillSaveListener, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.willSave[id])
	}
	return out
}
