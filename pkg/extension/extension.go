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

// Package extension wires the fixer into an editor host.
package extension

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/phpcsfixer/pkg/diag"
	"github.com/walteh/phpcsfixer/pkg/edit"
	"github.com/walteh/phpcsfixer/pkg/fixer"
	"github.com/walteh/phpcsfixer/pkg/host"
)

// FixCommand is the command contributed by the extension
const FixCommand = "phpcsfixer.fix"

// 🏭 NewInvoker builds an invoker that reads settings from the host and
// notifies through it. Settings and Notifier in opts are replaced.
func NewInvoker(h host.Host, opts fixer.Options) (*fixer.Invoker, error) {
	opts.Settings = fixer.SettingsFunc(h.Configuration)
	opts.Notifier = h
	return fixer.New(opts)
}

// ResultHook observes every fixer result produced by the provider
type ResultHook func(doc *host.Document, res fixer.Result)

// Option customizes Activate
type Option func(*options)

type options struct {
	onResult ResultHook
}

// WithResultHook calls fn after each provider invocation
func WithResultHook(fn ResultHook) Option {
	return func(o *options) { o.onResult = fn }
}

// 🔌 Activate registers the command, the will-save hook and the php
// formatting provider. The returned disposables undo all of it.
func Activate(h host.Host, inv *fixer.Invoker, opts ...Option) []host.Disposable {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return []host.Disposable{
		h.RegisterCommand(FixCommand, func(ctx context.Context, doc *host.Document) error {
			return h.ExecuteCommand(ctx, host.FormatDocumentCommand, doc)
		}),
		h.OnWillSaveDocument(func(ctx context.Context, e *host.WillSaveEvent) {
			if e.Document.LanguageID != fixer.LanguageID {
				return
			}
			settings, err := h.Configuration(ctx)
			if err != nil {
				zerolog.Ctx(ctx).Debug().Err(err).Msg("reading settings for fix on save")
				return
			}
			// the host formats by itself when formatOnSave is set
			if !settings.FixOnSave || settings.FormatOnSave {
				return
			}
			doc := e.Document
			e.WaitUntil(func(ctx context.Context) error {
				return h.ExecuteCommand(ctx, host.FormatDocumentCommand, doc)
			})
		}),
		h.RegisterDocumentFormattingProvider(fixer.LanguageID, provider(h, inv, o.onResult)),
	}
}

// Deactivate disposes everything Activate registered
func Deactivate(disposables []host.Disposable) {
	for _, d := range disposables {
		if d != nil {
			d.Dispose()
		}
	}
}

// 🎨 Provider is the php formatting provider. Diagnostics of every
// invocation are drained into the host's output channel.
func Provider(h host.Host, inv *fixer.Invoker) host.FormattingProvider {
	return provider(h, inv, nil)
}

func provider(h host.Host, inv *fixer.Invoker, onResult ResultHook) host.FormattingProvider {
	return host.FormattingProviderFunc(func(ctx context.Context, doc *host.Document) ([]edit.TextEdit, error) {
		diags := diag.New(ctx)
		defer diags.Drain(h.OutputChannel())

		res := inv.Format(ctx, fixer.Document{
			Path:       doc.Path,
			LanguageID: doc.LanguageID,
			Text:       doc.Text,
		}, diags)
		if onResult != nil {
			onResult(doc, res)
		}

		switch res.Status {
		case fixer.StatusSkipped, fixer.StatusAborted:
			return nil, nil
		}
		return []edit.TextEdit{edit.FullDocument(doc.Text, res.Text)}, nil
	})
}
