// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package inspection

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
)

// DocumentSession is the single mutable document of one language.
type DocumentSession struct {
	Language string
	doc      *engine.Document
}

// Text returns the most recently committed text.
func (s *DocumentSession) Text() string {
	return s.doc.Text()
}

// Snapshot returns a read-only view valid until the next commit.
func (s *DocumentSession) Snapshot() *engine.Snapshot {
	return s.doc.Snapshot()
}

// SessionRegistry owns one DocumentSession per configured language.
//
// Description:
//
//	Sessions are created lazily on first Get from the language template
//	(<templatesPath>/<LANGUAGE>/<main file>, or empty text when
//	templatesPath is ""). A failed initialization is remembered and
//	returned by every later Get for that language. After Close every Get
//	fails with ErrDispatcherClosed and no session is reopened.
//
// Thread Safety: NOT safe for concurrent use. Every method requires a
// context from work running on the owning Dispatcher and fails with
// ErrNotConfined otherwise.
type SessionRegistry struct {
	dispatcher    *Dispatcher
	engine        AnalysisEngine
	templatesPath string
	languages     []string
	configured    map[string]bool
	sessions      map[string]*DocumentSession
	failed        map[string]error
	closed        bool
}

// NewSessionRegistry creates a registry for the startup language set,
// confined to d.
func NewSessionRegistry(d *Dispatcher, eng AnalysisEngine, languages []string, templatesPath string) *SessionRegistry {
	r := &SessionRegistry{
		dispatcher:    d,
		engine:        eng,
		templatesPath: templatesPath,
		configured:    make(map[string]bool, len(languages)),
		sessions:      make(map[string]*DocumentSession, len(languages)),
		failed:        make(map[string]error),
	}
	for _, l := range languages {
		if !r.configured[l] {
			r.configured[l] = true
			r.languages = append(r.languages, l)
		}
	}
	return r
}

// Languages returns the startup language set in configuration order.
func (r *SessionRegistry) Languages() []string {
	out := make([]string, len(r.languages))
	copy(out, r.languages)
	return out
}

// Configured reports whether language is in the startup set.
func (r *SessionRegistry) Configured(language string) bool {
	return r.configured[language]
}

// Get returns the session for a language, initializing it on first use.
//
// Outputs:
//
//	*DocumentSession - The session.
//	error - ErrNotConfined, ErrDispatcherClosed, ErrUnconfiguredLanguage
//	        or an *EngineInitializationError.
func (r *SessionRegistry) Get(ctx context.Context, language string) (*DocumentSession, error) {
	if !r.dispatcher.Owns(ctx) {
		return nil, ErrNotConfined
	}
	if r.closed {
		return nil, ErrDispatcherClosed
	}
	if !r.configured[language] {
		return nil, unconfigured(language)
	}
	if s, ok := r.sessions[language]; ok {
		return s, nil
	}
	if err, ok := r.failed[language]; ok {
		return nil, err
	}

	s, err := r.open(ctx, language)
	if err != nil {
		initErr := &EngineInitializationError{Language: language, Err: err}
		r.failed[language] = initErr
		return nil, initErr
	}
	r.sessions[language] = s
	slog.Info("document session initialized",
		slog.String("language", language),
		slog.Int("template_bytes", len(s.Text())),
	)
	return s, nil
}

func (r *SessionRegistry) open(ctx context.Context, language string) (*DocumentSession, error) {
	lang, err := engine.LookupLanguage(language)
	if err != nil {
		return nil, err
	}
	var template []byte
	if r.templatesPath != "" {
		path := filepath.Join(r.templatesPath, lang.TemplateDir(), lang.MainFile)
		template, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
	}
	doc, err := r.engine.Open(ctx, language, template)
	if err != nil {
		return nil, err
	}
	return &DocumentSession{Language: language, doc: doc}, nil
}

// Commit replaces the text of a language session and reparses it. On
// failure the previous text stays in place.
func (r *SessionRegistry) Commit(ctx context.Context, language, text string) error {
	s, err := r.Get(ctx, language)
	if err != nil {
		return err
	}
	if err := s.doc.SetText(ctx, text); err != nil {
		return fmt.Errorf("commit %s text: %w", language, err)
	}
	return nil
}

// Close releases every session. Later Gets fail with ErrDispatcherClosed.
func (r *SessionRegistry) Close(ctx context.Context) error {
	if !r.dispatcher.Owns(ctx) {
		return ErrNotConfined
	}
	r.closed = true
	for language, s := range r.sessions {
		s.doc.Close()
		delete(r.sessions, language)
	}
	return nil
}
