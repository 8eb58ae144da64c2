// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// NoAnchor marks a problem offset or length with no textual anchor.
const NoAnchor = -1

// =============================================================================
// PROBLEMS
// =============================================================================

// Problem is one issue reported by a Check.
type Problem struct {
	Message string
	Line    int
	Offset  int
	Length  int
}

// Annotation is one issue reported by an Annotator. Code is the
// annotator's own rule id (for example "E501").
type Annotation struct {
	Code    string
	Message string
	Line    int
	Offset  int
	Length  int
}

// problemAt anchors a problem to the byte span of n.
func problemAt(n *sitter.Node, msg string) Problem {
	if n == nil {
		return Problem{Message: msg, Line: 0, Offset: NoAnchor, Length: NoAnchor}
	}
	return Problem{
		Message: msg,
		Line:    int(n.StartPoint().Row),
		Offset:  int(n.StartByte()),
		Length:  int(n.EndByte() - n.StartByte()),
	}
}

// =============================================================================
// CHECKS AND ANNOTATORS
// =============================================================================

// Check is a single analysis rule registered in the engine catalog.
//
// Implementations must treat the snapshot as read-only.
type Check interface {
	// ID is the stable rule id used by configuration ("PyBroadException").
	ID() string

	// DisplayName is a human-readable title.
	DisplayName() string

	// Inspect reports problems in the snapshot.
	Inspect(snap *Snapshot) ([]Problem, error)
}

// Annotator is a style pass that lives outside the check catalog.
type Annotator interface {
	// Name identifies the annotator ("PEP-8").
	Name() string

	// Codes lists every code the annotator may report.
	Codes() []string

	// Annotate reports annotations for the snapshot.
	Annotate(snap *Snapshot) ([]Annotation, error)
}

// CheckFunc adapts a function into a Check.
type CheckFunc struct {
	CheckID   string
	Title     string
	InspectFn func(snap *Snapshot) ([]Problem, error)
}

// ID implements Check.
func (c CheckFunc) ID() string { return c.CheckID }

// DisplayName implements Check.
func (c CheckFunc) DisplayName() string { return c.Title }

// Inspect implements Check.
func (c CheckFunc) Inspect(snap *Snapshot) ([]Problem, error) { return c.InspectFn(snap) }

// treeCheck is a built-in check that cannot fail.
func treeCheck(id, title string, fn func(snap *Snapshot) []Problem) Check {
	return CheckFunc{
		CheckID: id,
		Title:   title,
		InspectFn: func(snap *Snapshot) ([]Problem, error) {
			return fn(snap), nil
		},
	}
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the check catalog plus the document factory.
//
// Thread Safety: Safe for concurrent use after New returns.
type Engine struct {
	checks map[string][]Check

	skipBuiltins bool
	extra        map[string][]Check
}

// Option configures an Engine.
type Option func(*Engine)

// WithCheck registers an additional check for a language. Extra checks are
// enumerated after the built-in ones, in option order.
func WithCheck(language string, c Check) Option {
	return func(e *Engine) {
		e.extra[language] = append(e.extra[language], c)
	}
}

// WithoutBuiltinChecks leaves only the checks added with WithCheck.
func WithoutBuiltinChecks() Option {
	return func(e *Engine) {
		e.skipBuiltins = true
	}
}

// New creates an engine with the built-in catalog.
//
// Example:
//
//	eng := engine.New()
//	checks, _ := eng.Checks(engine.LanguagePython)
func New(opts ...Option) *Engine {
	e := &Engine{
		checks: make(map[string][]Check),
		extra:  make(map[string][]Check),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.skipBuiltins {
		e.checks[LanguagePython] = pythonChecks()
		e.checks[LanguageKotlin] = kotlinChecks()
	}
	for lang, checks := range e.extra {
		e.checks[lang] = append(e.checks[lang], checks...)
	}
	return e
}

// Checks returns every check registered for the language, in catalog order.
//
// Outputs:
//
//	[]Check - A copy of the catalog slice.
//	error - ErrUnsupportedLanguage for unknown ids.
func (e *Engine) Checks(language string) ([]Check, error) {
	if _, err := LookupLanguage(language); err != nil {
		return nil, err
	}
	checks := e.checks[language]
	out := make([]Check, len(checks))
	copy(out, checks)
	return out, nil
}

// Open creates a document for the language and parses the initial text.
//
// Description:
//
//	Allocates a tree-sitter parser bound to the language grammar and parses
//	text (which may be empty). The returned Document owns the parser and
//	must be closed.
//
// Outputs:
//
//	*Document - The parsed document.
//	error - ErrUnsupportedLanguage, ErrInvalidContent or a *ParseError.
//
// Thread Safety: The returned Document is confined to the caller.
func (e *Engine) Open(ctx context.Context, language string, text []byte) (*Document, error) {
	lang, err := LookupLanguage(language)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang.grammar())

	doc := &Document{lang: lang, parser: parser}
	if err := doc.SetText(ctx, string(text)); err != nil {
		parser.Close()
		return nil, fmt.Errorf("open %s document: %w", language, err)
	}
	return doc, nil
}
