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
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Document is the mutable parse state for one piece of source text.
//
// Thread Safety: NOT safe for concurrent use. Callers must confine a
// Document (and every Snapshot taken from it) to one goroutine at a time.
type Document struct {
	lang   *Language
	parser *sitter.Parser
	tree   *sitter.Tree
	source []byte
	closed bool
}

// Language returns the document language.
func (d *Document) Language() *Language {
	return d.lang
}

// Text returns the current document text.
func (d *Document) Text() string {
	return string(d.source)
}

// SetText replaces the document text and reparses it from scratch.
//
// Description:
//
//	The new text is parsed into a fresh tree before anything is replaced,
//	so a failed SetText leaves the previous text and tree in place.
//
// Outputs:
//
//	error - ErrDocumentClosed, ErrInvalidContent or a *ParseError.
func (d *Document) SetText(ctx context.Context, text string) error {
	if d.closed {
		return ErrDocumentClosed
	}
	if !utf8.ValidString(text) {
		return &ParseError{Language: d.lang.ID, Err: ErrInvalidContent}
	}

	source := []byte(text)
	ctx, span := startParseSpan(ctx, d.lang.ID, len(source))
	defer span.End()
	start := time.Now()

	tree, err := d.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		recordParseMetrics(ctx, d.lang.ID, time.Since(start), false)
		return &ParseError{Language: d.lang.ID, Err: err}
	}
	if tree == nil {
		recordParseMetrics(ctx, d.lang.ID, time.Since(start), false)
		return &ParseError{Language: d.lang.ID, Err: ErrParseFailed}
	}
	recordParseMetrics(ctx, d.lang.ID, time.Since(start), true)

	if d.tree != nil {
		d.tree.Close()
	}
	d.tree = tree
	d.source = source
	return nil
}

// Snapshot returns a read-only view of the current tree. The snapshot is
// valid until the next SetText or Close.
func (d *Document) Snapshot() *Snapshot {
	return &Snapshot{
		Language: d.lang.ID,
		Source:   d.source,
		Root:     d.tree.RootNode(),
	}
}

// Close releases the parser and tree. Close is idempotent.
func (d *Document) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	d.parser.Close()
}

// Snapshot is the input to checks and annotators.
type Snapshot struct {
	Language string
	Source   []byte
	Root     *sitter.Node
}

// Text returns the source text covered by n.
func (s *Snapshot) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(s.Source[n.StartByte():n.EndByte()])
}
