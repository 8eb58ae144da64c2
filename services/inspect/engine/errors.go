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
	"errors"
	"fmt"
)

// Sentinel errors for engine failures.
var (
	// ErrUnsupportedLanguage indicates that the engine has no grammar for
	// the requested language id.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidContent indicates that document text is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")

	// ErrParseFailed indicates that tree-sitter returned no tree.
	ErrParseFailed = errors.New("parse failed")

	// ErrDocumentClosed indicates use of a Document after Close.
	ErrDocumentClosed = errors.New("document closed")
)

// ParseError wraps a parse failure with the language it happened in.
type ParseError struct {
	Language string
	Err      error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Language, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
