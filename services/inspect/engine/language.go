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
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/python"
)

// Language ids understood by the engine.
const (
	LanguagePython = "Python"
	LanguageKotlin = "kotlin"
)

// Language describes one analyzable language.
type Language struct {
	// ID is the external language id ("Python", "kotlin").
	ID string

	// MainFile is the file name a project template for this language uses
	// for its single source file.
	MainFile string

	grammar func() *sitter.Language
}

// TemplateDir returns the per-language directory name under a templates
// root. Directory names are the upper-cased language id.
func (l *Language) TemplateDir() string {
	return strings.ToUpper(l.ID)
}

var builtinLanguages = []*Language{
	{ID: LanguagePython, MainFile: "main.py", grammar: python.GetLanguage},
	{ID: LanguageKotlin, MainFile: "Main.kt", grammar: kotlin.GetLanguage},
}

// LookupLanguage returns the built-in language with the given id.
//
// Outputs:
//
//	*Language - The language. Never nil when err is nil.
//	error - ErrUnsupportedLanguage if the id is unknown.
func LookupLanguage(id string) (*Language, error) {
	for _, l := range builtinLanguages {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, id)
}

// LanguageIDs returns the ids of every built-in language.
func LanguageIDs() []string {
	ids := make([]string, 0, len(builtinLanguages))
	for _, l := range builtinLanguages {
		ids = append(ids, l.ID)
	}
	return ids
}
