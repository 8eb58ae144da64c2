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
	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
)

// AvailableChecks returns the engine checks for a language minus every id
// in cfg.IgnoredChecks, in engine enumeration order.
func AvailableChecks(eng AnalysisEngine, language string, cfg *config.LanguageConfig) ([]engine.Check, error) {
	all, err := eng.Checks(language)
	if err != nil {
		return nil, err
	}
	out := make([]engine.Check, 0, len(all))
	for _, c := range all {
		if !cfg.IsIgnored(c.ID()) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Describe converts checks to descriptors.
func Describe(checks []engine.Check) []CheckDescriptor {
	out := make([]CheckDescriptor, 0, len(checks))
	for _, c := range checks {
		out = append(out, CheckDescriptor{ID: c.ID(), DisplayName: c.DisplayName()})
	}
	return out
}

// Catalog exposes the ids known for each language to rule validation.
//
// It implements config.Catalog.
type Catalog struct {
	engine     AnalysisEngine
	annotators AnnotatorTable
}

// NewCatalog creates a catalog over an engine and an annotator table.
func NewCatalog(eng AnalysisEngine, annotators AnnotatorTable) *Catalog {
	return &Catalog{engine: eng, annotators: annotators}
}

// CheckIDs implements config.Catalog.
func (c *Catalog) CheckIDs(language string) ([]string, error) {
	checks, err := c.engine.Checks(language)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(checks))
	for _, check := range checks {
		ids = append(ids, check.ID())
	}
	return ids, nil
}

// AnnotatorCodes implements config.Catalog.
func (c *Catalog) AnnotatorCodes(language string) []string {
	var codes []string
	for _, a := range c.annotators[language] {
		codes = append(codes, a.Codes()...)
	}
	return codes
}

var _ config.Catalog = (*Catalog)(nil)
