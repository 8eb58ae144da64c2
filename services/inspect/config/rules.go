// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianInspect/pkg/validation"
)

// MaxRulesFileSize is the maximum allowed rule file size (1MB).
const MaxRulesFileSize = 1024 * 1024

//go:embed defaults/*.yaml
var defaultRules embed.FS

// =============================================================================
// RULE TYPES
// =============================================================================

// RewriteSpec describes how a matched message is rendered:
// Prefix + (ReuseOriginalBody ? message : "") + Suffix.
type RewriteSpec struct {
	ReuseOriginalBody bool
	Prefix            *string
	Suffix            *string
}

// Render applies the rewrite to an original message.
func (s RewriteSpec) Render(original string) string {
	var b strings.Builder
	if s.Prefix != nil {
		b.WriteString(*s.Prefix)
	}
	if s.ReuseOriginalBody {
		b.WriteString(original)
	}
	if s.Suffix != nil {
		b.WriteString(*s.Suffix)
	}
	return b.String()
}

// RewriteRule pairs a message substring with its rewrite.
type RewriteRule struct {
	Substring string
	Spec      RewriteSpec
}

// RewriteTable is an ordered list of rules. The first rule whose substring
// occurs in a message wins.
type RewriteTable []RewriteRule

// Match returns the first rule whose substring occurs in message.
func (t RewriteTable) Match(message string) (RewriteRule, bool) {
	for _, r := range t {
		if strings.Contains(message, r.Substring) {
			return r, true
		}
	}
	return RewriteRule{}, false
}

// LanguageConfig holds the immutable diagnostic rules for one language.
type LanguageConfig struct {
	Language string

	// IgnoredChecks are never executed or reported. The set covers both
	// catalog check ids and annotator codes.
	IgnoredChecks map[string]struct{}

	// DisabledMessages suppresses diagnostics of a check whose message
	// contains any listed substring.
	DisabledMessages map[string][]string

	// RewriteRules rewrites diagnostics of a check, first match wins.
	RewriteRules map[string]RewriteTable
}

// IsIgnored reports whether id is in IgnoredChecks. Safe on a nil receiver.
func (c *LanguageConfig) IsIgnored(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.IgnoredChecks[id]
	return ok
}

// EmptyLanguageConfig returns a pass-through configuration.
func EmptyLanguageConfig(language string) *LanguageConfig {
	return &LanguageConfig{
		Language:         language,
		IgnoredChecks:    map[string]struct{}{},
		DisabledMessages: map[string][]string{},
		RewriteRules:     map[string]RewriteTable{},
	}
}

// =============================================================================
// YAML DECODING
// =============================================================================

// rulesFile is the on-disk rule format:
//
//	ignored:
//	  - PyMissingTypeHints
//	disabled_messages:
//	  PyFinal:
//	    - "'@final' should be placed on the implementation"
//	rewrites:
//	  PyBroadException:
//	    "Too broad exception clause":
//	      reuse_original: false
//	      prefix: "Please, specify the exception type"
//
// Rewrite substrings are mapping keys; their order in the file is the
// match order.
type rulesFile struct {
	Ignored          []string                `yaml:"ignored"`
	DisabledMessages map[string][]string     `yaml:"disabled_messages"`
	Rewrites         map[string]RewriteTable `yaml:"rewrites"`
}

type rewriteSpecYAML struct {
	ReuseOriginal *bool   `yaml:"reuse_original"`
	Prefix        *string `yaml:"prefix"`
	Suffix        *string `yaml:"suffix"`
}

// UnmarshalYAML decodes a substring -> rewrite mapping preserving key order.
func (t *RewriteTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rewrite table must be a mapping of substring to rewrite", value.Line)
	}
	seen := make(map[string]bool, len(value.Content)/2)
	table := make(RewriteTable, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, specNode := value.Content[i], value.Content[i+1]
		var substring string
		if err := keyNode.Decode(&substring); err != nil {
			return err
		}
		if substring == "" {
			return fmt.Errorf("line %d: empty rewrite substring", keyNode.Line)
		}
		if seen[substring] {
			return fmt.Errorf("line %d: duplicate rewrite substring %q", keyNode.Line, substring)
		}
		seen[substring] = true

		var raw rewriteSpecYAML
		if err := specNode.Decode(&raw); err != nil {
			return err
		}
		spec := RewriteSpec{ReuseOriginalBody: true, Prefix: raw.Prefix, Suffix: raw.Suffix}
		if raw.ReuseOriginal != nil {
			spec.ReuseOriginalBody = *raw.ReuseOriginal
		}
		table = append(table, RewriteRule{Substring: substring, Spec: spec})
	}
	*t = table
	return nil
}

// ParseRules decodes one rule file. Unknown top-level keys are rejected.
func ParseRules(language string, data []byte) (*LanguageConfig, error) {
	cfg := EmptyLanguageConfig(language)
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var raw rulesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Language: language, Err: err}
	}

	ids := append([]string(nil), raw.Ignored...)
	for id := range raw.DisabledMessages {
		ids = append(ids, id)
	}
	for id := range raw.Rewrites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if err := validation.ValidateCheckIDs(ids); err != nil {
		return nil, &LoadError{Language: language, Err: err}
	}

	for _, id := range raw.Ignored {
		cfg.IgnoredChecks[id] = struct{}{}
	}
	for id, subs := range raw.DisabledMessages {
		for _, s := range subs {
			if s == "" {
				return nil, &LoadError{Language: language, Err: fmt.Errorf("empty disabled message for %s", id)}
			}
		}
		cfg.DisabledMessages[id] = subs
	}
	for id, table := range raw.Rewrites {
		cfg.RewriteRules[id] = table
	}
	return cfg, nil
}

// =============================================================================
// CATALOG VALIDATION
// =============================================================================

// Catalog is the view of the analysis engine needed to validate rules.
type Catalog interface {
	// CheckIDs lists the catalog check ids for a language.
	CheckIDs(language string) ([]string, error)

	// AnnotatorCodes lists the codes the language's annotators may report.
	AnnotatorCodes(language string) []string
}

// ValidateRules checks every id in cfg against the catalog.
//
// Disabled-message and rewrite keys must be catalog checks. Ignored ids
// may also be annotator codes.
func ValidateRules(cfg *LanguageConfig, catalog Catalog) error {
	ids, err := catalog.CheckIDs(cfg.Language)
	if err != nil {
		return &LoadError{Language: cfg.Language, Err: err}
	}
	checks := make(map[string]bool, len(ids))
	for _, id := range ids {
		checks[id] = true
	}
	codes := make(map[string]bool)
	for _, code := range catalog.AnnotatorCodes(cfg.Language) {
		codes[code] = true
	}

	var unknown []string
	for id := range cfg.IgnoredChecks {
		if !checks[id] && !codes[id] {
			unknown = append(unknown, "ignored "+id)
		}
	}
	for id := range cfg.DisabledMessages {
		if !checks[id] {
			unknown = append(unknown, "disabled_messages "+id)
		}
	}
	for id := range cfg.RewriteRules {
		if !checks[id] {
			unknown = append(unknown, "rewrites "+id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &LoadError{
			Language: cfg.Language,
			Err:      fmt.Errorf("unknown check ids: %s", strings.Join(unknown, ", ")),
		}
	}
	return nil
}

// =============================================================================
// LOADING
// =============================================================================

// LoadRules loads and validates the rule file of every language.
//
// Description:
//
//	For each language the file <dir>/<language>.yaml is used when dir is
//	set and the file exists. Otherwise the embedded default for the
//	language is used, or an empty pass-through configuration when there
//	is none.
//
// Outputs:
//
//	map[string]*LanguageConfig - Keyed by language id.
//	error - A *LoadError on the first failure.
func LoadRules(dir string, languages []string, catalog Catalog) (map[string]*LanguageConfig, error) {
	out := make(map[string]*LanguageConfig, len(languages))
	for _, language := range languages {
		data, path, err := readRules(dir, language)
		if err != nil {
			return nil, &LoadError{Path: path, Language: language, Err: err}
		}
		cfg, err := ParseRules(language, data)
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Path = path
			}
			return nil, err
		}
		if err := ValidateRules(cfg, catalog); err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Path = path
			}
			return nil, err
		}
		slog.Info("loaded inspection rules",
			slog.String("language", language),
			slog.String("source", sourceName(path)),
			slog.Int("ignored", len(cfg.IgnoredChecks)),
			slog.Int("disabled", len(cfg.DisabledMessages)),
			slog.Int("rewrites", len(cfg.RewriteRules)),
		)
		out[language] = cfg
	}
	return out, nil
}

// readRules returns the rule bytes and where they came from. The path is
// "" for embedded defaults and for languages without any rules.
func readRules(dir, language string) ([]byte, string, error) {
	if dir != "" {
		path := filepath.Join(dir, language+".yaml")
		info, err := os.Stat(path)
		switch {
		case err == nil:
			if info.Size() > MaxRulesFileSize {
				return nil, path, fmt.Errorf("file size %d exceeds limit %d", info.Size(), MaxRulesFileSize)
			}
			data, err := os.ReadFile(path)
			return data, path, err
		case !errors.Is(err, fs.ErrNotExist):
			return nil, path, err
		}
	}
	return DefaultRules(language), "", nil
}

// DefaultRules returns the embedded rule file for a language, or nil.
func DefaultRules(language string) []byte {
	data, err := defaultRules.ReadFile("defaults/" + strings.ToLower(language) + ".yaml")
	if err != nil {
		return nil
	}
	return data
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
