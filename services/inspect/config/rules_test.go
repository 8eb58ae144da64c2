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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	checks map[string][]string
	codes  map[string][]string
}

func (c fakeCatalog) CheckIDs(language string) ([]string, error) {
	ids, ok := c.checks[language]
	if !ok {
		return nil, errors.New("unsupported language")
	}
	return ids, nil
}

func (c fakeCatalog) AnnotatorCodes(language string) []string {
	return c.codes[language]
}

var testCatalog = fakeCatalog{
	checks: map[string][]string{
		"Python": {
			"PySimplifyBooleanCheck", "PyArgumentEqualDefault", "PyBroadException", "PyDataclass", "PyFinal",
			"PyComparisonWithNone", "PyShadowingBuiltins", "PyUnreachableCode", "PyTrailingSemicolon",
			"PyRedeclaration", "PyMissingOrEmptyDocstring", "PySingleQuotedDocstring", "PyMissingTypeHints",
			"PyNonAsciiChar",
		},
		"kotlin": {"SimplifyBooleanWithConstants", "TooGenericExceptionCaught", "FunctionName"},
	},
	codes: map[string][]string{
		"Python": {"E302", "E303", "E501", "W291", "W292", "W293"},
	},
}

func strPtr(s string) *string { return &s }

func TestParseRules_PreservesRewriteOrder(t *testing.T) {
	data := []byte(`
rewrites:
  PyDataclass:
    "zeta":
      suffix: "!"
    "alpha":
      reuse_original: false
      prefix: "P"
    "mid": {}
`)
	cfg, err := ParseRules("Python", data)
	require.NoError(t, err)

	table := cfg.RewriteRules["PyDataclass"]
	require.Len(t, table, 3)
	assert.Equal(t, "zeta", table[0].Substring)
	assert.Equal(t, "alpha", table[1].Substring)
	assert.Equal(t, "mid", table[2].Substring)

	assert.True(t, table[0].Spec.ReuseOriginalBody, "reuse_original defaults to true")
	assert.False(t, table[1].Spec.ReuseOriginalBody)
	assert.Nil(t, table[2].Spec.Prefix)
	assert.Nil(t, table[2].Spec.Suffix)
}

func TestParseRules_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "ignore: [X]\n"},
		{"duplicate substring", "rewrites:\n  A:\n    \"x\": {}\n    \"x\": {}\n"},
		{"table not a mapping", "rewrites:\n  A:\n    - x\n"},
		{"empty disabled message", "disabled_messages:\n  A:\n    - \"\"\n"},
		{"malformed yaml", "rewrites: [\n"},
		{"malformed check id", "ignored:\n  - \"Py Final\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules("Python", []byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigLoad)
		})
	}
}

func TestParseRules_Empty(t *testing.T) {
	cfg, err := ParseRules("kotlin", nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.IgnoredChecks)
	assert.Empty(t, cfg.DisabledMessages)
	assert.Empty(t, cfg.RewriteRules)
}

func TestRewriteSpec_Render(t *testing.T) {
	tests := []struct {
		name string
		spec RewriteSpec
		want string
	}{
		{"suffix", RewriteSpec{ReuseOriginalBody: true, Suffix: strPtr(" S")}, "body S"},
		{"prefix only", RewriteSpec{ReuseOriginalBody: false, Prefix: strPtr("P")}, "P"},
		{"both", RewriteSpec{ReuseOriginalBody: true, Prefix: strPtr("P "), Suffix: strPtr(" S")}, "P body S"},
		{"nothing", RewriteSpec{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Render("body"))
		})
	}
}

func TestRewriteTable_FirstMatchWins(t *testing.T) {
	table := RewriteTable{
		{Substring: "broad", Spec: RewriteSpec{Prefix: strPtr("first")}},
		{Substring: "Too broad", Spec: RewriteSpec{Prefix: strPtr("second")}},
	}
	rule, ok := table.Match("Too broad exception clause")
	require.True(t, ok)
	assert.Equal(t, "broad", rule.Substring)

	_, ok = table.Match("something else")
	assert.False(t, ok)
}

func TestValidateRules(t *testing.T) {
	cfg := EmptyLanguageConfig("Python")
	cfg.IgnoredChecks["PyRedeclaration"] = struct{}{}
	cfg.IgnoredChecks["W291"] = struct{}{}
	require.NoError(t, ValidateRules(cfg, testCatalog))

	cfg.DisabledMessages["PyNope"] = []string{"x"}
	cfg.RewriteRules["W291"] = RewriteTable{{Substring: "x"}}
	err := ValidateRules(cfg, testCatalog)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigLoad)
	assert.Contains(t, err.Error(), "disabled_messages PyNope")
	assert.Contains(t, err.Error(), "rewrites W291", "annotator codes cannot carry rewrite rules")
}

func TestValidateRules_UnknownLanguage(t *testing.T) {
	err := ValidateRules(EmptyLanguageConfig("Cobol"), testCatalog)
	assert.ErrorIs(t, err, ErrConfigLoad)
}

func TestDefaultRules_ValidAgainstCatalog(t *testing.T) {
	for _, language := range []string{"Python", "kotlin"} {
		data := DefaultRules(language)
		require.NotNil(t, data, language)
		cfg, err := ParseRules(language, data)
		require.NoError(t, err, language)
		require.NoError(t, ValidateRules(cfg, testCatalog), language)
	}
}

func TestDefaultRules_Python(t *testing.T) {
	cfg, err := ParseRules("Python", DefaultRules("Python"))
	require.NoError(t, err)

	assert.True(t, cfg.IsIgnored("PyMissingTypeHints"))
	assert.True(t, cfg.IsIgnored("W291"))
	assert.False(t, cfg.IsIgnored("PyBroadException"))
	assert.Equal(t, []string{"A default is set using", "should take only"}, cfg.DisabledMessages["PyDataclass"])

	broad := cfg.RewriteRules["PyBroadException"]
	require.Len(t, broad, 1)
	assert.False(t, broad[0].Spec.ReuseOriginalBody)
	assert.Equal(t, "Please, specify the exception type, but avoid using too general exception `Exception`",
		broad[0].Spec.Render("Too broad exception clause"))

	dataclass := cfg.RewriteRules["PyDataclass"]
	require.Len(t, dataclass, 2)
	assert.Equal(t, "not supported between instances of", dataclass[0].Substring)
	assert.Equal(t, "because it is declared as init-only", dataclass[1].Substring)
}

func TestLoadRules_FallsBackToDefaultRules(t *testing.T) {
	dir := t.TempDir()
	loaded, err := LoadRules(dir, []string{"Python", "kotlin"}, testCatalog)
	require.NoError(t, err)

	for _, language := range []string{"Python", "kotlin"} {
		want, err := ParseRules(language, DefaultRules(language))
		require.NoError(t, err)
		assert.Equal(t, want, loaded[language], language)
	}

	data, path, err := readRules(dir, "Cobol")
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Empty(t, path)
	assert.Nil(t, DefaultRules("Cobol"))
}

func TestLoadRules_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Python.yaml"), []byte("ignored: [PyFinal]\n"), 0o600))

	rules, err := LoadRules(dir, []string{"Python", "kotlin"}, testCatalog)
	require.NoError(t, err)

	assert.True(t, rules["Python"].IsIgnored("PyFinal"))
	assert.Empty(t, rules["Python"].RewriteRules, "override replaces the embedded defaults")
	assert.NotEmpty(t, rules["kotlin"].RewriteRules, "kotlin falls back to embedded defaults")
}

func TestLoadRules_InvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kotlin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ignored: [PyFinal]\n"), 0o600))

	_, err := LoadRules(dir, []string{"kotlin"}, testCatalog)
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.Path)
	assert.Equal(t, "kotlin", le.Language)
}

func TestLoadRules_UnknownLanguage(t *testing.T) {
	_, err := LoadRules("", []string{"Cobol"}, testCatalog)
	assert.ErrorIs(t, err, ErrConfigLoad)
}
