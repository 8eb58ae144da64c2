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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
)

func pythonRules(t *testing.T) *config.LanguageConfig {
	t.Helper()
	cfg, err := config.ParseRules(engine.LanguagePython, config.DefaultRules(engine.LanguagePython))
	require.NoError(t, err)
	return cfg
}

func parseRules(t *testing.T, yml string) *config.LanguageConfig {
	t.Helper()
	cfg, err := config.ParseRules(engine.LanguagePython, []byte(yml))
	require.NoError(t, err)
	return cfg
}

func raw(checkID, message string) RawDiagnostic {
	return RawDiagnostic{CheckID: checkID, Message: message, Line: 3, Offset: 17, Length: 4}
}

func TestAdapt_Suffix(t *testing.T) {
	got, ok := Adapt(raw("PySimplifyBooleanCheck", "Expression can be simplified"), pythonRules(t))
	require.True(t, ok)
	assert.Equal(t, "Expression can be simplified, e.g. `if a != False:` is the same with `if a:`", got.Message)
	assert.Equal(t, "PySimplifyBooleanCheck", got.CheckID)
	assert.Equal(t, 3, got.Line)
	assert.Equal(t, 17, got.Offset)
	assert.Equal(t, 4, got.Length)
}

func TestAdapt_PrefixWithoutBody(t *testing.T) {
	got, ok := Adapt(raw("PyBroadException", "Too broad exception clause"), pythonRules(t))
	require.True(t, ok)
	assert.Equal(t, "Please, specify the exception type, but avoid using too general exception `Exception`", got.Message)
	assert.NotContains(t, got.Message, "Too broad")
}

func TestAdapt_Disabled(t *testing.T) {
	_, ok := Adapt(raw("PyDataclass", "A default is set using 'attr.ib()'"), pythonRules(t))
	assert.False(t, ok)

	_, ok = Adapt(raw("PyDataclass", "'m' should take only 1 parameter"), pythonRules(t))
	assert.False(t, ok)

	got, ok := Adapt(raw("PyDataclass", "A default is set using 'attr.ib()'"), config.EmptyLanguageConfig(engine.LanguagePython))
	require.True(t, ok)
	assert.Equal(t, "A default is set using 'attr.ib()'", got.Message)
}

func TestAdapt_DisabledBeforeRewrite(t *testing.T) {
	cfg := parseRules(t, `
disabled_messages:
  C:
    - "boom"
rewrites:
  C:
    "boom":
      prefix: "never "
`)
	_, ok := Adapt(raw("C", "a boom happened"), cfg)
	assert.False(t, ok, "a suppressed diagnostic never reaches the rewrite step")
}

func TestAdapt_FirstMatchWins(t *testing.T) {
	cfg := parseRules(t, `
rewrites:
  C:
    "zeta":
      prefix: "first: "
    "alpha":
      prefix: "second: "
`)
	got, ok := Adapt(raw("C", "alpha zeta"), cfg)
	require.True(t, ok)
	assert.Equal(t, "first: alpha zeta", got.Message, "file order, not match position, decides")
}

func TestAdapt_CaseSensitive(t *testing.T) {
	cfg := parseRules(t, `
disabled_messages:
  C:
    - "Boom"
`)
	got, ok := Adapt(raw("C", "boom"), cfg)
	require.True(t, ok)
	assert.Equal(t, "boom", got.Message)
}

func TestAdapt_NoMatchingRule(t *testing.T) {
	cfg := pythonRules(t)

	got, ok := Adapt(raw("PySimplifyBooleanCheck", "something else"), cfg)
	require.True(t, ok)
	assert.Equal(t, "something else", got.Message)

	got, ok = Adapt(raw("PyTrailingSemicolon", "Trailing semicolon in the statement"), cfg)
	require.True(t, ok)
	assert.Equal(t, "Trailing semicolon in the statement", got.Message)
}

func TestAdapt_NilConfig(t *testing.T) {
	got, ok := Adapt(raw("C", "msg"), nil)
	require.True(t, ok)
	assert.Equal(t, "msg", got.Message)
}

func TestAdapt_NoAnchor(t *testing.T) {
	d := RawDiagnostic{CheckID: "PyBroadException", Message: "Too broad exception clause", Line: 0, Offset: engine.NoAnchor, Length: engine.NoAnchor}
	got, ok := Adapt(d, pythonRules(t))
	require.True(t, ok)
	assert.Equal(t, engine.NoAnchor, got.Offset)
	assert.Equal(t, engine.NoAnchor, got.Length)
}
