//go:build property

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

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
)

func adapterParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200
	return parameters
}

func ruleConfig() *config.LanguageConfig {
	return config.EmptyLanguageConfig("Python")
}

func TestAdaptProperties(t *testing.T) {
	properties := gopter.NewProperties(adapterParameters())

	properties.Property("disabled substring always suppresses", prop.ForAll(
		func(head, sub, tail string) bool {
			if sub == "" {
				return true
			}
			cfg := ruleConfig()
			cfg.DisabledMessages["C"] = []string{sub}
			cfg.RewriteRules["C"] = config.RewriteTable{{Substring: sub, Spec: config.RewriteSpec{ReuseOriginalBody: true}}}

			_, ok := Adapt(RawDiagnostic{CheckID: "C", Message: head + sub + tail}, cfg)
			return !ok
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("rewrite renders prefix, body and suffix", prop.ForAll(
		func(msg, prefix, suffix string, reuse bool) bool {
			if msg == "" {
				return true
			}
			cfg := ruleConfig()
			cfg.RewriteRules["C"] = config.RewriteTable{{
				Substring: msg[:1],
				Spec:      config.RewriteSpec{ReuseOriginalBody: reuse, Prefix: &prefix, Suffix: &suffix},
			}}

			got, ok := Adapt(RawDiagnostic{CheckID: "C", Message: msg}, cfg)
			want := prefix + suffix
			if reuse {
				want = prefix + msg + suffix
			}
			return ok && got.Message == want
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.Property("positions are never changed", prop.ForAll(
		func(line, offset, length int) bool {
			cfg := ruleConfig()
			prefix := "p: "
			cfg.RewriteRules["C"] = config.RewriteTable{{Substring: "m", Spec: config.RewriteSpec{Prefix: &prefix}}}

			d := RawDiagnostic{CheckID: "C", Message: "m", Line: line, Offset: offset, Length: length}
			got, ok := Adapt(d, cfg)
			return ok && got.Line == line && got.Offset == offset && got.Length == length
		},
		gen.IntRange(0, 10000),
		gen.IntRange(-1, 10000),
		gen.IntRange(-1, 500),
	))

	properties.Property("other checks pass through", prop.ForAll(
		func(msg string) bool {
			cfg := ruleConfig()
			cfg.DisabledMessages["C"] = []string{""}
			got, ok := Adapt(RawDiagnostic{CheckID: "D", Message: msg}, cfg)
			return ok && got.Message == msg && got.CheckID == "D"
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
