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
	"strings"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
)

// Adapt applies the language rules to one raw check diagnostic.
//
// Description:
//
//	Disabled substrings are evaluated first; a match suppresses the
//	diagnostic and rewrite rules are never consulted. Otherwise the first
//	rewrite rule of the check whose substring occurs in the message
//	renders the new message. Matching is plain case-sensitive substring
//	containment. Positions are copied unchanged.
//
// Inputs:
//
//	diag - The raw diagnostic.
//	cfg - Rules for the diagnostic's language. nil passes everything through.
//
// Outputs:
//
//	AdaptedDiagnostic - The adapted diagnostic, valid when ok is true.
//	bool - false when the diagnostic is suppressed.
//
// Thread Safety: Pure function; safe for concurrent use.
func Adapt(diag RawDiagnostic, cfg *config.LanguageConfig) (AdaptedDiagnostic, bool) {
	adapted := AdaptedDiagnostic{
		CheckID: diag.CheckID,
		Message: diag.Message,
		Line:    diag.Line,
		Offset:  diag.Offset,
		Length:  diag.Length,
	}
	if cfg == nil {
		return adapted, true
	}

	for _, sub := range cfg.DisabledMessages[diag.CheckID] {
		if strings.Contains(diag.Message, sub) {
			return AdaptedDiagnostic{}, false
		}
	}

	if rule, ok := cfg.RewriteRules[diag.CheckID].Match(diag.Message); ok {
		adapted.Message = rule.Spec.Render(diag.Message)
	}
	return adapted, true
}
