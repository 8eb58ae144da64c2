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
	"context"
	"fmt"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
)

// =============================================================================
// CHECK RUNNER
// =============================================================================

// RunCheck executes one check against a snapshot.
//
// Description:
//
//	The snapshot is only read. An error returned by the check, or a panic
//	inside it, becomes a *CheckExecutionError.
//
// Thread Safety: Must run on the dispatcher worker (the snapshot shares
// the engine tree).
func RunCheck(ctx context.Context, snap *engine.Snapshot, check engine.Check) (diags []RawDiagnostic, err error) {
	_, span := startCheckSpan(ctx, snap.Language, check.ID())
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			diags = nil
			err = &CheckExecutionError{Language: snap.Language, CheckID: check.ID(), Err: fmt.Errorf("panic: %v", r)}
		}
		setSpanError(span, err)
	}()

	problems, err := check.Inspect(snap)
	if err != nil {
		return nil, &CheckExecutionError{Language: snap.Language, CheckID: check.ID(), Err: err}
	}
	diags = make([]RawDiagnostic, 0, len(problems))
	for _, p := range problems {
		diags = append(diags, RawDiagnostic{
			CheckID: check.ID(),
			Message: p.Message,
			Line:    p.Line,
			Offset:  p.Offset,
			Length:  p.Length,
		})
	}
	return diags, nil
}

// =============================================================================
// STYLE ANNOTATOR RUNNER
// =============================================================================

// AnnotatorTable selects the annotators run for each language.
type AnnotatorTable map[string][]engine.Annotator

// DefaultAnnotators returns the built-in table: PEP-8 for Python, nothing
// for other languages.
func DefaultAnnotators() AnnotatorTable {
	return AnnotatorTable{
		engine.LanguagePython: {engine.NewPEP8Annotator()},
	}
}

// RunAnnotators executes the annotators of a language and drops every
// result whose code is ignored by cfg. Annotator results do not pass
// through disable or rewrite rules.
//
// Outputs:
//
//	[]AdaptedDiagnostic - Filtered results, in annotator order.
//	[]error - One *CheckExecutionError per failing annotator.
func RunAnnotators(ctx context.Context, snap *engine.Snapshot, annotators []engine.Annotator, cfg *config.LanguageConfig) ([]AdaptedDiagnostic, []error) {
	var out []AdaptedDiagnostic
	var errs []error
	for _, a := range annotators {
		notes, err := runAnnotator(ctx, snap, a)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, n := range notes {
			if cfg.IsIgnored(n.Code) {
				continue
			}
			out = append(out, AdaptedDiagnostic{
				CheckID: n.Code,
				Message: n.Message,
				Line:    n.Line,
				Offset:  n.Offset,
				Length:  n.Length,
			})
		}
	}
	return out, errs
}

func runAnnotator(ctx context.Context, snap *engine.Snapshot, a engine.Annotator) (notes []engine.Annotation, err error) {
	_, span := startCheckSpan(ctx, snap.Language, a.Name())
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			notes = nil
			err = &CheckExecutionError{Language: snap.Language, CheckID: a.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
		setSpanError(span, err)
	}()

	notes, err = a.Annotate(snap)
	if err != nil {
		return nil, &CheckExecutionError{Language: snap.Language, CheckID: a.Name(), Err: err}
	}
	return notes, nil
}
