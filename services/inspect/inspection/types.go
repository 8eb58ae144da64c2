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

// AnalysisEngine is the engine surface the inspection layer depends on.
//
// *engine.Engine satisfies it.
type AnalysisEngine interface {
	// Checks enumerates the catalog for a language in a stable order.
	Checks(language string) ([]engine.Check, error)

	// Open creates a document holding the initial text.
	Open(ctx context.Context, language string, text []byte) (*engine.Document, error)
}

// CheckDescriptor identifies one catalog check.
type CheckDescriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// RawDiagnostic is one unadapted check or annotator result. Offset and
// Length are engine.NoAnchor when there is no textual anchor.
type RawDiagnostic struct {
	CheckID string
	Message string
	Line    int
	Offset  int
	Length  int
}

// AdaptedDiagnostic is the client-visible diagnostic.
type AdaptedDiagnostic struct {
	CheckID string `json:"inspector"`
	Message string `json:"description"`
	Line    int    `json:"lineNumber"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
}

// FailurePolicy decides what a failing check does to its request.
type FailurePolicy int

const (
	// FailFast aborts the request with a *CheckExecutionError.
	FailFast FailurePolicy = iota

	// Isolate logs the failure and skips the check.
	Isolate
)

// String returns the configuration spelling of the policy.
func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return config.FailurePolicyFailFast
	case Isolate:
		return config.FailurePolicyIsolate
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParseFailurePolicy converts a configuration value.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", config.FailurePolicyFailFast:
		return FailFast, nil
	case config.FailurePolicyIsolate:
		return Isolate, nil
	}
	return FailFast, fmt.Errorf("unknown failure policy %q", s)
}
