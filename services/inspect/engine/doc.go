// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine is the language-analysis engine behind the inspection service.
//
// The engine owns three things:
//
//   - Languages: the fixed set of grammars the service can analyze
//     ("Python" and "kotlin").
//   - Documents: one tree-sitter parser plus the current syntax tree for a
//     piece of source text. A Document is NOT safe for concurrent use; the
//     underlying *sitter.Parser and *sitter.Tree must only be touched from a
//     single goroutine at a time.
//   - Checks and annotators: read-only analyses over a Snapshot that emit
//     problems anchored to syntax nodes.
//
// # Catalog
//
// Checks are registered per language and enumerated in registration order:
//
//	| Language | Checks                                                          |
//	|----------|-----------------------------------------------------------------|
//	| Python   | PySimplifyBooleanCheck, PyArgumentEqualDefault, PyBroadException,|
//	|          | PyDataclass, PyFinal, PyComparisonWithNone, ... (14 total)       |
//	| kotlin   | SimplifyBooleanWithConstants, TooGenericExceptionCaught,         |
//	|          | FunctionName                                                    |
//
// Annotators are not part of the catalog. The PEP-8 annotator reports
// pycodestyle-compatible codes (E501, W291, ...) and is selected by callers.
//
// # Positions
//
// Problem lines are 0-based rows. Offset and Length are byte offsets into the
// document text; both are NoAnchor (-1) when a problem has no textual anchor.
//
// # Thread Safety
//
// Engine is safe for concurrent use (it is immutable after New). Document and
// Snapshot are not.
package engine
