// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package inspection turns (language, text) requests into adapted
// diagnostics on top of a not-thread-safe analysis engine.
//
// # Architecture
//
//	Inspector.Inspect
//	  └─ Dispatcher.Submit ─────────── one worker, FIFO, all languages
//	       ├─ SessionRegistry.Get/Commit      per-language document
//	       ├─ AvailableChecks                  catalog minus ignored ids
//	       │    └─ RunCheck ─→ Adapt           disable, then rewrite
//	       └─ RunAnnotators ─→ ignore filter   annotators skip rewrites
//
// Every operation that touches engine state (parse, check, annotator,
// commit) runs on the dispatcher worker. The worker marks the context it
// hands to submitted work; SessionRegistry refuses calls without that
// mark, so confinement is enforced rather than assumed.
//
// # Adaptation
//
// For a raw diagnostic of check C with message M:
//
//  1. If any disabled substring of C occurs in M, the diagnostic is dropped.
//  2. Otherwise the first rewrite rule of C (in file order) whose substring
//     occurs in M renders prefix + (reuse ? M : "") + suffix.
//  3. Otherwise M is kept.
//
// Annotator output is only filtered by the ignored-id set.
//
// # Failure Policy
//
// A failing check aborts the whole request by default (FailFast). Isolate
// logs and skips the failing check instead.
package inspection
