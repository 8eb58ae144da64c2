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
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them via errors.Is.
var (
	// ErrEngineInitialization indicates that a session could not be
	// bootstrapped for a configured language. Fatal at startup.
	ErrEngineInitialization = errors.New("engine initialization failed")

	// ErrUnconfiguredLanguage indicates a request for a language outside
	// the startup set. Request-level.
	ErrUnconfiguredLanguage = errors.New("unconfigured language")

	// ErrCheckExecution indicates that a check or annotator failed while
	// running. Request-level.
	ErrCheckExecution = errors.New("check execution failed")

	// ErrNotConfined indicates session access outside the dispatcher.
	ErrNotConfined = errors.New("session access outside dispatcher")

	// ErrDispatcherClosed indicates a submission after Close.
	ErrDispatcherClosed = errors.New("dispatcher closed")
)

// EngineInitializationError reports a session bootstrap failure.
type EngineInitializationError struct {
	Language string
	Err      error
}

// Error implements the error interface.
func (e *EngineInitializationError) Error() string {
	return fmt.Sprintf("%v for %s: %v", ErrEngineInitialization, e.Language, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineInitializationError) Unwrap() error { return e.Err }

// Is matches ErrEngineInitialization.
func (e *EngineInitializationError) Is(target error) bool { return target == ErrEngineInitialization }

// CheckExecutionError reports a failing check or annotator.
type CheckExecutionError struct {
	Language string

	// CheckID is the check id, or the annotator name.
	CheckID string

	Err error
}

// Error implements the error interface.
func (e *CheckExecutionError) Error() string {
	return fmt.Sprintf("%v: %s/%s: %v", ErrCheckExecution, e.Language, e.CheckID, e.Err)
}

// Unwrap returns the underlying error.
func (e *CheckExecutionError) Unwrap() error { return e.Err }

// Is matches ErrCheckExecution.
func (e *CheckExecutionError) Is(target error) bool { return target == ErrCheckExecution }

func unconfigured(language string) error {
	return fmt.Errorf("%w: %q", ErrUnconfiguredLanguage, language)
}
