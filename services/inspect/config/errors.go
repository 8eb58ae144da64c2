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
	"fmt"
)

// ErrConfigLoad indicates malformed startup configuration or a rule that
// references a check id the engine does not know. It is always fatal.
var ErrConfigLoad = errors.New("config load failed")

// LoadError describes a configuration failure.
//
// errors.Is(err, ErrConfigLoad) is true for every *LoadError.
type LoadError struct {
	// Path is the file being loaded, or "" for embedded defaults and env.
	Path string

	// Language is set for per-language rule failures.
	Language string

	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch {
	case e.Language != "" && e.Path != "":
		return fmt.Sprintf("%v: %s rules (%s): %v", ErrConfigLoad, e.Language, e.Path, e.Err)
	case e.Language != "":
		return fmt.Sprintf("%v: %s rules: %v", ErrConfigLoad, e.Language, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%v: %s: %v", ErrConfigLoad, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrConfigLoad, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches ErrConfigLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrConfigLoad
}
