// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation checks untrusted identifiers and payloads before they
// reach the inspection engine, log lines or metric labels.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxTextBytes is the largest source text accepted for one inspection.
const MaxTextBytes = 2 << 20

var (
	// ErrInvalidInput is wrapped by every identifier error.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTextTooLarge indicates a source text over the size limit.
	ErrTextTooLarge = errors.New("text too large")
)

// languagePattern matches language ids such as "Python" or "kotlin".
// Max length: 32 characters.
var languagePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_+#-]{0,31}$`)

// checkPattern matches catalog check ids (PyFinal, TooGenericExceptionCaught)
// and annotator codes (E401). Max length: 128 characters.
var checkPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]{0,127}$`)

// ValidateLanguageID validates a language id taken from a request.
//
// The id becomes a metric attribute and a log field, so only a short
// identifier alphabet is accepted.
//
// Example:
//
//	if err := validation.ValidateLanguageID(req.Language); err != nil {
//	    return nil, err
//	}
func ValidateLanguageID(id string) error {
	if !languagePattern.MatchString(id) {
		return fmt.Errorf("%w: language id %q", ErrInvalidInput, id)
	}
	return nil
}

// ValidateCheckID validates a check id or annotator code from a rule file.
func ValidateCheckID(id string) error {
	if !checkPattern.MatchString(id) {
		return fmt.Errorf("%w: check id %q", ErrInvalidInput, id)
	}
	return nil
}

// ValidateCheckIDs validates ids and reports every invalid one.
func ValidateCheckIDs(ids []string) error {
	var invalid []string
	for _, id := range ids {
		if ValidateCheckID(id) != nil {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w: check ids %q", ErrInvalidInput, invalid)
	}
	return nil
}

// ValidateText checks the size of a source text. Encoding is left to the
// engine.
func ValidateText(text string) error {
	if len(text) > MaxTextBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit %d", ErrTextTooLarge, len(text), MaxTextBytes)
	}
	return nil
}
