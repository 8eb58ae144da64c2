// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import "github.com/AleutianAI/AleutianInspect/services/inspect/inspection"

// InspectRequest asks for the diagnostics of one document.
type InspectRequest struct {
	// Language is a configured language id, e.g. "Python" or "kotlin".
	Language string `json:"language" msgpack:"language" binding:"required"`

	// Text is the complete document text.
	Text string `json:"text" msgpack:"text"`
}

// Problem is one diagnostic on the wire.
type Problem struct {
	Inspector   string `json:"inspector" msgpack:"inspector"`
	Description string `json:"description" msgpack:"description"`
	LineNumber  int64  `json:"lineNumber" msgpack:"lineNumber"`
	Offset      int64  `json:"offset" msgpack:"offset"`
	Length      int64  `json:"length" msgpack:"length"`
}

// InspectResponse carries the adapted diagnostics of one request.
type InspectResponse struct {
	Problems []Problem `json:"problems" msgpack:"problems"`
}

// ListChecksRequest asks for the checks that run for a language.
type ListChecksRequest struct {
	Language string `json:"language" msgpack:"language"`
}

// Check describes one available check.
type Check struct {
	ID          string `json:"id" msgpack:"id"`
	DisplayName string `json:"displayName" msgpack:"displayName"`
}

// ListChecksResponse lists available checks in engine order.
type ListChecksResponse struct {
	Language string  `json:"language" msgpack:"language"`
	Checks   []Check `json:"checks" msgpack:"checks"`
}

// LanguagesResponse lists the configured languages.
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

// HealthResponse is returned by the HTTP health endpoint.
type HealthResponse struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Languages []string `json:"languages"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code,omitempty"`

	// RequestID correlates the response with server logs.
	RequestID string `json:"request_id,omitempty"`
}

func toResponse(res *inspection.Result) *InspectResponse {
	out := &InspectResponse{Problems: make([]Problem, 0, len(res.Problems))}
	for _, p := range res.Problems {
		out.Problems = append(out.Problems, Problem{
			Inspector:   p.CheckID,
			Description: p.Message,
			LineNumber:  int64(p.Line),
			Offset:      int64(p.Offset),
			Length:      int64(p.Length),
		})
	}
	return out
}

func toChecks(language string, descs []inspection.CheckDescriptor) *ListChecksResponse {
	out := &ListChecksResponse{Language: language, Checks: make([]Check, 0, len(descs))}
	for _, d := range descs {
		out.Checks = append(out.Checks, Check{ID: d.ID, DisplayName: d.DisplayName})
	}
	return out
}
