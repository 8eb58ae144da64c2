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

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/AleutianAI/AleutianInspect/pkg/validation"
	"github.com/AleutianAI/AleutianInspect/services/inspect/engine"
	"github.com/AleutianAI/AleutianInspect/services/inspect/inspection"
)

var (
	// ErrRateLimited indicates a request rejected before queueing.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrMissingLanguage indicates a request without a language id.
	ErrMissingLanguage = errors.New("language is required")
)

// errorKind is the transport-neutral classification of a request error.
type errorKind struct {
	grpc codes.Code
	http int
	code string
}

func classify(err error) errorKind {
	switch {
	case errors.Is(err, ErrMissingLanguage), errors.Is(err, validation.ErrInvalidInput):
		return errorKind{codes.InvalidArgument, http.StatusBadRequest, "INVALID_REQUEST"}
	case errors.Is(err, validation.ErrTextTooLarge):
		return errorKind{codes.InvalidArgument, http.StatusRequestEntityTooLarge, "TEXT_TOO_LARGE"}
	case errors.Is(err, inspection.ErrUnconfiguredLanguage):
		return errorKind{codes.InvalidArgument, http.StatusBadRequest, "UNCONFIGURED_LANGUAGE"}
	case errors.Is(err, engine.ErrInvalidContent):
		return errorKind{codes.InvalidArgument, http.StatusBadRequest, "INVALID_CONTENT"}
	case errors.Is(err, ErrRateLimited):
		return errorKind{codes.ResourceExhausted, http.StatusTooManyRequests, "RATE_LIMITED"}
	case errors.Is(err, inspection.ErrEngineInitialization):
		return errorKind{codes.FailedPrecondition, http.StatusServiceUnavailable, "ENGINE_UNAVAILABLE"}
	case errors.Is(err, inspection.ErrDispatcherClosed):
		return errorKind{codes.Unavailable, http.StatusServiceUnavailable, "SHUTTING_DOWN"}
	case errors.Is(err, inspection.ErrCheckExecution):
		return errorKind{codes.Internal, http.StatusInternalServerError, "CHECK_FAILED"}
	default:
		return errorKind{codes.Internal, http.StatusInternalServerError, "INTERNAL"}
	}
}

// toStatus converts a request error to a gRPC status error. Errors that
// already carry a status pass through.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(classify(err).grpc, err.Error())
}
