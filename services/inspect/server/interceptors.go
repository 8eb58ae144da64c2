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
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
)

// RequestIDHeader carries the request id on both transports.
const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

// RequestIDFromContext returns the request id set by the transport, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// NewLimiter builds the inbound limiter. It returns nil, meaning
// unlimited, when RPS is 0. A zero burst becomes ceil(RPS).
func NewLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(math.Ceil(cfg.RPS))
	}
	return rate.NewLimiter(rate.Limit(cfg.RPS), burst)
}

// requestIDInterceptor takes the id from incoming metadata or mints one,
// and echoes it in the response header.
func requestIDInterceptor(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(RequestIDHeader); len(vals) > 0 {
			id = vals[0]
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))
	return handler(withRequestID(ctx, id), req)
}

// loggingInterceptor logs one line per call and maps errors to status
// codes.
func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	err = toStatus(err)

	attrs := []any{
		slog.String("request_id", RequestIDFromContext(ctx)),
		slog.String("method", info.FullMethod),
		slog.String("code", status.Code(err).String()),
		slog.Duration("duration", time.Since(start)),
	}
	if r, ok := req.(*InspectRequest); ok {
		attrs = append(attrs, slog.String("language", r.Language), slog.Int("text_bytes", len(r.Text)))
	}
	if err != nil {
		slog.Warn("grpc request failed", append(attrs, slog.String("error", err.Error()))...)
	} else {
		slog.Info("grpc request", attrs...)
	}
	return resp, err
}

// rateLimitInterceptor rejects calls beyond the limiter's rate before they
// reach the dispatcher queue.
func rateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if limiter != nil && !limiter.Allow() {
			return nil, ErrRateLimited
		}
		return handler(ctx, req)
	}
}
