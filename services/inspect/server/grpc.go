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
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewGRPCServer creates a gRPC server exposing the inspection service and
// the standard health service.
//
// Description:
//
//	Interceptor order, outermost first: request id, logging and status
//	mapping, rate limiting. Tracing runs as a stats handler.
//
// Outputs:
//
//	*grpc.Server - Ready to Serve.
//	*health.Server - Serving status for "", ServiceName and
//	                 ServiceName/<language> per configured language.
//	                 Shutdown flips every entry to NOT_SERVING.
func NewGRPCServer(svc *Service, limiter *rate.Limiter) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			requestIDInterceptor,
			loggingInterceptor,
			rateLimitInterceptor(limiter),
		),
	)
	s.RegisterService(&ServiceDesc, svc)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	for _, lang := range svc.Languages() {
		hs.SetServingStatus(ServiceName+"/"+lang, healthpb.HealthCheckResponse_SERVING)
	}
	healthpb.RegisterHealthServer(s, hs)
	return s, hs
}
