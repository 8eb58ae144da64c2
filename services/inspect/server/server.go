// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes the inspection coordinator over gRPC (msgpack
// codec, service inspect.v1.CodeInspectionService) and an optional gin
// HTTP gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
)

// ShutdownTimeout bounds the HTTP gateway drain on shutdown.
const ShutdownTimeout = 10 * time.Second

// Server runs the gRPC service and the optional HTTP gateway.
type Server struct {
	cfg    *config.ServerConfig
	grpc   *grpc.Server
	health *health.Server
	http   *http.Server
}

// New wires both transports around svc. metrics may be nil.
func New(svc *Service, cfg *config.ServerConfig, metrics http.Handler) *Server {
	limiter := NewLimiter(cfg.RateLimit)
	gs, hs := NewGRPCServer(svc, limiter)
	s := &Server{cfg: cfg, grpc: gs, health: hs}
	if cfg.HTTPPort > 0 {
		s.http = &http.Server{
			Handler:           NewRouter(svc, limiter, metrics),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	return s
}

// Run listens on the configured ports and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	grpcLis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	var httpLis net.Listener
	if s.http != nil {
		httpLis, err = net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.HTTPPort))
		if err != nil {
			grpcLis.Close()
			return fmt.Errorf("listen http: %w", err)
		}
	}
	return s.Serve(ctx, grpcLis, httpLis)
}

// Serve serves on the given listeners until ctx is done or a transport
// fails, then drains both. httpLis is ignored when the gateway is off.
func (s *Server) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("grpc server listening", slog.String("addr", grpcLis.Addr().String()))
		if err := s.grpc.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	if s.http != nil && httpLis != nil {
		g.Go(func() error {
			slog.Info("http gateway listening", slog.String("addr", httpLis.Addr().String()))
			if err := s.http.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http serve: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	slog.Info("shutting down transports")
	s.health.Shutdown()

	var err error
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if herr := s.http.Shutdown(ctx); herr != nil {
			err = fmt.Errorf("http shutdown: %w", herr)
		}
	}
	s.grpc.GracefulStop()
	return err
}
