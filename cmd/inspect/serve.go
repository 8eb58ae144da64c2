// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianInspect/services/inspect/server"
	"github.com/AleutianAI/AleutianInspect/services/inspect/telemetry"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the inspection server",
		Long: `Run the gRPC inspection service and, when --http-port is set, the HTTP gateway.

Every configured language gets one document session at startup; a language
that cannot be initialized stops the process. SIGINT or SIGTERM drains
in-flight requests before exit.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().Int("port", 8080, "gRPC listen port")
	cmd.Flags().Int("http-port", 0, "HTTP gateway port (0 disables the gateway)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := setupLogging(cfg, "inspect")
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.FromServerConfig(cfg.Telemetry, version))
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			slog.Warn("telemetry shutdown", slog.String("error", err.Error()))
		}
	}()

	insp, _, err := buildInspector(cfg, cfg.Languages)
	if err != nil {
		return err
	}
	defer func() {
		if err := insp.Close(context.Background()); err != nil {
			slog.Warn("inspector close", slog.String("error", err.Error()))
		}
	}()
	if err := insp.Start(ctx); err != nil {
		return err
	}

	slog.Info("starting inspection server",
		slog.String("version", version),
		slog.Int("port", cfg.Port),
		slog.Int("http_port", cfg.HTTPPort),
		slog.Any("languages", cfg.Languages),
		slog.String("failure_policy", cfg.FailurePolicy),
	)
	srv := server.New(server.NewService(insp, version), cfg, telemetry.MetricsHandler())
	if err := srv.Run(ctx); err != nil {
		return err
	}
	slog.Info("inspection server stopped")
	return nil
}
