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
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("aleutian.inspect")
	meter  = otel.Meter("aleutian.inspect")
)

var (
	dispatchWait     metric.Float64Histogram
	dispatchRun      metric.Float64Histogram
	inspectTotal     metric.Int64Counter
	inspectLatency   metric.Float64Histogram
	diagnosticsTotal metric.Int64Counter
	suppressedTotal  metric.Int64Counter
	checkFailures    metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		dispatchWait, err = meter.Float64Histogram(
			"inspect_dispatch_wait_seconds",
			metric.WithDescription("Time a unit of work spent queued before running"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		dispatchRun, err = meter.Float64Histogram(
			"inspect_dispatch_run_seconds",
			metric.WithDescription("Time a unit of work spent running on the worker"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		inspectTotal, err = meter.Int64Counter(
			"inspect_requests_total",
			metric.WithDescription("Total number of inspection requests"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		inspectLatency, err = meter.Float64Histogram(
			"inspect_request_duration_seconds",
			metric.WithDescription("End-to-end duration of inspection requests"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		diagnosticsTotal, err = meter.Int64Counter(
			"inspect_diagnostics_total",
			metric.WithDescription("Diagnostics returned to callers"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		suppressedTotal, err = meter.Int64Counter(
			"inspect_diagnostics_suppressed_total",
			metric.WithDescription("Diagnostics dropped by disabled-message rules"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		checkFailures, err = meter.Int64Counter(
			"inspect_check_failures_total",
			metric.WithDescription("Checks or annotators that failed while running"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordDispatchMetrics(ctx context.Context, wait, run time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}
	dispatchWait.Record(ctx, wait.Seconds())
	dispatchRun.Record(ctx, run.Seconds())
}

func recordInspectMetrics(ctx context.Context, language string, duration time.Duration, returned, suppressed int, err error) {
	if err := initMetrics(); err != nil {
		return
	}
	lang := attribute.String("language", language)
	inspectTotal.Add(ctx, 1, metric.WithAttributes(lang, attribute.Bool("success", err == nil)))
	inspectLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(lang))
	if err != nil {
		return
	}
	diagnosticsTotal.Add(ctx, int64(returned), metric.WithAttributes(lang))
	if suppressed > 0 {
		suppressedTotal.Add(ctx, int64(suppressed), metric.WithAttributes(lang))
	}
}

func recordCheckFailure(ctx context.Context, language, checkID string) {
	if err := initMetrics(); err != nil {
		return
	}
	checkFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("language", language),
		attribute.String("check", checkID),
	))
}

// startInspectSpan creates the request span. Caller must End it.
func startInspectSpan(ctx context.Context, language string, size int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Inspector.Inspect",
		trace.WithAttributes(
			attribute.String("inspect.language", language),
			attribute.Int("inspect.content_size", size),
		),
	)
}

// startCheckSpan creates a span for one check or annotator. Caller must End it.
func startCheckSpan(ctx context.Context, language, checkID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "inspect.check",
		trace.WithAttributes(
			attribute.String("inspect.language", language),
			attribute.String("inspect.check", checkID),
		),
	)
}

func setSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
