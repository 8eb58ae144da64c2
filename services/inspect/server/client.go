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
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls a remote inspection service.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client for target ("host:port"). Extra options are
// appended after the defaults, so tests can swap the dialer.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}
	conn, err := grpc.NewClient(target, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

// Inspect submits a document for inspection.
func (c *Client) Inspect(ctx context.Context, language, text string) (*InspectResponse, error) {
	out := new(InspectResponse)
	if err := c.conn.Invoke(ctx, InspectMethod, &InspectRequest{Language: language, Text: text}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListChecks lists the checks that run for a language.
func (c *Client) ListChecks(ctx context.Context, language string) (*ListChecksResponse, error) {
	out := new(ListChecksResponse)
	if err := c.conn.Invoke(ctx, ListChecksMethod, &ListChecksRequest{Language: language}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Conn exposes the connection for auxiliary clients such as health checks.
func (c *Client) Conn() *grpc.ClientConn {
	return c.conn
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
