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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

// Handlers serves the HTTP gateway.
type Handlers struct {
	svc *Service
}

// NewHandlers creates the gateway handlers.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// NewRouter builds the gateway router.
//
// Endpoints:
//
//	POST /v1/inspect - Inspect a document
//	GET  /v1/languages - Configured languages
//	GET  /v1/languages/:language/checks - Available checks
//	GET  /v1/health - Health check
//	GET  /metrics - Prometheus metrics (when metrics is non-nil)
func NewRouter(svc *Service, limiter *rate.Limiter, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("inspect-gateway"))
	router.Use(requestIDMiddleware())

	h := NewHandlers(svc)
	v1 := router.Group("/v1")
	{
		v1.POST("/inspect", rateLimitMiddleware(limiter), h.HandleInspect)
		v1.GET("/languages", h.HandleLanguages)
		v1.GET("/languages/:language/checks", h.HandleChecks)
		v1.GET("/health", h.HandleHealth)
	}
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	return router
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(withRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func rateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			writeError(c, ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

// HandleInspect handles POST /v1/inspect.
func (h *Handlers) HandleInspect(c *gin.Context) {
	requestID := RequestIDFromContext(c.Request.Context())
	logger := slog.With("request_id", requestID, "handler", "HandleInspect")

	var req InspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request body",
			Code:      "INVALID_REQUEST",
			RequestID: requestID,
		})
		return
	}

	resp, err := h.svc.Inspect(c.Request.Context(), &req)
	if err != nil {
		logger.Warn("inspection failed", "language", req.Language, "error", err)
		writeError(c, err)
		return
	}
	logger.Info("inspection complete", "language", req.Language, "problems", len(resp.Problems))
	c.JSON(http.StatusOK, resp)
}

// HandleLanguages handles GET /v1/languages.
func (h *Handlers) HandleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, LanguagesResponse{Languages: h.svc.Languages()})
}

// HandleChecks handles GET /v1/languages/:language/checks.
func (h *Handlers) HandleChecks(c *gin.Context) {
	resp, err := h.svc.ListChecks(c.Request.Context(), &ListChecksRequest{Language: c.Param("language")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /v1/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.svc.version,
		Languages: h.svc.Languages(),
	})
}

func writeError(c *gin.Context, err error) {
	kind := classify(err)
	c.JSON(kind.http, ErrorResponse{
		Error:     err.Error(),
		Code:      kind.code,
		RequestID: RequestIDFromContext(c.Request.Context()),
	})
}
