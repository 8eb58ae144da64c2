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
	"strings"

	"google.golang.org/grpc"

	"github.com/AleutianAI/AleutianInspect/pkg/validation"
	"github.com/AleutianAI/AleutianInspect/services/inspect/inspection"
)

// Fully-qualified names of the inspection service.
const (
	ServiceName       = "inspect.v1.CodeInspectionService"
	InspectMethod     = "/" + ServiceName + "/Inspect"
	ListChecksMethod  = "/" + ServiceName + "/ListChecks"
	serviceDescSource = "inspect/v1/inspect.msgpack"
)

// InspectionServer is the server API of the inspection service.
type InspectionServer interface {
	Inspect(ctx context.Context, req *InspectRequest) (*InspectResponse, error)
	ListChecks(ctx context.Context, req *ListChecksRequest) (*ListChecksResponse, error)
}

// Inspector is the coordinator API the transports call.
type Inspector interface {
	Inspect(ctx context.Context, language, text string) (*inspection.Result, error)
	AvailableChecks(language string) ([]inspection.CheckDescriptor, error)
	Languages() []string
}

// Service adapts an Inspector to both transports.
//
// Thread Safety: Safe for concurrent use.
type Service struct {
	inspector Inspector
	version   string
}

// NewService creates a Service.
func NewService(insp Inspector, version string) *Service {
	return &Service{inspector: insp, version: version}
}

// Inspect implements InspectionServer. Errors are plain Go errors; the
// transports map them to status codes.
func (s *Service) Inspect(ctx context.Context, req *InspectRequest) (*InspectResponse, error) {
	if err := validateLanguage(req.Language); err != nil {
		return nil, err
	}
	if err := validation.ValidateText(req.Text); err != nil {
		return nil, err
	}
	res, err := s.inspector.Inspect(ctx, req.Language, req.Text)
	if err != nil {
		return nil, err
	}
	return toResponse(res), nil
}

// ListChecks implements InspectionServer.
func (s *Service) ListChecks(_ context.Context, req *ListChecksRequest) (*ListChecksResponse, error) {
	if err := validateLanguage(req.Language); err != nil {
		return nil, err
	}
	descs, err := s.inspector.AvailableChecks(req.Language)
	if err != nil {
		return nil, err
	}
	return toChecks(req.Language, descs), nil
}

func validateLanguage(language string) error {
	if strings.TrimSpace(language) == "" {
		return ErrMissingLanguage
	}
	return validation.ValidateLanguageID(language)
}

// Languages returns the configured languages.
func (s *Service) Languages() []string {
	return s.inspector.Languages()
}

var _ InspectionServer = (*Service)(nil)

// ServiceDesc describes the inspection service for grpc.Server.RegisterService.
// Messages travel with the msgpack codec.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InspectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Inspect", Handler: inspectHandler},
		{MethodName: "ListChecks", Handler: listChecksHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: serviceDescSource,
}

func inspectHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InspectRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectionServer).Inspect(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InspectMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectionServer).Inspect(ctx, req.(*InspectRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listChecksHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListChecksRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectionServer).ListChecks(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListChecksMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectionServer).ListChecks(ctx, req.(*ListChecksRequest))
	}
	return interceptor(ctx, in, info, handler)
}
