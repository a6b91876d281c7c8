// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package goplugin

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Both directions carry codec bytes in a BytesValue frame. The entry point
// or host function name travels in request metadata.
const (
	GuestServiceName = "hank.guest.v1.Guest"
	HostServiceName  = "hank.host.v1.Host"

	GuestCallMethod = "/" + GuestServiceName + "/Call"
	HostCallMethod  = "/" + HostServiceName + "/Call"

	// Metadata keys.
	mdEntryPoint = "hank-entry-point"
	mdFunction   = "hank-function"
	mdHostBroker = "hank-host-broker"
)

// GuestServer is served by the plugin process.
type GuestServer interface {
	Call(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// HostServer is served by the host process over the go-plugin broker.
type HostServer interface {
	Call(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

var guestServiceDesc = grpc.ServiceDesc{
	ServiceName: GuestServiceName,
	HandlerType: (*GuestServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: guestCallHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hank/guest/v1/guest.proto",
}

var hostServiceDesc = grpc.ServiceDesc{
	ServiceName: HostServiceName,
	HandlerType: (*HostServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: hostCallHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hank/host/v1/host.proto",
}

// RegisterGuestServer registers srv with s.
func RegisterGuestServer(s grpc.ServiceRegistrar, srv GuestServer) {
	s.RegisterService(&guestServiceDesc, srv)
}

// RegisterHostServer registers srv with s.
func RegisterHostServer(s grpc.ServiceRegistrar, srv HostServer) {
	s.RegisterService(&hostServiceDesc, srv)
}

func guestCallHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GuestServer).Call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GuestCallMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GuestServer).Call(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func hostCallHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HostServer).Call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: HostCallMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HostServer).Call(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}
