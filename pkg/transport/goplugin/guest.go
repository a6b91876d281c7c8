// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package goplugin

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/samber/oops"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/hankhq/hank-pdk-go/pkg/errutil"
	"github.com/hankhq/hank-pdk-go/pkg/hank"
)

// brokerDialer is the part of *plugin.GRPCBroker the guest uses.
type brokerDialer interface {
	Dial(id uint32) (*grpc.ClientConn, error)
}

// guestServer adapts hank.Dispatch to GuestServer. The first call that
// names a host broker id dials it and binds the result as the plugin's
// host.
type guestServer struct {
	broker brokerDialer
	logger *slog.Logger

	mu    sync.Mutex
	bound uint32
	conn  *grpc.ClientConn
}

func newGuestServer(broker brokerDialer, logger *slog.Logger) *guestServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &guestServer{broker: broker, logger: logger}
}

// Call implements GuestServer.
func (g *guestServer) Call(ctx context.Context, in *wrapperspb.BytesValue) (out *wrapperspb.BytesValue, err error) {
	md, _ := metadata.FromIncomingContext(ctx)
	entry := first(md, mdEntryPoint)
	if entry == "" {
		return nil, status.Error(codes.InvalidArgument, "missing "+mdEntryPoint+" metadata")
	}

	if id := first(md, mdHostBroker); id != "" {
		if err := g.bindHost(id); err != nil {
			return nil, status.Error(codes.Unavailable, err.Error())
		}
	}

	// The dispatcher panics on contract violations; the process must keep
	// serving, so they become Internal errors here.
	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorContext(ctx, "entry point panicked", "entry_point", entry, "panic", r)
			out, err = nil, status.Errorf(codes.Internal, "%s panicked: %v", entry, r)
		}
	}()

	resp, err := hank.Dispatch(ctx, entry, in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(resp), nil
}

func (g *guestServer) bindHost(raw string) error {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return oops.Code("HOST_BROKER_INVALID").With("broker_id", raw).Wrapf(err, "parsing host broker id")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn != nil && g.bound == uint32(id) {
		return nil
	}

	conn, err := g.broker.Dial(uint32(id))
	if err != nil {
		return oops.Code("HOST_BROKER_DIAL_FAILED").With("broker_id", id).Wrapf(err, "dialing host broker")
	}
	if g.conn != nil {
		_ = g.conn.Close()
	}
	g.conn, g.bound = conn, uint32(id)
	hank.SetHost(&hostClient{conn: conn})
	g.logger.Debug("host bound", "broker_id", id)
	return nil
}

func (g *guestServer) close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn == nil {
		return nil
	}
	err := g.conn.Close()
	g.conn = nil
	if err != nil {
		return oops.Wrapf(err, "closing host connection")
	}
	return nil
}

// hostClient is the guest's hank.Host over the broker connection.
type hostClient struct {
	conn grpc.ClientConnInterface
}

// Call implements hank.Host.
func (c *hostClient) Call(ctx context.Context, function string, input []byte) ([]byte, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, mdFunction, function)
	out := new(wrapperspb.BytesValue)
	if err := c.conn.Invoke(ctx, HostCallMethod, wrapperspb.Bytes(input), out); err != nil {
		return nil, oops.With("function", function).Wrapf(err, "invoking host")
	}
	return out.GetValue(), nil
}

// toStatus maps dispatcher errors onto gRPC status codes. Anything other
// than a bad entry point or undecodable input is a failed hook.
func toStatus(err error) error {
	code := codes.Aborted
	switch {
	case errutil.HasCode(err, hank.CodeUnknownEntryPoint):
		code = codes.Unimplemented
	case errutil.HasCode(err, hank.CodeDecodeFailed):
		code = codes.InvalidArgument
	}
	return status.Error(code, err.Error())
}

func first(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}
