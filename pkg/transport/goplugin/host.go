// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package goplugin

import (
	"context"
	"os/exec"
	"strconv"
	"sync"

	hashiplug "github.com/hashicorp/go-plugin"
	"github.com/samber/oops"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/hankhq/hank-pdk-go/pkg/hank"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// brokerServer is the part of *plugin.GRPCBroker the host uses.
type brokerServer interface {
	NextId() uint32 //nolint:revive // go-plugin's spelling
	AcceptAndServe(id uint32, newServer func([]grpc.ServerOption) *grpc.Server)
}

// GuestClient is the host's handle on a plugin process: it invokes entry
// points and serves the host functions the plugin calls back into.
type GuestClient struct {
	conn   grpc.ClientConnInterface
	broker brokerServer
	codec  wire.Codec

	mu       sync.Mutex
	brokerID uint32
	serving  bool
}

// NewGuestClient wraps a connection to a plugin's guest service.
func NewGuestClient(conn grpc.ClientConnInterface, broker brokerServer) *GuestClient {
	return &GuestClient{conn: conn, broker: broker, codec: wire.JSON}
}

// ServeHost starts serving h to the plugin through the broker. Every later
// Call tells the plugin where to find it. Serving twice is a no-op.
func (c *GuestClient) ServeHost(h hank.Host) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.serving {
		return
	}
	c.brokerID = c.broker.NextId()
	c.serving = true
	go c.broker.AcceptAndServe(c.brokerID, func(opts []grpc.ServerOption) *grpc.Server {
		s := grpc.NewServer(opts...)
		RegisterHostServer(s, &hostServer{host: h})
		return s
	})
}

// Call invokes an entry point in the plugin and returns its encoded reply.
func (c *GuestClient) Call(ctx context.Context, entryPoint string, input []byte) ([]byte, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, mdEntryPoint, entryPoint)

	c.mu.Lock()
	if c.serving {
		ctx = metadata.AppendToOutgoingContext(ctx, mdHostBroker, strconv.FormatUint(uint64(c.brokerID), 10))
	}
	c.mu.Unlock()

	out := new(wrapperspb.BytesValue)
	if err := c.conn.Invoke(ctx, GuestCallMethod, wrapperspb.Bytes(input), out); err != nil {
		return nil, oops.Code("GUEST_CALL_FAILED").With("entry_point", entryPoint).Wrapf(err, "calling %s", entryPoint)
	}
	return out.GetValue(), nil
}

// Metadata calls get_metadata and decodes the reply.
func (c *GuestClient) Metadata(ctx context.Context) (wire.Metadata, error) {
	raw, err := c.Call(ctx, hank.EntryGetMetadata, nil)
	if err != nil {
		return wire.Metadata{}, err
	}
	var meta wire.Metadata
	if err := c.codec.Unmarshal(raw, &meta); err != nil {
		return wire.Metadata{}, oops.Code(hank.CodeDecodeFailed).With("entry_point", hank.EntryGetMetadata).Wrap(err)
	}
	return meta, nil
}

// hostServer adapts a hank.Host to HostServer.
type hostServer struct {
	host hank.Host
}

// Call implements HostServer.
func (s *hostServer) Call(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	fn := first(md, mdFunction)
	if fn == "" {
		return nil, status.Error(codes.InvalidArgument, "missing "+mdFunction+" metadata")
	}
	out, err := s.host.Call(ctx, fn, in.GetValue())
	if err != nil {
		return nil, status.Error(codes.Unknown, err.Error())
	}
	return wrapperspb.Bytes(out), nil
}

// Launch starts the plugin executable at path, connects to it and serves h
// as its host. The returned kill func stops the process.
func Launch(path string, h hank.Host) (*GuestClient, func(), error) {
	client := hashiplug.NewClient(&hashiplug.ClientConfig{
		HandshakeConfig:  HandshakeConfig,
		Plugins:          PluginMap,
		Cmd:              exec.Command(path), // #nosec G204 -- path is chosen by the operator
		AllowedProtocols: []hashiplug.Protocol{hashiplug.ProtocolGRPC},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, nil, oops.Code("PLUGIN_LAUNCH_FAILED").With("path", path).Wrapf(err, "connecting to plugin")
	}

	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		client.Kill()
		return nil, nil, oops.Code("PLUGIN_LAUNCH_FAILED").With("path", path).Wrapf(err, "dispensing plugin")
	}

	guest, ok := raw.(*GuestClient)
	if !ok {
		client.Kill()
		return nil, nil, oops.Code("PLUGIN_LAUNCH_FAILED").With("path", path).Errorf("plugin does not serve %s", GuestServiceName)
	}

	if h != nil {
		guest.ServeHost(h)
	}
	return guest, client.Kill, nil
}
