// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package goplugin runs a Hank plugin as a native process under HashiCorp
// go-plugin, talking gRPC to the host.
//
// Example usage:
//
//	func main() {
//		p := hank.New(metadata.PluginMetadata{Name: "echo", Version: "1.0.0"}.Build())
//		p.OnMessage(hank.MessageFunc(echo))
//		goplugin.Serve(&goplugin.ServeConfig{Plugin: p})
//	}
//
// The host dispenses PluginName and gets a *GuestClient. It serves its host
// functions with GuestClient.ServeHost; the broker id rides along with each
// entry-point call and the plugin dials it on first use.
package goplugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	hashiplug "github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"

	"github.com/hankhq/hank-pdk-go/internal/observability"
	"github.com/hankhq/hank-pdk-go/pkg/hank"
)

// PluginName is the name the plugin is dispensed under.
const PluginName = "hank"

// HandshakeConfig is the go-plugin handshake configuration.
// Both host and plugins must use the same values.
var HandshakeConfig = hashiplug.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "HANK_PLUGIN",
	MagicCookieValue: "hank-v1",
}

// PluginMap is the map of plugins a host can dispense.
var PluginMap = map[string]hashiplug.Plugin{
	PluginName: &grpcPlugin{},
}

// ServeConfig configures the plugin server.
type ServeConfig struct {
	// Plugin is the plugin to serve. Required; Serve will panic if nil.
	// Serve starts it.
	Plugin *hank.Plugin
	// Logger receives transport logs. Defaults to slog.Default().
	Logger *slog.Logger
	// MetricsAddr, when set, serves /metrics and health probes on this
	// address for the life of the process.
	MetricsAddr string
}

// Serve starts the plugin and serves it to the host. This should be called
// from main(). It blocks and never returns under normal operation.
func Serve(config *ServeConfig) {
	if config == nil {
		panic("goplugin: config cannot be nil")
	}
	if config.Plugin == nil {
		panic("goplugin: config.Plugin cannot be nil")
	}
	if err := config.Plugin.Start(); err != nil {
		panic(fmt.Sprintf("goplugin: starting plugin: %v", err))
	}
	if config.MetricsAddr != "" {
		if _, err := observability.NewServer(config.MetricsAddr, nil).Start(); err != nil {
			panic(fmt.Sprintf("goplugin: starting metrics server: %v", err))
		}
	}
	plugin := &grpcPlugin{logger: config.Logger}
	hashiplug.Serve(&hashiplug.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]hashiplug.Plugin{
			PluginName: plugin,
		},
		GRPCServer: hashiplug.DefaultGRPCServer,
	})
	// hashiplug.Serve returns once the host shuts the server down.
	if err := plugin.shutdown(); err != nil {
		plugin.log().Warn("closing host connection", "error", err)
	}
}

// grpcPlugin implements go-plugin's Plugin interface for gRPC.
type grpcPlugin struct {
	hashiplug.NetRPCUnsupportedPlugin
	logger *slog.Logger

	mu     sync.Mutex
	guests []*guestServer
}

// GRPCServer registers the guest service (called by plugin process).
func (p *grpcPlugin) GRPCServer(broker *hashiplug.GRPCBroker, s *grpc.Server) error {
	if broker == nil {
		return errors.New("goplugin: broker is nil")
	}
	p.serveGuest(s, broker)
	return nil
}

func (p *grpcPlugin) serveGuest(s grpc.ServiceRegistrar, broker brokerDialer) *guestServer {
	g := newGuestServer(broker, p.logger)
	p.mu.Lock()
	p.guests = append(p.guests, g)
	p.mu.Unlock()
	RegisterGuestServer(s, g)
	return g
}

// shutdown closes the host connection of every guest served so far.
func (p *grpcPlugin) shutdown() error {
	p.mu.Lock()
	guests := p.guests
	p.guests = nil
	p.mu.Unlock()

	var errs []error
	for _, g := range guests {
		if err := g.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *grpcPlugin) log() *slog.Logger {
	if p.logger == nil {
		return slog.Default()
	}
	return p.logger
}

// GRPCClient returns a guest client (called by host process).
func (p *grpcPlugin) GRPCClient(_ context.Context, broker *hashiplug.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return NewGuestClient(c, broker), nil
}
