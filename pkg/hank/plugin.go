// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// Plugin is the state of a Hank plugin: its metadata, lifecycle hooks and
// scheduled jobs. Build one with New, register hooks, then call Start
// exactly once to hand it to the entry points.
type Plugin struct {
	metadata wire.Metadata
	handlers registry
	jobs     jobTable // guarded by the runtime lock once started
	codec    wire.Codec
	logger   *slog.Logger
	started  atomic.Bool
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger used by the dispatcher and the host stubs.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCodec sets the codec used for entry point and host call payloads.
// It must match the host's codec. Defaults to wire.JSON.
func WithCodec(codec wire.Codec) Option {
	return func(p *Plugin) {
		if codec != nil {
			p.codec = codec
		}
	}
}

// New creates a plugin reporting the given metadata. The metadata is copied
// and never changes afterwards.
func New(metadata wire.Metadata, opts ...Option) *Plugin {
	p := &Plugin{
		metadata: metadata.Clone(),
		jobs:     make(jobTable),
		codec:    wire.JSON,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("plugin", p.metadata.Name)
	return p
}

// Metadata returns a copy of the plugin metadata.
func (p *Plugin) Metadata() wire.Metadata {
	return p.metadata.Clone()
}

// Start installs p as the process-wide plugin. Every entry point the host
// calls afterwards is served by p. Start succeeds once per process; later
// calls return an ALREADY_STARTED error and leave the first plugin in place.
func (p *Plugin) Start() error {
	if err := std.install(p); err != nil {
		return err
	}
	p.logger.Info("plugin started",
		"version", p.metadata.Version,
		"handles_messages", p.handlers.message != nil,
		"handles_commands", p.handlers.chatCommand != nil)
	return nil
}

func (p *Plugin) mustBeUnstarted(op string) {
	if p.started.Load() {
		panic(fmt.Sprintf("hank: %s called after Start; register hooks before starting the plugin", op))
	}
}
