// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

import (
	"context"

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// InstallHandler runs once when the host installs the plugin for the first time.
type InstallHandler interface {
	Install(ctx context.Context) error
}

// InstallFunc adapts a function to InstallHandler.
type InstallFunc func(ctx context.Context) error

// Install calls f(ctx).
func (f InstallFunc) Install(ctx context.Context) error { return f(ctx) }

// InitializeHandler runs every time the host loads the plugin. It is the
// place to register scheduled jobs, since a reload forgets them.
type InitializeHandler interface {
	Initialize(ctx context.Context) error
}

// InitializeFunc adapts a function to InitializeHandler.
type InitializeFunc func(ctx context.Context) error

// Initialize calls f(ctx).
func (f InitializeFunc) Initialize(ctx context.Context) error { return f(ctx) }

// MessageHandler receives chat messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message wire.Message) error
}

// MessageFunc adapts a function to MessageHandler.
type MessageFunc func(ctx context.Context, message wire.Message) error

// HandleMessage calls f(ctx, message).
func (f MessageFunc) HandleMessage(ctx context.Context, message wire.Message) error {
	return f(ctx, message)
}

// ChatCommandHandler receives invocations of the plugin's chat command.
type ChatCommandHandler interface {
	HandleChatCommand(ctx context.Context, command wire.CommandContext, message wire.Message) error
}

// ChatCommandFunc adapts a function to ChatCommandHandler.
type ChatCommandFunc func(ctx context.Context, command wire.CommandContext, message wire.Message) error

// HandleChatCommand calls f(ctx, command, message).
func (f ChatCommandFunc) HandleChatCommand(ctx context.Context, command wire.CommandContext, message wire.Message) error {
	return f(ctx, command, message)
}

// Job is a scheduled callback registered with Cron or OneShot.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }
