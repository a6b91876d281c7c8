// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package hank is the plugin-side runtime for Hank chat bot plugins.
//
// A plugin builds a Plugin from its metadata, registers lifecycle hooks and
// calls Start once. The host then drives the plugin through entry points
// (served by Dispatch, usually via a transport package) and the plugin asks
// the host for privileged work through the package-level host functions:
// SendMessage, React, DBQuery, DBFetch, Cron, OneShot, ReloadPlugin,
// UnloadPlugin, LoadPlugin and SendInstruction.
//
// Example usage:
//
//	func init() {
//		p := hank.New(metadata.PluginMetadata{
//			Name:            "echo",
//			Version:         "1.0.0",
//			HandlesMessages: true,
//		}.Build())
//
//		p.OnMessage(hank.MessageFunc(func(ctx context.Context, m wire.Message) error {
//			return hank.SendMessage(ctx, wire.Message{Content: m.Content + "!"})
//		}))
//
//		if err := p.Start(); err != nil {
//			panic(err)
//		}
//	}
//
// # Lifecycle
//
// The module holds exactly one started Plugin. Calling an entry point before
// Start, or a host function before a transport has bound a Host, panics:
// the host and the plugin disagree about the load order and the call cannot
// succeed.
//
// Scheduled jobs live in memory. The host replays a job by id; ids it
// replays after a reload are unknown and ignored, so plugins register their
// jobs from the initialize hook.
package hank
