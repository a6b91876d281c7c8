// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package main implements the echo plugin for Hank. It answers "hi" with
// "hi!" and repeats the text given to its echo command.
//
// Build the native plugin:
//
//	go build -o echo ./plugins/echo
//
// Build the WebAssembly plugin:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o echo.wasm ./plugins/echo
package main

import (
	"context"
	"strings"

	"github.com/hankhq/hank-pdk-go/pkg/hank"
	"github.com/hankhq/hank-pdk-go/pkg/metadata"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

var version = "1.0.0"

func pluginMetadata() wire.Metadata {
	return metadata.PluginMetadata{
		Name:            "echo",
		Description:     "Repeats what you say",
		Version:         version,
		Author:          "Hank PDK Contributors",
		HandlesMessages: true,
		HandlesCommands: true,
		CommandName:     "echo",
		Aliases:         []string{"say"},
		Arguments:       []wire.Argument{{Name: "text", Description: "What to repeat", Required: true}},
	}.Build()
}

func newPlugin() *hank.Plugin {
	p := hank.New(pluginMetadata())
	p.OnMessage(hank.MessageFunc(greet))
	p.OnChatCommand(hank.ChatCommandFunc(echo))
	return p
}

// greet answers a bare greeting. Anything else is ignored so the plugin never
// answers its own replies.
func greet(ctx context.Context, m wire.Message) error {
	if !strings.EqualFold(strings.TrimSpace(m.Content), "hi") {
		return nil
	}
	return hank.SendMessage(ctx, wire.Message{Content: m.Content + "!", Channel: m.Channel})
}

func echo(ctx context.Context, c wire.CommandContext, m wire.Message) error {
	text, ok := c.Argument("text")
	if !ok || strings.TrimSpace(text) == "" {
		return hank.React(ctx, wire.Reaction{Emoji: "❓", Message: &m})
	}
	return hank.SendMessage(ctx, wire.Message{Content: text, Channel: m.Channel})
}
