// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankhq/hank-pdk-go/pkg/hank"
	"github.com/hankhq/hank-pdk-go/pkg/hank/hanktest"
	"github.com/hankhq/hank-pdk-go/pkg/metadata"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

func TestPluginMetadata_IsValid(t *testing.T) {
	meta := pluginMetadata()
	require.NoError(t, metadata.Validate(meta))
	assert.True(t, meta.HandlesMessages)
	assert.True(t, meta.HandlesCommands)
	assert.False(t, meta.Database)
}

func TestGreet(t *testing.T) {
	channel := &wire.Channel{ID: "c1"}
	tests := []struct {
		name    string
		content string
		want    []wire.Message
	}{
		{name: "greeting", content: "hi", want: []wire.Message{{Content: "hi!", Channel: channel}}},
		{name: "any case", content: "Hi", want: []wire.Message{{Content: "Hi!", Channel: channel}}},
		{name: "own reply", content: "hi!"},
		{name: "other text", content: "hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := hanktest.Start(t, newPlugin())

			_, err := host.Deliver(context.Background(), hank.EntryHandleMessage, wire.Message{
				Content: tt.content,
				Channel: channel,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, host.SentMessages())
		})
	}
}

func TestEchoCommand(t *testing.T) {
	host := hanktest.Start(t, newPlugin())
	ctx := context.Background()

	_, err := host.Deliver(ctx, hank.EntryHandleChatCommand, wire.HandleChatCommandInput{
		Context: &wire.CommandContext{
			Name:      "echo",
			Arguments: []wire.ArgumentValue{{Name: "text", Value: "hello world"}},
		},
		Message: &wire.Message{ID: "m1", Content: "!echo hello world"},
	})
	require.NoError(t, err)

	sent := host.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello world", sent[0].Content)
}

func TestEchoCommand_MissingTextReacts(t *testing.T) {
	host := hanktest.Start(t, newPlugin())

	_, err := host.Deliver(context.Background(), hank.EntryHandleChatCommand, wire.HandleChatCommandInput{
		Context: &wire.CommandContext{Name: "echo"},
		Message: &wire.Message{ID: "m2", Content: "!echo"},
	})
	require.NoError(t, err)

	assert.Empty(t, host.SentMessages())
	reactions := host.Reactions()
	require.Len(t, reactions, 1)
	assert.Equal(t, "m2", reactions[0].Message.ID)
}
