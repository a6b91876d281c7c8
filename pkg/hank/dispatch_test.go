// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankhq/hank-pdk-go/pkg/errutil"
	"github.com/hankhq/hank-pdk-go/pkg/hank"
	"github.com/hankhq/hank-pdk-go/pkg/hank/hanktest"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

func newPlugin() *hank.Plugin {
	return hank.New(wire.Metadata{Name: "echo", Version: "1.0.0"})
}

func TestPlugin_HandlerGettersNilWhenUnset(t *testing.T) {
	p := newPlugin()

	assert.Nil(t, p.InstallHandler())
	assert.Nil(t, p.InitializeHandler())
	assert.Nil(t, p.MessageHandler())
	assert.Nil(t, p.ChatCommandHandler())
}

func TestPlugin_RegistrationLastWriteWins(t *testing.T) {
	var first, second int
	p := newPlugin()
	p.OnMessage(hank.MessageFunc(func(context.Context, wire.Message) error {
		first++
		return nil
	}))
	p.OnMessage(hank.MessageFunc(func(context.Context, wire.Message) error {
		second++
		return nil
	}))
	host := hanktest.Start(t, p)

	_, err := host.Deliver(context.Background(), hank.EntryHandleMessage, wire.Message{Content: "hi"})
	require.NoError(t, err)

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestPlugin_SettersPanicAfterStart(t *testing.T) {
	p := newPlugin()
	hanktest.Start(t, p)

	assert.Panics(t, func() { p.OnInstall(hank.InstallFunc(func(context.Context) error { return nil })) })
	assert.Panics(t, func() { p.OnInitialize(hank.InitializeFunc(func(context.Context) error { return nil })) })
	assert.Panics(t, func() { p.OnMessage(hank.MessageFunc(func(context.Context, wire.Message) error { return nil })) })
	assert.Panics(t, func() {
		p.OnChatCommand(hank.ChatCommandFunc(func(context.Context, wire.CommandContext, wire.Message) error { return nil }))
	})
}

func TestStart_SecondStartFails(t *testing.T) {
	hanktest.Start(t, newPlugin())

	other := hank.New(wire.Metadata{Name: "other", Version: "2.0.0"})
	err := other.Start()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, hank.CodeAlreadyStarted)

	out, err := hank.Dispatch(context.Background(), hank.EntryGetMetadata, nil)
	require.NoError(t, err)
	var meta wire.Metadata
	require.NoError(t, wire.JSON.Unmarshal(out, &meta))
	assert.Equal(t, "echo", meta.Name, "first plugin stays installed")
}

func TestDispatch_BeforeStartPanics(t *testing.T) {
	hanktest.Reset()
	t.Cleanup(hanktest.Reset)

	for _, entry := range hank.EntryPoints() {
		t.Run(entry, func(t *testing.T) {
			assert.Panics(t, func() {
				_, _ = hank.Dispatch(context.Background(), entry, []byte("{}"))
			})
		})
	}
}

func TestDispatch_UnknownEntryPoint(t *testing.T) {
	hanktest.Start(t, newPlugin())

	_, err := hank.Dispatch(context.Background(), "handle_reaction", nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, hank.CodeUnknownEntryPoint)
	errutil.AssertErrorContext(t, err, "entry_point", "handle_reaction")
}

func TestDispatch_UnsetHooksAreNoOps(t *testing.T) {
	host := hanktest.Start(t, newPlugin())
	ctx := context.Background()

	tests := []struct {
		entry string
		input any
	}{
		{hank.EntryInstall, nil},
		{hank.EntryInitialize, nil},
		{hank.EntryHandleMessage, wire.Message{Content: "hi"}},
		{hank.EntryHandleChatCommand, wire.HandleChatCommandInput{
			Context: &wire.CommandContext{Name: "echo"},
			Message: &wire.Message{Content: "!echo"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			out, err := host.Deliver(ctx, tt.entry, tt.input)
			require.NoError(t, err)
			assert.JSONEq(t, `{}`, string(out))
		})
	}
	assert.Empty(t, host.Calls(""), "no-op hooks make no host calls")
}

func TestDispatch_GetMetadataReturnsCopy(t *testing.T) {
	key := "k"
	p := hank.New(wire.Metadata{
		Name:          "echo",
		Version:       "1.0.0",
		EscalationKey: &key,
		Aliases:       []string{"e"},
	})
	hanktest.Start(t, p)

	out, err := hank.Dispatch(context.Background(), hank.EntryGetMetadata, nil)
	require.NoError(t, err)
	var meta wire.Metadata
	require.NoError(t, wire.JSON.Unmarshal(out, &meta))
	assert.Equal(t, p.Metadata(), meta)

	got := p.Metadata()
	got.Aliases[0] = "changed"
	assert.Equal(t, "e", p.Metadata().Aliases[0])
}

func TestDispatch_InvokesRegisteredHooks(t *testing.T) {
	var calls []string
	p := newPlugin()
	p.OnInstall(hank.InstallFunc(func(context.Context) error {
		calls = append(calls, "install")
		return nil
	}))
	p.OnInitialize(hank.InitializeFunc(func(context.Context) error {
		calls = append(calls, "initialize")
		return nil
	}))
	p.OnMessage(hank.MessageFunc(func(_ context.Context, m wire.Message) error {
		calls = append(calls, "message:"+m.Content)
		return nil
	}))
	p.OnChatCommand(hank.ChatCommandFunc(func(_ context.Context, c wire.CommandContext, m wire.Message) error {
		arg, _ := c.Argument("text")
		calls = append(calls, "command:"+c.Name+":"+arg+":"+m.Content)
		return nil
	}))
	host := hanktest.Start(t, p)
	ctx := context.Background()

	_, err := host.Deliver(ctx, hank.EntryInstall, nil)
	require.NoError(t, err)
	_, err = host.Deliver(ctx, hank.EntryInitialize, nil)
	require.NoError(t, err)
	_, err = host.Deliver(ctx, hank.EntryHandleMessage, wire.Message{Content: "hello"})
	require.NoError(t, err)
	_, err = host.Deliver(ctx, hank.EntryHandleChatCommand, wire.HandleChatCommandInput{
		Context: &wire.CommandContext{
			Name:      "echo",
			Arguments: []wire.ArgumentValue{{Name: "text", Value: "loud"}},
		},
		Message: &wire.Message{Content: "!echo loud"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"install",
		"initialize",
		"message:hello",
		"command:echo:loud:!echo loud",
	}, calls)
}

var errBoom = errors.New("boom")

func TestDispatch_HookErrorFailsCall(t *testing.T) {
	p := newPlugin()
	p.OnMessage(hank.MessageFunc(func(context.Context, wire.Message) error {
		return errBoom
	}))
	host := hanktest.Start(t, p)

	out, err := host.Deliver(context.Background(), hank.EntryHandleMessage, wire.Message{Content: "hi"})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, errBoom)
	errutil.AssertErrorCode(t, err, hank.CodeHandlerFailed)
	errutil.AssertErrorContext(t, err, "entry_point", hank.EntryHandleMessage)
}

func TestDispatch_MalformedInput(t *testing.T) {
	hanktest.Start(t, newPlugin())

	_, err := hank.Dispatch(context.Background(), hank.EntryHandleMessage, []byte(`{"content":`))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, hank.CodeDecodeFailed)
	errutil.AssertErrorContext(t, err, "codec", "json")
}

func TestDispatch_ChatCommandMissingFieldsPanics(t *testing.T) {
	host := hanktest.Start(t, newPlugin())
	ctx := context.Background()

	assert.Panics(t, func() {
		_, _ = host.Deliver(ctx, hank.EntryHandleChatCommand, wire.HandleChatCommandInput{
			Message: &wire.Message{Content: "!echo"},
		})
	}, "missing context")
	assert.Panics(t, func() {
		_, _ = host.Deliver(ctx, hank.EntryHandleChatCommand, wire.HandleChatCommandInput{
			Context: &wire.CommandContext{Name: "echo"},
		})
	}, "missing message")
}

func TestDispatch_ReaderBlocksWhileStateIsWritten(t *testing.T) {
	hanktest.Start(t, newPlugin())

	unlock := hank.LockStateForTest()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = hank.Dispatch(context.Background(), hank.EntryGetMetadata, nil)
	}()

	select {
	case <-done:
		unlock()
		t.Fatal("get_metadata completed while the state was write-locked")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("get_metadata did not complete after the write lock was released")
	}
}

func TestEntryPoints(t *testing.T) {
	assert.Equal(t, []string{
		"get_metadata",
		"handle_chat_command",
		"handle_message",
		"handle_scheduled_job",
		"initialize",
		"install",
	}, hank.EntryPoints())
}

// The end-to-end example: an echo plugin answers "hi" with "hi!".
func TestEchoPlugin_EndToEnd(t *testing.T) {
	p := hank.New(wire.Metadata{Name: "echo", Version: "1.0.0"})
	p.OnMessage(hank.MessageFunc(func(ctx context.Context, m wire.Message) error {
		return hank.SendMessage(ctx, wire.Message{Content: m.Content + "!"})
	}))
	host := hanktest.Start(t, p)

	out, err := host.Deliver(context.Background(), hank.EntryHandleMessage, wire.Message{Content: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))

	sent := host.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, wire.Message{Content: "hi!"}, sent[0])
	assert.Len(t, host.Calls(""), 1, "exactly one outbound call")
}

func TestReady(t *testing.T) {
	hanktest.Reset()
	t.Cleanup(hanktest.Reset)
	assert.False(t, hank.Ready())

	require.NoError(t, newPlugin().Start())
	assert.False(t, hank.Ready(), "started without a host")

	hank.SetHost(hanktest.NewHost(nil))
	assert.True(t, hank.Ready())

	hank.SetHost(nil)
	assert.False(t, hank.Ready())
}
