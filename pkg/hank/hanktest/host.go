// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package hanktest provides a recording fake host for testing Hank plugins.
//
// Example usage:
//
//	func TestEcho(t *testing.T) {
//		host := hanktest.Start(t, newEchoPlugin())
//
//		_, err := host.Deliver(ctx, hank.EntryHandleMessage, wire.Message{Content: "hi"})
//		require.NoError(t, err)
//
//		assert.Equal(t, "hi!", host.SentMessages()[0].Content)
//	}
package hanktest

import (
	"context"
	"database/sql"
	"sync"

	"github.com/samber/oops"
	"github.com/stretchr/testify/require"

	"github.com/hankhq/hank-pdk-go/pkg/hank"
	"github.com/hankhq/hank-pdk-go/pkg/hank/internal/testhook"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// Call is one recorded outbound call.
type Call struct {
	Function string
	Input    []byte
}

// Responder produces the host's answer to one call.
type Responder func(ctx context.Context, input []byte) ([]byte, error)

// Host is a hank.Host that records every call. By default every function
// answers with an empty (successful) response; db_query runs against the
// SQLite database when one is attached with UseSQLite.
//
// Host is safe for concurrent use.
type Host struct {
	codec wire.Codec

	mu         sync.Mutex
	calls      []Call
	responders map[string]Responder
	db         *sql.DB
}

// Compile-time interface check.
var _ hank.Host = (*Host)(nil)

// NewHost creates a fake host using codec (wire.JSON if nil).
func NewHost(codec wire.Codec) *Host {
	if codec == nil {
		codec = wire.JSON
	}
	return &Host{
		codec:      codec,
		responders: make(map[string]Responder),
	}
}

// TB is the part of testing.TB that Start needs. GinkgoT satisfies it too.
type TB interface {
	require.TestingT
	Helper()
	Cleanup(func())
}

// Start resets the process-wide plugin slot, binds a new fake host, starts p
// and registers cleanup with t.
func Start(t TB, p *hank.Plugin) *Host {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	host := NewHost(nil)
	hank.SetHost(host)
	require.NoError(t, p.Start())
	return host
}

// Reset empties the process-wide plugin slot and drops the host binding so
// the next test can start a plugin of its own.
func Reset() { testhook.Reset() }

// Call implements hank.Host.
func (h *Host) Call(ctx context.Context, function string, input []byte) ([]byte, error) {
	h.mu.Lock()
	h.calls = append(h.calls, Call{Function: function, Input: append([]byte(nil), input...)})
	respond, ok := h.responders[function]
	db := h.db
	h.mu.Unlock()

	if ok {
		return respond(ctx, input)
	}
	if function == hank.FuncDBQuery && db != nil {
		return h.query(ctx, db, input)
	}
	return nil, nil
}

// Respond makes every later call to function answer with resp, encoded
// with the host codec.
func (h *Host) Respond(function string, resp any) {
	h.RespondFunc(function, func(context.Context, []byte) ([]byte, error) {
		//nolint:wrapcheck // surfaced to the stub unchanged
		return h.codec.Marshal(resp)
	})
}

// RespondFunc installs a custom responder for function.
func (h *Host) RespondFunc(function string, respond Responder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responders[function] = respond
}

// Fail makes every later call to function fail at the transport level.
func (h *Host) Fail(function string, err error) {
	h.RespondFunc(function, func(context.Context, []byte) ([]byte, error) {
		return nil, err
	})
}

// Calls returns the recorded calls to function, or all calls if function is
// empty.
func (h *Host) Calls(function string) []Call {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []Call
	for _, c := range h.calls {
		if function == "" || c.Function == function {
			out = append(out, c)
		}
	}
	return out
}

// Deliver encodes input and invokes entryPoint the way a host would.
func (h *Host) Deliver(ctx context.Context, entryPoint string, input any) ([]byte, error) {
	var payload []byte
	if input != nil {
		var err error
		payload, err = h.codec.Marshal(input)
		if err != nil {
			return nil, oops.Code("ENCODE_FAILED").With("entry_point", entryPoint).Wrap(err)
		}
	}
	//nolint:wrapcheck // the test inspects the dispatcher's error as is
	return hank.Dispatch(ctx, entryPoint, payload)
}

// FireJob replays a scheduled job the plugin registered, as the host would
// when its timer fires.
func (h *Host) FireJob(ctx context.Context, jobID string) error {
	in := wire.ScheduledJobInput{}
	for _, c := range h.CronJobs() {
		if c.JobID == jobID {
			in.CronJob = &c
			break
		}
	}
	if in.CronJob == nil {
		in.OneShotJob = &wire.OneShotJob{JobID: jobID}
		for _, o := range h.OneShotJobs() {
			if o.JobID == jobID {
				in.OneShotJob.Duration = o.Duration
				break
			}
		}
	}
	_, err := h.Deliver(ctx, hank.EntryHandleScheduledJob, in)
	return err
}

// SentMessages decodes every send_message call.
func (h *Host) SentMessages() []wire.Message {
	var out []wire.Message
	for _, in := range decodeAll[wire.SendMessageInput](h, hank.FuncSendMessage) {
		if in.Message != nil {
			out = append(out, *in.Message)
		}
	}
	return out
}

// Reactions decodes every react call.
func (h *Host) Reactions() []wire.Reaction {
	var out []wire.Reaction
	for _, in := range decodeAll[wire.ReactInput](h, hank.FuncReact) {
		if in.Reaction != nil {
			out = append(out, *in.Reaction)
		}
	}
	return out
}

// CronJobs decodes every cron registration.
func (h *Host) CronJobs() []wire.CronJob {
	var out []wire.CronJob
	for _, in := range decodeAll[wire.CronInput](h, hank.FuncCron) {
		if in.CronJob != nil {
			out = append(out, *in.CronJob)
		}
	}
	return out
}

// OneShotJobs decodes every one-shot registration.
func (h *Host) OneShotJobs() []wire.OneShotJob {
	var out []wire.OneShotJob
	for _, in := range decodeAll[wire.OneShotInput](h, hank.FuncOneShot) {
		if in.OneShotJob != nil {
			out = append(out, *in.OneShotJob)
		}
	}
	return out
}

// decodeAll decodes the recorded inputs of function. Inputs that do not
// decode are skipped; the stubs under test produced them, so a failure here
// shows up as a missing call in the assertion.
func decodeAll[T any](h *Host, function string) []T {
	var out []T
	for _, c := range h.Calls(function) {
		var v T
		if err := h.codec.Unmarshal(c.Input, &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}
