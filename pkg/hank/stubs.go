// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// Host function names.
const (
	FuncSendMessage  = "send_message"
	FuncReact        = "react"
	FuncDBQuery      = "db_query"
	FuncCron         = "cron"
	FuncOneShot      = "one_shot"
	FuncReloadPlugin = "reload_plugin"
	FuncUnloadPlugin = "unload_plugin"
	FuncLoadPlugin   = "load_plugin"
	FuncInstruction  = "instruction"
)

// HostFunctions returns the names of all host functions a plugin may call.
func HostFunctions() []string {
	return []string{
		FuncSendMessage, FuncReact, FuncDBQuery, FuncCron, FuncOneShot,
		FuncReloadPlugin, FuncUnloadPlugin, FuncLoadPlugin, FuncInstruction,
	}
}

// call encodes in, invokes the host function fn and decodes the reply into
// out. It blocks until the host answers.
func call[In, Out any](ctx context.Context, r *runtime, fn string, in In, out *Out) (err error) {
	p, _ := r.installed(fn)
	host := r.boundHost(fn)

	ctx, span := tracer.Start(ctx, "hank.host."+fn,
		trace.WithAttributes(attribute.String("plugin.name", p.metadata.Name)))
	defer span.End()
	defer func() {
		recordHostCall(fn, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	payload, err := p.codec.Marshal(in)
	if err != nil {
		return oops.Code(CodeEncodeFailed).With("function", fn).Wrapf(err, "encoding %s input", fn)
	}

	raw, err := host.Call(ctx, fn, payload)
	if err != nil {
		return oops.Code(CodeHostCallFailed).With("function", fn).Wrapf(err, "calling host function %s", fn)
	}

	if err := p.codec.Unmarshal(raw, out); err != nil {
		return oops.Code(CodeDecodeFailed).With("function", fn).Wrapf(err, "decoding %s output", fn)
	}
	return nil
}

// requirePrivilege fails locally when the plugin metadata does not request
// the privilege; the host would refuse the call anyway.
func (r *runtime) requirePrivilege(fn string, priv wire.EscalatedPrivilege) error {
	p, _ := r.installed(fn)
	if p.metadata.Requests(priv) {
		return nil
	}
	return oops.Code(CodePrivilegeNotRequested).
		With("function", fn).
		With("privilege", priv.String()).
		Errorf("%s requires the %s escalated privilege in the plugin metadata", fn, priv)
}

// SendMessage asks the host to post a chat message.
func SendMessage(ctx context.Context, message wire.Message) error {
	var out wire.SendMessageOutput
	if err := call(ctx, std, FuncSendMessage, wire.SendMessageInput{Message: &message}, &out); err != nil {
		return err
	}
	return hostError(FuncSendMessage, out.Error)
}

// React asks the host to add a reaction to a message.
func React(ctx context.Context, reaction wire.Reaction) error {
	var out wire.ReactOutput
	if err := call(ctx, std, FuncReact, wire.ReactInput{Reaction: &reaction}, &out); err != nil {
		return err
	}
	return hostError(FuncReact, out.Error)
}

// DBQuery runs a statement against the plugin's database. A failure the
// host reports comes back as a *HostError carrying the host's message, with
// no results.
func DBQuery(ctx context.Context, statement wire.PreparedStatement) (*wire.Results, error) {
	var out wire.DBQueryOutput
	if err := call(ctx, std, FuncDBQuery, wire.DBQueryInput{PreparedStatement: &statement}, &out); err != nil {
		return nil, err
	}
	if err := hostError(FuncDBQuery, out.Error); err != nil {
		return nil, err
	}
	if out.Results == nil {
		return &wire.Results{}, nil
	}
	return out.Results, nil
}

// DBFetch runs a query and decodes every row into a T. Rows are decoded
// independently; if any row fails to decode the whole batch fails with
// ROW_DECODE_FAILED naming the row.
func DBFetch[T any](ctx context.Context, statement wire.PreparedStatement) ([]T, error) {
	results, err := DBQuery(ctx, statement)
	if err != nil {
		return nil, err
	}

	rows := make([]T, 0, len(results.Rows))
	for i, raw := range results.Rows {
		if strings.TrimSpace(raw) == "null" {
			return nil, oops.Code(CodeRowDecodeFailed).
				With("row", i).
				With("sql", statement.SQL).
				Errorf("decoding row %d: row is null", i)
		}
		var row T
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, oops.Code(CodeRowDecodeFailed).
				With("row", i).
				With("sql", statement.SQL).
				Wrapf(err, "decoding row %d", i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Cron registers job to run on a cron schedule and returns its id. The host
// keeps calling the job for as long as the module stays loaded; after a
// reload the job is gone and must be registered again from the initialize
// hook.
func Cron(ctx context.Context, schedule string, job Job) (string, error) {
	if strings.TrimSpace(schedule) == "" {
		return "", oops.Code(CodeInvalidSchedule).Errorf("cron schedule is empty")
	}
	if job == nil {
		return "", oops.Code(CodeInvalidSchedule).With("schedule", schedule).Errorf("cron job is nil")
	}

	id := std.register(FuncCron, job)

	var out wire.CronOutput
	in := wire.CronInput{CronJob: &wire.CronJob{Cron: schedule, JobID: id}}
	if err := call(ctx, std, FuncCron, in, &out); err != nil {
		return id, err
	}
	return id, hostError(FuncCron, out.Error)
}

// OneShot registers job to run once after delay and returns its id.
// Delays are sent to the host in whole milliseconds.
func OneShot(ctx context.Context, delay time.Duration, job Job) (string, error) {
	if delay < time.Millisecond {
		return "", oops.Code(CodeInvalidSchedule).
			With("delay", delay.String()).
			Errorf("one-shot delay must be at least 1ms")
	}
	if job == nil {
		return "", oops.Code(CodeInvalidSchedule).With("delay", delay.String()).Errorf("one-shot job is nil")
	}

	id := std.register(FuncOneShot, job)

	var out wire.OneShotOutput
	in := wire.OneShotInput{OneShotJob: &wire.OneShotJob{Duration: delay.Milliseconds(), JobID: id}}
	if err := call(ctx, std, FuncOneShot, in, &out); err != nil {
		return id, err
	}
	return id, hostError(FuncOneShot, out.Error)
}

// register stores job under a fresh id. The write lock is held only for the
// insertion, never across the host call that follows.
func (r *runtime) register(fn string, job Job) string {
	r.installed(fn)
	id := newJobID()
	r.addJob(id, job)
	ScheduledJobsRegistered.WithLabelValues(fn).Inc()
	return id
}

// ReloadPlugin asks the host to reload the named plugin.
// Requires the reload_plugin escalated privilege.
func ReloadPlugin(ctx context.Context, plugin string) error {
	if err := std.requirePrivilege(FuncReloadPlugin, wire.PrivilegeReloadPlugin); err != nil {
		return err
	}
	var out wire.ReloadPluginOutput
	if err := call(ctx, std, FuncReloadPlugin, wire.ReloadPluginInput{Plugin: plugin}, &out); err != nil {
		return err
	}
	return hostError(FuncReloadPlugin, out.Error)
}

// UnloadPlugin asks the host to unload the named plugin; cleanup also drops
// its database. Requires the unload_plugin escalated privilege.
func UnloadPlugin(ctx context.Context, plugin string, cleanup bool) error {
	if err := std.requirePrivilege(FuncUnloadPlugin, wire.PrivilegeUnloadPlugin); err != nil {
		return err
	}
	var out wire.UnloadPluginOutput
	in := wire.UnloadPluginInput{Plugin: plugin, Cleanup: cleanup}
	if err := call(ctx, std, FuncUnloadPlugin, in, &out); err != nil {
		return err
	}
	return hostError(FuncUnloadPlugin, out.Error)
}

// LoadPlugin asks the host to load a plugin binary and returns the manifest
// the host built for it along with the plugin's metadata. A failure the host
// reports comes back as a *HostError. Requires the load_plugin escalated
// privilege.
func LoadPlugin(ctx context.Context, wasm wire.Wasm) (*wire.Manifest, *wire.Metadata, error) {
	if err := std.requirePrivilege(FuncLoadPlugin, wire.PrivilegeLoadPlugin); err != nil {
		return nil, nil, err
	}
	var out wire.LoadPluginOutput
	if err := call(ctx, std, FuncLoadPlugin, wire.LoadPluginInput{Wasm: &wasm}, &out); err != nil {
		return nil, nil, err
	}
	if err := hostError(FuncLoadPlugin, out.Error); err != nil {
		return nil, nil, err
	}
	if out.Metadata == nil {
		panic(fmt.Sprintf("hank: %s succeeded without returning metadata", FuncLoadPlugin))
	}

	var manifest wire.Manifest
	if err := json.Unmarshal([]byte(out.Manifest), &manifest); err != nil {
		return nil, nil, oops.Code(CodeManifestDecodeFailed).
			With("plugin", out.Metadata.Name).
			Wrapf(err, "decoding manifest of loaded plugin")
	}
	return &manifest, out.Metadata, nil
}

// SendInstruction sends a capability instruction to the host.
// Requires the instruction escalated privilege.
func SendInstruction(ctx context.Context, instruction wire.Instruction) error {
	if err := std.requirePrivilege(FuncInstruction, wire.PrivilegeInstruction); err != nil {
		return err
	}
	var out wire.InstructionOutput
	if err := call(ctx, std, FuncInstruction, wire.InstructionInput{Instruction: &instruction}, &out); err != nil {
		return err
	}
	return hostError(FuncInstruction, out.Error)
}
