// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hankhq/hank-pdk-go/pkg/errutil"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// Entry point names, as exported to the host.
const (
	EntryGetMetadata        = "get_metadata"
	EntryInstall            = "install"
	EntryInitialize         = "initialize"
	EntryHandleMessage      = "handle_message"
	EntryHandleChatCommand  = "handle_chat_command"
	EntryHandleScheduledJob = "handle_scheduled_job"
)

var tracer = otel.Tracer("github.com/hankhq/hank-pdk-go/pkg/hank")

// entryFunc serves one entry point. It returns the value to encode as the
// response.
type entryFunc func(ctx context.Context, r *runtime, p *Plugin, handlers registry, input []byte) (any, error)

var entryPoints = map[string]entryFunc{
	EntryGetMetadata:        getMetadata,
	EntryInstall:            install,
	EntryInitialize:         initialize,
	EntryHandleMessage:      handleMessage,
	EntryHandleChatCommand:  handleChatCommand,
	EntryHandleScheduledJob: handleScheduledJob,
}

// EntryPoints returns the names of all entry points, sorted.
func EntryPoints() []string {
	names := make([]string, 0, len(entryPoints))
	for name := range entryPoints {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Dispatch serves one host call to the named entry point: it decodes input,
// runs the registered hook (a missing hook is a no-op) and returns the
// encoded response.
//
// Dispatch panics if no plugin has been started or if the host omits a field
// the protocol guarantees; both mean host and plugin disagree about the
// contract. A hook's error is returned with code HANDLER_FAILED.
func Dispatch(ctx context.Context, entryPoint string, input []byte) ([]byte, error) {
	return std.dispatch(ctx, entryPoint, input)
}

func (r *runtime) dispatch(ctx context.Context, entryPoint string, input []byte) (out []byte, err error) {
	serve, ok := entryPoints[entryPoint]
	if !ok {
		return nil, oops.Code(CodeUnknownEntryPoint).
			With("entry_point", entryPoint).
			Errorf("unknown entry point %q", entryPoint)
	}

	p, handlers := r.installed(entryPoint)

	ctx, span := tracer.Start(ctx, "hank."+entryPoint,
		trace.WithAttributes(
			attribute.String("plugin.name", p.metadata.Name),
			attribute.Int("input.size", len(input)),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		recordEntryPoint(entryPoint, err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			errutil.LogErrorContext(ctx, p.logger, "entry point failed", err)
		}
	}()

	resp, err := serve(ctx, r, p, handlers, input)
	if err != nil {
		return nil, err
	}

	out, err = p.codec.Marshal(resp)
	if err != nil {
		return nil, oops.Code(CodeEncodeFailed).
			With("entry_point", entryPoint).
			Wrapf(err, "encoding %s response", entryPoint)
	}
	return out, nil
}

func decode(p *Plugin, entryPoint string, input []byte, v any) error {
	if err := p.codec.Unmarshal(input, v); err != nil {
		return oops.Code(CodeDecodeFailed).
			With("entry_point", entryPoint).
			With("codec", p.codec.Name()).
			Wrapf(err, "decoding %s input", entryPoint)
	}
	return nil
}

func handlerFailed(entryPoint string, err error) error {
	return oops.Code(CodeHandlerFailed).
		With("entry_point", entryPoint).
		Wrapf(err, "%s handler", entryPoint)
}

func getMetadata(_ context.Context, _ *runtime, p *Plugin, _ registry, _ []byte) (any, error) {
	return p.metadata.Clone(), nil
}

func install(ctx context.Context, _ *runtime, _ *Plugin, handlers registry, _ []byte) (any, error) {
	if handlers.install == nil {
		return wire.Ack{}, nil
	}
	if err := handlers.install.Install(ctx); err != nil {
		return nil, handlerFailed(EntryInstall, err)
	}
	return wire.Ack{}, nil
}

// initialize is where plugins register scheduled jobs. The hook runs with no
// lock held; see runtime.
func initialize(ctx context.Context, _ *runtime, _ *Plugin, handlers registry, _ []byte) (any, error) {
	if handlers.initialize == nil {
		return wire.Ack{}, nil
	}
	if err := handlers.initialize.Initialize(ctx); err != nil {
		return nil, handlerFailed(EntryInitialize, err)
	}
	return wire.Ack{}, nil
}

func handleMessage(ctx context.Context, _ *runtime, p *Plugin, handlers registry, input []byte) (any, error) {
	var msg wire.Message
	if err := decode(p, EntryHandleMessage, input, &msg); err != nil {
		return nil, err
	}
	if handlers.message == nil {
		return wire.Ack{}, nil
	}
	if err := handlers.message.HandleMessage(ctx, msg); err != nil {
		return nil, handlerFailed(EntryHandleMessage, err)
	}
	return wire.Ack{}, nil
}

func handleChatCommand(ctx context.Context, _ *runtime, p *Plugin, handlers registry, input []byte) (any, error) {
	var in wire.HandleChatCommandInput
	if err := decode(p, EntryHandleChatCommand, input, &in); err != nil {
		return nil, err
	}
	if in.Context == nil {
		panic(fmt.Sprintf("hank: %s input has no command context", EntryHandleChatCommand))
	}
	if in.Message == nil {
		panic(fmt.Sprintf("hank: %s input has no message", EntryHandleChatCommand))
	}
	if handlers.chatCommand == nil {
		return wire.Ack{}, nil
	}
	if err := handlers.chatCommand.HandleChatCommand(ctx, *in.Context, *in.Message); err != nil {
		return nil, handlerFailed(EntryHandleChatCommand, err)
	}
	return wire.Ack{}, nil
}

// handleScheduledJob runs the job registered under the echoed id. An id the
// table does not know (the module was reloaded, the host replayed a stale id,
// or the id is empty) is ignored.
func handleScheduledJob(ctx context.Context, r *runtime, p *Plugin, _ registry, input []byte) (any, error) {
	var in wire.ScheduledJobInput
	if err := decode(p, EntryHandleScheduledJob, input, &in); err != nil {
		return nil, err
	}
	id, kind, ok := in.JobID()
	if !ok {
		panic(fmt.Sprintf("hank: %s input has neither a cron nor a one-shot job", EntryHandleScheduledJob))
	}

	// An empty id is also how an unset id decodes; it is never in the table.
	job, found := r.lookupJob(id)
	if id == "" || !found {
		ScheduledJobDeliveries.WithLabelValues(kind, OutcomeUnknown).Inc()
		p.logger.DebugContext(ctx, "ignoring unknown scheduled job", "job_id", id, "kind", kind)
		return wire.Ack{}, nil
	}

	ScheduledJobDeliveries.WithLabelValues(kind, OutcomeRun).Inc()
	if err := job.Run(ctx); err != nil {
		return nil, oops.Code(CodeHandlerFailed).
			With("entry_point", EntryHandleScheduledJob).
			With("job_id", id).
			Wrapf(err, "scheduled job")
	}
	return wire.Ack{}, nil
}
