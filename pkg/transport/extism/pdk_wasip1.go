// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

//go:build wasip1

package extism

import (
	"fmt"
	"log/slog"

	pdk "github.com/extism/go-pdk"

	"github.com/hankhq/hank-pdk-go/internal/logging"
	"github.com/hankhq/hank-pdk-go/pkg/hank"
)

// Start binds the module's host imports, routes slog through the Extism log
// functions and starts p. Call it from an init func. It panics if p cannot
// start; the module is unusable in that case.
func Start(p *hank.Plugin) {
	meta := p.Metadata()
	handler := newLogHandler(logLevel(), emitLog)
	slog.SetDefault(slog.New(logging.Wrap(handler, meta.Name, meta.Version)))

	hank.SetHost(&importHost{mem: pdkMemory{}, imports: hostImports})
	if err := p.Start(); err != nil {
		panic(fmt.Sprintf("extism: starting plugin: %v", err))
	}
}

// logLevel reads the minimum level from the "log_level" config key,
// defaulting to info.
func logLevel() slog.Level {
	var level slog.Level
	if v, ok := pdk.GetConfig("log_level"); ok && level.UnmarshalText([]byte(v)) == nil {
		return level
	}
	return slog.LevelInfo
}

func emitLog(level slog.Level, line string) {
	switch {
	case level >= slog.LevelError:
		pdk.Log(pdk.LogError, line)
	case level >= slog.LevelWarn:
		pdk.Log(pdk.LogWarn, line)
	case level >= slog.LevelInfo:
		pdk.Log(pdk.LogInfo, line)
	default:
		pdk.Log(pdk.LogDebug, line)
	}
}

type pdkMemory struct{}

// pdk.Memory methods have pointer receivers, so each block is bound to a
// variable before use.

func (pdkMemory) alloc(data []byte) uint64 {
	m := pdk.AllocateBytes(data)
	return m.Offset()
}

func (pdkMemory) read(offset uint64) []byte {
	m := pdk.FindMemory(offset)
	return m.ReadBytes()
}

func (pdkMemory) free(offset uint64) {
	m := pdk.FindMemory(offset)
	m.Free()
}

func export(entry string) int32 {
	return serve(entry, pdk.Input(), pdk.Output, pdk.SetError)
}

//go:wasmexport get_metadata
func getMetadata() int32 { return export(hank.EntryGetMetadata) }

//go:wasmexport install
func install() int32 { return export(hank.EntryInstall) }

//go:wasmexport initialize
func initialize() int32 { return export(hank.EntryInitialize) }

//go:wasmexport handle_message
func handleMessage() int32 { return export(hank.EntryHandleMessage) }

//go:wasmexport handle_chat_command
func handleChatCommand() int32 { return export(hank.EntryHandleChatCommand) }

//go:wasmexport handle_scheduled_job
func handleScheduledJob() int32 { return export(hank.EntryHandleScheduledJob) }

//go:wasmimport extism:host/user send_message
func hostSendMessage(offset uint64) uint64

//go:wasmimport extism:host/user react
func hostReact(offset uint64) uint64

//go:wasmimport extism:host/user db_query
func hostDBQuery(offset uint64) uint64

//go:wasmimport extism:host/user cron
func hostCron(offset uint64) uint64

//go:wasmimport extism:host/user one_shot
func hostOneShot(offset uint64) uint64

//go:wasmimport extism:host/user reload_plugin
func hostReloadPlugin(offset uint64) uint64

//go:wasmimport extism:host/user unload_plugin
func hostUnloadPlugin(offset uint64) uint64

//go:wasmimport extism:host/user load_plugin
func hostLoadPlugin(offset uint64) uint64

//go:wasmimport extism:host/user instruction
func hostInstruction(offset uint64) uint64

var hostImports = map[string]importFunc{
	hank.FuncSendMessage:  hostSendMessage,
	hank.FuncReact:        hostReact,
	hank.FuncDBQuery:      hostDBQuery,
	hank.FuncCron:         hostCron,
	hank.FuncOneShot:      hostOneShot,
	hank.FuncReloadPlugin: hostReloadPlugin,
	hank.FuncUnloadPlugin: hostUnloadPlugin,
	hank.FuncLoadPlugin:   hostLoadPlugin,
	hank.FuncInstruction:  hostInstruction,
}
