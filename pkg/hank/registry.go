// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

// registry holds at most one handler per lifecycle hook. A nil slot means
// the hook is a no-op. The registry never calls handlers; the dispatcher
// copies a slot out and invokes it.
type registry struct {
	install     InstallHandler
	initialize  InitializeHandler
	message     MessageHandler
	chatCommand ChatCommandHandler
}

// OnInstall registers the install hook. Last registration wins.
// Panics if called after Start.
func (p *Plugin) OnInstall(h InstallHandler) {
	p.mustBeUnstarted("OnInstall")
	p.handlers.install = h
}

// InstallHandler returns the registered install hook, or nil.
func (p *Plugin) InstallHandler() InstallHandler {
	return p.handlers.install
}

// OnInitialize registers the initialize hook. Last registration wins.
// Panics if called after Start.
func (p *Plugin) OnInitialize(h InitializeHandler) {
	p.mustBeUnstarted("OnInitialize")
	p.handlers.initialize = h
}

// InitializeHandler returns the registered initialize hook, or nil.
func (p *Plugin) InitializeHandler() InitializeHandler {
	return p.handlers.initialize
}

// OnMessage registers the chat message hook. Last registration wins.
// Panics if called after Start.
func (p *Plugin) OnMessage(h MessageHandler) {
	p.mustBeUnstarted("OnMessage")
	p.handlers.message = h
}

// MessageHandler returns the registered chat message hook, or nil.
func (p *Plugin) MessageHandler() MessageHandler {
	return p.handlers.message
}

// OnChatCommand registers the chat command hook. Last registration wins.
// Panics if called after Start.
func (p *Plugin) OnChatCommand(h ChatCommandHandler) {
	p.mustBeUnstarted("OnChatCommand")
	p.handlers.chatCommand = h
}

// ChatCommandHandler returns the registered chat command hook, or nil.
func (p *Plugin) ChatCommandHandler() ChatCommandHandler {
	return p.handlers.chatCommand
}
