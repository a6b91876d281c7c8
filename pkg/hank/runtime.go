// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/samber/oops"

	"github.com/hankhq/hank-pdk-go/pkg/hank/internal/testhook"
)

// Host answers the plugin's outbound calls. Transports bind one with SetHost
// before the first entry point runs. Call blocks until the host responds.
type Host interface {
	Call(ctx context.Context, function string, input []byte) ([]byte, error)
}

// HostFunc adapts a function to Host.
type HostFunc func(ctx context.Context, function string, input []byte) ([]byte, error)

// Call calls f(ctx, function, input).
func (f HostFunc) Call(ctx context.Context, function string, input []byte) ([]byte, error) {
	return f(ctx, function, input)
}

type hostBinding struct {
	Host
}

// runtime is the process-wide slot holding the started plugin.
//
// The slot moves from empty to installed exactly once. mu guards the slot and
// the installed plugin's job table. Dispatchers hold the read lock only while
// copying out what they need and call handlers with no lock held, so a
// handler can register jobs (which takes the write lock) without deadlocking
// on the call that is running it.
type runtime struct {
	mu     sync.RWMutex
	plugin *Plugin
	host   atomic.Pointer[hostBinding]
}

// std is the runtime used by the package-level functions.
var std = &runtime{}

// SetHost binds the host that answers outbound calls. Transports call it
// during setup; a later call replaces the binding.
func SetHost(h Host) {
	if h == nil {
		std.host.Store(nil)
		return
	}
	std.host.Store(&hostBinding{Host: h})
}

func init() { testhook.Reset = reset }

// reset empties the plugin slot and drops the host binding. Tests reach it
// through hanktest.Reset.
func reset() {
	std.mu.Lock()
	std.plugin = nil
	std.mu.Unlock()
	std.host.Store(nil)
}

// Ready reports whether a plugin has started and a host is bound, which is
// when entry points and outbound calls can be served.
func Ready() bool {
	std.mu.RLock()
	started := std.plugin != nil
	std.mu.RUnlock()
	return started && std.host.Load() != nil
}

func (r *runtime) install(p *Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plugin != nil {
		return oops.Code(CodeAlreadyStarted).
			With("plugin", p.metadata.Name).
			With("installed", r.plugin.metadata.Name).
			Errorf("a plugin has already been started in this module")
	}
	p.started.Store(true)
	r.plugin = p
	return nil
}

// installed returns the started plugin and a copy of its handler slots.
// Panics when nothing is installed: the host called op before the module
// finished loading, which no caller can recover from.
func (r *runtime) installed(op string) (*Plugin, registry) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.plugin == nil {
		panic(fmt.Sprintf("hank: %s called before Start; the plugin did not finish loading", op))
	}
	return r.plugin, r.plugin.handlers
}

func (r *runtime) boundHost(op string) Host {
	b := r.host.Load()
	if b == nil {
		panic(fmt.Sprintf("hank: %s called with no host bound; the transport did not call SetHost", op))
	}
	return b.Host
}

func (r *runtime) addJob(id string, job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugin.jobs.add(id, job)
}

func (r *runtime) lookupJob(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.plugin == nil {
		return nil, false
	}
	return r.plugin.jobs.lookup(id)
}
