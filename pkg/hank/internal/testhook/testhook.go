// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package testhook lets hanktest reach runtime internals that plugins
// must not touch.
package testhook

// Reset empties the plugin slot and drops the host binding. Package hank
// sets it during init.
var Reset func()
