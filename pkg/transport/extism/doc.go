// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package extism runs a Hank plugin as an Extism WebAssembly module, the
// way the Hank host loads plugins.
//
// Build for wasip1 as a reactor and start the plugin from init:
//
//	//go:build wasip1
//
//	func init() {
//		p := hank.New(meta)
//		p.OnMessage(hank.MessageFunc(echo))
//		extism.Start(p)
//	}
//
//	func main() {}
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o plugin.wasm
//
// The module exports every hank entry point and imports every host function
// from the extism:host/user namespace. Logs go through the Extism log
// functions at the record's level.
package extism
