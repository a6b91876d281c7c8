// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

//go:build wasip1

package main

import "github.com/hankhq/hank-pdk-go/pkg/transport/extism"

func init() {
	extism.Start(newPlugin())
}

func main() {}
