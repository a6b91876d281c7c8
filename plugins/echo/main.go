// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

//go:build !wasip1

package main

import (
	"log/slog"
	"os"

	"github.com/hankhq/hank-pdk-go/internal/logging"
	"github.com/hankhq/hank-pdk-go/pkg/transport/goplugin"
)

func main() {
	// go-plugin forwards the plugin's stderr to the host's log.
	logger := logging.Setup("echo", version, logging.FormatJSON, slog.LevelInfo, nil)
	slog.SetDefault(logger)

	goplugin.Serve(&goplugin.ServeConfig{
		Plugin:      newPlugin(),
		Logger:      logger,
		MetricsAddr: os.Getenv("HANK_METRICS_ADDR"),
	})
}
