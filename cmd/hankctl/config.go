// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package main

import (
	"log/slog"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/hankhq/hank-pdk-go/internal/logging"
)

// Output formats.
const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// config holds hankctl settings. Values come from the --config file, then
// from flags set on the command line.
type config struct {
	LogFormat string `koanf:"log-format"`
	LogLevel  string `koanf:"log-level"`
	Output    string `koanf:"output"`
}

func defaultConfig() config {
	return config{
		LogFormat: logging.FormatText,
		LogLevel:  "info",
		Output:    outputJSON,
	}
}

// loadConfig layers the config file (if any) and flags over the defaults.
func loadConfig(path string, flags *pflag.FlagSet) (config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return config{}, oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "loading config file")
		}
	}
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return config{}, oops.Code("CONFIG_INVALID").Wrapf(err, "loading flags")
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return config{}, oops.Code("CONFIG_INVALID").Wrapf(err, "decoding config")
	}

	switch cfg.Output {
	case outputJSON, outputYAML:
	default:
		return config{}, oops.Code("CONFIG_INVALID").With("output", cfg.Output).
			Errorf("output must be %q or %q", outputJSON, outputYAML)
	}
	switch cfg.LogFormat {
	case logging.FormatJSON, logging.FormatText:
	default:
		return config{}, oops.Code("CONFIG_INVALID").With("log-format", cfg.LogFormat).
			Errorf("log-format must be %q or %q", logging.FormatJSON, logging.FormatText)
	}
	return cfg, nil
}

func (c config) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.Setup("hankctl", version, c.LogFormat, level, nil), nil
}
