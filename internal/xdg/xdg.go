// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package xdg provides XDG Base Directory paths for Hank tooling.
package xdg

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const appName = "hank"

// ConfigDir returns the XDG config directory for hank.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// FindConfig returns the path of name inside ConfigDir, or "" if no such
// regular file exists.
func FindConfig(name string) string {
	path := filepath.Join(ConfigDir(), name)
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			// Unreadable config is reported by whoever loads it.
			return path
		}
		return ""
	}
	if !info.Mode().IsRegular() {
		return ""
	}
	return path
}
