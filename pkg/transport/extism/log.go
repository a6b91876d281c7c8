// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package extism

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// logHandler formats records as logfmt lines and hands each one to emit
// with its level. Time and level are dropped from the line; the host
// records both.
type logHandler struct {
	mu    *sync.Mutex
	buf   *bytes.Buffer
	inner slog.Handler
	emit  func(slog.Level, string)
}

func newLogHandler(level slog.Leveler, emit func(slog.Level, string)) *logHandler {
	buf := &bytes.Buffer{}
	return &logHandler{
		mu:  &sync.Mutex{},
		buf: buf,
		inner: slog.NewTextHandler(buf, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
					return slog.Attr{}
				}
				return a
			},
		}),
		emit: emit,
	}
}

// Enabled returns true if the level is enabled.
func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle formats r and emits it.
func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	h.buf.Reset()
	err := h.inner.Handle(ctx, r)
	line := strings.TrimSuffix(h.buf.String(), "\n")
	h.mu.Unlock()

	if err != nil {
		return err //nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	}
	h.emit(r.Level, line)
	return nil
}

// WithAttrs returns a new handler with the given attributes.
func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logHandler{mu: h.mu, buf: h.buf, inner: h.inner.WithAttrs(attrs), emit: h.emit}
}

// WithGroup returns a new handler with the given group.
func (h *logHandler) WithGroup(name string) slog.Handler {
	return &logHandler{mu: h.mu, buf: h.buf, inner: h.inner.WithGroup(name), emit: h.emit}
}
