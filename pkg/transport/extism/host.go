// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package extism

import (
	"context"

	"github.com/samber/oops"

	"github.com/hankhq/hank-pdk-go/pkg/hank"
)

// memory is the slice of the Extism kernel the host binding needs: offsets
// into host-managed memory.
type memory interface {
	alloc(data []byte) uint64
	read(offset uint64) []byte
	free(offset uint64)
}

// importFunc is the shape of every extism:host/user import: an offset to
// the input block in, an offset to the output block (0 for none) out.
type importFunc func(offset uint64) uint64

// importHost implements hank.Host over the module's host imports.
type importHost struct {
	mem     memory
	imports map[string]importFunc
}

// Compile-time interface check.
var _ hank.Host = (*importHost)(nil)

// Call implements hank.Host. Host functions run synchronously, so ctx only
// carries tracing.
func (h *importHost) Call(_ context.Context, function string, input []byte) ([]byte, error) {
	imp, ok := h.imports[function]
	if !ok {
		return nil, oops.Code("HOST_FUNCTION_UNKNOWN").With("function", function).
			Errorf("module does not import host function %q", function)
	}

	in := h.mem.alloc(input)
	defer h.mem.free(in)

	out := imp(in)
	if out == 0 {
		return nil, nil
	}
	defer h.mem.free(out)
	return h.mem.read(out), nil
}
