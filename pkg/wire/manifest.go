// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package wire

// Manifest is the extism manifest the host uses to instantiate a plugin.
// load_plugin returns it as JSON text.
type Manifest struct {
	Wasm         []ManifestWasm    `json:"wasm"`
	Memory       *ManifestMemory   `json:"memory,omitempty"`
	Config       map[string]string `json:"config,omitempty"`
	AllowedHosts []string          `json:"allowed_hosts,omitempty"`
	AllowedPaths map[string]string `json:"allowed_paths,omitempty"`
	TimeoutMs    *uint64           `json:"timeout_ms,omitempty"`
}

// ManifestWasm is one module of a Manifest. Exactly one of Data, Path or
// URL is set.
type ManifestWasm struct {
	Data []byte `json:"data,omitempty"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
	Hash string `json:"hash,omitempty"`
	Name string `json:"name,omitempty"`
}

// ManifestMemory limits plugin memory.
type ManifestMemory struct {
	MaxPages    uint32 `json:"max_pages,omitempty"`
	MaxHTTPResp uint64 `json:"max_http_response_bytes,omitempty"`
	MaxVarBytes uint64 `json:"max_var_bytes,omitempty"`
}
