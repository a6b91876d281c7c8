// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package metadata

// Error codes.
const (
	CodeMetadataInvalid = "METADATA_INVALID"
	CodeManifestInvalid = "MANIFEST_INVALID"
	CodeSchemaInvalid   = "MANIFEST_SCHEMA_MISMATCH"
)
