// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

// Error codes attached to oops errors returned by this package.
const (
	CodeAlreadyStarted        = "ALREADY_STARTED"
	CodeUnknownEntryPoint     = "UNKNOWN_ENTRY_POINT"
	CodeDecodeFailed          = "DECODE_FAILED"
	CodeEncodeFailed          = "ENCODE_FAILED"
	CodeHostCallFailed        = "HOST_CALL_FAILED"
	CodeHandlerFailed         = "HANDLER_FAILED"
	CodeInvalidSchedule       = "INVALID_SCHEDULE"
	CodePrivilegeNotRequested = "PRIVILEGE_NOT_REQUESTED"
	CodeRowDecodeFailed       = "ROW_DECODE_FAILED"
	CodeManifestDecodeFailed  = "MANIFEST_DECODE_FAILED"
)

// HostError is a failure the host reported for an outbound call. Message is
// the host's error string, unchanged.
type HostError struct {
	Function string
	Message  string
}

// Error returns the host's message verbatim.
func (e *HostError) Error() string {
	return e.Message
}

// hostError returns nil when the host reported no error.
func hostError(function, msg string) error {
	if msg == "" {
		return nil
	}
	return &HostError{Function: function, Message: msg}
}
