// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package errutil

import (
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TB is what the assertions need from a test. *testing.T and GinkgoT()
// both satisfy it.
type TB interface {
	require.TestingT
	Helper()
}

// AssertErrorCode asserts that err is an oops error whose reported code is
// code. oops reports the innermost code, so wrapping a coded error in
// another coded error keeps the inner one.
func AssertErrorCode(t TB, err error, code string) {
	t.Helper()
	require.Error(t, err)
	_, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	assert.Equal(t, code, ErrorCode(err), "error: %v", err)
}

// AssertErrorContext asserts that err carries key=value in its oops context.
func AssertErrorContext(t TB, err error, key string, value any) {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	ctx := oopsErr.Context()
	require.Contains(t, ctx, key, "error: %v", err)
	assert.Equal(t, value, ctx[key])
}
