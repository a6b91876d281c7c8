// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package extism

import (
	"context"

	"github.com/hankhq/hank-pdk-go/pkg/hank"
)

// serve runs one exported entry point and returns the export's status:
// 0 with the reply written by output, or 1 with the error handed to
// setError for the host to read.
func serve(entry string, input []byte, output func([]byte), setError func(error)) int32 {
	out, err := hank.Dispatch(context.Background(), entry, input)
	if err != nil {
		setError(err)
		return 1
	}
	output(out)
	return 0
}
