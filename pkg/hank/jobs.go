// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// newJobID returns a fresh 128-bit identifier. IDs are monotonic within the
// process, so they never collide and are never reused.
func newJobID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// jobTable maps host-visible job identifiers back to the jobs registered
// under them. Entries are never removed: the host may keep replaying a cron
// id for the life of the module, and ids it never replays are harmless.
// Callers synchronize through the runtime lock.
type jobTable map[string]Job

func (t jobTable) add(id string, job Job) {
	t[id] = job
}

func (t jobTable) lookup(id string) (Job, bool) {
	job, ok := t[id]
	return job, ok
}
