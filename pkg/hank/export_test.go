// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

// LockStateForTest takes the state write lock and returns the unlock func.
func LockStateForTest() (unlock func()) {
	std.mu.Lock()
	return std.mu.Unlock
}

// JobCountForTest returns the size of the installed plugin's job table.
func JobCountForTest() int {
	std.mu.RLock()
	defer std.mu.RUnlock()
	if std.plugin == nil {
		return 0
	}
	return len(std.plugin.jobs)
}
