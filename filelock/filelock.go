// Package filelock provides a simple file-based mutual exclusion lock.
// It keeps two tracker invocations from appending to the same ledger file
// at once, even when they run as separate processes.
package filelock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrLockHeld is returned when attempting to acquire a lock that is already held.
var ErrLockHeld = fmt.Errorf("lock already held")

// LockInfo describes the holder of a lock, recorded inside the lock file so a
// stale lock can be diagnosed by hand.
type LockInfo struct {
	PID       int    `json:"pid"`
	Timestamp string `json:"timestamp"`
	Hostname  string `json:"hostname,omitempty"`
}

// TryLock attempts to acquire a lock for the given file.
// Returns a function to release the lock, or an error if the lock could not
// be acquired.
func TryLock(path string) (func(), error) {
	// Convert to absolute path to handle relative paths consistently
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	lockFile := absPath + ".lock"

	// O_EXCL guarantees this call is the one that created the file; a
	// concurrent holder makes it fail with EEXIST.
	f, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrLockHeld
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	hostname, _ := os.Hostname()
	info := LockInfo{
		PID:       os.Getpid(),
		Timestamp: time.Now().Format(time.RFC3339),
		Hostname:  hostname,
	}
	// A lock file with unreadable content still locks; encoding errors are
	// not fatal here.
	_ = json.NewEncoder(f).Encode(info)
	f.Close()

	unlock := func() {
		os.Remove(lockFile)
	}

	return unlock, nil
}

// ReadLockInfo reads the holder information recorded for the lock on path.
func ReadLockInfo(path string) (*LockInfo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	data, err := os.ReadFile(absPath + ".lock")
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &info, nil
}
