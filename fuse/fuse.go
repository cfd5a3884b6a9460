// Package fuse holds the process-lifetime kill fuse: a single atomic flag
// that, once set, can never be cleared for the life of the process. It is
// deliberately its own package with no dependencies so that storage,
// keystore, policy, and bridge can all consult it (keystore is the one
// that trips it) without an import cycle — none of them own the fuse,
// they all share it.
package fuse

import "sync/atomic"

var killed atomic.Bool

// Trip sets the fuse. Idempotent: tripping an already-tripped fuse is a
// no-op, not an error. There is no corresponding Reset — by construction.
func Trip() {
	killed.Store(true)
}

// Blown reports whether the fuse has been tripped at any point during this
// process's lifetime.
func Blown() bool {
	return killed.Load()
}
