// Package memguard provides guarded, page-locked, zeroizing containers for
// secret key material. A Key32 holds a fixed 32-byte secret; a Bytes holds a
// variable-length one. Neither type has a clone method, and construction
// always returns a pointer. Neither type implements fmt.Stringer or
// fmt.Formatter, so formatting one with fmt verbs such as %v prints its
// contents. Platform page-locking is best-effort but
// construction fails closed when the platform hook itself errors, so a
// caller never ends up holding a guarded cell it believes is locked when it
// is not.
package memguard

import (
	"crypto/subtle"
	"fmt"
	"runtime"
)

// Key32 is a guarded, fixed-size 32-byte secret cell, the shape every
// derived key and session key in this library takes.
type Key32 struct {
	b      [32]byte
	locked bool
	wiped  bool
}

// NewKey32 copies src into a new guarded cell and attempts to page-lock the
// backing memory. The caller's src is not modified or retained.
func NewKey32(src [32]byte) (*Key32, error) {
	k := &Key32{}
	copy(k.b[:], src[:])
	if err := lock(k.b[:]); err != nil {
		k.Wipe()
		return nil, fmt.Errorf("memguard: lock key: %w", err)
	}
	k.locked = true
	runtime.SetFinalizer(k, (*Key32).finalize)
	return k, nil
}

// Bytes returns the guarded contents. The returned slice aliases the
// guarded cell directly — callers must not retain it past the Key32's
// lifetime, and must never log or serialize it.
func (k *Key32) Bytes() []byte {
	if k.wiped {
		return nil
	}
	return k.b[:]
}

// Wipe overwrites the cell with zeros and unlocks the backing page. Wipe is
// idempotent and safe to call multiple times.
func (k *Key32) Wipe() {
	if k.wiped {
		return
	}
	zero(k.b[:])
	if k.locked {
		_ = unlock(k.b[:])
		k.locked = false
	}
	k.wiped = true
}

func (k *Key32) finalize() {
	k.Wipe()
}

// Equal performs a constant-time comparison against another guarded cell.
func (k *Key32) Equal(other *Key32) bool {
	if k.wiped || other.wiped {
		return false
	}
	return subtle.ConstantTimeCompare(k.b[:], other.b[:]) == 1
}

// zero overwrites a byte slice with zeros. Declared as its own function
// (rather than a loop inlined at each call site) so the compiler cannot
// trivially elide it as dead stores to a value about to go out of scope.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
