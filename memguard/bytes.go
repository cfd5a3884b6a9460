package memguard

import (
	"crypto/subtle"
	"runtime"
)

// Bytes is a guarded, variable-length secret byte sequence: a page-locked
// []byte that is zeroed on Wipe or finalization. After Wipe, Bytes returns
// nil and Len returns 0.
type Bytes struct {
	b      []byte
	locked bool
	wiped  bool
}

// NewBytes takes ownership of b (it is not copied) and attempts to
// page-lock it. Callers must not retain any other reference to b after
// this call succeeds.
func NewBytes(b []byte) (*Bytes, error) {
	s := &Bytes{b: b}
	if len(b) > 0 {
		if err := lock(b); err != nil {
			s.Wipe()
			return nil, err
		}
		s.locked = true
	}
	runtime.SetFinalizer(s, (*Bytes).finalize)
	return s, nil
}

// Bytes returns the guarded contents. The returned slice aliases the
// guarded backing array directly.
func (s *Bytes) Bytes() []byte {
	if s.wiped {
		return nil
	}
	return s.b
}

// Len reports the secret's length without exposing its contents.
func (s *Bytes) Len() int {
	if s.wiped {
		return 0
	}
	return len(s.b)
}

// Wipe overwrites the backing array with zeros and unlocks it. Idempotent.
func (s *Bytes) Wipe() {
	if s.wiped {
		return
	}
	zero(s.b)
	if s.locked {
		_ = unlock(s.b)
		s.locked = false
	}
	s.wiped = true
}

func (s *Bytes) finalize() {
	s.Wipe()
}

// Equal performs a constant-time comparison. Unequal lengths compare
// unequal without leaking length via timing beyond that single branch.
func (s *Bytes) Equal(other *Bytes) bool {
	if s.wiped || other.wiped {
		return false
	}
	if len(s.b) != len(other.b) {
		return false
	}
	return subtle.ConstantTimeCompare(s.b, other.b) == 1
}
