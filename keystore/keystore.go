// Package keystore implements the single-authority Locked/Active state
// machine that guards the root session key: Locked holds no key material
// at all, Active wraps a live Session, and Killed is not a state the type
// itself represents — it is the process kill fuse, checked before every
// state transition and every operation, and once blown no further
// transition ever succeeds again.
package keystore

import (
	"fmt"
	"sync"

	"github.com/sage-x-project/securecore/fuse"
	"github.com/sage-x-project/securecore/internal/logger"
	"github.com/sage-x-project/securecore/internal/metrics"
)

// Error is the closed set of failures a KeyStore operation can return.
type Error int

const (
	// ErrNone is the zero value and never returned.
	ErrNone Error = iota
	// ErrLocked means no session is active.
	ErrLocked
	// ErrAlreadyUnlocked means Unlock was called while already Active.
	ErrAlreadyUnlocked
	// ErrKilled means the process kill fuse has tripped.
	ErrKilled
	// ErrPoisoned means the internal mutex was found poisoned by a panic in
	// a previous critical section; the fuse has been tripped as a result.
	ErrPoisoned
)

func (e Error) Error() string {
	switch e {
	case ErrLocked:
		return "keystore: locked"
	case ErrAlreadyUnlocked:
		return "keystore: already unlocked"
	case ErrKilled:
		return "keystore: killed"
	case ErrPoisoned:
		return "keystore: poisoned"
	default:
		return "keystore: unknown error"
	}
}

type state int

const (
	stateLocked state = iota
	stateActive
)

// KeyStore is the single authority over the root session key's lifecycle.
// All access goes through the mutex-guarded state; callers never see the
// key material directly.
type KeyStore struct {
	mu      sync.Mutex
	state   state
	session *Session
	log     logger.Logger
}

// New returns a KeyStore in the Locked state.
func New(log logger.Logger) *KeyStore {
	return &KeyStore{state: stateLocked, log: log}
}

// withStateLock runs fn while holding the internal mutex, escalating any
// panic recovered from within fn into a tripped fuse, a wiped session and
// ErrPoisoned. A poisoned mutex fails closed permanently rather than
// limping on with possibly-inconsistent state.
func (k *KeyStore) withStateLock(fn func() (any, error)) (result any, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			fuse.Trip()
			metrics.KillsExecuted.Inc()
			if k.session != nil {
				k.session.kill()
				k.session = nil
			}
			k.state = stateLocked
			err = ErrPoisoned
			if k.log != nil {
				k.log.Error("keystore: mutex critical section panicked, fuse tripped",
					logger.Field{Key: "recovered", Value: fmt.Sprintf("%v", r)})
			}
		}
	}()
	result, err = fn()
	return result, err
}

// Unlock transitions Locked -> Active using the key carried by auth. The
// authority is single-use: consuming it here is the only way its session
// key ever leaves guarded memory and enters the keystore.
func (k *KeyStore) Unlock(auth *RecoveryAuthority) error {
	if fuse.Blown() {
		return ErrKilled
	}
	_, err := k.withStateLock(func() (any, error) {
		if k.state == stateActive {
			return nil, ErrAlreadyUnlocked
		}
		key := auth.consume()
		k.session = newSession(key)
		k.state = stateActive
		metrics.KeystoreStateTransitions.WithLabelValues("locked", "active").Inc()
		metrics.SessionsCreated.WithLabelValues("success").Inc()
		metrics.SessionsActive.Inc()
		return nil, nil
	})
	if err != nil && err != ErrAlreadyUnlocked {
		metrics.SessionsCreated.WithLabelValues("failure").Inc()
	}
	return err
}

// WithSession executes fn against the active session. It is the only way
// callers reach encrypt/decrypt — there is no accessor that exposes the
// Session itself outside the lock.
func (k *KeyStore) WithSession(fn func(*Session) error) error {
	if fuse.Blown() {
		return ErrKilled
	}
	_, err := k.withStateLock(func() (any, error) {
		if k.state != stateActive {
			return nil, ErrLocked
		}
		return nil, fn(k.session)
	})
	return err
}

// WithRootKey runs fn with the active session's root key bytes. It exists
// only for the kill subsystem: kill.Executor needs raw root key bytes to
// derive a per-device kill key, but that derivation is kill's concern, not
// keystore's, so keystore hands out the bytes under its own lock rather
// than letting the kill protocol know anything about Session internals.
// Ordinary callers should use WithSession instead.
func (k *KeyStore) WithRootKey(fn func(rootKey []byte) error) error {
	if fuse.Blown() {
		return ErrKilled
	}
	_, err := k.withStateLock(func() (any, error) {
		if k.state != stateActive {
			return nil, ErrLocked
		}
		return nil, fn(k.session.rootKey.Bytes())
	})
	return err
}

// Lock transitions Active -> Locked, killing (zeroizing) the active
// session's key. A no-op if already Locked, and a no-op if the fuse has
// tripped — a locally requested lock after a global kill has nothing left
// to do.
func (k *KeyStore) Lock() {
	if fuse.Blown() {
		return
	}
	_, _ = k.withStateLock(func() (any, error) {
		if k.state == stateActive {
			k.session.kill()
			k.session = nil
			k.state = stateLocked
			metrics.KeystoreStateTransitions.WithLabelValues("active", "locked").Inc()
			metrics.SessionsActive.Dec()
			metrics.SessionsClosed.Inc()
		}
		return nil, nil
	})
}

// ApplyVerifiedKill is the sole terminal-state authority: it trips the
// process kill fuse and tears down any active session. It must only be
// called after a kill blob has passed verification AND the replay check —
// callers earlier in the chain (kill.Executor) own that ordering, this
// method performs execution only and never re-verifies anything itself.
func (k *KeyStore) ApplyVerifiedKill() {
	fuse.Trip()
	metrics.GetGlobalCollector().RecordKill()
	metrics.KillsExecuted.Inc()
	_, _ = k.withStateLock(func() (any, error) {
		from := "locked"
		if k.state == stateActive {
			from = "active"
			k.session.kill()
			k.session = nil
			metrics.SessionsActive.Dec()
		}
		k.state = stateLocked
		metrics.KeystoreStateTransitions.WithLabelValues(from, "killed").Inc()
		metrics.SessionsClosed.Inc()
		return nil, nil
	})
	if k.log != nil {
		k.log.Warn("keystore: verified kill applied, fuse tripped")
	}
}

// IsActive reports whether the keystore currently holds an active
// session. Intended for diagnostics and the bridge layer's state-query
// entry point, not for gating crypto operations — those always go through
// WithSession, which re-checks state and the fuse itself.
func (k *KeyStore) IsActive() bool {
	if fuse.Blown() {
		return false
	}
	result, _ := k.withStateLock(func() (any, error) {
		return k.state == stateActive, nil
	})
	active, _ := result.(bool)
	return active
}
