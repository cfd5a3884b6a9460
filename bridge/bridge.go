// Package bridge is the thin, panic-catching Go-native layer the cgo FFI
// boundary (cmd/securecore-bridge) sits on top of. It owns a table of
// opaque handles so the C side never holds a Go pointer, translates every
// internal error into the small frozen BridgeError taxonomy C callers can
// switch on, and checks the kill fuse before touching anything else on
// every entry point that returns a BridgeError.
package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sage-x-project/securecore/config"
	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/device"
	"github.com/sage-x-project/securecore/fuse"
	"github.com/sage-x-project/securecore/internal/logger"
	"github.com/sage-x-project/securecore/keystore"
)

// BridgeError is the complete, frozen error taxonomy crossing the FFI
// boundary. Its values and meanings must never change once shipped — a C
// caller's switch statement on these values is part of the ABI.
type BridgeError int32

const (
	Ok BridgeError = iota
	Locked
	Killed
	InvalidInput
	CryptoFailure
	IntegrityFailure
	Denied
)

// MaxChunkSize bounds the plaintext or ciphertext length EncryptChunk and
// DecryptVerifyChunk will accept. An oversize buffer is rejected with
// InvalidInput before any key material is touched — this is a DoS bound,
// not a cryptographic one.
const MaxChunkSize = 4 * 1024 * 1024

// zeroBytes overwrites b in place. Used to leave a caller's output buffer
// in a known-zero state on every failure path, so a failed decrypt can
// never hand back whatever the buffer already contained.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Handle is an opaque, non-zero identifier for one Core instance. Zero is
// never a valid handle — callers that fail to check for it and pass it
// back get InvalidInput rather than silently addressing handle zero.
type Handle uint64

var (
	handlesMu sync.Mutex
	handles   = make(map[Handle]*Core)
	nextID    uint64
)

// Core bundles one device's keystore and registry behind a single handle.
type Core struct {
	KeyStore *keystore.KeyStore
	Registry *device.Registry
}

// Open constructs a Core for the given storage configuration and device
// material, registers it under a fresh non-zero handle, and returns that
// handle. The caller must eventually call Close.
func Open(cfg config.StorageConfig, deviceMaterial []byte, log logger.Logger) (h Handle, be BridgeError) {
	defer recoverToBridgeError(&be)

	if fuse.Blown() {
		return 0, Killed
	}

	reg, err := device.LoadOrInit(cfg, deviceMaterial)
	if err != nil {
		return 0, CryptoFailure
	}

	id := atomic.AddUint64(&nextID, 1)
	handle := Handle(id)

	handlesMu.Lock()
	handles[handle] = &Core{KeyStore: keystore.New(log), Registry: reg}
	handlesMu.Unlock()

	return handle, Ok
}

// Close releases a handle. Closing an unknown or already-closed handle is
// a no-op, not an error — double-close must never panic across the FFI
// boundary.
func Close(h Handle) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, h)
}

func lookup(h Handle) (*Core, BridgeError) {
	if h == 0 {
		return nil, InvalidInput
	}
	handlesMu.Lock()
	defer handlesMu.Unlock()
	c, ok := handles[h]
	if !ok {
		return nil, InvalidInput
	}
	return c, Ok
}

// Unlock unlocks the Core's keystore from a recovery phrase.
func Unlock(h Handle, phrase, salt []byte, params kdf.Argon2Params) (be BridgeError) {
	defer recoverToBridgeError(&be)

	if fuse.Blown() {
		return Killed
	}
	c, be := lookup(h)
	if be != Ok {
		return be
	}

	auth, err := keystore.RecoverFromPhrase(phrase, salt, params)
	if err != nil {
		return IntegrityFailure
	}
	if err := c.KeyStore.Unlock(auth); err != nil {
		return classifyKeystoreError(err)
	}
	return Ok
}

// EncryptChunk seals plaintext for (fileID, chunk, cloudID) into out.
// out must be exactly len(plaintext)+16 bytes — the AES-256-GCM tag
// overhead — and plaintext must be at most MaxChunkSize bytes, or
// InvalidInput is returned. On any non-Ok return, out is zeroed rather
// than left holding whatever the caller's buffer previously contained.
func EncryptChunk(h Handle, fileID uint64, chunk uint32, cloudID uint16, plaintext, out []byte) (be BridgeError) {
	defer func() {
		if r := recover(); r != nil {
			be = CryptoFailure
		}
		if be != Ok {
			zeroBytes(out)
		}
	}()

	if fuse.Blown() {
		return Killed
	}
	c, be := lookup(h)
	if be != Ok {
		return be
	}
	if len(plaintext) > MaxChunkSize || len(out) != len(plaintext)+16 {
		return InvalidInput
	}

	err := c.KeyStore.WithSession(func(s *keystore.Session) error {
		ct, err := s.EncryptChunk(fileID, chunk, cloudID, plaintext)
		if err != nil {
			return err
		}
		if len(ct) != len(out) {
			return fmt.Errorf("bridge: unexpected ciphertext length")
		}
		copy(out, ct)
		return nil
	})
	if err != nil {
		return classifySessionError(err)
	}
	return Ok
}

// DecryptVerifyChunk authenticates and decrypts ciphertext into out. out
// must be exactly len(ciphertext)-16 bytes and ciphertext must be at most
// MaxChunkSize+16 bytes, or InvalidInput is returned. On any non-Ok
// return, out is zeroed rather than left holding whatever the caller's
// buffer previously contained — a failed authentication must never leak
// a stale or partial plaintext.
func DecryptVerifyChunk(h Handle, fileID uint64, chunk uint32, cloudID uint16, ciphertext, out []byte) (be BridgeError) {
	defer func() {
		if r := recover(); r != nil {
			be = CryptoFailure
		}
		if be != Ok {
			zeroBytes(out)
		}
	}()

	if fuse.Blown() {
		return Killed
	}
	c, be := lookup(h)
	if be != Ok {
		return be
	}
	if len(ciphertext) < 16 || len(ciphertext) > MaxChunkSize+16 || len(out) != len(ciphertext)-16 {
		return InvalidInput
	}

	err := c.KeyStore.WithSession(func(s *keystore.Session) error {
		pt, err := s.DecryptVerifyChunk(fileID, chunk, cloudID, ciphertext)
		if err != nil {
			return err
		}
		if len(pt) != len(out) {
			return fmt.Errorf("bridge: unexpected plaintext length")
		}
		copy(out, pt)
		return nil
	})
	if err != nil {
		return classifySessionError(err)
	}
	return Ok
}

// Lock locks the Core's keystore.
func Lock(h Handle) (be BridgeError) {
	defer recoverToBridgeError(&be)
	if fuse.Blown() {
		return Killed
	}
	c, be := lookup(h)
	if be != Ok {
		return be
	}
	c.KeyStore.Lock()
	return Ok
}

// IsActive reports whether the Core's keystore currently holds an active
// session.
func IsActive(h Handle) (active bool, be BridgeError) {
	defer recoverToBridgeError(&be)
	if fuse.Blown() {
		return false, Killed
	}
	c, be := lookup(h)
	if be != Ok {
		return false, be
	}
	return c.KeyStore.IsActive(), Ok
}

// recoverToBridgeError turns any panic inside a bridge entry point into
// CryptoFailure rather than letting it cross into C, where a Go panic
// would otherwise abort the whole process uncontrolled.
func recoverToBridgeError(be *BridgeError) {
	if r := recover(); r != nil {
		*be = CryptoFailure
	}
}

func classifyKeystoreError(err error) BridgeError {
	switch err {
	case keystore.ErrKilled:
		return Killed
	case keystore.ErrLocked:
		return Locked
	case keystore.ErrAlreadyUnlocked, keystore.ErrPoisoned:
		return CryptoFailure
	default:
		return CryptoFailure
	}
}

func classifySessionError(err error) BridgeError {
	switch err {
	case keystore.ErrKilled:
		return Killed
	case keystore.ErrLocked:
		return Locked
	case keystore.ErrInvalidInput:
		return InvalidInput
	case keystore.ErrCryptoFailure:
		return CryptoFailure
	default:
		return CryptoFailure
	}
}
