package keystore

import (
	"errors"
	"time"

	"github.com/sage-x-project/securecore/crypto/aad"
	"github.com/sage-x-project/securecore/crypto/aead"
	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/fuse"
	"github.com/sage-x-project/securecore/internal/metrics"
	"github.com/sage-x-project/securecore/memguard"
)

// ErrInvalidInput is returned for malformed buffer sizes, distinct from
// ErrCryptoFailure so callers can tell "you passed the wrong slice length"
// from "authentication failed".
var (
	ErrInvalidInput  = errors.New("keystore: invalid input")
	ErrCryptoFailure = errors.New("keystore: crypto failure")
)

// Session wraps a single guarded root session key and derives a fresh
// purpose-bound, file-bound key for every chunk it touches. It never
// encrypts or decrypts directly with the root key.
type Session struct {
	rootKey *memguard.Key32
}

func newSession(rootKey *memguard.Key32) *Session {
	return &Session{rootKey: rootKey}
}

// kill zeroizes and detaches the session's root key. Called only by the
// owning KeyStore under its state lock.
func (s *Session) kill() {
	if s.rootKey != nil {
		s.rootKey.Wipe()
		s.rootKey = nil
	}
}

func (s *Session) requireAlive() error {
	if fuse.Blown() {
		return ErrKilled
	}
	if s.rootKey == nil {
		return ErrLocked
	}
	return nil
}

// EncryptChunk seals plaintext for (fileID, chunk, cloudID), returning
// ciphertext||tag. The encryption key is deterministically derived from
// the session's root key and the file id, domain-separated under
// PurposeFileEncryption; the nonce is deterministically derived from that
// derived key and (fileID, chunk). No randomness is ever consulted.
func (s *Session) EncryptChunk(fileID uint64, chunk uint32, cloudID uint16, plaintext []byte) ([]byte, error) {
	start := time.Now()
	ct, err := s.encryptChunk(fileID, chunk, cloudID, plaintext)
	elapsed := time.Since(start)

	metrics.GetGlobalCollector().RecordEncrypt(err == nil, elapsed)
	metrics.CryptoOperations.WithLabelValues("encrypt", "aes-256-gcm").Inc()
	metrics.CryptoOperationDuration.WithLabelValues("encrypt", "aes-256-gcm").Observe(elapsed.Seconds())
	metrics.SessionDuration.WithLabelValues("encrypt").Observe(elapsed.Seconds())
	metrics.SessionMessageSize.WithLabelValues("outbound").Observe(float64(len(plaintext)))
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("encrypt").Inc()
	}
	return ct, err
}

func (s *Session) encryptChunk(fileID uint64, chunk uint32, cloudID uint16, plaintext []byte) ([]byte, error) {
	if err := s.requireAlive(); err != nil {
		return nil, err
	}

	fileCtx := make([]byte, 8)
	for i := 0; i < 8; i++ {
		fileCtx[7-i] = byte(fileID >> (8 * i))
	}

	encKey, err := kdf.DeriveKey(s.rootKey.Bytes(), kdf.PurposeFileEncryption, fileCtx)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	defer encKey.Wipe()

	if fuse.Blown() {
		return nil, ErrKilled
	}

	nonce := kdf.DeriveNonce(encKey.Bytes(), fileID, chunk)
	out, err := aead.Seal(encKey.Bytes(), nonce[:], plaintext, aad.FileChunk(fileID, chunk, cloudID))
	if err != nil {
		return nil, ErrCryptoFailure
	}
	return out, nil
}

// DecryptVerifyChunk authenticates and decrypts ciphertext||tag produced by
// EncryptChunk for the same (fileID, chunk, cloudID). A failed
// authentication returns ErrCryptoFailure (the underlying aead error is not
// wrapped), never a partial plaintext.
func (s *Session) DecryptVerifyChunk(fileID uint64, chunk uint32, cloudID uint16, ciphertext []byte) ([]byte, error) {
	start := time.Now()
	pt, err := s.decryptVerifyChunk(fileID, chunk, cloudID, ciphertext)
	elapsed := time.Since(start)

	metrics.GetGlobalCollector().RecordDecrypt(err == nil, elapsed)
	metrics.CryptoOperations.WithLabelValues("decrypt", "aes-256-gcm").Inc()
	metrics.CryptoOperationDuration.WithLabelValues("decrypt", "aes-256-gcm").Observe(elapsed.Seconds())
	metrics.SessionDuration.WithLabelValues("decrypt").Observe(elapsed.Seconds())
	metrics.SessionMessageSize.WithLabelValues("inbound").Observe(float64(len(ciphertext)))
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("decrypt").Inc()
	}
	return pt, err
}

func (s *Session) decryptVerifyChunk(fileID uint64, chunk uint32, cloudID uint16, ciphertext []byte) ([]byte, error) {
	if err := s.requireAlive(); err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.TagSize {
		return nil, ErrInvalidInput
	}

	fileCtx := make([]byte, 8)
	for i := 0; i < 8; i++ {
		fileCtx[7-i] = byte(fileID >> (8 * i))
	}

	encKey, err := kdf.DeriveKey(s.rootKey.Bytes(), kdf.PurposeFileEncryption, fileCtx)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	defer encKey.Wipe()

	if fuse.Blown() {
		return nil, ErrKilled
	}

	nonce := kdf.DeriveNonce(encKey.Bytes(), fileID, chunk)
	pt, err := aead.Open(encKey.Bytes(), nonce[:], ciphertext, aad.FileChunk(fileID, chunk, cloudID))
	if err != nil {
		return nil, ErrCryptoFailure
	}
	return pt, nil
}
