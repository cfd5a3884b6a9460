// Package kdf implements the key-derivation hierarchy: HKDF-SHA256
// purpose-bound derivation from a parent key, HMAC-SHA256 deterministic
// nonce derivation, and bounded Argon2id for recovery-phrase stretching.
package kdf

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/sage-x-project/securecore/memguard"
)

// Purpose is a closed, fixed label set used to domain-separate every
// derived key from every other use of the same parent key. Each value's
// label is immutable — renaming one changes every key it protects.
type Purpose string

const (
	PurposeFileEncryption Purpose = "securecore/file-encryption/v1"
	PurposeMetadata       Purpose = "securecore/metadata/v1"
	PurposePairing        Purpose = "securecore/pairing/v1"
	PurposeRecovery       Purpose = "securecore/recovery/v1"
)

func (p Purpose) valid() bool {
	switch p {
	case PurposeFileEncryption, PurposeMetadata, PurposePairing, PurposeRecovery:
		return true
	default:
		return false
	}
}

// DeriveKey derives a 32-byte guarded key from parent, domain-separated by
// purpose and further bound to context (e.g. a file id, device id, or
// pairing transcript). The same (parent, purpose, context) always yields
// the same output — this is deterministic derivation, not randomized.
func DeriveKey(parent []byte, purpose Purpose, context []byte) (*memguard.Key32, error) {
	if !purpose.valid() {
		return nil, fmt.Errorf("kdf: unknown purpose %q", purpose)
	}
	if len(parent) == 0 {
		return nil, fmt.Errorf("kdf: empty parent key")
	}

	info := append([]byte(purpose), context...)
	reader := hkdf.New(sha256.New, parent, nil, info)
	var out [32]byte
	if _, err := io.ReadFull(reader, out[:]); err != nil {
		return nil, fmt.Errorf("kdf: hkdf expand: %w", err)
	}
	defer zero(out[:])

	return memguard.NewKey32(out)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
