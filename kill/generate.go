//go:build securecore_admin

// Package kill's blob generator must never be linked into a production
// device binary — it is gated behind the securecore_admin build tag so an
// ordinary `go build` of this module cannot accidentally pull it in.
package kill

import (
	"crypto/rand"
	"fmt"

	"github.com/sage-x-project/securecore/crypto/aad"
	"github.com/sage-x-project/securecore/crypto/aead"
	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/device"
)

// Request describes the kill blob an admin operator wants to generate.
type Request struct {
	TargetDeviceID [32]byte
	ReplayToken    uint64
}

// GenerateBlob derives the same per-device kill key VerifyBlob would
// derive, then seals a fresh kill blob bound to targetFingerprint. The
// nonce is random — unlike file-chunk encryption, a kill blob is a
// one-off admin-issued artifact, not a high-volume stream where
// determinism is needed to avoid nonce bookkeeping.
func GenerateBlob(rootKey []byte, targetFingerprint device.Fingerprint, req Request) ([]byte, error) {
	killKey, err := kdf.DeriveKey(rootKey, kdf.PurposeRecovery, fpContext(targetFingerprint))
	if err != nil {
		return nil, fmt.Errorf("kill: derive kill key: %w", err)
	}
	defer killKey.Wipe()

	plaintext := encodePayload(req.TargetDeviceID, req.ReplayToken)

	nonce := make([]byte, aead.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("kill: generate nonce: %w", err)
	}

	killAAD := aad.Kill(uint64(targetFingerprint))
	ciphertext, err := aead.Seal(killKey.Bytes(), nonce, plaintext, killAAD)
	if err != nil {
		return nil, fmt.Errorf("kill: seal kill blob: %w", err)
	}

	blob := make([]byte, 0, BlobLen)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}
