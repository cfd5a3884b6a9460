// Package kill implements the kill-blob protocol: a stateless,
// device-bound, AEAD-authenticated message that, once verified and
// checked against the replay log, is the only thing in this library
// authorized to trip the process kill fuse. Verification and execution are
// deliberately separate entry points — VerifyBlob never mutates state,
// Executor.Execute is the sole place persistence and the fuse are touched,
// and it must run them in a strict order (see Execute's doc comment).
package kill

import (
	"encoding/binary"
	"fmt"

	"github.com/sage-x-project/securecore/crypto/aead"
)

// Version is the only kill-blob plaintext version this build understands.
const Version = 1

// plaintextLen is the fixed width of a kill blob's decrypted payload:
// version(1) + deviceID(32) + replayToken(8).
const plaintextLen = 1 + 32 + 8

// BlobLen is the total wire length of a kill blob: nonce || ciphertext ||
// tag, where ciphertext is exactly plaintextLen bytes.
const BlobLen = aead.NonceSize + plaintextLen + aead.TagSize

// payload is the decrypted, authenticated contents of a kill blob.
type payload struct {
	deviceID    [32]byte
	replayToken uint64
}

func encodePayload(deviceID [32]byte, replayToken uint64) []byte {
	buf := make([]byte, plaintextLen)
	buf[0] = Version
	copy(buf[1:33], deviceID[:])
	binary.BigEndian.PutUint64(buf[33:41], replayToken)
	return buf
}

func decodePayload(buf []byte) (payload, error) {
	if len(buf) != plaintextLen {
		return payload{}, fmt.Errorf("kill: plaintext must be %d bytes, got %d", plaintextLen, len(buf))
	}
	if buf[0] != Version {
		return payload{}, fmt.Errorf("kill: unsupported plaintext version %d", buf[0])
	}
	var p payload
	copy(p.deviceID[:], buf[1:33])
	p.replayToken = binary.BigEndian.Uint64(buf[33:41])
	return p, nil
}

// splitBlob decomposes a wire-format kill blob into nonce and ciphertext.
func splitBlob(blob []byte) (nonce, ciphertext []byte, err error) {
	if len(blob) != BlobLen {
		return nil, nil, fmt.Errorf("kill: blob must be %d bytes, got %d", BlobLen, len(blob))
	}
	return blob[:aead.NonceSize], blob[aead.NonceSize:], nil
}
