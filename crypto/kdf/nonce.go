package kdf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"github.com/sage-x-project/securecore/crypto/aead"
)

// NonceLabel is the fixed ASCII label prefixed onto every nonce-derivation
// MAC input, domain-separating nonce derivation from any other HMAC use of
// the same key even if one were ever computed.
const NonceLabel = "securecore/file:nonce:v1"

// DeriveNonce computes a 96-bit nonce deterministically from a per-file key
// and a (fileID, chunk) pair: HMAC-SHA256(key, label || fileID_BE8 ||
// chunk_BE4) truncated to NonceSize bytes. Because it is a function of
// (key, fileID, chunk) alone, the same chunk of the same file always gets
// the same nonce under the same key, and distinct chunks never collide as
// long as (fileID, chunk) is not repeated under the same key — which the
// caller guarantees by deriving a fresh per-file key for every file_id.
func DeriveNonce(key []byte, fileID uint64, chunk uint32) [aead.NonceSize]byte {
	msg := make([]byte, 0, len(NonceLabel)+12)
	msg = append(msg, NonceLabel...)
	var fileAndChunk [12]byte
	binary.BigEndian.PutUint64(fileAndChunk[0:8], fileID)
	binary.BigEndian.PutUint32(fileAndChunk[8:12], chunk)
	msg = append(msg, fileAndChunk[:]...)

	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	full := mac.Sum(nil)

	var nonce [aead.NonceSize]byte
	copy(nonce[:], full[:aead.NonceSize])
	return nonce
}
