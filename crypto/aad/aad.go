// Package aad builds the fixed-width, versioned additional authenticated
// data used by every AEAD call in the library. AAD is never secret — it
// binds ciphertext to context (which file, which chunk, which device) so a
// ciphertext cannot be replayed into a different slot.
package aad

import (
	"encoding/binary"
	"fmt"
)

// FileChunkVersion is the only version this build understands. A future
// incompatible AAD layout would bump this and reject anything else.
const FileChunkVersion = 1

// FileChunkSize is the fixed width of a file-chunk AAD: fileID(8) +
// chunk(4) + cloudID(2) + version(1).
const FileChunkSize = 15

// FileChunk builds the 15-byte AAD binding a ciphertext to one chunk of
// one file as tracked by one cloud backend.
func FileChunk(fileID uint64, chunk uint32, cloudID uint16) []byte {
	out := make([]byte, FileChunkSize)
	binary.BigEndian.PutUint64(out[0:8], fileID)
	binary.BigEndian.PutUint32(out[8:12], chunk)
	binary.BigEndian.PutUint16(out[12:14], cloudID)
	out[14] = FileChunkVersion
	return out
}

// ParseFileChunk validates and decomposes an AAD built by FileChunk.
func ParseFileChunk(b []byte) (fileID uint64, chunk uint32, cloudID uint16, err error) {
	if len(b) != FileChunkSize {
		return 0, 0, 0, fmt.Errorf("aad: file-chunk AAD must be %d bytes, got %d", FileChunkSize, len(b))
	}
	if b[14] != FileChunkVersion {
		return 0, 0, 0, fmt.Errorf("aad: unsupported file-chunk AAD version %d", b[14])
	}
	fileID = binary.BigEndian.Uint64(b[0:8])
	chunk = binary.BigEndian.Uint32(b[8:12])
	cloudID = binary.BigEndian.Uint16(b[12:14])
	return fileID, chunk, cloudID, nil
}

// KillLabel is the fixed ASCII label prefixed onto every kill AAD,
// distinguishing it from any other use of AES-256-GCM in this library even
// if a fingerprint value were ever to collide with a file id.
const KillLabel = "securecore/kill/v1"

// KillSize is the fixed width of a kill AAD: the ASCII label plus an
// 8-byte big-endian device fingerprint.
const KillSize = len(KillLabel) + 8

// Kill builds the kill-blob AAD binding a kill ciphertext to one device's
// non-secret fingerprint.
func Kill(fingerprint uint64) []byte {
	out := make([]byte, KillSize)
	copy(out, KillLabel)
	binary.BigEndian.PutUint64(out[len(KillLabel):], fingerprint)
	return out
}

// ParseKill validates and decomposes an AAD built by Kill.
func ParseKill(b []byte) (fingerprint uint64, err error) {
	if len(b) != KillSize {
		return 0, fmt.Errorf("aad: kill AAD must be %d bytes, got %d", KillSize, len(b))
	}
	if string(b[:len(KillLabel)]) != KillLabel {
		return 0, fmt.Errorf("aad: kill AAD has wrong label")
	}
	return binary.BigEndian.Uint64(b[len(KillLabel):]), nil
}
