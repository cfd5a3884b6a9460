// Package device implements stable device identity: a fixed-size,
// non-secret identifier and fingerprint, plus the append-only kill marker
// that the rest of the library treats as authoritative proof a device has
// been killed. It does no cryptography and makes no policy decisions — it
// is a root dependency for kill, policy, and bridge, not a consumer of
// them.
package device

import (
	"github.com/mr-tron/base58"

	"github.com/sage-x-project/securecore/crypto/hash"
)

// Fingerprint is a stable, non-secret device identifier derived once from
// device material at registry initialization and stored thereafter. It is
// deliberately a plain uint64, not a hash.Output, because callers need the
// raw context bytes for HKDF and AAD binding far more often than they need
// to treat it as a hash.
type Fingerprint uint64

// FingerprintFromMaterial derives a fingerprint from canonical device
// material by truncating its SHA-256 hash to 64 bits.
func FingerprintFromMaterial(material []byte) Fingerprint {
	return Fingerprint(hash.Sum256(material).Truncate64())
}

// ToBigEndianBytes renders the fingerprint for use as HKDF context or AAD
// binding material.
func (f Fingerprint) ToBigEndianBytes() [8]byte {
	var out [8]byte
	v := uint64(f)
	for i := 0; i < 8; i++ {
		out[7-i] = byte(v >> (8 * i))
	}
	return out
}

// Display renders the fingerprint as base58 for human-facing CLI and log
// output. It is never used for wire encoding or derivation context, both
// of which use ToBigEndianBytes.
func (f Fingerprint) Display() string {
	b := f.ToBigEndianBytes()
	return base58.Encode(b[:])
}
