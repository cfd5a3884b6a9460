// Package hash provides the SHA-256 fingerprinting helper used by the
// device package. Output values print redacted by
// default — a full hash is as sensitive as the material it was derived
// from if that material is low-entropy (a device secret, a recovery
// phrase salt), so callers must opt in with Hex to see it.
package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Size is the SHA-256 digest length in bytes.
const Size = sha256.Size

// Output is a SHA-256 digest that redacts itself in default formatting.
type Output [Size]byte

// Sum256 hashes data into an Output.
func Sum256(data []byte) Output {
	return Output(sha256.Sum256(data))
}

// Hex returns the full lowercase-hex digest. Call explicitly; String/Format
// never do this automatically.
func (o Output) Hex() string {
	return hex.EncodeToString(o[:])
}

// String implements fmt.Stringer with a redacted form so accidental
// logging (fmt.Sprintf("%v", out), %s) never leaks the full digest.
func (o Output) String() string {
	return fmt.Sprintf("sha256:%s...<redacted>", hex.EncodeToString(o[:2]))
}

// Truncate64 returns the first 8 bytes of the digest as a big-endian
// uint64, used for the device registry's non-secret fingerprint — a
// collision-resistant but compact value, not a secret in its own right.
func (o Output) Truncate64() uint64 {
	return binary.BigEndian.Uint64(o[:8])
}
