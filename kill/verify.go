package kill

import (
	"crypto/subtle"
	"errors"

	"github.com/sage-x-project/securecore/crypto/aad"
	"github.com/sage-x-project/securecore/crypto/aead"
	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/device"
	"github.com/sage-x-project/securecore/internal/metrics"
)

// Verification outcomes, also used as the Prometheus "outcome" label on
// metrics.KillBlobsVerified.
const (
	outcomeAccepted       = "accepted"
	outcomeMalformed      = "malformed"
	outcomeBadSignature   = "bad_signature"
	outcomeDeviceMismatch = "device_mismatch"
)

var (
	// ErrMalformed covers any structural problem with the blob itself
	// (wrong length, wrong plaintext version) detected before or after
	// decryption.
	ErrMalformed = errors.New("kill: malformed blob")
	// ErrBadSignature means AEAD authentication failed.
	ErrBadSignature = errors.New("kill: authentication failed")
	// ErrDeviceMismatch means the blob decrypted and authenticated
	// correctly but is bound to a different device than this one.
	ErrDeviceMismatch = errors.New("kill: blob is not bound to this device")
)

// Decision is the non-secret result of successfully verifying a kill blob.
// It carries only what Executor needs to run the replay check and nothing
// from the key material used to get there.
type Decision struct {
	ReplayToken uint64
}

// VerifyBlob is a stateless, pure function: given this device's registry
// and its root session key, it derives the per-device kill key, decrypts
// and authenticates blob, and checks that the blob names this device.
// It performs no I/O and makes no replay decision — that is Executor's
// job, strictly after this succeeds.
func VerifyBlob(reg *device.Registry, rootKey []byte, blob []byte) (Decision, error) {
	nonce, ciphertext, err := splitBlob(blob)
	if err != nil {
		metrics.KillBlobsVerified.WithLabelValues(outcomeMalformed).Inc()
		return Decision{}, ErrMalformed
	}

	fp := reg.DeviceFingerprint()
	killKey, err := kdf.DeriveKey(rootKey, kdf.PurposeRecovery, fpContext(fp))
	if err != nil {
		metrics.KillBlobsVerified.WithLabelValues(outcomeMalformed).Inc()
		return Decision{}, ErrMalformed
	}
	defer killKey.Wipe()

	killAAD := aad.Kill(uint64(fp))
	plaintext, err := aead.Open(killKey.Bytes(), nonce, ciphertext, killAAD)
	if err != nil {
		metrics.KillBlobsVerified.WithLabelValues(outcomeBadSignature).Inc()
		return Decision{}, ErrBadSignature
	}

	p, err := decodePayload(plaintext)
	if err != nil {
		metrics.KillBlobsVerified.WithLabelValues(outcomeMalformed).Inc()
		return Decision{}, ErrMalformed
	}

	deviceID := reg.DeviceID()
	if subtle.ConstantTimeCompare(p.deviceID[:], deviceID[:]) != 1 {
		metrics.KillBlobsVerified.WithLabelValues(outcomeDeviceMismatch).Inc()
		return Decision{}, ErrDeviceMismatch
	}

	metrics.KillBlobsVerified.WithLabelValues(outcomeAccepted).Inc()
	return Decision{ReplayToken: p.replayToken}, nil
}

func fpContext(fp device.Fingerprint) []byte {
	b := fp.ToBigEndianBytes()
	return b[:]
}
