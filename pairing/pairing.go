package pairing

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/hpke"
	circlkem "github.com/cloudflare/circl/kem"

	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/memguard"
)

// suite is the fixed HPKE algorithm set used for every pairing exchange:
// X25519 for the KEM, HKDF-SHA256 for the KDF, ChaCha20-Poly1305 for the
// AEAD (unused directly — pairing only consumes the exported secret, not
// HPKE's own seal/open, but the AEAD must still be named to build a
// Suite).
var suite = hpke.NewSuite(hpke.KEM_X25519_HKDF_SHA256, hpke.KDF_HKDF_SHA256, hpke.AEAD_ChaCha20Poly1305)

// exporterContext labels the HPKE exported secret so it can never be
// confused with an exported secret for some other purpose under the same
// HPKE context.
var exporterContext = []byte("securecore/pairing-export/v1")

const exportedSecretLen = 32

// x25519Scheme returns the concrete KEM scheme so raw key bytes can be
// unmarshaled into the circl kem.PublicKey/PrivateKey types HPKE expects.
func x25519Scheme() circlkem.Scheme {
	return hpke.KEM_X25519_HKDF_SHA256.Scheme()
}

// Initiate runs the sending side of a pairing exchange: it converts the
// peer's long-term Ed25519 identity to X25519, establishes an HPKE
// context against it, exports 32 bytes of shared secret, and derives a
// guarded pairing key from that secret under kdf.PurposePairing. The
// returned encapsulated key must be transmitted to the peer so it can run
// Respond.
func Initiate(peerIdentity ed25519.PublicKey, transcript []byte) (key *memguard.Key32, encapsulated []byte, err error) {
	peerX25519, err := ed25519PublicToX25519(peerIdentity)
	if err != nil {
		return nil, nil, fmt.Errorf("pairing: convert peer identity: %w", err)
	}

	scheme := x25519Scheme()
	peerPub, err := scheme.UnmarshalBinaryPublicKey(peerX25519)
	if err != nil {
		return nil, nil, fmt.Errorf("pairing: unmarshal peer public key: %w", err)
	}

	sender, err := suite.NewSender(peerPub, transcript)
	if err != nil {
		return nil, nil, fmt.Errorf("pairing: new sender: %w", err)
	}

	enc, sealer, err := sender.Setup(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("pairing: hpke setup: %w", err)
	}

	secret := sealer.Export(exporterContext, exportedSecretLen)
	defer zero(secret)

	derived, err := kdf.DeriveKey(secret, kdf.PurposePairing, transcript)
	if err != nil {
		return nil, nil, fmt.Errorf("pairing: derive pairing key: %w", err)
	}
	return derived, enc, nil
}

// Respond runs the receiving side: it converts its own long-term Ed25519
// identity to X25519, opens the HPKE context using the encapsulated key
// received from Initiate, and derives the same guarded pairing key the
// initiator derived.
func Respond(localIdentity ed25519.PrivateKey, encapsulated, transcript []byte) (*memguard.Key32, error) {
	localX25519, err := ed25519PrivateToX25519(localIdentity)
	if err != nil {
		return nil, fmt.Errorf("pairing: convert local identity: %w", err)
	}
	defer zero(localX25519)

	scheme := x25519Scheme()
	localPriv, err := scheme.UnmarshalBinaryPrivateKey(localX25519)
	if err != nil {
		return nil, fmt.Errorf("pairing: unmarshal local private key: %w", err)
	}

	receiver, err := suite.NewReceiver(localPriv, transcript)
	if err != nil {
		return nil, fmt.Errorf("pairing: new receiver: %w", err)
	}

	opener, err := receiver.Setup(encapsulated)
	if err != nil {
		return nil, fmt.Errorf("pairing: hpke setup: %w", err)
	}

	secret := opener.Export(exporterContext, exportedSecretLen)
	defer zero(secret)

	return kdf.DeriveKey(secret, kdf.PurposePairing, transcript)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
