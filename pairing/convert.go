// Package pairing derives a shared pairing key between two devices using
// each device's long-term Ed25519 identity key, converted to X25519 via
// the standard birational map and carried over HPKE. The result is fed
// through the ordinary purpose-bound derivation hierarchy under
// kdf.PurposePairing rather than used directly, so pairing never
// introduces a second key-derivation scheme into the rest of the library.
package pairing

import (
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

// ed25519PrivateToX25519 converts an Ed25519 private key's clamped scalar
// into the X25519 private scalar sharing the same point via the standard
// Montgomery/Edwards birational map.
func ed25519PrivateToX25519(priv ed25519.PrivateKey) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("pairing: invalid ed25519 private key size %d", len(priv))
	}
	h := sha512.Sum512(priv.Seed())
	// Clamp exactly as Ed25519 key expansion does; this clamped scalar is
	// also a valid X25519 scalar for the same point under the birational
	// map.
	scalar := h[:32]
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64
	return scalar, nil
}

// ed25519PublicToX25519 converts an Ed25519 public key (an Edwards point)
// into its Montgomery u-coordinate.
func ed25519PublicToX25519(pub ed25519.PublicKey) ([]byte, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("pairing: invalid ed25519 public key size %d", len(pub))
	}
	p, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return nil, fmt.Errorf("pairing: invalid ed25519 point: %w", err)
	}
	return montgomeryUFromEdwards(p), nil
}

// montgomeryUFromEdwards computes the Montgomery u-coordinate
// u = (1+y)/(1-y) from an Edwards point's affine y-coordinate, which is
// the standard conversion used to move an Ed25519 public key onto the
// X25519 curve.
func montgomeryUFromEdwards(p *edwards25519.Point) []byte {
	_, y, z, _ := p.ExtendedCoordinates()
	var yAffine, one, num, den edwards25519.Element
	zInv := new(edwards25519.Element).Invert(z)
	yAffine.Multiply(y, zInv)

	one.One()
	num.Add(&one, &yAffine)
	den.Subtract(&one, &yAffine)
	den.Invert(&den)
	num.Multiply(&num, &den)

	out := num.Bytes()
	return out
}
