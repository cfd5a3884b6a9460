package pairing

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiateRespondAgreeOnPairingKey(t *testing.T) {
	peerPub, peerPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	transcript := []byte("device-a<->device-b/pairing-session-1")

	key, enc, err := Initiate(peerPub, transcript)
	require.NoError(t, err)
	defer key.Wipe()

	peerKey, err := Respond(peerPriv, enc, transcript)
	require.NoError(t, err)
	defer peerKey.Wipe()

	assert.True(t, key.Equal(peerKey))
}

func TestInitiateRespondDifferByTranscript(t *testing.T) {
	peerPub, peerPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	key, enc, err := Initiate(peerPub, []byte("transcript-one"))
	require.NoError(t, err)
	defer key.Wipe()

	peerKey, err := Respond(peerPriv, enc, []byte("transcript-two"))
	if err == nil {
		defer peerKey.Wipe()
		assert.False(t, key.Equal(peerKey))
	}
}

func TestEd25519ToX25519ConversionYields32ByteKeys(t *testing.T) {
	peerPub, peerPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	x25519Pub, err := ed25519PublicToX25519(peerPub)
	require.NoError(t, err)
	assert.Len(t, x25519Pub, 32)

	x25519Priv, err := ed25519PrivateToX25519(peerPriv)
	require.NoError(t, err)
	assert.Len(t, x25519Priv, 32)
}
