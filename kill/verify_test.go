package kill

import (
	"testing"

	"github.com/sage-x-project/securecore/config"
	"github.com/sage-x-project/securecore/crypto/aad"
	"github.com/sage-x-project/securecore/crypto/aead"
	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/device"
	"github.com/sage-x-project/securecore/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *device.Registry {
	t.Helper()
	storage.InitRoot(t.TempDir())
	cfg := config.StorageConfig{
		DeviceRegistryFile: "device.identity",
		KillMarkerFile:     "kill.marker",
		ReplayLogFile:      "kill.replay",
	}
	reg, err := device.LoadOrInit(cfg, []byte("device material"))
	require.NoError(t, err)
	return reg
}

func buildTestBlob(t *testing.T, reg *device.Registry, rootKey []byte, targetDeviceID [32]byte, replayToken uint64) []byte {
	t.Helper()
	killKey, err := kdf.DeriveKey(rootKey, kdf.PurposeRecovery, fpContext(reg.DeviceFingerprint()))
	require.NoError(t, err)
	defer killKey.Wipe()

	plaintext := encodePayload(targetDeviceID, replayToken)
	nonce := make([]byte, aead.NonceSize)

	killAAD := aad.Kill(uint64(reg.DeviceFingerprint()))
	ciphertext, err := aead.Seal(killKey.Bytes(), nonce, plaintext, killAAD)
	require.NoError(t, err)

	blob := make([]byte, 0, BlobLen)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob
}

func TestVerifyBlobAccepts(t *testing.T) {
	reg := testRegistry(t)
	rootKey := make([]byte, 32)

	blob := buildTestBlob(t, reg, rootKey, reg.DeviceID(), 7)
	decision, err := VerifyBlob(reg, rootKey, blob)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), decision.ReplayToken)
}

func TestVerifyBlobRejectsDeviceMismatch(t *testing.T) {
	reg := testRegistry(t)
	rootKey := make([]byte, 32)

	var wrongDevice [32]byte
	wrongDevice[0] = 0xFF
	blob := buildTestBlob(t, reg, rootKey, wrongDevice, 1)

	_, err := VerifyBlob(reg, rootKey, blob)
	assert.ErrorIs(t, err, ErrDeviceMismatch)
}

func TestVerifyBlobRejectsTamperedCiphertext(t *testing.T) {
	reg := testRegistry(t)
	rootKey := make([]byte, 32)

	blob := buildTestBlob(t, reg, rootKey, reg.DeviceID(), 1)
	blob[len(blob)-1] ^= 0xFF

	_, err := VerifyBlob(reg, rootKey, blob)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyBlobRejectsMalformedLength(t *testing.T) {
	reg := testRegistry(t)
	rootKey := make([]byte, 32)

	_, err := VerifyBlob(reg, rootKey, make([]byte, 3))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyBlobRejectsWrongRootKey(t *testing.T) {
	reg := testRegistry(t)
	rootKey := make([]byte, 32)
	blob := buildTestBlob(t, reg, rootKey, reg.DeviceID(), 1)

	otherRoot := make([]byte, 32)
	otherRoot[0] = 1
	_, err := VerifyBlob(reg, otherRoot, blob)
	assert.ErrorIs(t, err, ErrBadSignature)
}
